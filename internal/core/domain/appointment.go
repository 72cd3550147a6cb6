package domain

import "time"

// AppointmentStatus is the lifecycle state of a booking.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentApproved  AppointmentStatus = "approved"
	AppointmentRejected  AppointmentStatus = "rejected"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is one of the four known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentPending, AppointmentApproved, AppointmentRejected, AppointmentCancelled:
		return true
	}
	return false
}

// Appointment is a booking between a customer (UserID) and a vet (VetID).
// Cancellation keeps the record with Status cancelled.
type Appointment struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	VetID     string            `json:"vet_id"`
	Status    AppointmentStatus `json:"status"`
	Date      time.Time         `json:"date"`
	Version   int64             `json:"-"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// IsParticipant reports whether the user id is the booking customer or the
// assigned vet.
func (a *Appointment) IsParticipant(userID string) bool {
	return userID != "" && (a.UserID == userID || a.VetID == userID)
}
