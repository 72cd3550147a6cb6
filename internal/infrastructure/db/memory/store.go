// Package memory is an in-process implementation of every storage port. It
// enforces the same contracts as the MongoDB adapters (case-insensitive unique
// email and username, version-checked updates) and backs STORAGE_DRIVER=memory and the
// test suites.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
)

// Store holds all collections behind a single lock.
type Store struct {
	mu           sync.RWMutex
	users        map[string]domain.User
	products     map[string]domain.Product
	pets         map[string]domain.Pet
	appointments map[string]domain.Appointment
	audit        []domain.AuditEvent
	revoked      map[string]time.Time
	now          func() time.Time
}

func New() *Store {
	return &Store{
		users:        make(map[string]domain.User),
		products:     make(map[string]domain.Product),
		pets:         make(map[string]domain.Pet),
		appointments: make(map[string]domain.Appointment),
		revoked:      make(map[string]time.Time),
		now:          time.Now,
	}
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// ObjectIDs start with a timestamp and a counter, so this is insertion order.
	sort.Strings(keys)
	return keys
}

// ── Users ─────────────────────────────────────────────────────────────────────

// UserRepository implements ports.UserRepository.
type UserRepository struct{ s *Store }

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) || strings.EqualFold(u.Username, user.Username) {
			return nil, domain.ErrUserExists
		}
	}

	u := *user
	u.ID = newID()
	r.s.users[u.ID] = u
	out := u
	return &out, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.findBy(func(u domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.findBy(func(u domain.User) bool { return strings.EqualFold(u.Username, username) })
}

func (r *UserRepository) findBy(match func(domain.User) bool) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			out := u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.s.users))
	for _, id := range sortedKeys(r.s.users) {
		u := r.s.users[id]
		out = append(out, &u)
	}
	return out, nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	return nil
}

// ── Products ──────────────────────────────────────────────────────────────────

// ProductRepository implements ports.ProductRepository.
type ProductRepository struct{ s *Store }

func (s *Store) Products() *ProductRepository { return &ProductRepository{s: s} }

func (r *ProductRepository) Create(_ context.Context, p *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.ID = newID()
	p.Version = 1
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (r *ProductRepository) List(_ context.Context) ([]*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.s.products))
	for _, id := range sortedKeys(r.s.products) {
		p := r.s.products[id]
		out = append(out, &p)
	}
	return out, nil
}

func (r *ProductRepository) Update(_ context.Context, p *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if cur.Version != p.Version {
		return domain.ErrStaleWrite
	}
	p.Version++
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepository) CountBySeller(_ context.Context, sellerID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, p := range r.s.products {
		if p.SellerID == sellerID {
			n++
		}
	}
	return n, nil
}

// ── Pets ──────────────────────────────────────────────────────────────────────

// PetRepository implements ports.PetRepository.
type PetRepository struct{ s *Store }

func (s *Store) Pets() *PetRepository { return &PetRepository{s: s} }

func (r *PetRepository) Create(_ context.Context, p *domain.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.ID = newID()
	p.Version = 1
	r.s.pets[p.ID] = *p
	return nil
}

func (r *PetRepository) FindByID(_ context.Context, id string) (*domain.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pets[id]
	if !ok {
		return nil, domain.ErrPetNotFound
	}
	return &p, nil
}

func (r *PetRepository) List(_ context.Context) ([]*domain.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Pet, 0, len(r.s.pets))
	for _, id := range sortedKeys(r.s.pets) {
		p := r.s.pets[id]
		out = append(out, &p)
	}
	return out, nil
}

func (r *PetRepository) Update(_ context.Context, p *domain.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.pets[p.ID]
	if !ok {
		return domain.ErrPetNotFound
	}
	if cur.Version != p.Version {
		return domain.ErrStaleWrite
	}
	p.Version++
	r.s.pets[p.ID] = *p
	return nil
}

func (r *PetRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[id]; !ok {
		return domain.ErrPetNotFound
	}
	delete(r.s.pets, id)
	return nil
}

func (r *PetRepository) CountBySeller(_ context.Context, sellerID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, p := range r.s.pets {
		if p.SellerID == sellerID {
			n++
		}
	}
	return n, nil
}

// ── Appointments ──────────────────────────────────────────────────────────────

// AppointmentRepository implements ports.AppointmentRepository.
type AppointmentRepository struct{ s *Store }

func (s *Store) Appointments() *AppointmentRepository { return &AppointmentRepository{s: s} }

func (r *AppointmentRepository) Create(_ context.Context, a *domain.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a.ID = newID()
	a.Version = 1
	r.s.appointments[a.ID] = *a
	return nil
}

func (r *AppointmentRepository) FindByID(_ context.Context, id string) (*domain.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.appointments[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	return &a, nil
}

func (r *AppointmentRepository) ListByCustomer(_ context.Context, userID string) ([]*domain.Appointment, error) {
	return r.filter(func(a domain.Appointment) bool { return a.UserID == userID }), nil
}

func (r *AppointmentRepository) ListByVet(_ context.Context, vetID string) ([]*domain.Appointment, error) {
	return r.filter(func(a domain.Appointment) bool { return a.VetID == vetID }), nil
}

func (r *AppointmentRepository) filter(match func(domain.Appointment) bool) []*domain.Appointment {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Appointment, 0)
	for _, id := range sortedKeys(r.s.appointments) {
		a := r.s.appointments[id]
		if match(a) {
			out = append(out, &a)
		}
	}
	return out
}

func (r *AppointmentRepository) Update(_ context.Context, a *domain.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.appointments[a.ID]
	if !ok {
		return domain.ErrAppointmentNotFound
	}
	if cur.Version != a.Version {
		return domain.ErrStaleWrite
	}
	a.Version++
	r.s.appointments[a.ID] = *a
	return nil
}

func (r *AppointmentRepository) CountByParticipant(_ context.Context, userID string) (int64, error) {
	return int64(len(r.filter(func(a domain.Appointment) bool { return a.IsParticipant(userID) }))), nil
}

// ── Audit & revocation ────────────────────────────────────────────────────────

// AuditRepository implements ports.AuditRepository.
type AuditRepository struct{ s *Store }

func (s *Store) Audit() *AuditRepository { return &AuditRepository{s: s} }

func (r *AuditRepository) Insert(_ context.Context, event *domain.AuditEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.audit = append(r.s.audit, *event)
	return nil
}

// Events returns a copy of the recorded audit trail.
func (r *AuditRepository) Events() []domain.AuditEvent {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return append([]domain.AuditEvent(nil), r.s.audit...)
}

// RevocationList implements ports.RevocationStore with per-entry expiry.
type RevocationList struct{ s *Store }

func (s *Store) Revocations() *RevocationList { return &RevocationList{s: s} }

func (r *RevocationList) Revoke(_ context.Context, userID string, ttl time.Duration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.revoked[userID] = r.s.now().Add(ttl)
	return nil
}

func (r *RevocationList) IsRevoked(_ context.Context, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	until, ok := r.s.revoked[userID]
	if !ok {
		return false, nil
	}
	if !r.s.now().Before(until) {
		delete(r.s.revoked, userID)
		return false, nil
	}
	return true, nil
}
