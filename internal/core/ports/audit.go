package ports

import (
	"context"
	"time"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
)

// AuditRepository is the append-only audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// AuditSink accepts audit events without blocking the caller.
type AuditSink interface {
	Record(event domain.AuditEvent)
}

// RevocationStore tracks users whose outstanding tokens must be rejected.
type RevocationStore interface {
	Revoke(ctx context.Context, userID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, userID string) (bool, error)
}
