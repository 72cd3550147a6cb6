package service

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/pawmarket/marketplace-api/internal/core/authz"
	"github.com/pawmarket/marketplace-api/internal/core/domain"
	"github.com/pawmarket/marketplace-api/internal/core/ports"
	"github.com/pawmarket/marketplace-api/internal/pkg/metrics"
)

// NopAuditSink discards audit events.
type NopAuditSink struct{}

func (NopAuditSink) Record(domain.AuditEvent) {}

// guard wraps authz.Authorize with the side effects every service wants on a
// decision: a metric, a warn log on denial and an audit record.
type guard struct {
	audit ports.AuditSink
	log   zerolog.Logger
}

func newGuard(audit ports.AuditSink, log zerolog.Logger) guard {
	if audit == nil {
		audit = NopAuditSink{}
	}
	return guard{audit: audit, log: log}
}

func (g guard) authorize(caller domain.IdentityClaim, resource, action, resourceID string, policies ...authz.Policy) error {
	err := authz.Authorize(caller, policies...)

	outcome := domain.AuditAllowed
	reason := ""
	if err != nil {
		outcome = domain.AuditDenied
		reason = err.Error()
		g.log.Warn().
			Str("actor_id", caller.ID).
			Str("actor_role", string(caller.Role)).
			Str("resource", resource).
			Str("resource_id", resourceID).
			Str("action", action).
			Msg(reason)
	}
	metrics.AuthzDecisionsTotal.WithLabelValues(resource, action, string(outcome)).Inc()

	if action != "read" && action != "list" {
		g.audit.Record(domain.AuditEvent{
			ActorID:    caller.ID,
			ActorRole:  caller.Role,
			Action:     action,
			Resource:   resource,
			ResourceID: resourceID,
			Outcome:    outcome,
			Reason:     reason,
			At:         time.Now().UTC(),
		})
	}
	return err
}
