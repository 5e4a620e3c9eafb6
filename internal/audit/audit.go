// Package audit records security-relevant events to the structured log.
// Every credential outcome is written here regardless of what the HTTP
// response reveals: the anti-enumeration paths return uniform responses to
// callers, but operators still see what actually happened.
package audit

import (
	"context"
	"log/slog"

	"github.com/liftlog/accounts/pkg/slogx"
)

// Event types recorded in the trail.
const (
	EventAuthSuccess     = "AUTH_SUCCESS"
	EventAuthFailure     = "AUTH_FAILURE"
	EventPolicyRejected  = "PASSWORD_POLICY_REJECTED"
	EventPasswordChanged = "PASSWORD_CHANGED"
	EventResetRequested  = "PASSWORD_RESET_REQUESTED"
	EventResetRedeemed   = "PASSWORD_RESET_REDEEMED"
	EventResetRejected   = "PASSWORD_RESET_REJECTED"
	EventUserCreated     = "USER_CREATED"
	EventUserUpdated     = "USER_UPDATED"
	EventUserDeleted     = "USER_DELETED"
	EventAccessDenied    = "ACCESS_DENIED"
	EventMailFailure     = "NOTIFICATION_DELIVERY_FAILURE"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Trail writes audit events through the request-scoped logger so each line
// carries the req_id of the request that triggered it. Events are tagged
// log_kind=audit so they can be filtered from operational logs downstream.
type Trail struct{}

func NewTrail() *Trail { return &Trail{} }

// Record writes one audit event. Actor is the acting user id (empty for
// anonymous flows), resource names what was acted on.
func (t *Trail) Record(ctx context.Context, event, actor, resource, outcome string, attrs ...slog.Attr) {
	args := make([]any, 0, 5+len(attrs))
	args = append(args,
		slog.String("log_kind", "audit"),
		slog.String("event_type", event),
		slog.String("actor", actor),
		slog.String("resource", resource),
		slog.String("outcome", outcome),
	)
	for _, a := range attrs {
		args = append(args, a)
	}

	slogx.FromContext(ctx).Info(event, args...)
}
