// Package queue defines the audit events exchanged over the message broker
// and the background consumer that persists them.
package queue

import (
	"fmt"
	"strings"
	"time"
)

// Audit event types.
const (
	EventRoleChanged   = "role.changed"
	EventClassReviewed = "class.reviewed"
)

// AuditEvent is published after an administrative change. It carries enough
// information for downstream consumers to log or notify without querying
// the primary store.
type AuditEvent struct {
	Type       string    `json:"type"`
	Actor      string    `json:"actor"`
	TargetID   string    `json:"target_id"`
	Role       string    `json:"role,omitempty"`
	Status     string    `json:"status,omitempty"`
	Feedback   string    `json:"feedback,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Line renders the event as a single human-friendly log line.
func (ev AuditEvent) Line() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s | actor=%s | target=%s",
		ev.OccurredAt.UTC().Format(time.RFC3339), ev.Type, ev.Actor, ev.TargetID)
	if ev.Role != "" {
		fmt.Fprintf(&b, " | role=%s", ev.Role)
	}
	if ev.Status != "" {
		fmt.Fprintf(&b, " | status=%s", ev.Status)
	}
	if ev.Feedback != "" {
		fmt.Fprintf(&b, " | feedback=%q", ev.Feedback)
	}
	b.WriteByte('\n')
	return b.String()
}
