package domain

import "strings"

// Status represents the lifecycle stage of a content resource. Exactly one
// status holds per resource at any time; the value always reflects the
// server's last confirmed state.
type Status string

const (
	StatusDraft            Status = "draft"
	StatusInReview         Status = "in_review"
	StatusChangesRequested Status = "changes_requested"
	StatusPendingApproval  Status = "pending_approval"
	StatusPendingPublish   Status = "pending_publish"
	StatusPublished        Status = "published"
	StatusArchived         Status = "archived"
)

// Statuses returns every known status in lifecycle order.
func Statuses() []Status {
	return []Status{
		StatusDraft,
		StatusInReview,
		StatusChangesRequested,
		StatusPendingApproval,
		StatusPendingPublish,
		StatusPublished,
		StatusArchived,
	}
}

// Known reports whether the status belongs to the closed set.
func (s Status) Known() bool {
	switch s {
	case StatusDraft, StatusInReview, StatusChangesRequested,
		StatusPendingApproval, StatusPendingPublish,
		StatusPublished, StatusArchived:
		return true
	default:
		return false
	}
}

// NormalizeStatus coerces arbitrary status strings into the canonical
// representation. Empty input defaults to draft, matching how resources are
// treated before the server has reported a status.
func NormalizeStatus(input string) Status {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	if trimmed == "" {
		return StatusDraft
	}
	return Status(trimmed)
}
