package resources

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Resource is a content entity subject to the approval workflow: a page, a
// section, or a master-data record. The body itself is opaque to this module.
type Resource struct {
	bun.BaseModel `bun:"table:resources,alias:r"`

	ID        uuid.UUID  `bun:",pk,type:uuid"                  json:"id"`
	Type      string     `bun:"resource_type,notnull"          json:"resource_type"`
	Slug      string     `bun:"slug,notnull"                   json:"slug"`
	Title     string     `bun:"title,notnull"                  json:"title"`
	Status    string     `bun:"status,notnull,default:'draft'" json:"status"`
	OwnerID   uuid.UUID  `bun:"owner_id,type:uuid"             json:"owner_id"`
	CreatedAt time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	DeletedAt *time.Time `bun:"deleted_at,nullzero"            json:"deleted_at,omitempty"`

	Transitions []*ResourceTransition `bun:"rel:has-many,join:id=resource_id" json:"transitions,omitempty"`
}

// ResourceTransition records one executed workflow transition: who moved the
// resource, along which edge, and with what supplementary text.
type ResourceTransition struct {
	bun.BaseModel `bun:"table:resource_transitions,alias:rt"`

	ID            uuid.UUID `bun:",pk,type:uuid"          json:"id"`
	ResourceID    uuid.UUID `bun:"resource_id,type:uuid,notnull" json:"resource_id"`
	Action        string    `bun:"action,notnull"         json:"action"`
	FromStatus    string    `bun:"from_status,notnull"    json:"from_status"`
	ToStatus      string    `bun:"to_status,notnull"      json:"to_status"`
	Feedback      *string   `bun:"feedback"               json:"feedback,omitempty"`
	ChangeSummary *string   `bun:"change_summary"         json:"change_summary,omitempty"`
	ActorID       uuid.UUID `bun:"actor_id,type:uuid"     json:"actor_id"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}
