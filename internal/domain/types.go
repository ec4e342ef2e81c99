package domain

import (
	"strings"

	"github.com/google/uuid"
)

// ResourceType identifies the kind of content entity subject to the workflow.
type ResourceType string

const (
	ResourceTypePage          ResourceType = "page"
	ResourceTypeSection       ResourceType = "section"
	ResourceTypeArea          ResourceType = "area"
	ResourceTypeRegion        ResourceType = "region"
	ResourceTypeBranch        ResourceType = "branch"
	ResourceTypeCustomer      ResourceType = "customer"
	ResourceTypeCertification ResourceType = "certification"
	ResourceTypeBrochure      ResourceType = "brochure"
	ResourceTypeCompanyUpdate ResourceType = "company_update"
	ResourceTypeProject       ResourceType = "project"
)

// NormalizeResourceType coerces arbitrary type strings into canonical form.
func NormalizeResourceType(input string) ResourceType {
	return ResourceType(strings.ToLower(strings.TrimSpace(input)))
}

// Requester identifies who is asking for workflow actions. Passed explicitly
// so the core stays testable without an application shell around it.
type Requester struct {
	Role   string
	UserID uuid.UUID
}

// FeedbackPayload carries the supplementary text certain actions require:
// a rejection reason, requested changes, or a change summary.
type FeedbackPayload struct {
	Feedback      string
	ChangeSummary string
}
