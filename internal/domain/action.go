package domain

import "strings"

// Action is a user-invocable workflow operation corresponding to exactly one
// transition edge in the status graph.
type Action string

const (
	ActionSubmit         Action = "submit"
	ActionReview         Action = "review"
	ActionRequestChanges Action = "request-changes"
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionPublish        Action = "publish"
	ActionUnpublish      Action = "unpublish"
	ActionArchive        Action = "archive"
	ActionRestore        Action = "restore"
	ActionRevert         Action = "revert"
)

// ActionSpec declares the behavioural flags attached to an action.
type ActionSpec struct {
	Label                 string
	RequiresFeedback      bool
	RequiresChangeSummary bool
	Restricted            bool
	// Executable marks actions backed by a workflow API endpoint. Revert
	// exists in the status graph but has no endpoint, so it is never
	// user-invocable.
	Executable bool
}

var actionSpecs = map[Action]ActionSpec{
	ActionSubmit:         {Label: "Submit for review", RequiresChangeSummary: true, Executable: true},
	ActionReview:         {Label: "Mark as reviewed", Executable: true},
	ActionRequestChanges: {Label: "Request changes", RequiresFeedback: true, Executable: true},
	ActionApprove:        {Label: "Approve", Executable: true},
	ActionReject:         {Label: "Reject", RequiresFeedback: true, Executable: true},
	ActionPublish:        {Label: "Publish", Executable: true},
	ActionUnpublish:      {Label: "Unpublish", Restricted: true, Executable: true},
	ActionArchive:        {Label: "Archive", Restricted: true, Executable: true},
	ActionRestore:        {Label: "Restore", Executable: true},
	ActionRevert:         {Label: "Revert"},
}

// Actions returns every known action in display order.
func Actions() []Action {
	return []Action{
		ActionSubmit,
		ActionReview,
		ActionRequestChanges,
		ActionApprove,
		ActionReject,
		ActionPublish,
		ActionUnpublish,
		ActionArchive,
		ActionRestore,
		ActionRevert,
	}
}

// Spec returns the behavioural flags for the action. Unknown actions yield a
// zero spec, which in particular is not executable.
func (a Action) Spec() ActionSpec {
	return actionSpecs[a]
}

// Known reports whether the action belongs to the closed set.
func (a Action) Known() bool {
	_, ok := actionSpecs[a]
	return ok
}

// Label returns the human-facing display label for the action.
func (a Action) Label() string {
	return actionSpecs[a].Label
}

// RequiresFeedback reports whether the action must carry feedback text.
func (a Action) RequiresFeedback() bool {
	return actionSpecs[a].RequiresFeedback
}

// RequiresChangeSummary reports whether the action must carry a change summary.
func (a Action) RequiresChangeSummary() bool {
	return actionSpecs[a].RequiresChangeSummary
}

// Restricted reports whether the action is visible to elevated roles only.
func (a Action) Restricted() bool {
	return actionSpecs[a].Restricted
}

// Executable reports whether the workflow API exposes an endpoint for the
// action.
func (a Action) Executable() bool {
	return actionSpecs[a].Executable
}

// NormalizeAction coerces arbitrary action strings into the canonical form.
func NormalizeAction(input string) Action {
	return Action(strings.ToLower(strings.TrimSpace(input)))
}
