package workflow

import (
	"strings"
	"sync"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/contentforge/go-workflow/internal/domain"
)

// FeedbackLimits bounds the supplementary text collected before a transition.
type FeedbackLimits struct {
	FeedbackMin int
	FeedbackMax int
	SummaryMin  int
	SummaryMax  int
}

// DefaultFeedbackLimits returns the standard length bounds.
func DefaultFeedbackLimits() FeedbackLimits {
	return FeedbackLimits{
		FeedbackMin: 10,
		FeedbackMax: 1000,
		SummaryMin:  10,
		SummaryMax:  500,
	}
}

// ValidatePayload checks the supplementary text rules for an action:
// reject and request-changes require feedback, submit requires a change
// summary, and every other action accepts an optional change summary.
// Failures are reported per field so the caller can surface them inline.
func ValidatePayload(action domain.Action, payload domain.FeedbackPayload, limits FeedbackLimits) error {
	errs := validation.Errors{}

	feedback := strings.TrimSpace(payload.Feedback)
	summary := strings.TrimSpace(payload.ChangeSummary)

	if action.RequiresFeedback() {
		switch {
		case feedback == "":
			errs["feedback"] = validation.NewError("workflow.feedback.required", "feedback is required")
		case utf8.RuneCountInString(feedback) < limits.FeedbackMin:
			errs["feedback"] = validation.NewError("workflow.feedback.too_short", "feedback is too short")
		case utf8.RuneCountInString(feedback) > limits.FeedbackMax:
			errs["feedback"] = validation.NewError("workflow.feedback.too_long", "feedback is too long")
		}
	}

	if action.RequiresChangeSummary() {
		switch {
		case summary == "":
			errs["change_summary"] = validation.NewError("workflow.change_summary.required", "change summary is required")
		case utf8.RuneCountInString(summary) < limits.SummaryMin:
			errs["change_summary"] = validation.NewError("workflow.change_summary.too_short", "change summary is too short")
		case utf8.RuneCountInString(summary) > limits.SummaryMax:
			errs["change_summary"] = validation.NewError("workflow.change_summary.too_long", "change summary is too long")
		}
	} else if summary != "" && utf8.RuneCountInString(summary) > limits.SummaryMax {
		errs["change_summary"] = validation.NewError("workflow.change_summary.too_long", "change summary is too long")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Collector gathers and validates the supplementary text certain actions
// require before the executor may run. It moves closed -> open(action) and
// back to closed on a validated submission or a cancellation. Validation
// failures keep the collector open; no network call happens until the
// payload passes.
type Collector struct {
	mu     sync.Mutex
	limits FeedbackLimits

	open   bool
	action domain.Action
	draft  domain.FeedbackPayload
}

// NewCollector constructs a closed collector.
func NewCollector(limits FeedbackLimits) *Collector {
	return &Collector{limits: limits}
}

// Open starts collecting for the supplied action. Only actions flagged as
// requiring feedback or a change summary may open the collector.
func (c *Collector) Open(action domain.Action) error {
	if !action.Known() {
		return ErrActionUnknown
	}
	if !action.RequiresFeedback() && !action.RequiresChangeSummary() {
		return ErrFeedbackNotRequired
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open {
		return ErrCollectorOpen
	}
	c.open = true
	c.action = action
	c.draft = domain.FeedbackPayload{}
	return nil
}

// Active reports the action currently being collected for.
func (c *Collector) Active() (domain.Action, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.action, c.open
}

// SetFeedback records the feedback text entered so far. Ignored for actions
// that do not collect feedback, such as submit.
func (c *Collector) SetFeedback(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open || !c.action.RequiresFeedback() {
		return
	}
	c.draft.Feedback = text
}

// SetChangeSummary records the change summary text entered so far.
func (c *Collector) SetChangeSummary(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return
	}
	c.draft.ChangeSummary = text
}

// Submit validates the entered text. On success the collector closes and the
// trimmed payload is returned for execution; on failure the collector stays
// open and the field-level errors are returned.
func (c *Collector) Submit() (domain.FeedbackPayload, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return domain.FeedbackPayload{}, ErrCollectorClosed
	}

	payload := domain.FeedbackPayload{
		Feedback:      strings.TrimSpace(c.draft.Feedback),
		ChangeSummary: strings.TrimSpace(c.draft.ChangeSummary),
	}
	if err := ValidatePayload(c.action, payload, c.limits); err != nil {
		return domain.FeedbackPayload{}, err
	}

	c.open = false
	c.action = ""
	c.draft = domain.FeedbackPayload{}
	return payload, nil
}

// Cancel discards any entered text and closes the collector without invoking
// the executor.
func (c *Collector) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	c.action = ""
	c.draft = domain.FeedbackPayload{}
}
