package workflowcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/contentforge/go-workflow/internal/commands"
	"github.com/contentforge/go-workflow/internal/domain"
	"github.com/contentforge/go-workflow/internal/workflow"
	"github.com/contentforge/go-workflow/pkg/interfaces"
)

const transitionMessageType = "workflow.resource.transition"

// TransitionResourceCommand requests one workflow transition for a resource.
type TransitionResourceCommand struct {
	ResourceType  string    `json:"resource_type"`
	ResourceID    uuid.UUID `json:"resource_id"`
	Action        string    `json:"action"`
	Feedback      string    `json:"feedback,omitempty"`
	ChangeSummary string    `json:"change_summary,omitempty"`
	ActorID       uuid.UUID `json:"actor_id,omitempty"`
	ActorRole     string    `json:"actor_role,omitempty"`
}

// Type implements command.Message.
func (TransitionResourceCommand) Type() string { return transitionMessageType }

// Validate ensures the message carries the required fields before reaching
// handlers. Payload length rules are enforced downstream by the executor.
func (m TransitionResourceCommand) Validate() error {
	errs := validation.Errors{}
	if m.ResourceID == uuid.Nil {
		errs["resource_id"] = validation.NewError("workflow.transition.resource_id_required", "resource_id is required")
	}
	if domain.NormalizeResourceType(m.ResourceType) == "" {
		errs["resource_type"] = validation.NewError("workflow.transition.resource_type_required", "resource_type is required")
	}
	action := domain.NormalizeAction(m.Action)
	switch {
	case action == "":
		errs["action"] = validation.NewError("workflow.transition.action_required", "action is required")
	case !action.Known():
		errs["action"] = validation.NewError("workflow.transition.action_unknown", "action is not recognised")
	case !action.Executable():
		errs["action"] = validation.NewError("workflow.transition.action_not_executable", "action cannot be invoked")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TransitionResourceHandler executes workflow transitions through the shared
// command handler foundation.
type TransitionResourceHandler struct {
	inner *commands.Handler[TransitionResourceCommand]
}

// NewTransitionResourceHandler constructs a handler wired to the provided
// executor.
func NewTransitionResourceHandler(executor *workflow.Executor, logger interfaces.Logger, opts ...commands.HandlerOption[TransitionResourceCommand]) *TransitionResourceHandler {
	exec := func(ctx context.Context, msg TransitionResourceCommand) error {
		_, err := executor.Execute(ctx, workflow.ExecuteRequest{
			ResourceType: domain.NormalizeResourceType(msg.ResourceType),
			ResourceID:   msg.ResourceID,
			Action:       domain.NormalizeAction(msg.Action),
			Payload: domain.FeedbackPayload{
				Feedback:      msg.Feedback,
				ChangeSummary: msg.ChangeSummary,
			},
			Requester: domain.Requester{
				Role:   msg.ActorRole,
				UserID: msg.ActorID,
			},
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[TransitionResourceCommand]{
		commands.WithLogger[TransitionResourceCommand](logger),
		commands.WithOperation[TransitionResourceCommand]("workflow.transition"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &TransitionResourceHandler{
		inner: commands.NewHandler[TransitionResourceCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[TransitionResourceCommand].Execute.
func (h *TransitionResourceHandler) Execute(ctx context.Context, msg TransitionResourceCommand) error {
	return h.inner.Execute(ctx, msg)
}
