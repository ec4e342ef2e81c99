package workflowcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/contentforge/go-workflow/internal/commands"
	"github.com/contentforge/go-workflow/internal/domain"
	"github.com/contentforge/go-workflow/internal/resources"
	"github.com/contentforge/go-workflow/pkg/interfaces"
)

const createMessageType = "workflow.resource.create"

// CreateResourceCommand registers a resource with the workflow at its
// initial status.
type CreateResourceCommand struct {
	ResourceType string    `json:"resource_type"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug,omitempty"`
	OwnerID      uuid.UUID `json:"owner_id,omitempty"`
}

// Type implements command.Message.
func (CreateResourceCommand) Type() string { return createMessageType }

// Validate ensures the message carries the required fields.
func (m CreateResourceCommand) Validate() error {
	errs := validation.Errors{}
	if domain.NormalizeResourceType(m.ResourceType) == "" {
		errs["resource_type"] = validation.NewError("workflow.create.resource_type_required", "resource_type is required")
	}
	if m.Title == "" && m.Slug == "" {
		errs["title"] = validation.NewError("workflow.create.title_required", "title or slug is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CreateResourceHandler registers resources via the resource service.
type CreateResourceHandler struct {
	inner *commands.Handler[CreateResourceCommand]
}

// NewCreateResourceHandler constructs a handler wired to the resource
// service.
func NewCreateResourceHandler(service resources.Service, logger interfaces.Logger, opts ...commands.HandlerOption[CreateResourceCommand]) *CreateResourceHandler {
	exec := func(ctx context.Context, msg CreateResourceCommand) error {
		_, err := service.Create(ctx, resources.CreateResourceRequest{
			Type:    msg.ResourceType,
			Title:   msg.Title,
			Slug:    msg.Slug,
			OwnerID: msg.OwnerID,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[CreateResourceCommand]{
		commands.WithLogger[CreateResourceCommand](logger),
		commands.WithOperation[CreateResourceCommand]("workflow.resource.create"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CreateResourceHandler{
		inner: commands.NewHandler[CreateResourceCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CreateResourceCommand].Execute.
func (h *CreateResourceHandler) Execute(ctx context.Context, msg CreateResourceCommand) error {
	return h.inner.Execute(ctx, msg)
}
