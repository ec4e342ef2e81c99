package workflowcmd

import (
	"github.com/google/uuid"

	"github.com/contentforge/go-workflow/internal/domain"
)

// Convenience constructors for the transition message, one per executable
// action, so hosts dispatching over a command bus do not assemble the action
// strings by hand.

// Submit builds the message that sends a resource to review.
func Submit(resourceType string, resourceID uuid.UUID, changeSummary string) TransitionResourceCommand {
	return TransitionResourceCommand{
		ResourceType:  resourceType,
		ResourceID:    resourceID,
		Action:        string(domain.ActionSubmit),
		ChangeSummary: changeSummary,
	}
}

// Review builds the message that marks a resource as reviewed.
func Review(resourceType string, resourceID uuid.UUID) TransitionResourceCommand {
	return transitionFor(resourceType, resourceID, domain.ActionReview)
}

// RequestChanges builds the message that sends a resource back with feedback.
func RequestChanges(resourceType string, resourceID uuid.UUID, feedback string) TransitionResourceCommand {
	return TransitionResourceCommand{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       string(domain.ActionRequestChanges),
		Feedback:     feedback,
	}
}

// Approve builds the message that approves a resource for publishing.
func Approve(resourceType string, resourceID uuid.UUID) TransitionResourceCommand {
	return transitionFor(resourceType, resourceID, domain.ActionApprove)
}

// Reject builds the message that rejects a resource with feedback.
func Reject(resourceType string, resourceID uuid.UUID, feedback string) TransitionResourceCommand {
	return TransitionResourceCommand{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       string(domain.ActionReject),
		Feedback:     feedback,
	}
}

// Publish builds the message that publishes a resource.
func Publish(resourceType string, resourceID uuid.UUID) TransitionResourceCommand {
	return transitionFor(resourceType, resourceID, domain.ActionPublish)
}

// Unpublish builds the message that takes a resource back to draft.
func Unpublish(resourceType string, resourceID uuid.UUID) TransitionResourceCommand {
	return transitionFor(resourceType, resourceID, domain.ActionUnpublish)
}

// Archive builds the message that archives a resource.
func Archive(resourceType string, resourceID uuid.UUID) TransitionResourceCommand {
	return transitionFor(resourceType, resourceID, domain.ActionArchive)
}

// Restore builds the message that restores an archived resource to draft.
func Restore(resourceType string, resourceID uuid.UUID) TransitionResourceCommand {
	return transitionFor(resourceType, resourceID, domain.ActionRestore)
}

func transitionFor(resourceType string, resourceID uuid.UUID, action domain.Action) TransitionResourceCommand {
	return TransitionResourceCommand{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       string(action),
	}
}
