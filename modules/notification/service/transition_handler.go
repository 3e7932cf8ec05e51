package service

import (
	"context"
	"encoding/json"
	"fmt"

	"agreetime-api/core/logger"
	"agreetime-api/modules/notification/dto"
	"agreetime-api/modules/notification/entity"

	"github.com/hibiken/asynq"
)

// transitionMessage renders the inbox message for a transition.
func transitionMessage(transition entity.TransitionKind, title string) (string, string) {
	switch transition {
	case entity.TransitionCreated:
		return "New event proposal", fmt.Sprintf("You are invited to the event: %s", title)
	case entity.TransitionApproved:
		return "Approval received", fmt.Sprintf("An approver accepted the event: %s", title)
	case entity.TransitionRejected:
		return "Event rejected", fmt.Sprintf("The event was rejected: %s", title)
	case entity.TransitionConfirmed:
		return "Event confirmed", fmt.Sprintf("The event is confirmed: %s", title)
	case entity.TransitionCancelled:
		return "Event cancelled", fmt.Sprintf("The event was cancelled: %s", title)
	default:
		return "Event update", fmt.Sprintf("The event was updated: %s", title)
	}
}

// NewTransitionHandler returns the asynq handler that fans a transition out
// into one inbox row per audience member.
func NewTransitionHandler(svc *NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload TransitionPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			logger.Error("TransitionHandler:Unmarshal", err)
			// Malformed payloads can never succeed; do not retry.
			return fmt.Errorf("unmarshal transition payload: %w: %w", err, asynq.SkipRetry)
		}

		title, message := transitionMessage(payload.Transition, payload.EventTitle)

		var firstErr error
		for _, userID := range payload.Audience {
			req := &dto.CreateNotificationRequest{
				UserID:  userID,
				Title:   title,
				Message: message,
				Type:    string(payload.Transition),
				Data: map[string]interface{}{
					"event_id":   payload.EventID.String(),
					"transition": string(payload.Transition),
				},
			}
			if err := svc.Create(ctx, req); err != nil {
				logger.Error("TransitionHandler:Create", err,
					"event_id", payload.EventID.String(),
					"user_id", userID.String())
				if firstErr == nil {
					firstErr = err
				}
			}
		}

		// Returning the error lets asynq retry; duplicate rows from a
		// partial retry are acceptable under at-least-once delivery.
		return firstErr
	}
}
