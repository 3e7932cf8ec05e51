package service

import (
	"context"
	"encoding/json"

	"agreetime-api/core/constants"
	"agreetime-api/core/logger"
	"agreetime-api/core/queue"
	"agreetime-api/modules/notification/entity"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Dispatcher is the notification contract the scheduling engine consumes.
// Calls are fire-and-forget: a delivery failure never rolls back the state
// transition that triggered it.
type Dispatcher interface {
	Notify(ctx context.Context, eventID uuid.UUID, eventTitle string, transition entity.TransitionKind, audience []uuid.UUID)
}

// TransitionPayload is the asynq task body for a state-transition
// notification.
type TransitionPayload struct {
	EventID    uuid.UUID             `json:"event_id"`
	EventTitle string                `json:"event_title"`
	Transition entity.TransitionKind `json:"transition"`
	Audience   []uuid.UUID           `json:"audience"`
}

// AsynqDispatcher enqueues one task per transition; asynq's retry policy
// provides at-least-once delivery into the inbox.
type AsynqDispatcher struct {
	client *queue.Client
}

func NewAsynqDispatcher(client *queue.Client) Dispatcher {
	return &AsynqDispatcher{client: client}
}

func (d *AsynqDispatcher) Notify(ctx context.Context, eventID uuid.UUID, eventTitle string, transition entity.TransitionKind, audience []uuid.UUID) {
	if d.client == nil || len(audience) == 0 {
		return
	}

	payload, err := json.Marshal(TransitionPayload{
		EventID:    eventID,
		EventTitle: eventTitle,
		Transition: transition,
		Audience:   audience,
	})
	if err != nil {
		logger.Error("AsynqDispatcher:Notify:Marshal", err, "event_id", eventID.String())
		return
	}

	d.client.Enqueue(
		asynq.NewTask(constants.TaskTypeNotifyTransition, payload),
		asynq.MaxRetry(5),
	)
}
