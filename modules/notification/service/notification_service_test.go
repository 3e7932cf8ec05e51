package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"agreetime-api/core/constants"
	"agreetime-api/core/params"
	"agreetime-api/modules/notification/dto"
	"agreetime-api/modules/notification/entity"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNotificationRepo is an in-memory inbox.
type fakeNotificationRepo struct {
	mu    sync.Mutex
	items []entity.Notification

	createErr error
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *n
	stored.ID = uuid.New()
	f.items = append(f.items, stored)
	return nil
}

func (f *fakeNotificationRepo) GetByUserID(_ context.Context, userID uuid.UUID, p params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []entity.Notification
	for _, n := range f.items {
		if n.UserID == userID {
			items = append(items, n)
		}
	}
	return &entity.PaginatedNotificationEntity{
		Items:      items,
		TotalItems: len(items),
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

func (f *fakeNotificationRepo) MarkAsRead(_ context.Context, userID uuid.UUID, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].UserID != userID {
			continue
		}
		for _, id := range ids {
			if f.items[i].ID.String() == id {
				f.items[i].IsRead = true
			}
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].UserID == userID {
			f.items[i].IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, n := range f.items {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func notificationFor(userID uuid.UUID) *dto.CreateNotificationRequest {
	return &dto.CreateNotificationRequest{
		UserID:  userID,
		Title:   "Event update",
		Message: "Something changed",
		Type:    "created",
	}
}

func transitionTask(t *testing.T, payload TransitionPayload) *asynq.Task {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(constants.TaskTypeNotifyTransition, raw)
}

func TestTransitionHandler_FansOutToAudience(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil)
	handler := NewTransitionHandler(svc)

	alice, bob := uuid.New(), uuid.New()
	task := transitionTask(t, TransitionPayload{
		EventID:    uuid.New(),
		EventTitle: "Quarterly review",
		Transition: entity.TransitionConfirmed,
		Audience:   []uuid.UUID{alice, bob},
	})

	require.NoError(t, handler(context.Background(), task))
	require.Len(t, repo.items, 2)

	assert.Equal(t, "Event confirmed", repo.items[0].Title)
	assert.Contains(t, repo.items[0].Message, "Quarterly review")
	assert.Equal(t, string(entity.TransitionConfirmed), repo.items[0].Type)
	assert.False(t, repo.items[0].IsRead)
}

func TestTransitionHandler_MalformedPayloadSkipsRetry(t *testing.T) {
	svc := NewNotificationService(&fakeNotificationRepo{}, nil)
	handler := NewTransitionHandler(svc)

	task := asynq.NewTask(constants.TaskTypeNotifyTransition, []byte("not json"))
	err := handler(context.Background(), task)
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestCountUnread_FallsBackToDatabase(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil)
	user := uuid.New()

	require.NoError(t, svc.Create(context.Background(), notificationFor(user)))
	require.NoError(t, svc.Create(context.Background(), notificationFor(user)))

	count, err := svc.CountUnread(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMarkAllAsRead_ZeroesUnread(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil)
	user := uuid.New()

	require.NoError(t, svc.Create(context.Background(), notificationFor(user)))
	require.NoError(t, svc.MarkAllAsRead(context.Background(), user))

	count, err := svc.CountUnread(context.Background(), user)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkAsRead_PartialLeavesRemainder(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil)
	user := uuid.New()

	require.NoError(t, svc.Create(context.Background(), notificationFor(user)))
	require.NoError(t, svc.Create(context.Background(), notificationFor(user)))

	page, err := svc.GetMyNotifications(context.Background(), user, params.QueryParams{PageNumber: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	require.NoError(t, svc.MarkAsRead(context.Background(), user, []string{page.Items[0].ID.String()}))

	count, err := svc.CountUnread(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
