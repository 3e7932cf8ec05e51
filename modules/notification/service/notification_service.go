package service

import (
	"context"
	"time"

	"agreetime-api/core/cache"
	coreEntity "agreetime-api/core/entity"
	"agreetime-api/core/logger"
	"agreetime-api/core/params"
	"agreetime-api/modules/notification/dto"
	"agreetime-api/modules/notification/entity"
	"agreetime-api/modules/notification/repository"

	"github.com/google/uuid"
)

// NotificationService is the per-user inbox. Rows are written by the asynq
// transition handler; the unread counter lives in Redis with the database as
// fallback.
type NotificationService struct {
	repo  repository.NotificationRepositoryInterface
	cache cache.ICache
}

func NewNotificationService(repo repository.NotificationRepositoryInterface, c cache.ICache) *NotificationService {
	return &NotificationService{repo: repo, cache: c}
}

func (s *NotificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) error {
	notif := &entity.Notification{
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
		Data:    entity.JSONB(req.Data),
		IsRead:  false,
		BaseEntity: coreEntity.BaseEntity{
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
	if err := s.repo.Create(ctx, notif); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.IncrUnread(ctx, req.UserID, 1); err != nil {
			logger.Warn("NotificationService:Create:IncrUnread", "error", err)
		}
	}
	return nil
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	return s.repo.GetByUserID(ctx, userID, queryParams)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) error {
	if err := s.repo.MarkAsRead(ctx, userID, ids); err != nil {
		return err
	}
	return s.syncUnread(ctx, userID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.ResetUnread(ctx, userID); err != nil {
			logger.Warn("NotificationService:MarkAllAsRead:ResetUnread", "error", err)
		}
	}
	return nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	if s.cache != nil {
		if n, ok, err := s.cache.GetUnread(ctx, userID); err == nil && ok {
			return int(n), nil
		}
	}

	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		if err := s.cache.SetUnread(ctx, userID, int64(count)); err != nil {
			logger.Warn("NotificationService:CountUnread:SetUnread", "error", err)
		}
	}
	return count, nil
}

// syncUnread refreshes the cached counter from the database after a partial
// mark-read.
func (s *NotificationService) syncUnread(ctx context.Context, userID uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		logger.Warn("NotificationService:syncUnread", "error", err)
		return nil
	}
	if err := s.cache.SetUnread(ctx, userID, int64(count)); err != nil {
		logger.Warn("NotificationService:syncUnread:SetUnread", "error", err)
	}
	return nil
}
