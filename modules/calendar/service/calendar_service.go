package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agreetime-api/core/cache"
	"agreetime-api/core/errors"
	"agreetime-api/core/logger"
	"agreetime-api/modules/calendar/dto"
	eventRepo "agreetime-api/modules/event/repository"

	"github.com/google/uuid"
)

const rangeCacheTTL = 5 * time.Minute

// CalendarService serves the read view: confirmed commitments for one
// participant over a time range. Responses are cached in redis under a
// version-stamped key; confirming or cancelling an event bumps the
// participant's version, so stale entries simply stop being addressed.
type CalendarService struct {
	events eventRepo.EventRepositoryInterface
	cache  cache.ICache
}

// CalendarServiceInterface defines the service contract
type CalendarServiceInterface interface {
	GetRange(ctx context.Context, participantID uuid.UUID, from, to time.Time) (*dto.CalendarResponse, *errors.AppError)
}

func NewCalendarService(events eventRepo.EventRepositoryInterface, c cache.ICache) CalendarServiceInterface {
	return &CalendarService{events: events, cache: c}
}

func (s *CalendarService) GetRange(ctx context.Context, participantID uuid.UUID, from, to time.Time) (*dto.CalendarResponse, *errors.AppError) {
	if !from.Before(to) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "from must precede to", nil)
	}

	key := s.rangeKey(ctx, participantID, from, to)
	if key != "" {
		if payload, hit, err := s.cache.GetRange(ctx, key); err == nil && hit {
			var resp dto.CalendarResponse
			if err := json.Unmarshal([]byte(payload), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	events, err := s.events.ListConfirmedForParticipant(ctx, participantID, from, to)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load calendar", err)
	}

	resp := &dto.CalendarResponse{
		ParticipantID: participantID.String(),
		From:          from,
		To:            to,
		Entries:       dto.ToCalendarEntries(events),
	}

	if key != "" {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.cache.SetRange(ctx, key, string(payload), rangeCacheTTL); err != nil {
				logger.Warn("CalendarService:GetRange:SetRange", "error", err)
			}
		}
	}

	return resp, nil
}

// rangeKey returns "" when the cache is unavailable, disabling read-through.
func (s *CalendarService) rangeKey(ctx context.Context, participantID uuid.UUID, from, to time.Time) string {
	if s.cache == nil {
		return ""
	}
	version, err := s.cache.CalendarVersion(ctx, participantID)
	if err != nil {
		logger.Warn("CalendarService:rangeKey", "error", err, "participant_id", participantID.String())
		return ""
	}
	return fmt.Sprintf("%s:%d:%d:%d", participantID.String(), version, from.Unix(), to.Unix())
}
