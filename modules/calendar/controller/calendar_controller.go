package controller

import (
	"time"

	"agreetime-api/core/constants"
	"agreetime-api/core/controller"
	"agreetime-api/core/errors"
	"agreetime-api/core/utils"
	"agreetime-api/modules/calendar/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CalendarController handles calendar HTTP requests
type CalendarController struct {
	controller.BaseController
	CalendarService service.CalendarServiceInterface
}

func NewCalendarController(svc service.CalendarServiceInterface) *CalendarController {
	return &CalendarController{
		BaseController:  controller.NewBaseController(),
		CalendarService: svc,
	}
}

func (c *CalendarController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}

	return claims.UserID, nil
}

// GetCalendar handles GET /calendar
// @Summary Calendar read view
// @Description Confirmed commitments for a participant over a time range, ordered by start time
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Param participant query string false "Participant ID; defaults to the caller"
// @Param from query string true "Range start (RFC3339)"
// @Param to query string true "Range end (RFC3339)"
// @Success 200 {object} dto.CalendarResponse
// @Failure 400 {object} errors.AppError
// @Router /private/calendar [get]
func (c *CalendarController) GetCalendar(ctx echo.Context) error {
	callerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	participantID := callerID
	if raw := ctx.QueryParam("participant"); raw != "" {
		participantID, err = uuid.Parse(raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "Invalid participant ID")
		}
	}

	from, err := time.Parse(time.RFC3339, ctx.QueryParam("from"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid from timestamp")
	}
	to, err := time.Parse(time.RFC3339, ctx.QueryParam("to"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid to timestamp")
	}

	result, appErr := c.CalendarService.GetRange(ctx.Request().Context(), participantID, from, to)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
