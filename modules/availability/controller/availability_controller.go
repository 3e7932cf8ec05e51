package controller

import (
	"time"

	"agreetime-api/core/constants"
	"agreetime-api/core/controller"
	"agreetime-api/core/errors"
	"agreetime-api/core/utils"
	"agreetime-api/modules/availability/dto"
	"agreetime-api/modules/availability/entity"
	"agreetime-api/modules/availability/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AvailabilityController handles availability HTTP requests
type AvailabilityController struct {
	controller.BaseController
	AvailabilityService service.AvailabilityServiceInterface
}

func NewAvailabilityController(svc service.AvailabilityServiceInterface) *AvailabilityController {
	return &AvailabilityController{
		BaseController:      controller.NewBaseController(),
		AvailabilityService: svc,
	}
}

func (c *AvailabilityController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// GetOverlaps handles GET /availability/overlaps
// @Summary Busy intervals within a range
// @Description Returns the caller's committed intervals overlapping [from,to) plus the free gaps
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Param from query string true "Range start (RFC3339)"
// @Param to query string true "Range end (RFC3339)"
// @Success 200 {object} dto.OverlapsResponse
// @Failure 400 {object} errors.AppError
// @Router /private/availability/overlaps [get]
func (c *AvailabilityController) GetOverlaps(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	from, err := time.Parse(time.RFC3339, ctx.QueryParam("from"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid 'from' timestamp")
	}
	to, err := time.Parse(time.RFC3339, ctx.QueryParam("to"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid 'to' timestamp")
	}

	interval := entity.Interval{Start: from, End: to}
	entries, appErr := c.AvailabilityService.QueryOverlaps(ctx.Request().Context(), userID, interval)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.ToOverlapsResponse(userID.String(), interval, entries), "Success")
}
