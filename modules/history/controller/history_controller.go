package controller

import (
	"agreetime-api/core/constants"
	"agreetime-api/core/controller"
	"agreetime-api/core/errors"
	"agreetime-api/core/utils"
	"agreetime-api/modules/history/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HistoryController handles history HTTP requests
type HistoryController struct {
	controller.BaseController
	HistoryService service.HistoryServiceInterface
}

func NewHistoryController(svc service.HistoryServiceInterface) *HistoryController {
	return &HistoryController{
		BaseController: controller.NewBaseController(),
		HistoryService: svc,
	}
}

func (c *HistoryController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// ListHistory handles GET /events/:id/history
// @Summary List the audit trail for an event
// @Tags History
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} entity.EventHistory
// @Failure 403 {object} errors.AppError
// @Router /private/events/{id}/history [get]
func (c *HistoryController) ListHistory(ctx echo.Context) error {
	callerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.HistoryService.ListByEvent(ctx.Request().Context(), eventID, callerID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
