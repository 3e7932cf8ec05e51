package controller

import (
	"agreetime-api/core/constants"
	"agreetime-api/core/controller"
	"agreetime-api/core/errors"
	"agreetime-api/core/params"
	"agreetime-api/core/utils"
	"agreetime-api/modules/approval/dto"
	"agreetime-api/modules/approval/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ApprovalController handles approval HTTP requests
type ApprovalController struct {
	controller.BaseController
	ApprovalService service.ApprovalServiceInterface
}

func NewApprovalController(svc service.ApprovalServiceInterface) *ApprovalController {
	return &ApprovalController{
		BaseController:  controller.NewBaseController(),
		ApprovalService: svc,
	}
}

func (c *ApprovalController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// RecordDecision handles POST /events/:id/decisions
// @Summary Record an approval decision
// @Description Approve or reject a pending event; a veto rejects it, unanimity confirms it
// @Tags Approval
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.DecisionRequest true "Decision"
// @Success 200 {object} dto.DecisionResponse
// @Failure 403 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/events/{id}/decisions [post]
func (c *ApprovalController) RecordDecision(ctx echo.Context) error {
	approverID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.DecisionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.ApprovalService.RecordDecision(ctx.Request().Context(), eventID, approverID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Decision recorded successfully")
}

// ListForEvent handles GET /events/:id/decisions
// @Summary List decisions for an event
// @Tags Approval
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} dto.ApprovalRecordResponse
// @Failure 404 {object} errors.AppError
// @Router /private/events/{id}/decisions [get]
func (c *ApprovalController) ListForEvent(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.ApprovalService.ListForEvent(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ListPending handles GET /approvals/pending
// @Summary List my pending approvals
// @Description Events still awaiting the caller's decision
// @Tags Approval
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.PaginatedPendingResponse
// @Failure 401 {object} errors.AppError
// @Router /private/approvals/pending [get]
func (c *ApprovalController) ListPending(ctx echo.Context) error {
	approverID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	queryParams := params.NewQueryParams(ctx)
	result, appErr := c.ApprovalService.ListPending(ctx.Request().Context(), approverID, *queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
