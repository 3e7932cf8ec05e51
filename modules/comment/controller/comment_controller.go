package controller

import (
	"agreetime-api/core/constants"
	"agreetime-api/core/controller"
	"agreetime-api/core/errors"
	"agreetime-api/core/params"
	"agreetime-api/core/utils"
	"agreetime-api/modules/comment/dto"
	"agreetime-api/modules/comment/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CommentController handles comment HTTP requests
type CommentController struct {
	controller.BaseController
	CommentService service.CommentServiceInterface
}

func NewCommentController(svc service.CommentServiceInterface) *CommentController {
	return &CommentController{
		BaseController: controller.NewBaseController(),
		CommentService: svc,
	}
}

func (c *CommentController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// CreateComment handles POST /events/:id/comments
// @Summary Post a comment on an event
// @Tags Comment
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.CreateCommentRequest true "Comment"
// @Success 200 {object} dto.CommentResponse
// @Failure 403 {object} errors.AppError
// @Router /private/events/{id}/comments [post]
func (c *CommentController) CreateComment(ctx echo.Context) error {
	authorID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.CreateCommentRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.CommentService.Create(ctx.Request().Context(), eventID, authorID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Comment created successfully")
}

// ListComments handles GET /events/:id/comments
// @Summary List comments on an event
// @Tags Comment
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.PaginatedCommentResponse
// @Failure 403 {object} errors.AppError
// @Router /private/events/{id}/comments [get]
func (c *CommentController) ListComments(ctx echo.Context) error {
	callerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	queryParams := params.NewQueryParams(ctx)
	result, appErr := c.CommentService.ListByEvent(ctx.Request().Context(), eventID, callerID, *queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// DeleteComment handles DELETE /comments/:id
// @Summary Delete a comment
// @Description Allowed to the comment author or the event creator
// @Tags Comment
// @Security BearerAuth
// @Produce json
// @Param id path string true "Comment ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.AppError
// @Router /private/comments/{id} [delete]
func (c *CommentController) DeleteComment(ctx echo.Context) error {
	callerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	commentID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid comment ID")
	}

	if appErr := c.CommentService.Delete(ctx.Request().Context(), commentID, callerID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Comment deleted successfully")
}
