package controller

import (
	"agreetime-api/core/constants"
	"agreetime-api/core/controller"
	"agreetime-api/core/errors"
	"agreetime-api/core/utils"
	"agreetime-api/modules/attachment/dto"
	"agreetime-api/modules/attachment/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AttachmentController handles attachment HTTP requests
type AttachmentController struct {
	controller.BaseController
	AttachmentService service.AttachmentServiceInterface
}

func NewAttachmentController(svc service.AttachmentServiceInterface) *AttachmentController {
	return &AttachmentController{
		BaseController:    controller.NewBaseController(),
		AttachmentService: svc,
	}
}

func (c *AttachmentController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// CreateAttachment handles POST /events/:id/attachments
// @Summary Attach a file to an event
// @Description Registers the file and returns a presigned upload URL
// @Tags Attachment
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.CreateAttachmentRequest true "Attachment metadata"
// @Success 200 {object} dto.CreateAttachmentResponse
// @Failure 403 {object} errors.AppError
// @Router /private/events/{id}/attachments [post]
func (c *AttachmentController) CreateAttachment(ctx echo.Context) error {
	uploaderID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.CreateAttachmentRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AttachmentService.Create(ctx.Request().Context(), eventID, uploaderID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Attachment created successfully")
}

// ListAttachments handles GET /events/:id/attachments
// @Summary List attachments on an event
// @Tags Attachment
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} dto.AttachmentResponse
// @Failure 403 {object} errors.AppError
// @Router /private/events/{id}/attachments [get]
func (c *AttachmentController) ListAttachments(ctx echo.Context) error {
	callerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.AttachmentService.ListByEvent(ctx.Request().Context(), eventID, callerID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// DownloadAttachment handles GET /attachments/:id/download
// @Summary Get a presigned download URL
// @Tags Attachment
// @Security BearerAuth
// @Produce json
// @Param id path string true "Attachment ID"
// @Success 200 {object} dto.DownloadResponse
// @Failure 403 {object} errors.AppError
// @Router /private/attachments/{id}/download [get]
func (c *AttachmentController) DownloadAttachment(ctx echo.Context) error {
	callerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	attachmentID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid attachment ID")
	}

	result, appErr := c.AttachmentService.Download(ctx.Request().Context(), attachmentID, callerID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// DeleteAttachment handles DELETE /attachments/:id
// @Summary Delete an attachment
// @Description Allowed to the uploader or the event creator
// @Tags Attachment
// @Security BearerAuth
// @Produce json
// @Param id path string true "Attachment ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.AppError
// @Router /private/attachments/{id} [delete]
func (c *AttachmentController) DeleteAttachment(ctx echo.Context) error {
	callerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	attachmentID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid attachment ID")
	}

	if appErr := c.AttachmentService.Delete(ctx.Request().Context(), attachmentID, callerID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Attachment deleted successfully")
}
