package controller

import (
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"
	"ai-chat-be/pkg/apperrors"
	"ai-chat-be/pkg/modelcatalog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IMessageController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	ListByThread(ctx *fiber.Ctx) error
	ListShared(ctx *fiber.Ctx) error
	UpdateContent(ctx *fiber.Ctx) error
	ListAttachments(ctx *fiber.Ctx) error
	ListModels(ctx *fiber.Ctx) error
}

type messageController struct {
	messageService service.IMessageService
}

func NewMessageController(messageService service.IMessageService) IMessageController {
	return &messageController{
		messageService: messageService,
	}
}

func (c *messageController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/message/v1")
	// Registered before the identity middleware: the model list needs no
	// identity at all, and shared reads take a strict JWT instead of the
	// anonymous fallback.
	h.Get("shared/:id", serverutils.JwtMiddleware, c.ListShared)
	h.Get("models", c.ListModels)

	h.Use(serverutils.IdentityMiddleware)
	h.Post("", c.Create)
	h.Get("thread/:id", c.ListByThread)
	h.Put(":id", c.UpdateContent)
	h.Get("attachments", c.ListAttachments)
}

func (c *messageController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.messageService.CreateMessage(ctx.Context(), serverutils.OwnerId(ctx), callerTrack(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create message", res))
}

func (c *messageController) ListByThread(ctx *fiber.Ctx) error {
	res, err := c.messageService.GetMessages(ctx.Context(), serverutils.OwnerId(ctx), callerTrack(ctx), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list messages", res))
}

func (c *messageController) ListShared(ctx *fiber.Ctx) error {
	rowId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperrors.InvalidArgument("invalid thread id")
	}
	res, err := c.messageService.GetSharedMessages(ctx.Context(), rowId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list shared messages", res))
}

func (c *messageController) UpdateContent(ctx *fiber.Ctx) error {
	messageId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperrors.InvalidArgument("invalid message id")
	}
	var req dto.UpdateMessageContentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	err = c.messageService.UpdateMessageContent(ctx.Context(), serverutils.OwnerId(ctx), callerTrack(ctx), messageId, req.Content)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success update message", nil))
}

func (c *messageController) ListAttachments(ctx *fiber.Ctx) error {
	if !serverutils.IsAuthenticated(ctx) {
		return apperrors.Unauthorized("attachments require a signed-in account")
	}
	res, err := c.messageService.ListAttachments(ctx.Context(), serverutils.OwnerId(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list attachments", res))
}

func (c *messageController) ListModels(ctx *fiber.Ctx) error {
	res := make([]*dto.ModelInfoResponse, 0, len(modelcatalog.Supported))
	for _, m := range modelcatalog.Supported {
		res = append(res, &dto.ModelInfoResponse{
			Label: m.Label,
			Name:  m.Name,
			Scope: string(m.Scope),
		})
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list models", res))
}
