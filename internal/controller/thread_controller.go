package controller

import (
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"
	"ai-chat-be/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IThreadController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	UpdateTitle(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Share(ctx *fiber.Ctx) error
	Clone(ctx *fiber.Ctx) error
	Branch(ctx *fiber.Ctx) error
	Promote(ctx *fiber.Ctx) error
}

type threadController struct {
	threadService service.IThreadService
	forkService   service.IForkService
}

func NewThreadController(threadService service.IThreadService, forkService service.IForkService) IThreadController {
	return &threadController{
		threadService: threadService,
		forkService:   forkService,
	}
}

func (c *threadController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/thread/v1")
	h.Use(serverutils.IdentityMiddleware) // signed-in or anonymous, both tracked
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Put(":id/title", c.UpdateTitle)
	h.Delete(":id", c.Delete)
	h.Post(":id/share", c.Share)
	h.Post("clone/:id", c.Clone)
	h.Post("branch", c.Branch)
	h.Post("promote", c.Promote)
}

// callerTrack maps the identity kind to the storage track.
func callerTrack(ctx *fiber.Ctx) entity.Track {
	if serverutils.IsAuthenticated(ctx) {
		return entity.TrackPermanent
	}
	return entity.TrackTemporary
}

func (c *threadController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateThreadRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.threadService.CreateThread(ctx.Context(), serverutils.OwnerId(ctx), callerTrack(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create thread", res))
}

func (c *threadController) List(ctx *fiber.Ctx) error {
	res, err := c.threadService.GetThreads(ctx.Context(), serverutils.OwnerId(ctx), callerTrack(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list threads", res))
}

func (c *threadController) UpdateTitle(ctx *fiber.Ctx) error {
	var req dto.UpdateThreadTitleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	err := c.threadService.UpdateTitle(ctx.Context(), serverutils.OwnerId(ctx), callerTrack(ctx), ctx.Params("id"), req.Title)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success update title", nil))
}

func (c *threadController) Delete(ctx *fiber.Ctx) error {
	err := c.threadService.DeleteThread(ctx.Context(), serverutils.OwnerId(ctx), callerTrack(ctx), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete thread", nil))
}

func (c *threadController) Share(ctx *fiber.Ctx) error {
	if !serverutils.IsAuthenticated(ctx) {
		return apperrors.Unauthorized("sharing requires a signed-in account")
	}
	res, err := c.threadService.ShareThread(ctx.Context(), serverutils.OwnerId(ctx), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success share thread", res))
}

func (c *threadController) Clone(ctx *fiber.Ctx) error {
	if !serverutils.IsAuthenticated(ctx) {
		return apperrors.Unauthorized("cloning requires a signed-in account")
	}
	rowId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperrors.InvalidArgument("invalid thread id")
	}
	res, err := c.threadService.CloneThread(ctx.Context(), serverutils.OwnerId(ctx), rowId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success clone thread", res))
}

func (c *threadController) Branch(ctx *fiber.Ctx) error {
	var req dto.BranchThreadRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.forkService.BranchOff(ctx.Context(), serverutils.OwnerId(ctx), callerTrack(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success branch thread", res))
}

func (c *threadController) Promote(ctx *fiber.Ctx) error {
	if !serverutils.IsAuthenticated(ctx) {
		return apperrors.Unauthorized("promotion requires a signed-in account")
	}
	var req dto.PromoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	err := c.forkService.Promote(ctx.Context(), serverutils.OwnerId(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success promote threads", nil))
}
