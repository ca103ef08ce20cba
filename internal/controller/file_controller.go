package controller

import (
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFileController interface {
	RegisterRoutes(r fiber.Router)
	GenerateUploadURL(ctx *fiber.Ctx) error
	ResolveURL(ctx *fiber.Ctx) error
}

type fileController struct {
	fileService service.IFileService
}

func NewFileController(fileService service.IFileService) IFileController {
	return &fileController{
		fileService: fileService,
	}
}

func (c *fileController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/file/v1")
	h.Use(serverutils.IdentityMiddleware)
	h.Post("upload-url", c.GenerateUploadURL)
	h.Get(":id/url", c.ResolveURL)
}

func (c *fileController) GenerateUploadURL(ctx *fiber.Ctx) error {
	res, err := c.fileService.GenerateUploadURL(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create upload url", res))
}

func (c *fileController) ResolveURL(ctx *fiber.Ctx) error {
	res, err := c.fileService.ResolveFileURL(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success resolve file url", res))
}
