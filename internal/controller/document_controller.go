package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pdf-rag-be/internal/pkg/apperrors"
	"pdf-rag-be/internal/pkg/serverutils"
	"pdf-rag-be/internal/service"
)

// maxUploadSize caps PDF uploads at 10 MB.
const maxUploadSize = 10 << 20

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	ShowImage(ctx *fiber.Ctx) error
	Reprocess(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/documents")
	h.Use(serverutils.JwtMiddleware)
	h.Post("upload", c.Upload)
	h.Get("", c.List)
	// Registered before :id so "images" is not consumed as a document id.
	h.Get("images/:imageId", c.ShowImage)
	h.Get(":id", c.Show)
	h.Post(":id/reprocess", c.Reprocess)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return apperrors.Validation("file is required")
	}
	if fileHeader.Size > maxUploadSize {
		return apperrors.Validation("file exceeds the 10MB limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	res, err := c.documentService.Upload(ctx.Context(), userId, fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Success upload document", res))
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.documentService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list documents", res))
}

func (c *documentController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperrors.Validation("invalid document id")
	}

	res, err := c.documentService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show document", res))
}

func (c *documentController) ShowImage(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	imageId := ctx.Params("imageId")
	if imageId == "" {
		return apperrors.Validation("invalid image id")
	}

	res, err := c.documentService.ShowImage(ctx.Context(), userId, imageId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show image", res))
}

func (c *documentController) Reprocess(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperrors.Validation("invalid document id")
	}

	res, err := c.documentService.Reprocess(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Success requeue document", res))
}
