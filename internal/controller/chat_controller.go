package controller

import (
	"bufio"
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"pdf-rag-be/internal/dto"
	"pdf-rag-be/internal/pkg/apperrors"
	"pdf-rag-be/internal/pkg/serverutils"
	"pdf-rag-be/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	ChatStream(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", serverutils.JwtMiddleware, c.Chat)
	r.Post("/chatstream", serverutils.JwtMiddleware, c.ChatStream)
	r.Get("/chat/history/:documentId", serverutils.JwtMiddleware, c.History)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Chat(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success chat", res))
}

// ChatStream answers over SSE: a citations event, then chunk events, then
// done. Validation and retrieval failures surface as plain HTTP errors
// before any streaming starts.
func (c *chatController) ChatStream(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	// The stream outlives this handler, so it gets its own context. Cancel
	// fires when the client disconnects (flush fails) or the stream ends.
	streamCtx, cancel := context.WithCancel(context.Background())

	events, err := c.chatService.ChatStream(streamCtx, userId, &req)
	if err != nil {
		cancel()
		return err
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		for evt := range events {
			frame, err := evt.Encode()
			if err != nil {
				return
			}
			if _, err := w.WriteString(frame); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				// Client went away; cancelling the context stops generation
				// and prevents the partial exchange from persisting.
				return
			}
		}
	}))

	return nil
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	documentId, err := uuid.Parse(ctx.Params("documentId"))
	if err != nil {
		return apperrors.Validation("invalid document id")
	}

	res, err := c.chatService.History(ctx.Context(), userId, documentId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success chat history", res))
}
