package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pdf-rag-be/internal/dto"
	"pdf-rag-be/internal/pkg/serverutils"
	"pdf-rag-be/internal/service"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Token(ctx *fiber.Ctx) error
	Verify(ctx *fiber.Ctx) error
}

type authController struct {
	authService service.IAuthService
}

func NewAuthController(authService service.IAuthService) IAuthController {
	return &authController{
		authService: authService,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("token", c.Token)
	h.Get("verify", serverutils.JwtMiddleware, c.Verify)
}

func (c *authController) Token(ctx *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := ctx.BodyParser(&req); err != nil && len(ctx.Body()) > 0 {
		return err
	}

	res, err := c.authService.IssueToken(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success issue token", res))
}

func (c *authController) Verify(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	return ctx.JSON(serverutils.SuccessResponse("Token is valid", &dto.VerifyResponse{
		Valid:  true,
		UserId: userId,
	}))
}
