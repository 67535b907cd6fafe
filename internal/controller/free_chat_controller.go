// FILE: internal/controller/free_chat_controller.go
package controller

import (
	"nexusai-be/internal/dto"
	"nexusai-be/internal/pkg/serverutils"
	"nexusai-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IFreeChatController interface {
	RegisterRoutes(r fiber.Router)
	SendMessage(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

// freeChatController serves the public chat surface. Requests without a
// token run as guest sessions; a valid token attaches the exchange to the
// caller's account.
type freeChatController struct {
	service service.IChatService
}

func NewFreeChatController(service service.IChatService) IFreeChatController {
	return &freeChatController{service: service}
}

func (c *freeChatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/free")
	h.Use(serverutils.OptionalJwtMiddleware)
	h.Post("/message", c.SendMessage)
	h.Get("/health", c.Health)
}

func optionalUserId(ctx *fiber.Ctx) *uuid.UUID {
	raw := ctx.Locals("user_id")
	if raw == nil {
		return nil
	}
	idStr, ok := raw.(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil
	}
	return &id
}

func (c *freeChatController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendMessage(ctx.Context(), optionalUserId(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Message processed", res))
}

func (c *freeChatController) Health(ctx *fiber.Ctx) error {
	res, err := c.service.HealthCheck(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Assistant health", res))
}
