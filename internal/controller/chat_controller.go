package controller

import (
	"errors"
	"strings"

	"mental-health-agent-be/internal/constant"
	"mental-health-agent-be/internal/dto"
	"mental-health-agent-be/internal/pkg/serverutils"
	"mental-health-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendChat(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.SendChat)
}

func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(constant.InvalidRequestDetail))
	}

	if err := serverutils.ValidateRequest(req); err != nil || strings.TrimSpace(req.Message) == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(constant.InvalidRequestDetail))
	}

	res, err := c.service.SendChat(ctx.UserContext(), serverutils.CallerIdentity(ctx), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRateLimited):
			return ctx.Status(fiber.StatusTooManyRequests).JSON(serverutils.ErrorResponse(constant.RateLimitedDetail))
		case errors.Is(err, service.ErrInputRejected):
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(constant.RejectedDetail))
		default:
			return err
		}
	}

	return ctx.JSON(res)
}
