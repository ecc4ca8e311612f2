package controller

import (
	"taskchat-be/internal/dto"
	"taskchat-be/internal/pkg/serverutils"
	"taskchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	GetConversations(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{chatService: chatService}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	// Middleware is attached per route; a group-level Use on "/:userId"
	// would swallow the unauthenticated /auth prefix as a parameter.
	h := r.Group("/:userId")
	h.Post("/chat", serverutils.JwtMiddleware, c.Chat)
	h.Get("/conversations", serverutils.JwtMiddleware, c.GetConversations)
	h.Get("/conversations/:id/messages", serverutils.JwtMiddleware, c.GetMessages)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	userId, err := requirePathUser(ctx)
	if err != nil {
		return err
	}

	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Chat(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat turn completed", res))
}

func (c *chatController) GetConversations(ctx *fiber.Ctx) error {
	userId, err := requirePathUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatService.GetConversations(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversations retrieved", res))
}

func (c *chatController) GetMessages(ctx *fiber.Ctx) error {
	userId, err := requirePathUser(ctx)
	if err != nil {
		return err
	}
	conversationId, err := paramId(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.chatService.GetMessages(ctx.Context(), userId, conversationId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Messages retrieved", res))
}
