package controller

import (
	"taskchat-be/internal/dto"
	"taskchat-be/internal/pkg/serverutils"
	"taskchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITaskController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	GetOne(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Toggle(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type taskController struct {
	taskService service.ITaskService
}

func NewTaskController(taskService service.ITaskService) ITaskController {
	return &taskController{taskService: taskService}
}

func (c *taskController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/:userId/tasks")
	h.Post("", serverutils.JwtMiddleware, c.Create)
	h.Get("", serverutils.JwtMiddleware, c.GetAll)
	h.Get("/:id", serverutils.JwtMiddleware, c.GetOne)
	h.Put("/:id", serverutils.JwtMiddleware, c.Update)
	h.Patch("/:id/complete", serverutils.JwtMiddleware, c.Toggle)
	h.Delete("/:id", serverutils.JwtMiddleware, c.Delete)
}

func (c *taskController) Create(ctx *fiber.Ctx) error {
	userId, err := requirePathUser(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.taskService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Task created", res))
}

func (c *taskController) GetAll(ctx *fiber.Ctx) error {
	userId, err := requirePathUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.taskService.GetAll(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Tasks retrieved", res))
}

func (c *taskController) GetOne(ctx *fiber.Ctx) error {
	userId, err := requirePathUser(ctx)
	if err != nil {
		return err
	}
	id, err := paramId(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.taskService.GetOne(ctx.Context(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Task retrieved", res))
}

func (c *taskController) Update(ctx *fiber.Ctx) error {
	userId, err := requirePathUser(ctx)
	if err != nil {
		return err
	}
	id, err := paramId(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.taskService.Update(ctx.Context(), userId, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Task updated", res))
}

func (c *taskController) Toggle(ctx *fiber.Ctx) error {
	userId, err := requirePathUser(ctx)
	if err != nil {
		return err
	}
	id, err := paramId(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.taskService.Toggle(ctx.Context(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Task toggled", res))
}

func (c *taskController) Delete(ctx *fiber.Ctx) error {
	userId, err := requirePathUser(ctx)
	if err != nil {
		return err
	}
	id, err := paramId(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.taskService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Task deleted", struct{}{}))
}
