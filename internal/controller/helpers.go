package controller

import (
	"strconv"

	"taskchat-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// requirePathUser parses the :userId segment and rejects requests whose
// token identifies a different user. Every authenticated route is scoped to
// the user in its path.
func requirePathUser(ctx *fiber.Ctx) (int64, error) {
	pathId, err := strconv.ParseInt(ctx.Params("userId"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}
	if pathId != serverutils.AuthedUserId(ctx) {
		return 0, fiber.NewError(fiber.StatusForbidden, "cannot access another user's data")
	}
	return pathId, nil
}

func paramId(ctx *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Params(name), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
