package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/yorikya/note-speaker/internal/dto"
	"github.com/yorikya/note-speaker/internal/pkg/serverutils"
	"github.com/yorikya/note-speaker/internal/service"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Command(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	EndSession(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
}

func NewAssistantController(assistantService service.IAssistantService) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Post("command", c.Command)
	h.Get("health", c.Health)
	h.Get("sessions/:id", c.GetSession)
	h.Delete("sessions/:id", c.EndSession)
}

func (c *assistantController) Command(ctx *fiber.Ctx) error {
	var req dto.CommandRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.Command(ctx.UserContext(), &req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Command handled", res))
}

func (c *assistantController) GetSession(ctx *fiber.Ctx) error {
	res, err := c.assistantService.GetSession(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return sessionError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Session", res))
}

func (c *assistantController) EndSession(ctx *fiber.Ctx) error {
	if err := c.assistantService.EndSession(ctx.UserContext(), ctx.Params("id")); err != nil {
		return sessionError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Session ended", nil))
}

func (c *assistantController) Health(ctx *fiber.Ctx) error {
	res := c.assistantService.Health(ctx.UserContext(), ctx.QueryBool("deep", false))
	return ctx.JSON(serverutils.SuccessResponse("Health", res))
}

func sessionError(err error) error {
	if errors.Is(err, service.ErrSessionNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return err
}
