package controller

import (
	"utm-builder-be/internal/dto"
	"utm-builder-be/internal/pkg/serverutils"
	"utm-builder-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ILinkController interface {
	RegisterRoutes(r fiber.Router)
	BuildLink(ctx *fiber.Ctx) error
	GetCampaigns(ctx *fiber.Ctx) error
	GetContentTypes(ctx *fiber.Ctx) error
	GetStats(ctx *fiber.Ctx) error
}

type linkController struct {
	links    service.ILinkService
	consumer service.IConsumerService
}

func NewLinkController(links service.ILinkService, consumer service.IConsumerService) ILinkController {
	return &linkController{links: links, consumer: consumer}
}

func (c *linkController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/links")
	h.Post("/", c.BuildLink)
	h.Get("/campaigns", c.GetCampaigns)
	h.Get("/content-types", c.GetContentTypes)
	h.Get("/stats", c.GetStats)
}

func (c *linkController) BuildLink(ctx *fiber.Ctx) error {
	var req dto.BuildLinkRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}

	res, err := c.links.BuildLink(req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.JSON(res)
}

func (c *linkController) GetCampaigns(ctx *fiber.Ctx) error {
	return ctx.JSON(c.links.ListCampaigns())
}

func (c *linkController) GetContentTypes(ctx *fiber.Ctx) error {
	return ctx.JSON(c.links.ListContentTypes())
}

func (c *linkController) GetStats(ctx *fiber.Ctx) error {
	return ctx.JSON(c.consumer.Stats())
}
