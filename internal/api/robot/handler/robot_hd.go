package robotHandler

import (
	"context"
	"time"

	"github.com/TheNopenator/EcoVision/internal/api/robot"
	contextPkg "github.com/TheNopenator/EcoVision/pkg/context"
	"github.com/TheNopenator/EcoVision/pkg/handlerUtil"
	"github.com/TheNopenator/EcoVision/pkg/log"
	"github.com/gofiber/fiber/v2"
)

func (h *RobotHandler) ContactRobot(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing contact robot request")

	var req robot.ContactRobotRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	result, err := h.robotService.ContactRobot(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "contact_robot")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *RobotHandler) GetRobotRequests(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	requests, err := h.robotService.GetRobotRequests(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_robot_requests")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, robot.ToRobotRequestResponses(requests))
	}
}

func (h *RobotHandler) GetFleet(ctx *fiber.Ctx) error {
	return handlerUtil.New(h.log).HandleSuccess(ctx, fiber.StatusOK, h.robotService.GetFleet())
}
