package cooperationHandler

import (
	"context"
	"errors"
	"time"

	"github.com/TheNopenator/EcoVision/internal/api/cooperation"
	"github.com/TheNopenator/EcoVision/internal/entity"
	contextPkg "github.com/TheNopenator/EcoVision/pkg/context"
	"github.com/TheNopenator/EcoVision/pkg/handlerUtil"
	"github.com/TheNopenator/EcoVision/pkg/log"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

func (h *CooperationHandler) CreateCooperationRequest(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing cooperation request")

	var envelope cooperation.CooperationEnvelope
	if err := ctx.BodyParser(&envelope); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	req := envelope.CreateCooperationRequest
	if envelope.Content != "" {
		req = cooperation.CreateCooperationRequest{}
		if err := jsoniter.UnmarshalFromString(envelope.Content, &req); err != nil {
			return errHandler.Handle(ctx, requestID, cooperation.ErrInvalidContent, ctx.Path(), "create_cooperation")
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	result, err := h.cooperationService.CreateCooperationRequest(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_cooperation")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, result)
	}
}

func (h *CooperationHandler) GetCooperationRequests(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	status := ctx.Query("status")
	if status != "" && !validStatus(status) {
		return errHandler.HandleValidationError(ctx, requestID, errors.New("unknown status filter"), ctx.Path())
	}

	requests, err := h.cooperationService.GetCooperationRequests(c, status)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_cooperation_requests")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, cooperation.ToCooperationResponses(requests))
	}
}

func (h *CooperationHandler) UpdateStatus(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req cooperation.UpdateStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.cooperationService.UpdateStatus(c, ctx.Params("id"), req.Status); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "update_cooperation_status")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{"id": ctx.Params("id"), "status": req.Status})
	}
}

func validStatus(status string) bool {
	switch entity.CooperationStatus(status) {
	case entity.CooperationStatusNew, entity.CooperationStatusContacted, entity.CooperationStatusClosed:
		return true
	}
	return false
}
