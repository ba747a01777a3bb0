package authHandler

import (
	"context"
	"time"

	"github.com/TheNopenator/EcoVision/internal/api/auth"
	contextPkg "github.com/TheNopenator/EcoVision/pkg/context"
	"github.com/TheNopenator/EcoVision/pkg/handlerUtil"
	jwtPkg "github.com/TheNopenator/EcoVision/pkg/jwt"
	"github.com/gofiber/fiber/v2"
)

func (h *AuthHandler) HandleLogin(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req auth.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.authService.Login(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "login")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AuthHandler) HandleMe(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	claims, err := jwtPkg.GetOperator(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, err.Error())
	}

	var expiresAt int64
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Unix()
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, auth.OperatorResponse{
		Subject:   claims.Subject,
		Role:      claims.Role,
		ExpiresAt: expiresAt,
	})
}
