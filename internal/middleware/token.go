package middleware

import (
	jwtPkg "github.com/TheNopenator/EcoVision/pkg/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type tokenMiddleware struct {
	secret string
}

func newTokenMiddleware(secret string) *tokenMiddleware {
	return &tokenMiddleware{secret: secret}
}

// NewTokenMiddleware admits only bearer tokens carrying the operator role.
func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	fields := logrus.Fields{
		"request_id": m.GetRequestID(ctx),
		"path":       ctx.Path(),
		"method":     ctx.Method(),
		"client_ip":  ctx.IP(),
	}

	claims, err := jwtPkg.VerifyTokenHeader(ctx, m.token.secret)
	if err != nil {
		fields["error"] = err.Error()
		m.log.WithFields(fields).Warn("Token verification failed")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, access token invalid or expired",
		})
	}

	if claims.Role != jwtPkg.RoleOperator {
		fields["sub"] = claims.Subject
		fields["role"] = claims.Role
		m.log.WithFields(fields).Warn("Token lacks operator role")
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Operator access required",
		})
	}

	ctx.Locals(jwtPkg.OperatorLocalsKey, claims)

	fields["sub"] = claims.Subject
	m.log.WithFields(fields).Debug("Operator authenticated")
	return ctx.Next()
}
