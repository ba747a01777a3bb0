package config

import (
	"errors"

	"github.com/TheNopenator/EcoVision/pkg/handlerUtil"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func NewFiber(cfg AppConfig, logger *logrus.Logger) *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:           cfg.Name,
			BodyLimit:         cfg.BodyLimitMB * 1024 * 1024,
			DisableKeepalive:  false,
			StrictRouting:     false,
			CaseSensitive:     true,
			EnablePrintRoutes: cfg.Env == "development",
			JSONEncoder:       jsoniter.Marshal,
			JSONDecoder:       jsoniter.Unmarshal,
			ErrorHandler:      errorHandler(logger),
		})

	return app
}

// errorHandler renders errors that escape a handler, such as unmatched
// routes or oversized bodies, in the same {"error": ...} shape.
func errorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	errHandler := handlerUtil.New(logger)

	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}
		return errHandler.Handle(c, "unknown", err, c.Path(), "fiber")
	}
}
