package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// HeaderUser cabecera con el usuario actual (sin autenticación: lo aporta el colaborador).
const HeaderUser = "X-User"

// LocalUser key de Fiber locals para el usuario actual.
const LocalUser = "user"

// CurrentUser carga el usuario de X-User en c.Locals, o defaultUser si la cabecera falta.
func CurrentUser(defaultUser string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := strings.TrimSpace(c.Get(HeaderUser))
		if user == "" {
			user = defaultUser
		}
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// GetUser devuelve el usuario actual (después de CurrentUser).
func GetUser(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUser).(string)
	return s
}

// RequestLogger registra cada petición; los 5xx incluyen el error original.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			// Deja que el ErrorHandler de Fiber fije el status antes de registrar
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
			if err, ok := c.Locals(LocalError).(error); ok {
				ev = ev.Err(err)
			} else if chainErr != nil {
				ev = ev.Err(chainErr)
			}
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user", GetUser(c)).
			Msg("petición HTTP")
		return nil
	}
}
