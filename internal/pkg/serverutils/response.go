package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// ErrorResponse is the body of every non-200 reply: {"detail": "..."}.
func ErrorResponse(detail string) fiber.Map {
	return fiber.Map{"detail": detail}
}

// CallerIdentity keys per-caller state such as rate-limit counters and audit
// events, so it outlives the request. ctx.IP may alias the request buffer
// when it comes from the proxy header, hence the copy.
func CallerIdentity(ctx *fiber.Ctx) string {
	return utils.CopyString(ctx.IP())
}
