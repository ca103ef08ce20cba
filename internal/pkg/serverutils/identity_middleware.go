package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Locals keys set by the identity middlewares.
const (
	LocalOwnerId         = "owner_id"
	LocalIsAuthenticated = "is_authenticated"
)

// AnonymousIdHeader carries the client-generated identity for callers that
// have no account yet. Their data lives on the temporary track until promotion.
const AnonymousIdHeader = "X-Anonymous-Id"

func parseBearer(ctx *fiber.Ctx) (string, bool) {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return "", false
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", false
	}
	return sub, true
}

// JwtMiddleware rejects requests without a valid signed token.
func JwtMiddleware(ctx *fiber.Ctx) error {
	sub, ok := parseBearer(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Missing or invalid token"))
	}
	ctx.Locals(LocalOwnerId, sub)
	ctx.Locals(LocalIsAuthenticated, true)
	return ctx.Next()
}

// IdentityMiddleware accepts either a signed token or an anonymous id header.
// A valid token wins even when both are present.
func IdentityMiddleware(ctx *fiber.Ctx) error {
	if sub, ok := parseBearer(ctx); ok {
		ctx.Locals(LocalOwnerId, sub)
		ctx.Locals(LocalIsAuthenticated, true)
		return ctx.Next()
	}
	if anonId := ctx.Get(AnonymousIdHeader); anonId != "" {
		ctx.Locals(LocalOwnerId, anonId)
		ctx.Locals(LocalIsAuthenticated, false)
		return ctx.Next()
	}
	return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Missing identity"))
}

// OwnerId returns the caller identity set by the identity middlewares.
func OwnerId(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals(LocalOwnerId).(string)
	return id
}

// IsAuthenticated reports whether the caller presented a valid token.
func IsAuthenticated(ctx *fiber.Ctx) bool {
	ok, _ := ctx.Locals(LocalIsAuthenticated).(bool)
	return ok
}
