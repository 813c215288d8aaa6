package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	walletLocal = "wallet_address"
	tokenLocal  = "access_token"
)

// TokenValidator checks a bearer token and returns the wallet it
// authenticates.
type TokenValidator func(token string) (string, error)

// RequireAuth returns a middleware that validates the Authorization bearer
// token and stores the wallet address in the request context. Routes without
// this middleware are public.
func RequireAuth(validate TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		var token string
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		}
		if token == "" {
			c.Set("WWW-Authenticate", `Bearer realm="Access to protected resource"`)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing or invalid Bearer token",
			})
		}

		walletAddress, err := validate(token)
		if err != nil {
			c.Set("WWW-Authenticate", `Bearer realm="Access to protected resource"`)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(walletLocal, walletAddress)
		c.Locals(tokenLocal, token)
		return c.Next()
	}
}

// WalletAddress retrieves the authenticated wallet from the request context.
// Empty outside RequireAuth-protected routes.
func WalletAddress(c *fiber.Ctx) string {
	wallet, _ := c.Locals(walletLocal).(string)
	return wallet
}

// BearerToken retrieves the raw validated token from the request context.
func BearerToken(c *fiber.Ctx) string {
	token, _ := c.Locals(tokenLocal).(string)
	return token
}
