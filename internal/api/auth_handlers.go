package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pumpjaine/pumpjaine-backend/internal/api/middleware"
	"github.com/pumpjaine/pumpjaine-backend/internal/utils"
)

type nonceRequest struct {
	WalletAddress string `json:"wallet_address" validate:"required"`
}

type verifyRequest struct {
	Message   string `json:"message" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

func (s *APIServer) handleAuthNonce(c *fiber.Ctx) error {
	var req nonceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return badRequest(c, "wallet_address is required")
	}

	challenge, err := s.auth.IssueNonce(req.WalletAddress)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(challenge)
}

func (s *APIServer) handleAuthVerify(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return badRequest(c, "message and signature are required")
	}

	result, err := s.auth.VerifySignature(req.Message, req.Signature)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(result)
}

// handleSiweTemplate exposes the fixed parts of the sign-in message so
// clients can preview what the wallet will be asked to sign.
func (s *APIServer) handleSiweTemplate(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"domain":    s.cfg.Domain,
		"uri":       s.cfg.URI,
		"chain_id":  s.cfg.ChainID,
		"version":   "1",
		"statement": utils.SiweStatement,
	})
}

func (s *APIServer) handleAuthMe(c *fiber.Ctx) error {
	stats, err := s.users.Stats(middleware.WalletAddress(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stats)
}

func (s *APIServer) handleAuthLogout(c *fiber.Ctx) error {
	if err := s.auth.Logout(middleware.BearerToken(c)); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}
