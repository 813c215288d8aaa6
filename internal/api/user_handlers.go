package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pumpjaine/pumpjaine-backend/internal/api/middleware"
	"github.com/pumpjaine/pumpjaine-backend/internal/utils"
)

func (s *APIServer) handleLeaderboard(c *fiber.Ctx) error {
	entries, err := s.users.Leaderboard(c.QueryInt("limit"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"leaderboard": entries,
		"count":       len(entries),
	})
}

func (s *APIServer) handleUserSummary(c *fiber.Ctx) error {
	summary, err := s.users.Summary()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(summary)
}

func (s *APIServer) handleMe(c *fiber.Ctx) error {
	stats, err := s.users.Stats(middleware.WalletAddress(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stats)
}

func (s *APIServer) handleMyHistory(c *fiber.Ctx) error {
	deployments, err := s.deploys.HistoryForWallet(middleware.WalletAddress(c), c.QueryInt("limit"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"deployments": deployments,
		"count":       len(deployments),
	})
}

func (s *APIServer) handleUserStats(c *fiber.Ctx) error {
	address := c.Params("address")
	if !utils.IsHexAddress(address) {
		return badRequest(c, "invalid wallet address")
	}
	stats, err := s.users.Stats(address)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stats)
}

func (s *APIServer) handleUserHistory(c *fiber.Ctx) error {
	address := c.Params("address")
	if !utils.IsHexAddress(address) {
		return badRequest(c, "invalid wallet address")
	}
	deployments, err := s.deploys.HistoryForWallet(address, c.QueryInt("limit"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"wallet_address": address,
		"deployments":    deployments,
		"count":          len(deployments),
	})
}

func (s *APIServer) handleUserRank(c *fiber.Ctx) error {
	address := c.Params("address")
	if !utils.IsHexAddress(address) {
		return badRequest(c, "invalid wallet address")
	}
	rank, err := s.users.Rank(address)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"wallet_address": address,
		"rank":           rank,
	})
}
