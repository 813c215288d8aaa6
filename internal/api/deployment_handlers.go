package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pumpjaine/pumpjaine-backend/internal/api/middleware"
	"github.com/pumpjaine/pumpjaine-backend/internal/services"
	"github.com/pumpjaine/pumpjaine-backend/internal/utils"
)

func (s *APIServer) handleRecordDeployment(c *fiber.Ctx) error {
	var req services.RecordDeploymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return badRequest(c, "template_name, contract_address and tx_hash are required")
	}
	if !utils.IsHexAddress(req.ContractAddress) {
		return badRequest(c, "contract_address is not a valid address")
	}

	receipt, err := s.deploys.Record(middleware.WalletAddress(c), req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(receipt)
}

func (s *APIServer) handleMyDeployments(c *fiber.Ctx) error {
	deployments, err := s.deploys.HistoryForWallet(middleware.WalletAddress(c), c.QueryInt("limit"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"deployments": deployments,
		"count":       len(deployments),
	})
}

func (s *APIServer) handleDeploymentStats(c *fiber.Ctx) error {
	stats, err := s.deploys.Stats()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stats)
}

func (s *APIServer) handleDeploymentByTxHash(c *fiber.Ctx) error {
	deployment, err := s.deploys.ByTxHash(c.Params("txHash"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(deployment)
}

func (s *APIServer) handleDeploymentByContract(c *fiber.Ctx) error {
	address := c.Params("address")
	if !utils.IsHexAddress(address) {
		return badRequest(c, "invalid contract address")
	}
	deployment, err := s.deploys.ByContractAddress(address)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(deployment)
}

func (s *APIServer) handleDeploymentsByTemplate(c *fiber.Ctx) error {
	template, err := s.templates.ByName(c.Params("templateName"))
	if err != nil {
		return serviceError(c, err)
	}
	deployments, err := s.deploys.ByTemplate(template.ID, c.QueryInt("limit"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"template":    template.Name,
		"deployments": deployments,
		"count":       len(deployments),
	})
}
