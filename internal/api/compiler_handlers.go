package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/pumpjaine/pumpjaine-backend/internal/services"
	"github.com/pumpjaine/pumpjaine-backend/internal/utils"
)

// handleCompile runs (or serves from cache) a template compilation. Compiler
// diagnostics are returned as a structured payload with success=false, not as
// a transport error.
func (s *APIServer) handleCompile(c *fiber.Ctx) error {
	var req services.CompileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return badRequest(c, "template_name is required")
	}

	result, err := s.compiler.Compile(req)
	if err != nil {
		var failure *services.CompileFailure
		if errors.As(err, &failure) {
			return c.JSON(fiber.Map{
				"success":       false,
				"template_name": failure.TemplateName,
				"errors":        failure.Diagnostics,
			})
		}
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"result":  result,
	})
}

func (s *APIServer) handleCompilerStatus(c *fiber.Ctx) error {
	status, err := s.compiler.Status()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"status":             "ok",
		"supported_versions": status.SupportedVersions,
		"default_settings":   status.DefaultSettings,
	})
}

func (s *APIServer) handleCompilerInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"supported_versions":     utils.SupportedCompilerVersions,
		"supported_evm_versions": utils.SupportedEVMVersions,
		"default_settings":       utils.DefaultCompilerSettings(),
		"optimizer_runs_range":   []int{1, 10000},
	})
}

func (s *APIServer) handleCompilerPerformance(c *fiber.Ctx) error {
	status, err := s.compiler.Status()
	if err != nil {
		return serviceError(c, err)
	}
	cacheStats, err := s.cache.Stats()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"compiler": status,
		"cache":    cacheStats,
	})
}

func (s *APIServer) handleClearCache(c *fiber.Ctx) error {
	removed, err := s.compiler.ClearCache()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "compilation cache cleared",
		"removed": removed,
	})
}
