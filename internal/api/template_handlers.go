package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pumpjaine/pumpjaine-backend/internal/models"
)

func (s *APIServer) handleTemplateList(c *fiber.Ctx) error {
	templates, err := s.templates.List()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"templates": templates,
		"count":     len(templates),
	})
}

// handleTemplateRandom rolls a rarity from the weighted table and picks a
// uniform template within it. The optional address query seeds the roll.
func (s *APIServer) handleTemplateRandom(c *fiber.Ctx) error {
	selection := s.rarity.SelectRandom(c.Query("address"))
	template, err := s.templates.RandomByRarity(selection.Rarity)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"template":     template,
		"selection":    selection,
		"rarity_score": s.rarity.ScoreOf(selection.Rarity),
	})
}

func (s *APIServer) handleRarities(c *fiber.Ctx) error {
	distribution, err := s.templates.RarityDistribution()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"rarities": distribution,
		"odds":     s.rarity.Distribution(),
	})
}

func (s *APIServer) handleTemplateStats(c *fiber.Ctx) error {
	stats, err := s.templates.Stats()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stats)
}

func (s *APIServer) handleTemplateSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return badRequest(c, "query parameter q is required")
	}
	templates, err := s.templates.Search(query)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"templates": templates,
		"count":     len(templates),
		"query":     query,
	})
}

func (s *APIServer) handleTemplatesByRarity(c *fiber.Ctx) error {
	rarity := models.RarityKey(c.Params("rarity"))
	templates, err := s.templates.ListByRarity(rarity)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"templates": templates,
		"count":     len(templates),
		"rarity":    rarity,
	})
}

func (s *APIServer) handleTemplateByName(c *fiber.Ctx) error {
	template, err := s.templates.ByName(c.Params("name"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"template":     template,
		"rarity_score": s.rarity.ScoreOf(template.Rarity),
	})
}

func (s *APIServer) handleTemplateSource(c *fiber.Ctx) error {
	template, err := s.templates.ByName(c.Params("name"))
	if err != nil {
		return serviceError(c, err)
	}
	source, err := s.templates.Source(template)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"name":   template.Name,
		"rarity": template.Rarity,
		"source": source,
	})
}
