package contracts

import (
	"embed"
	"fmt"

	"github.com/pumpjaine/pumpjaine-backend/internal/models"
)

// TemplateFS carries every deployable contract source, grouped by rarity
// directory. Templates are seeded from Definitions and read back by source
// path, so the two must stay in sync.
//
//go:embed templates
var TemplateFS embed.FS

// Definition describes one seedable contract template.
type Definition struct {
	Name        string
	Rarity      models.RarityKey
	SourcePath  string
	Description string
}

// Definitions lists the seventeen seed templates. Names are unique and never
// change once deployments reference them.
var Definitions = []Definition{
	// COMMON (50%)
	{
		Name:        "JAINE_LEFT_ME_ON_READ",
		Rarity:      models.RarityCommon,
		SourcePath:  "templates/common/JAINE_LEFT_ME_ON_READ.sol",
		Description: "The classic double blue tick scenario - seen but ignored",
	},
	{
		Name:        "JAINE_BLOCKED_ME",
		Rarity:      models.RarityCommon,
		SourcePath:  "templates/common/JAINE_BLOCKED_ME.sol",
		Description: "When you cross the line from simp to stalker",
	},
	{
		Name:        "JAINE_GHOSTED_ME",
		Rarity:      models.RarityCommon,
		SourcePath:  "templates/common/JAINE_GHOSTED_ME.sol",
		Description: "Complete radio silence after showing interest",
	},

	// COPE_HARDER (25%)
	{
		Name:        "JAINE_FRIENDZONED_ME",
		Rarity:      models.RarityCopeHarder,
		SourcePath:  "templates/cope-harder/JAINE_FRIENDZONED_ME.sol",
		Description: "The devastating \"let's just be friends\" NFT collection",
	},
	{
		Name:        "JAINE_PICKED_CHAD",
		Rarity:      models.RarityCopeHarder,
		SourcePath:  "templates/cope-harder/JAINE_PICKED_CHAD.sol",
		Description: "She chose the obvious alpha over you",
	},
	{
		Name:        "JAINE_TEXTED_BACK_K",
		Rarity:      models.RarityCopeHarder,
		SourcePath:  "templates/cope-harder/JAINE_TEXTED_BACK_K.sol",
		Description: "The most devastating single letter response",
	},

	// MAXIMUM_COPE (15%)
	{
		Name:        "JAINE_SAID_EW",
		Rarity:      models.RarityMaximumCope,
		SourcePath:  "templates/maximum-cope/JAINE_SAID_EW.sol",
		Description: "Instant soul destruction with a single word",
	},
	{
		Name:        "JAINE_POSTED_ANOTHER_GUY",
		Rarity:      models.RarityMaximumCope,
		SourcePath:  "templates/maximum-cope/JAINE_POSTED_ANOTHER_GUY.sol",
		Description: "Social media announcement of your replacement",
	},
	{
		Name:        "JAINE_SAID_IM_TOO_SHORT",
		Rarity:      models.RarityMaximumCope,
		SourcePath:  "templates/maximum-cope/JAINE_SAID_IM_TOO_SHORT.sol",
		Description: "Height discrimination in its purest form",
	},

	// ULTIMATE_REJECTION (7%)
	{
		Name:        "JAINE_MARRIED_MY_BULLY",
		Rarity:      models.RarityUltimateRejection,
		SourcePath:  "templates/ultimate-rejection/JAINE_MARRIED_MY_BULLY.sol",
		Description: "The ultimate betrayal - she married your high school tormentor",
	},
	{
		Name:        "JAINE_LAUGHED_AT_MY_PORTFOLIO",
		Rarity:      models.RarityUltimateRejection,
		SourcePath:  "templates/ultimate-rejection/JAINE_LAUGHED_AT_MY_PORTFOLIO.sol",
		Description: "Financial humiliation on top of romantic rejection",
	},
	{
		Name:        "JAINE_SAID_TOUCH_GRASS",
		Rarity:      models.RarityUltimateRejection,
		SourcePath:  "templates/ultimate-rejection/JAINE_SAID_TOUCH_GRASS.sol",
		Description: "The internet's way of telling you to get a life",
	},
	{
		Name:        "JAINE_RESTRAINING_ORDER",
		Rarity:      models.RarityUltimateRejection,
		SourcePath:  "templates/ultimate-rejection/JAINE_RESTRAINING_ORDER.sol",
		Description: "Legal action - the ultimate rejection",
	},
	{
		Name:        "JAINE_CALLED_SECURITY",
		Rarity:      models.RarityUltimateRejection,
		SourcePath:  "templates/ultimate-rejection/JAINE_CALLED_SECURITY.sol",
		Description: "When your presence becomes a security threat",
	},

	// ASCENDED_SIMP (2.5%)
	{
		Name:        "JAINE_WILL_NOTICE_ME_SOMEDAY",
		Rarity:      models.RarityAscendedSimp,
		SourcePath:  "templates/ascended-simp/JAINE_WILL_NOTICE_ME_SOMEDAY.sol",
		Description: "Eternal optimism in the face of crushing reality",
	},

	// LEGENDARY_ULTRA (0.5%)
	{
		Name:        "JAINE_ACTUALLY_REPLIED",
		Rarity:      models.RarityLegendaryUltra,
		SourcePath:  "templates/legendary-ultra/JAINE_ACTUALLY_REPLIED.sol",
		Description: "The rarest event in the universe - she actually responded",
	},
	{
		Name:        "MARRY_JAINE",
		Rarity:      models.RarityLegendaryUltra,
		SourcePath:  "templates/legendary-ultra/MARRY_JAINE.sol",
		Description: "The impossible dream - actual success (spoiler: it's a bug)",
	},
}

// Source reads the Solidity source for an embedded template path.
func Source(sourcePath string) (string, error) {
	content, err := TemplateFS.ReadFile(sourcePath)
	if err != nil {
		return "", fmt.Errorf("contract source %s not found: %w", sourcePath, err)
	}
	return string(content), nil
}
