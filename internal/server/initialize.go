package server

import (
	"github.com/pumpjaine/pumpjaine-backend/internal/config"
	"github.com/pumpjaine/pumpjaine-backend/internal/services"
	"gorm.io/gorm"
)

// Services bundles every constructed service so main and the tests wire them
// the same way.
type Services struct {
	Users     services.UserService
	Templates services.TemplateService
	Rarity    services.RarityService
	Deploys   services.DeployService
	Auth      services.AuthService
	Cache     services.CacheService
	Compiler  services.CompilerService
}

// InitializeServices constructs the full service graph over one database
// handle.
func InitializeServices(db *gorm.DB, cfg *config.Config) *Services {
	userService := services.NewUserService(db)
	templateService := services.NewTemplateService(db)
	rarityService := services.NewRarityService()
	deployService := services.NewDeployService(db, templateService, userService)
	authService := services.NewAuthService(db, userService, cfg.JWTSecret, cfg.Domain, cfg.URI, cfg.ChainID)
	cacheService := services.NewCacheService(db)
	compilerService := services.NewCompilerService(templateService, cacheService)

	return &Services{
		Users:     userService,
		Templates: templateService,
		Rarity:    rarityService,
		Deploys:   deployService,
		Auth:      authService,
		Cache:     cacheService,
		Compiler:  compilerService,
	}
}
