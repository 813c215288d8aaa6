package api

import (
	"fmt"
	"log"
	"net"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/pumpjaine/pumpjaine-backend/internal/api/middleware"
	"github.com/pumpjaine/pumpjaine-backend/internal/config"
	"github.com/pumpjaine/pumpjaine-backend/internal/services"
)

// APIServer is the HTTP surface over the service layer. Every route is
// registered explicitly as public or authenticated; there is no blanket
// middleware that guesses from the path.
type APIServer struct {
	app       *fiber.App
	cfg       *config.Config
	validate  *validator.Validate
	auth      services.AuthService
	users     services.UserService
	templates services.TemplateService
	rarity    services.RarityService
	deploys   services.DeployService
	compiler  services.CompilerService
	cache     services.CacheService
	port      int
}

// NewAPIServer wires the fiber app, middleware and the full route table.
func NewAPIServer(
	cfg *config.Config,
	auth services.AuthService,
	users services.UserService,
	templates services.TemplateService,
	rarity services.RarityService,
	deploys services.DeployService,
	compiler services.CompilerService,
	cache services.CacheService,
) *APIServer {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	server := &APIServer{
		app:       app,
		cfg:       cfg,
		validate:  validator.New(),
		auth:      auth,
		users:     users,
		templates: templates,
		rarity:    rarity,
		deploys:   deploys,
		compiler:  compiler,
		cache:     cache,
	}
	server.setupRoutes()
	return server
}

func (s *APIServer) setupRoutes() {
	requireAuth := middleware.RequireAuth(s.auth.ValidateToken)
	throttle := limiter.New(limiter.Config{
		Max:        s.cfg.ThrottleLimit,
		Expiration: time.Duration(s.cfg.ThrottleWindowSeconds) * time.Second,
	})

	s.app.Get("/", s.handleRoot)
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/api")
	api.Get("/status", s.handleStatus)

	// auth
	api.Post("/auth/nonce", throttle, s.handleAuthNonce)
	api.Post("/auth/verify", throttle, s.handleAuthVerify)
	api.Get("/auth/siwe-template", s.handleSiweTemplate)
	api.Get("/auth/me", requireAuth, s.handleAuthMe)
	api.Post("/auth/logout", requireAuth, s.handleAuthLogout)

	// contract templates and rarity
	api.Get("/contract-templates", s.handleTemplateList)
	api.Get("/contract-templates/random", s.handleTemplateRandom)
	api.Get("/contract-templates/rarities", s.handleRarities)
	api.Get("/contract-templates/stats", s.handleTemplateStats)
	api.Get("/contract-templates/search", s.handleTemplateSearch)
	api.Get("/contract-templates/rarity/:rarity", s.handleTemplatesByRarity)
	api.Get("/contract-templates/:name", s.handleTemplateByName)
	api.Get("/contract-templates/:name/source", s.handleTemplateSource)

	// deployments
	api.Get("/deployments/stats", s.handleDeploymentStats)
	api.Get("/deployments/tx/:txHash", s.handleDeploymentByTxHash)
	api.Get("/deployments/contract/:address", s.handleDeploymentByContract)
	api.Get("/deployments/template/:templateName", s.handleDeploymentsByTemplate)
	api.Post("/deployments/record", requireAuth, s.handleRecordDeployment)
	api.Get("/deployments/my-deployments", requireAuth, s.handleMyDeployments)

	// users and leaderboard
	api.Get("/users/leaderboard", s.handleLeaderboard)
	api.Get("/users/stats/summary", s.handleUserSummary)
	api.Get("/users/me", requireAuth, s.handleMe)
	api.Get("/users/me/history", requireAuth, s.handleMyHistory)
	api.Get("/users/:address", s.handleUserStats)
	api.Get("/users/:address/history", s.handleUserHistory)
	api.Get("/users/:address/rank", s.handleUserRank)

	// compiler
	api.Get("/compiler/status", s.handleCompilerStatus)
	api.Get("/compiler/info", s.handleCompilerInfo)
	api.Post("/compiler/compile", requireAuth, throttle, s.handleCompile)
	api.Get("/compiler/performance", requireAuth, s.handleCompilerPerformance)
	api.Delete("/compiler/cache", requireAuth, s.handleClearCache)
}

func (s *APIServer) handleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":        "PumpJaine API",
		"description": "Deploy contracts that represent your deepest rejections",
		"endpoints": fiber.Map{
			"auth":      "/api/auth",
			"templates": "/api/contract-templates",
			"deploy":    "/api/deployments",
			"users":     "/api/users",
			"compiler":  "/api/compiler",
		},
	})
}

func (s *APIServer) handleStatus(c *fiber.Ctx) error {
	templateStats, err := s.templates.Stats()
	if err != nil {
		return serviceError(c, err)
	}
	summary, err := s.users.Summary()
	if err != nil {
		return serviceError(c, err)
	}
	cacheStats, err := s.cache.Stats()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"status":            "ok",
		"environment":       s.cfg.Environment,
		"chain_id":          s.cfg.ChainID,
		"templates":         templateStats.TotalTemplates,
		"total_deployments": templateStats.TotalDeployments,
		"total_users":       summary.TotalUsers,
		"cache_entries":     cacheStats.Entries,
	})
}

// Start listens on an OS-assigned port in the background and returns it.
// Used by tests; production goes through Listen.
func (s *APIServer) Start() (int, error) {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		return 0, fmt.Errorf("failed to find available port: %w", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	s.port = port
	listener.Close()

	go func() {
		if err := s.app.Listen(fmt.Sprintf(":%d", port)); err != nil {
			log.Printf("Error starting API server: %v\n", err)
		}
	}()
	return port, nil
}

// Listen serves on the configured port until shutdown.
func (s *APIServer) Listen(port int) error {
	s.port = port
	return s.app.Listen(fmt.Sprintf(":%d", port))
}

func (s *APIServer) Shutdown() error {
	return s.app.Shutdown()
}

func (s *APIServer) GetPort() int {
	return s.port
}
