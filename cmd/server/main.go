package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/lumanotes/session-backend/internal/config"
	"github.com/lumanotes/session-backend/internal/controllers"
	"github.com/lumanotes/session-backend/internal/database"
	"github.com/lumanotes/session-backend/internal/geoip"
	"github.com/lumanotes/session-backend/internal/middleware"
	"github.com/lumanotes/session-backend/internal/repositories"
	"github.com/lumanotes/session-backend/internal/routes"
	"github.com/lumanotes/session-backend/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := database.Connect(&cfg.Database, cfg.Logging.Level); err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Printf("error closing database: %v", err)
		}
	}()

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := database.RunMigrations(&cfg.Database); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	db := database.GetDB()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	membershipRepo := repositories.NewMembershipRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	attemptRepo := repositories.NewLoginAttemptRepository(db)

	// Services
	geoTimeout, err := cfg.GeoIP.GetTimeout()
	if err != nil {
		log.Fatalf("invalid geoip timeout: %v", err)
	}
	geoClient := geoip.New(cfg.GeoIP.Endpoint, geoTimeout)

	credentialService := services.NewCredentialService(userRepo, attemptRepo, geoClient, cfg.Session.BcryptCost)
	membershipService := services.NewMembershipService(membershipRepo, sessionRepo)
	sessionService := services.NewSessionService(sessionRepo, membershipService, credentialService)

	strategies := services.NewStrategyRegistry()
	strategies.Register("form", services.NewFormStrategy(credentialService))

	codec := services.NewSessionTokenCodec(cfg.Session.Secret)

	secureCookies := cfg.Server.Mode == "release"
	rememberMaxAge, err := cfg.Session.GetRememberMaxAge()
	if err != nil {
		log.Fatalf("invalid remember_max_age: %v", err)
	}

	// Controllers
	authController := controllers.NewAuthController(
		strategies, credentialService, sessionService, codec,
		cfg.Session.CookieName, secureCookies, rememberMaxAge,
	)
	sessionController := controllers.NewSessionController(sessionService, membershipService)
	userController := controllers.NewUserController(
		credentialService, membershipService,
		cfg.Session.CookieName, secureCookies,
	)

	// Setup router
	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.Default()

	sessionMiddleware := middleware.Session(sessionService, codec, cfg.Session.CookieName, secureCookies)
	routes.SetupRoutes(router, authController, sessionController, userController, sessionMiddleware, middleware.RequireAuth())

	addr := cfg.Server.Host + ":" + strconv.Itoa(cfg.Server.Port)
	go func() {
		log.Printf("Server running on %s", addr)
		if err := router.Run(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to run server: %v", err)
		}
	}()

	waitForShutdown()
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func waitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("Shutting down server...")
}
