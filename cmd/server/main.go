package main

import (
	"os"

	"github.com/atelierhq/atelier-server/internal/agent"
	"github.com/atelierhq/atelier-server/internal/api/handlers"
	"github.com/atelierhq/atelier-server/internal/api/middleware"
	"github.com/atelierhq/atelier-server/internal/config"
	"github.com/atelierhq/atelier-server/internal/crypto"
	"github.com/atelierhq/atelier-server/internal/database"
	"github.com/atelierhq/atelier-server/internal/logger"
	"github.com/atelierhq/atelier-server/internal/models"
	"github.com/atelierhq/atelier-server/internal/session"
	"github.com/atelierhq/atelier-server/internal/session/runtime"
	"github.com/atelierhq/atelier-server/internal/session/sqlstore"
	"github.com/atelierhq/atelier-server/internal/websocket"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("Failed to load config: %v", err)
		os.Exit(1)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Errorf("Invalid log level %q: %v", cfg.LogLevel, err)
		os.Exit(1)
	}
	logger.SetLevel(level)

	if level != logger.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Select the session and user stores. A database path selects
	// SQLite; without one everything lives in memory and is lost on
	// restart.
	var (
		store  session.Store
		lister handlers.SessionLister
		users  models.UserStore
	)
	if cfg.DatabasePath != "" {
		logger.Infof("Opening database: %s", cfg.DatabasePath)
		db, err := database.Open(cfg.DatabasePath)
		if err != nil {
			logger.Errorf("Failed to open database: %v", err)
			os.Exit(1)
		}
		defer db.Close()

		sqlStore := sqlstore.New(db.DB)
		store = sqlStore
		lister = sqlStore
		users = models.New(db.DB)
	} else {
		logger.Warnf("No database path configured - using in-memory stores")
		memStore := session.NewMemoryStore()
		store = memStore
		lister = memStore
		users = models.NewMemoryUsers()
	}

	// Initialize JWT manager
	jwtManager, err := crypto.NewJWTManager(cfg.MasterSecret)
	if err != nil {
		logger.Errorf("Failed to create JWT manager: %v", err)
		os.Exit(1)
	}

	// Initialize WebSocket server
	rt := runtime.NewManager(store)
	wsServer := websocket.NewServer(rt, websocket.NewHub())

	// Create Gin router
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Logging middleware
	router.Use(middleware.LoggingMiddleware())

	// Root endpoint - returns plain text for client validation
	router.GET("/", func(c *gin.Context) {
		c.String(200, "Welcome to Atelier Server!")
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(users, jwtManager)
	sessionHandler := handlers.NewSessionHandler(rt, wsServer.Hub())
	dashboardHandler := handlers.NewDashboardHandler(lister)
	agentHandler := handlers.NewAgentHandler(agent.NewClient(cfg.Agent.BaseURL, cfg.Agent.APIKey, cfg.Agent.AgentID))

	// Public routes (no auth required)
	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)

	// Session WebSocket endpoint. The protocol authenticates by
	// session id, not bearer token.
	router.GET("/ws", wsServer.HandleWebSocket)

	// Protected routes (auth required)
	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware(jwtManager))
	{
		protected.POST("/session", sessionHandler.CreateSession)
		protected.GET("/session/:id", sessionHandler.GetSession)
		protected.POST("/session/:id/prompt", sessionHandler.PushPrompt)
		protected.POST("/session/:id/todos", sessionHandler.PushTodos)
		protected.POST("/session/:id/transcript", sessionHandler.AppendTranscript)

		protected.GET("/dashboard/sessions", dashboardHandler.ListSessions)
		protected.GET("/agent/signed-url", agentHandler.SignedURL)
	}

	logger.Infof("Starting server on %s", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		logger.Errorf("Server exited: %v", err)
		os.Exit(1)
	}
}
