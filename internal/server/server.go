package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Sebhvarg/tiendasegura/internal/config"
	"github.com/Sebhvarg/tiendasegura/internal/database"
	custommiddleware "github.com/Sebhvarg/tiendasegura/internal/middleware"
	"github.com/Sebhvarg/tiendasegura/internal/repository"
	"github.com/Sebhvarg/tiendasegura/internal/service"
	"github.com/Sebhvarg/tiendasegura/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *database.Service
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *database.Service) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(custommiddleware.BaseMiddlewareStack()...)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.IsDevelopment()))

	// Rate limiting, skipped when no Redis host is configured
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: 100,
			Window:            time.Minute,
			KeyPrefix:         "ratelimit",
		}, logger))
	}

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, db.Health(r.Context()))
	})

	// Initialize repositories
	mongoDB := db.DB()
	userRepo := repository.NewUserRepository(mongoDB)
	clientRepo := repository.NewClientRepository(mongoDB)
	ownerRepo := repository.NewShopOwnerRepository(mongoDB)
	shopRepo := repository.NewShopRepository(db)
	catalogRepo := repository.NewCatalogRepository(mongoDB)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(mongoDB)
	listRepo := repository.NewListRepository(mongoDB)
	orderRepo := repository.NewOrderRepository(mongoDB)
	historyRepo := repository.NewSearchHistoryRepository(mongoDB)
	refreshTokenRepo := repository.NewRefreshTokenRepository(mongoDB)

	// Initialize services
	authService := service.NewAuthService(
		userRepo, clientRepo, ownerRepo, cartRepo, refreshTokenRepo,
		cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry,
	)
	shopService := service.NewShopService(ownerRepo, shopRepo, productRepo)

	imageFinder := service.NewNoopImageFinder()
	if cfg.Image.Enabled {
		imageFinder = service.NewImageFinder(cfg.Image.Timeout, logger)
	}
	productService := service.NewProductService(ownerRepo, catalogRepo, productRepo, listRepo, imageFinder, logger)
	orderService := service.NewOrderService(orderRepo, clientRepo, cartRepo, userRepo, logger)
	cartService := service.NewCartService(cartRepo, listRepo, productRepo, logger)
	searchService := service.NewSearchService(productRepo, shopRepo, historyRepo, logger)

	// Initialize handlers
	authHandler := transport.NewAuthHandler(authService, logger)
	shopHandler := transport.NewShopHandler(shopService, logger)
	productHandler := transport.NewProductHandler(productService, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)
	cartHandler := transport.NewCartHandler(cartService, logger)
	searchHandler := transport.NewSearchHandler(searchService, logger)

	// Create auth middleware, rejecting tokens whose account was deactivated
	isActive := func(ctx context.Context, userID string) bool {
		id, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return false
		}
		user, err := userRepo.FindByID(ctx, id)
		if err != nil {
			return false
		}
		return user.IsActive
	}
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, isActive, logger)
	sellerOnly := custommiddleware.RequireSeller(logger)

	// Register routes
	authHandler.RegisterRoutes(router, authMiddleware)
	shopHandler.RegisterRoutes(router, authMiddleware, sellerOnly)
	productHandler.RegisterRoutes(router, authMiddleware, sellerOnly)
	orderHandler.RegisterRoutes(router, authMiddleware, sellerOnly)
	cartHandler.RegisterRoutes(router)
	searchHandler.RegisterRoutes(router, authMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.db != nil {
		if err := s.db.Close(ctx); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
