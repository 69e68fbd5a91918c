package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/lalith-99/interskill/internal/chat"
	"github.com/lalith-99/interskill/internal/middleware"
	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps is everything the router needs. LeadLimiter may be nil to disable
// rate limiting on the public lead form.
type Deps struct {
	Leads      *service.LeadService
	Chat       *service.ChatService
	Users      *service.UserService
	Requests   *service.RequestService
	Stats      *service.StatService
	Categories *service.CategoryService
	Reviews    *service.ReviewService
	Hub        *chat.Hub

	Ping           func(ctx context.Context) error
	JWTSecret      string
	LeadLimiter    *middleware.Limiter
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter builds the gin engine with every route mounted under /api.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authH := NewAuthHandler(d.Users, d.Logger)
	userH := NewUserHandler(d.Users, d.Logger)
	leadH := NewLeadHandler(d.Leads, d.Logger)
	msgH := NewMessageHandler(d.Chat, d.Logger)
	wsH := NewWSHandler(d.Hub, d.Chat, d.AllowedOrigins, d.Logger)
	reqH := NewRequestHandler(d.Requests, d.Logger)
	statH := NewStatHandler(d.Stats, d.Logger)
	catH := NewCategoryHandler(d.Categories, d.Logger)
	reviewH := NewReviewHandler(d.Reviews, d.Logger)
	healthH := NewHealthHandler(d.Ping, d.Logger)

	requireAuth := middleware.AuthMiddleware(d.JWTSecret, false, d.Users)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	api := r.Group("/api")

	// ---- Public ----
	api.GET("/health", healthH.Check)
	api.POST("/auth/login", authH.Login)
	api.GET("/stats", statH.List)
	api.GET("/categories", catH.List)
	api.GET("/reviews", reviewH.List)
	api.POST("/requests", reqH.Create)
	if d.LeadLimiter != nil {
		api.POST("/leads", middleware.RateLimit(d.LeadLimiter), leadH.Create)
	} else {
		api.POST("/leads", leadH.Create)
	}

	// The browser websocket API cannot set headers; the token rides in the
	// query string.
	api.GET("/ws", middleware.AuthMiddleware(d.JWTSecret, true, d.Users), wsH.Serve)

	// ---- Authenticated ----
	authed := api.Group("", requireAuth)
	{
		authed.PUT("/auth/profile", authH.UpdateProfile)
		authed.GET("/auth/staff/list", userH.Directory)

		authed.GET("/leads", leadH.List)
		authed.GET("/leads/:id", leadH.Get)
		authed.PUT("/leads/:id", leadH.Update)
		authed.DELETE("/leads/:id", leadH.Delete)

		authed.GET("/messages", msgH.History)
		authed.POST("/messages", msgH.Create)

		authed.PUT("/stats", statH.Upsert)
	}

	// ---- Admin ----
	admin := api.Group("", requireAuth, adminOnly)
	{
		admin.POST("/auth/staff", userH.Register)
		admin.GET("/auth/users", userH.List)
		admin.PUT("/auth/users/:id/role", userH.UpdateRole)
		admin.DELETE("/auth/users/:id", userH.Delete)

		admin.GET("/requests", reqH.List)
		admin.PUT("/requests/:id/approve", reqH.Approve)
		admin.DELETE("/requests/:id", reqH.Delete)

		admin.POST("/categories", catH.Create)
		admin.PUT("/categories/:id", catH.Update)
		admin.DELETE("/categories/:id", catH.Delete)

		admin.POST("/reviews", reviewH.Create)
		admin.PUT("/reviews/order", reviewH.Reorder)
		admin.DELETE("/reviews/:id", reviewH.Delete)
	}

	return r
}

// WithCORS wraps h so browsers from origins may call the API. "*" allows
// any origin; credentials are then disabled as browsers require.
func WithCORS(h http.Handler, origins []string) http.Handler {
	allowAny := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAny = true
		}
	}
	if allowAny {
		origins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: !allowAny,
		MaxAge:           300,
	})(h)
}
