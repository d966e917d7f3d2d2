package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/dkovalenko/todohub/internal/auth"
	"github.com/dkovalenko/todohub/internal/config"
	"github.com/dkovalenko/todohub/internal/http/handlers"
	"github.com/dkovalenko/todohub/internal/http/middlewares"
	"github.com/dkovalenko/todohub/internal/observability"
	"github.com/dkovalenko/todohub/internal/repo/file"
	"github.com/dkovalenko/todohub/internal/repo/memory"
	"github.com/dkovalenko/todohub/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// NewRouter wires the whole request path. pool may be nil; the in-memory
// credential store is used in that case.
func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" && cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	registry := prometheus.NewRegistry()
	prom := observability.NewProm(registry)

	// middleware

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(otelgin.Middleware("todohub"))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(middlewares.RequireJSON())
	r.Use(prom.GinHandleMiddleware())

	// health

	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	r.GET("/docs", handlers.SwaggerUI)
	r.StaticFile("/docs/openapi.yaml", "./docs/openapi.yaml")

	// wire up stores

	var users handlers.UserStore
	if pool != nil {
		users = postgres.NewUsersRepo(pool)
	} else {
		users = memory.NewUsersRepo()
	}

	todos := file.NewTodosRepo(cfg.TodoFile, prom)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	// wire up handlers

	authHandler := handlers.NewAuthHandler(users, jwtManager)
	todosHandler := handlers.NewTodosHandler(todos)
	gate := middlewares.NewAuthMiddleware(jwtManager)

	api := r.Group("/api")

	api.POST("/users/register", authHandler.Register)
	api.POST("/users/login", authHandler.Login)

	protected := api.Group("/todos", gate.RequireAuth())

	protected.GET("", todosHandler.ListTodos)
	protected.POST("", todosHandler.CreateTodo)
	protected.PUT("/:id", todosHandler.UpdateTodo)
	protected.PATCH("/:id/toggle", todosHandler.ToggleTodo)
	protected.DELETE("/:id", todosHandler.DeleteTodo)

	return r
}
