package http

import (
	"context"
	"log/slog"
	"time"

	"libraryhub/internal/auth"
	"libraryhub/internal/config"
	"libraryhub/internal/domain/user"
	"libraryhub/internal/http/handlers"
	"libraryhub/internal/http/middlewares"
	"libraryhub/internal/observability"
	"libraryhub/internal/repo/postgres"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config, prom *observability.Prom, queue handlers.JobEnqueuer) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(otelgin.Middleware("libraryhub-api"))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(1 << 20)) // 1 MiB
	r.Use(middlewares.CORSMiddleware([]string{"http://localhost:3000"}))

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	health := handlers.NewHealthHandler(ping)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	booksRepo := postgres.NewBooksRepo(pool, prom)
	loansRepo := postgres.NewLoansRepo(pool, prom)

	// auth plumbing
	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	authMw := middlewares.NewAuthMiddleware(jwtManager, log)

	// login/register are the enumeration targets, so they get their own
	// tighter bucket
	authLimiter := middlewares.NewRateLimiter(5, 10)

	// handlers
	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, jwtManager, log)
	booksHandler := handlers.NewBooksHandler(booksRepo)
	circulationHandler := handlers.NewCirculationHandler(booksRepo, usersRepo, loansRepo, queue, log)
	reportsHandler := handlers.NewReportsHandler(loansRepo)

	api := r.Group("/api")

	// public
	api.POST("/register", authLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Register)
	api.POST("/login", authLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)

	// any authenticated role
	member := api.Group("")
	member.Use(authMw.RequireAuth(), authMw.RequireRoles(user.RoleUser, user.RoleAdmin))

	member.GET("/books", booksHandler.ListBooks)
	member.GET("/books/:id", booksHandler.GetBookByID)
	member.POST("/borrow", circulationHandler.Borrow)
	member.GET("/borrow/history", circulationHandler.History)
	member.POST("/return", circulationHandler.Return)

	// admin only
	admin := api.Group("")
	admin.Use(authMw.RequireAuth(), authMw.RequireRoles(user.RoleAdmin))

	admin.POST("/books", booksHandler.CreateBook)
	admin.PUT("/books/:id", booksHandler.UpdateBook)
	admin.DELETE("/books/:id", booksHandler.DeleteBook)
	admin.GET("/reports/borrowed", reportsHandler.CurrentlyBorrowed)
	admin.GET("/reports/popular", reportsHandler.PopularBooks)

	return r
}
