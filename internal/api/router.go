package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/blogplatform/blog-api/internal/api/handler"
	"github.com/blogplatform/blog-api/internal/api/middleware"
	"github.com/blogplatform/blog-api/internal/auth"
	"github.com/blogplatform/blog-api/internal/core/ports"
)

// Dependencies is everything the HTTP layer needs from the rest of the
// application.
type Dependencies struct {
	Codec       middleware.TokenVerifier
	Credentials ports.CredentialStore
	Policy      *auth.Policy

	Auth       ports.AuthService
	Users      ports.UserService
	Categories ports.CategoryService
	Posts      ports.PostService
	Comments   ports.CommentService

	// Ready is checked by GET /health/ready, keyed by dependency name.
	Ready map[string]handler.Pinger

	// Metrics enables the echoprometheus request middleware. Leave it off
	// when building several routers in one process (tests).
	Metrics bool

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	public, err := auth.NewPathMatcher(auth.PublicPaths...)
	if err != nil {
		return nil, err
	}
	policy := deps.Policy
	if policy == nil {
		policy = auth.DefaultPolicy()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	if deps.Metrics {
		e.Use(echoprometheus.NewMiddleware("blog"))
	}

	// --- Security chain ---
	e.Use(middleware.Authenticate(deps.Codec, deps.Credentials, public, deps.Log))
	e.Use(middleware.Authorize(policy))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	a := e.Group("/api/auth")
	a.POST("/register", authHandler.Register)
	a.POST("/signup", authHandler.Register)
	a.POST("/login", authHandler.Login)
	a.POST("/signin", authHandler.Login)
	a.POST("/token", authHandler.Token)

	// --- Users ---
	userHandler := handler.NewUserHandler(deps.Users)
	e.GET("/api/users/me", userHandler.Me)
	e.PUT("/api/users/:username/roles", userHandler.SetRoles)

	// --- Categories ---
	categoryHandler := handler.NewCategoryHandler(deps.Categories)
	cg := e.Group("/api/categories")
	cg.POST("", categoryHandler.Create)
	cg.GET("", categoryHandler.List)
	cg.GET("/:id", categoryHandler.Get)
	cg.PUT("/:id", categoryHandler.Update)
	cg.DELETE("/:id", categoryHandler.Delete)

	// --- Posts ---
	postHandler := handler.NewPostHandler(deps.Posts)
	pg := e.Group("/api/posts")
	pg.POST("", postHandler.Create)
	pg.GET("", postHandler.List)
	pg.GET("/category/:id", postHandler.ListByCategory)
	pg.GET("/:id", postHandler.Get)
	pg.PUT("/:id", postHandler.Update)
	pg.DELETE("/:id", postHandler.Delete)

	// --- Comments ---
	commentHandler := handler.NewCommentHandler(deps.Comments)
	pg.POST("/:postId/comments", commentHandler.Create)
	pg.GET("/:postId/comments", commentHandler.List)
	pg.GET("/:postId/comments/:id", commentHandler.Get)
	pg.PUT("/:postId/comments/:id", commentHandler.Update)
	pg.DELETE("/:postId/comments/:id", commentHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Ready)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
