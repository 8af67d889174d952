// Package httpapi wires the Gin engine: cross-cutting middleware, the
// public auth endpoints, the session-protected meal and nutrition API, and
// the operational routes (/health, /metrics, /swagger).
//
// @title       nutritrack API
// @version     1.0
// @description Personal meal logging with daily macro totals.
// @BasePath    /api/v1
// @securityDefinitions.apikey SessionCookie
// @in          cookie
// @name        nutri_auth
// @securityDefinitions.apikey BearerToken
// @in          header
// @name        Authorization
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/nutritrack/docs"
	"github.com/tbourn/nutritrack/internal/auth"
	"github.com/tbourn/nutritrack/internal/config"
	"github.com/tbourn/nutritrack/internal/http/handlers"
	"github.com/tbourn/nutritrack/internal/http/middleware"
)

// Sessions both issues tokens at login and verifies them on protected
// routes. *auth.Sessions satisfies it.
type Sessions interface {
	handlers.SessionIssuer
	middleware.TokenVerifier
}

// Deps are the application services the routes are bound to.
type Deps struct {
	Meals     handlers.MealService
	Nutrition handlers.NutritionService
	Sessions  Sessions
}

var (
	corsMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match"}
	corsExpose  = []string{"X-Request-ID", "Content-Length", "ETag"}
)

// RegisterRoutes installs middleware and routes on r.
//
// Middleware order:
//  1. OpenTelemetry
//  2. RequestID
//  3. RedactingLogger
//  4. Recovery
//  5. Body size limit
//  6. Metrics (+ /metrics)
//  7. gzip
//  8. CORS and security headers
//
// The rate limiter is mounted per group: by client IP on /auth and by
// session on the protected API.
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-Api-Key"},
		MaskQuery:   []string{"token", "password"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(1 << 20))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Set ACAO even without an Origin header so simple probes see it.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     corsMethods,
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    corsExpose,
			AllowCredentials: false, // wildcard origins never carry the cookie
			MaxAge:           12 * time.Hour,
		}))
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     corsMethods,
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    corsExpose,
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(deps.Meals, deps.Nutrition, deps.Sessions, handlers.CookieOptions{
		Name:   auth.CookieName,
		Secure: cfg.Auth.CookieSecure,
	})
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyBySessionOrIP())

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		pub := api.Group("/auth", rl.Handler())
		pub.POST("/login", h.Login)
		pub.POST("/logout", h.Logout)
	}
	{
		sec := api.Group("", middleware.RequireSession(deps.Sessions, auth.CookieName), rl.Handler())

		sec.GET("/meals", h.ListMeals)
		sec.POST("/meals", h.CreateMeal)
		sec.DELETE("/meals/:id", h.DeleteMeal)

		sec.GET("/days/today", h.Today)
		sec.GET("/days/:date", h.Day)
		sec.GET("/calendar", h.Calendar)

		sec.GET("/nutrition", h.LookupNutrition)
		sec.GET("/ingredients", h.ListIngredients)
	}
}

// limitBody caps request bodies at maxBytes; reads past the cap fail.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "" and "/" as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
