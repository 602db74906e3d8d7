package bootstrap

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"

	"github.com/hafizkhan902/portfolio-backend/config"
	"github.com/hafizkhan902/portfolio-backend/internal/admins"
	httpapi "github.com/hafizkhan902/portfolio-backend/internal/api/http"
	"github.com/hafizkhan902/portfolio-backend/internal/api/http/middleware"
	"github.com/hafizkhan902/portfolio-backend/internal/auth"
	"github.com/hafizkhan902/portfolio-backend/internal/github"
	"github.com/hafizkhan902/portfolio-backend/internal/highlights"
	"github.com/hafizkhan902/portfolio-backend/internal/journey"
	"github.com/hafizkhan902/portfolio-backend/internal/mailer"
	"github.com/hafizkhan902/portfolio-backend/internal/messages"
	"github.com/hafizkhan902/portfolio-backend/internal/projects"
	"github.com/hafizkhan902/portfolio-backend/internal/resumes"
	"github.com/hafizkhan902/portfolio-backend/internal/skills"
	"github.com/hafizkhan902/portfolio-backend/internal/stats"
	"github.com/hafizkhan902/portfolio-backend/internal/uploads"
)

const (
	rateLimitRequests = 100
	rateLimitWindow   = 15 * time.Minute
)

// BuildRouter assembles the full route tree: global middleware, static
// assets, the public API and the authenticated admin API. A nil Redis
// client disables rate limiting rather than failing startup.
func BuildRouter(cfg *config.Config, pool *pgxpool.Pool, rdb *redis.Client,
	mail mailer.Sender, gh *github.Client) *gin.Engine {

	httpapi.SetProduction(cfg.IsProduction())

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.Server.CORSOrigin)))
	r.Use(middleware.RequestID())
	if rdb != nil {
		r.Use(middleware.RateLimit(rdb, rateLimitRequests, rateLimitWindow))
	}

	r.Static("/uploads", cfg.Server.UploadDir)
	// Admin console: a static SPA served for anything the API doesn't claim.
	r.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.Server.PublicDir))))

	httpapi.NewHealthHandler(cfg.App.Environment, cfg.App.Version, pool).RegisterRoutes(r)

	adminRepo := admins.NewRepo(pool)
	projectRepo := projects.NewRepo(pool)
	skillRepo := skills.NewRepo(pool)
	journeyRepo := journey.NewRepo(pool)
	highlightRepo := highlights.NewRepo(pool)
	messageRepo := messages.NewRepo(pool)
	resumeRepo := resumes.NewRepo(pool)

	secret := []byte(cfg.Auth.JWTSecret)

	api := r.Group("/api")
	messages.NewContactHandler(messageRepo, mail, cfg.SMTP.ContactEmail, cfg.SMTP.FromName).Register(api)
	projects.NewHandler(projectRepo).Register(api.Group("/projects"))
	skills.NewHandler(skillRepo).Register(api.Group("/skills"))
	journey.NewHandler(journeyRepo).Register(api.Group("/journey"))
	highlights.NewHandler(highlightRepo).Register(api.Group("/highlights"))
	resumes.NewHandler(resumeRepo).Register(api.Group("/resume"))
	if gh != nil {
		github.NewHandler(gh).Register(api.Group("/github"))
	}

	uploadGroup := api.Group("/upload", auth.RequireAdmin(secret, adminRepo))
	uploads.NewHandler(cfg.Server.UploadDir).Register(uploadGroup)

	adminGroup := api.Group("/admin")
	protected := adminGroup.Group("", auth.RequireAdmin(secret, adminRepo))
	super := protected.Group("", auth.RequireSuperAdmin())
	auth.NewHandler(adminRepo, secret).Register(adminGroup, protected, super)

	projects.NewAdminHandler(projectRepo).Register(protected.Group("/projects"))
	skills.NewAdminHandler(skillRepo).Register(protected.Group("/skills"))
	journey.NewAdminHandler(journeyRepo).Register(protected.Group("/journey"))
	highlights.NewAdminHandler(highlightRepo).Register(protected.Group("/highlights"))
	messages.NewAdminHandler(messageRepo, mail, cfg.SMTP.FromName).Register(protected.Group("/messages"))
	resumes.NewAdminHandler(resumeRepo).Register(protected.Group("/resumes"))

	var ghSource stats.GitHubSource
	if gh != nil {
		ghSource = gh
	}
	statsSvc := stats.NewService(projectRepo, skillRepo, journeyRepo, highlightRepo, messageRepo, ghSource)
	stats.NewHandler(statsSvc).Register(protected)

	return r
}

func corsConfig(origin string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origin == "" || origin == "*" {
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	} else {
		c.AllowOrigins = []string{origin}
	}
	return c
}
