// Package server exposes the ledger over HTTP for the UI layer.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pairbook/internal/auth"
	"pairbook/internal/cache"
	"pairbook/internal/middleware"
	"pairbook/internal/models"
	"pairbook/internal/storage"
)

var (
	recordsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pairbook_records_written_total",
			Help: "Ledger records created, updated or deleted, by kind and operation.",
		},
		[]string{"kind", "op"},
	)

	ledgerRecomputes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pairbook_ledger_recomputes_total",
			Help: "Full-snapshot ledger recomputations.",
		},
	)
)

// Server wires the ledger engine, normalizer, store and cache behind the
// HTTP API consumed by the UI.
type Server struct {
	store storage.Store
	cache *cache.Cache
	pair  models.Pair
	authn auth.Authenticator
	jwt   *auth.JWTManager
}

// New creates a Server. cache may be nil to disable caching.
func New(store storage.Store, c *cache.Cache, pair models.Pair, authn auth.Authenticator, jwt *auth.JWTManager) *Server {
	return &Server{
		store: store,
		cache: c,
		pair:  pair,
		authn: authn,
		jwt:   jwt,
	}
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", s.healthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/api/auth/register", s.register)
	r.POST("/api/auth/login", s.login)

	api := r.Group("/api", middleware.RequireAuth(s.jwt))
	{
		api.GET("/records", s.listRecords)
		api.POST("/records", s.createExpense)
		api.PUT("/records/:id", s.updateExpense)
		api.DELETE("/records/:id", s.deleteRecord)

		api.POST("/settlements", s.createSettlement)

		api.GET("/balance", s.getBalance)
		api.GET("/summary", s.getSummary)

		api.GET("/categories", s.listCategories)
		api.PUT("/categories", s.replaceCategories)

		api.GET("/settings", s.getSettings)
		api.PUT("/settings", s.saveSettings)
	}

	return r
}

// healthCheck reports service liveness.
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "pairbook"})
}

// monthKey formats the record's calendar month for cache keying.
func monthKey(rec *models.Record) string {
	return time.Unix(rec.Date, 0).UTC().Format("2006-01")
}

// invalidateMonths drops cached views for the given months and the
// all-months view after a write.
func (s *Server) invalidateMonths(c *gin.Context, months ...string) {
	keys := []string{"balance:all", "summary:all"}
	seen := map[string]bool{}
	for _, m := range months {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		keys = append(keys, "balance:"+m, "summary:"+m)
	}
	s.cache.Invalidate(c.Request.Context(), keys...)
}
