// Package server exposes the rule-based optimizer and its read models to
// the dashboard UI over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/velofit/studio-optimizer/pkg/core/history"
	"github.com/velofit/studio-optimizer/pkg/core/model"
	"github.com/velofit/studio-optimizer/pkg/core/optimizer"
	"github.com/velofit/studio-optimizer/pkg/core/profiler"
	"github.com/velofit/studio-optimizer/pkg/core/rules"
	"github.com/velofit/studio-optimizer/pkg/core/schedule"
)

// DataSource supplies the history and active schedule backing each request.
// File- and store-backed implementations live with the CLI.
type DataSource interface {
	Sessions() ([]model.SessionRecord, error)
	ScheduleEntries() ([]schedule.Entry, error)
}

// Server wires the optimizer core behind HTTP handlers. Derived slots are
// cached with a short TTL; schedule-edit notifications from the UI
// invalidate the cache immediately.
type Server struct {
	logger   *zap.Logger
	source   DataSource
	settings rules.Settings
	cache    *optimizer.SlotCache
}

const slotCacheKey = "active-slots"

// New creates a Server.
func New(logger *zap.Logger, source DataSource, settings rules.Settings) *Server {
	return &Server{
		logger:   logger,
		source:   source,
		settings: settings,
		cache:    optimizer.NewSlotCache(optimizer.DefaultCacheTTL, nil),
	}
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.POST("/optimize", s.handleOptimize)
	api.GET("/trainers", s.handleTrainers)
	api.GET("/schedule/metrics", s.handleScheduleMetrics)
	api.POST("/schedule/invalidate", s.handleInvalidate)

	return r
}

// OptimizeRequest is the POST /optimize body. All fields are optional;
// zero values defer to the persisted settings.
type OptimizeRequest struct {
	Locations []string `json:"locations"`
	Strategy  string   `json:"strategy"`
	Seed      int64    `json:"seed"`
}

func (s *Server) handleOptimize(c *gin.Context) {
	var req OptimizeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	slots, sessions, err := s.loadData()
	if err != nil {
		s.logger.Error("Failed to load data", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result := optimizer.Run(slots, sessions, s.settings, optimizer.Request{
		Locations: req.Locations,
		Strategy:  optimizer.Strategy(req.Strategy),
		Seed:      req.Seed,
	}, s.logger)

	optimizeRuns.Inc()
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleTrainers(c *gin.Context) {
	slots, sessions, err := s.loadData()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	reg := rules.NewRegistry(s.settings)
	profiles := profiler.Build(sessions, slots, reg, time.Now())

	location := c.Query("location")
	if location != "" {
		c.JSON(http.StatusOK, gin.H{"trainers": profiles.AtLocation(location)})
		return
	}

	var all []*model.TrainerMetrics
	for _, tm := range profiles.Profiles {
		all = append(all, tm)
	}
	c.JSON(http.StatusOK, gin.H{"trainers": all})
}

func (s *Server) handleScheduleMetrics(c *gin.Context) {
	slots, _, err := s.loadData()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	reg := rules.NewRegistry(s.settings)
	classification := optimizer.Classify(slots, reg)

	c.JSON(http.StatusOK, gin.H{
		"slots":            slots,
		"underperforming":  classification.Underperforming,
		"locationAverages": classification.LocationAverages,
	})
}

// handleInvalidate is the schedule-edit signal: the UI calls it after a
// drag-and-drop change so the next read recomputes derived metrics.
func (s *Server) handleInvalidate(c *gin.Context) {
	s.cache.Invalidate()
	c.JSON(http.StatusOK, gin.H{"status": "invalidated"})
}

// loadData returns derived slots (cached) plus the raw session history.
func (s *Server) loadData() ([]model.ScheduleSlot, []model.SessionRecord, error) {
	sessions, err := s.source.Sessions()
	if err != nil {
		return nil, nil, err
	}

	if cached, ok := s.cache.Get(slotCacheKey); ok {
		return cached, sessions, nil
	}

	entries, err := s.source.ScheduleEntries()
	if err != nil {
		return nil, nil, err
	}
	slots, err := schedule.DeriveSlots(entries, sessions, history.Filter{}, time.Now())
	if err != nil {
		return nil, nil, err
	}
	s.cache.Put(slotCacheKey, slots)

	return slots, sessions, nil
}
