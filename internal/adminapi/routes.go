package adminapi

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rawblock/claims-engine/internal/regression"
	"github.com/rawblock/claims-engine/internal/store"
	"github.com/rawblock/claims-engine/internal/taxonomy"
)

// Handler holds the dependencies the read-only admin surface serves from:
// claims/abstentions lookup and the regression trigger. Nothing here
// mutates claim state; only the run loop does that.
type Handler struct {
	writer *store.Writer
	cfg    *taxonomy.Config
	hub    *Hub
	status *RunStatus
}

// SetupRouter builds the admin API router: health, run status, per-user
// claims/abstentions lookup, a regression-trigger endpoint, and the live
// feed websocket. writer may be nil; lookup endpoints report 503 in that
// case.
func SetupRouter(writer *store.Writer, cfg *taxonomy.Config, hub *Hub, status *RunStatus) *gin.Engine {
	r := gin.Default()

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	h := &Handler{writer: writer, cfg: cfg, hub: hub, status: status}
	limiter := NewRateLimiter(60, 20)

	r.GET("/healthz", h.health)

	read := r.Group("/", RequireScope(ScopeRead), limiter.Charge(CostLookup))
	{
		read.GET("/status", h.runStatus)
		read.GET("/users/:id/claims", h.userClaims)
		read.GET("/users/:id/abstentions", h.userAbstentions)
		read.GET("/feed", h.hub.Subscribe)
	}

	// the regression trigger runs the scorer, so it needs the operate
	// scope and draws a much larger share of the rate budget
	r.POST("/regress", RequireScope(ScopeOperate), limiter.Charge(CostRegress), h.triggerRegression)

	return r
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.cfg.Version})
}

func (h *Handler) runStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.status.Snapshot())
}

func (h *Handler) userClaims(c *gin.Context) {
	if h.writer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured"})
		return
	}
	claims, err := h.writer.ClaimsForUser(c.Request.Context(), c.Param("id"), h.cfg.Version)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"claims": claims})
}

func (h *Handler) userAbstentions(c *gin.Context) {
	if h.writer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured"})
		return
	}
	abstentions, err := h.writer.AbstentionsForUser(c.Request.Context(), c.Param("id"), h.cfg.Version)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"abstentions": abstentions})
}

// triggerRegression runs the regression harness against a fixture path given as
// ?fixture=, with no database involved — an operator can sanity-check a
// config change against the known regression cases without redeploying
// the CLI.
func (h *Handler) triggerRegression(c *gin.Context) {
	fixturePath := c.Query("fixture")
	if fixturePath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fixture query parameter is required"})
		return
	}
	fx, err := regression.Load(fixturePath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report := regression.Run(fx, h.cfg)
	status := http.StatusOK
	if !report.Passed {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, report)
}
