package server

import (
	"net/http"
	"time"

	"github.com/danmuck/smppctl/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *StatusServer) registerRoutes() {
	s.router.GET("/health", s.health)

	protected := s.router.Group("/")
	if s.auth != nil {
		protected.Use(s.requireToken)
	}
	protected.GET("/health/session", s.sessionHealth)
	protected.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *StatusServer) requireToken(c *gin.Context) {
	if err := auth.CheckHeader(s.auth, c.GetHeader("Authorization")); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.Next()
}

// health is liveness: the process is up whatever the link state.
func (s *StatusServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": s.name,
		"uptime":  time.Since(s.appeared).Round(time.Second).String(),
	})
}

// sessionHealth is readiness: 200 only while bound.
func (s *StatusServer) sessionHealth(c *gin.Context) {
	state := s.source.State()
	code := http.StatusOK
	status := "bound"
	if !state.Bound() {
		code = http.StatusServiceUnavailable
		status = "unbound"
	}
	c.JSON(code, gin.H{
		"status":  status,
		"state":   string(state),
		"pending": len(s.source.Pending()),
	})
}
