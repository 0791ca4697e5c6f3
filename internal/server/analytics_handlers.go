package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zainhoda/sij-manager-sub003/internal/contract"
)

func (s *Server) workerProductivity(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	summary, err := s.profic.Productivity(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) recalculateProficiencies(c *gin.Context) {
	result, err := s.profic.Recalculate(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) assignmentTrend(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	trend, err := s.profic.OutputTrend(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"samples":             trend.Samples,
		"begin_sec_per_unit":  trend.BeginSecPerUnit,
		"middle_sec_per_unit": trend.MiddleSecPerUnit,
		"end_sec_per_unit":    trend.EndSecPerUnit,
		"speedup_pct":         trend.SpeedupPct,
	})
}

func (s *Server) analyzeCapacity(c *gin.Context) {
	var req contract.CapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	view, err := s.capacity.Analyze(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
