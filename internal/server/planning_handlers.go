package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func (s *Server) createRun(c *gin.Context) {
	var req contract.CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	detail, err := s.planning.CreateRun(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"run": detail.View()})
}

func (s *Server) listRuns(c *gin.Context) {
	filter := contract.RunFilter{Status: domain.RunStatus(c.Query("status"))}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		filter.Limit = limit
	}
	runs, err := s.planning.ListRuns(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]contract.RunView, 0, len(runs))
	for _, r := range runs {
		views = append(views, contract.NewRunView(r))
	}
	c.JSON(http.StatusOK, gin.H{"runs": views})
}

func (s *Server) getRun(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := s.planning.GetRun(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": detail.View()})
}

func (s *Server) getActiveRun(c *gin.Context) {
	detail, err := s.planning.GetActiveRun(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if detail == nil {
		c.JSON(http.StatusOK, gin.H{"run": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": detail.View()})
}

func (s *Server) acceptScenario(c *gin.Context) {
	runID, ok := pathID(c, "id")
	if !ok {
		return
	}
	scenarioID, ok := pathID(c, "scenarioId")
	if !ok {
		return
	}
	result, err := s.planning.Accept(c.Request.Context(), runID, scenarioID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tasksCreated": result.TasksCreated})
}

func (s *Server) archiveRun(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.planning.Archive(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) getScenario(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := s.planning.GetScenario(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail.View())
}

func (s *Server) validateScenario(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := s.planning.ValidateScenario(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":    result.Valid(),
		"errors":   result.Errors,
		"warnings": result.Warnings,
	})
}

func (s *Server) compareRun(c *gin.Context) {
	id, ok := pathID(c, "runId")
	if !ok {
		return
	}
	comparison, err := s.planning.Compare(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparison.View())
}

type taskProgressRequest struct {
	Status       string `json:"status"`
	ActualOutput int    `json:"actual_output"`
}

func (s *Server) recordTaskProgress(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req taskProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	err := s.planning.RecordTaskProgress(c.Request.Context(), id,
		domain.PlanTaskStatus(req.Status), req.ActualOutput)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
