package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zainhoda/sij-manager-sub003/internal/contract"
)

func (s *Server) buildReplan(c *gin.Context) {
	demandID, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := s.replan.BuildReplan(c.Request.Context(), contract.ReplanRequest{DemandID: demandID})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.View())
}

type commitReplanBody struct {
	Entries []contract.CommitEntry `json:"entries"`
}

func (s *Server) commitReplan(c *gin.Context) {
	demandID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body commitReplanBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	result, err := s.replan.CommitReplan(c.Request.Context(), contract.CommitReplanRequest{
		DemandID: demandID,
		Entries:  body.Entries,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	tasks := make([]contract.TaskView, 0, len(result.Tasks))
	for _, t := range result.Tasks {
		tasks = append(tasks, contract.NewTaskView(t))
	}
	c.JSON(http.StatusOK, gin.H{
		"workers_created": result.WorkersCreated,
		"tasks_deleted":   result.TasksDeleted,
		"tasks_created":   result.TasksCreated,
		"tasks":           tasks,
	})
}
