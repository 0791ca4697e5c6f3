package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/scheduler"
)

// writeError maps the service error taxonomy onto HTTP statuses: bad input
// and failed preconditions are 400, missing entities 404, colliding writes
// 409, an infeasible schedule 400, anything else 500. Every error body is
// {"error": "<short message>"}.
func writeError(c *gin.Context, err error) {
	var (
		validation   *contract.ValidationError
		notFound     *contract.NotFoundError
		precondition *contract.PreconditionError
		conflict     *contract.ConflictError
		infeasible   *scheduler.InfeasibleError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validation), errors.As(err, &precondition), errors.As(err, &infeasible):
		status = http.StatusBadRequest
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &conflict):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// pathID parses a positive integer path parameter, answering 400 itself
// when the value is malformed.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := parseID(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
