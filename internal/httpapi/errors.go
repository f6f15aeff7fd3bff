package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trading-journal/internal/insights"
	"trading-journal/internal/types"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
	Status  string `json:"status"`
}

func (s *Server) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, apiError{Code: "bad_request", Message: msg, Status: "error"})
}

// writeError maps domain errors onto HTTP statuses.
func (s *Server) writeError(c *gin.Context, where string, err error) {
	var verr *types.DataValidationError
	switch {
	case errors.As(err, &verr):
		s.badRequest(c, verr.Error())
	case errors.Is(err, types.ErrNotFound):
		c.JSON(http.StatusNotFound, apiError{Code: "not_found", Message: err.Error(), Status: "error"})
	case errors.Is(err, types.ErrQuotaExceeded):
		c.JSON(http.StatusTooManyRequests, apiError{Code: "quota_exceeded", Message: insights.MsgQuotaExceeded, Status: "error"})
	default:
		s.Logger.Error("internal_error", zap.String("where", where), zap.Error(err))
		c.JSON(http.StatusInternalServerError, apiError{Code: "internal_server_error", Message: "internal server error", Status: "error"})
	}
}
