package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trading-journal/internal/logger"
	"trading-journal/internal/tradeinput"
	"trading-journal/internal/tradelog"
	"trading-journal/internal/types"
)

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (s *Server) journal(c *gin.Context, action string, t types.Trade) {
	ctx := c.Request.Context()
	logger.Journal(ctx, action, t.ID, t.Symbol, "request_id", c.GetString("request_id"))
	if s.Journal == nil {
		return
	}
	err := s.Journal.Append(tradelog.Entry{
		Action:  action,
		TradeID: t.ID,
		Symbol:  t.Symbol,
		Side:    string(t.Side),
		Status:  string(t.Status),
	})
	if err != nil {
		logger.Warn(ctx, "Failed to write journal log", "action", action, "error", err)
	}
}

func (s *Server) listTrades(c *gin.Context) {
	rows, err := s.Trades.List(c.Request.Context())
	if err != nil {
		s.writeError(c, "ListTrades", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) getTrade(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		s.badRequest(c, "invalid trade id")
		return
	}
	t, err := s.Trades.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, "GetTrade", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) createTrade(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		s.badRequest(c, "invalid JSON body")
		return
	}
	t, err := tradeinput.Normalize(-1, raw)
	if err != nil {
		s.writeError(c, "CreateTrade", err)
		return
	}
	t, err = s.Trades.Create(c.Request.Context(), t)
	if err != nil {
		s.writeError(c, "CreateTrade", err)
		return
	}
	s.journal(c, "create", t)
	c.JSON(http.StatusCreated, gin.H{"id": t.ID, "message": "Trade created successfully", "trade": t})
}

func (s *Server) updateTrade(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		s.badRequest(c, "invalid trade id")
		return
	}
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		s.badRequest(c, "invalid JSON body")
		return
	}
	t, err := s.Trades.Update(c.Request.Context(), id, func(t *types.Trade) error {
		return tradeinput.Apply(t, raw)
	})
	if err != nil {
		s.writeError(c, "UpdateTrade", err)
		return
	}
	s.journal(c, "update", t)
	c.JSON(http.StatusOK, gin.H{"message": "Trade updated successfully", "trade": t})
}

func (s *Server) deleteTrade(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		s.badRequest(c, "invalid trade id")
		return
	}
	ctx := c.Request.Context()
	t, err := s.Trades.Get(ctx, id)
	if err == nil {
		err = s.Trades.Delete(ctx, id)
	}
	if err != nil {
		s.writeError(c, "DeleteTrade", err)
		return
	}
	s.journal(c, "delete", t)
	c.JSON(http.StatusOK, gin.H{"message": "Trade deleted successfully"})
}
