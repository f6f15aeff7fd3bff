package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trading-journal/internal/analytics"
	"trading-journal/internal/insights"
	"trading-journal/internal/tradeinput"
	"trading-journal/internal/types"
)

// tradesBody is the payload shared by the generation endpoints. Trades use
// the loose field naming accepted by tradeinput.
type tradesBody struct {
	Trades    []map[string]any `json:"trades"`
	Question  string           `json:"question"`
	Message   string           `json:"message"`
	SessionID string           `json:"sessionId"`
}

func (s *Server) bindTrades(c *gin.Context) (tradesBody, []types.Trade, bool) {
	var body tradesBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, "invalid JSON body")
		return body, nil, false
	}
	trades, err := tradeinput.NormalizeAll(body.Trades)
	if err != nil {
		s.writeError(c, "NormalizeTrades", err)
		return body, nil, false
	}
	return body, trades, true
}

func (s *Server) storedTrades(c *gin.Context) ([]types.Trade, bool) {
	trades, err := s.Trades.List(c.Request.Context())
	if err != nil {
		s.writeError(c, "ListTrades", err)
		return nil, false
	}
	return trades, true
}

// textPayload renders a TextResult the way the analyze endpoint always has:
// the raw text on success, an error object when degraded.
func textPayload(res insights.TextResult) any {
	if res.Degraded {
		return gin.H{"error": res.Message, "details": res.Detail}
	}
	return res.Text
}

func (s *Server) performance(c *gin.Context) {
	trades, ok := s.storedTrades(c)
	if !ok {
		return
	}
	m, err := analytics.ComputeMetrics(trades)
	if err != nil {
		s.writeError(c, "Performance", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) patterns(c *gin.Context) {
	trades, ok := s.storedTrades(c)
	if !ok {
		return
	}
	rep, err := s.Insights.Patterns(trades)
	if err != nil {
		s.writeError(c, "Patterns", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patterns": rep.Report})
}

func (s *Server) patternSuggestions(c *gin.Context) {
	trades, ok := s.storedTrades(c)
	if !ok {
		return
	}
	rep, err := s.Insights.Patterns(trades)
	if err != nil {
		s.writeError(c, "PatternSuggestions", err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) advanced(c *gin.Context) {
	trades, ok := s.storedTrades(c)
	if !ok {
		return
	}
	s.respondAdvanced(c, trades)
}

func (s *Server) advancedFromBody(c *gin.Context) {
	_, trades, ok := s.bindTrades(c)
	if !ok {
		return
	}
	s.respondAdvanced(c, trades)
}

func (s *Server) respondAdvanced(c *gin.Context, trades []types.Trade) {
	res, err := s.Insights.AdvancedAnalytics(c.Request.Context(), trades)
	if err != nil {
		s.writeError(c, "AdvancedAnalytics", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "status": "success"})
}

func (s *Server) analyze(c *gin.Context) {
	_, trades, ok := s.bindTrades(c)
	if !ok {
		return
	}
	res, err := s.Insights.AnalyzeTrades(c.Request.Context(), trades)
	if err != nil {
		s.writeError(c, "AnalyzeTrades", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": textPayload(res), "status": "success"})
}

func (s *Server) chatWithTrades(c *gin.Context) {
	body, trades, ok := s.bindTrades(c)
	if !ok {
		return
	}
	res, err := s.Insights.ChatWithTrades(c.Request.Context(), trades, body.Question)
	if err != nil {
		s.writeError(c, "ChatWithTrades", err)
		return
	}
	response := res.Text
	if res.Degraded {
		response = res.Message
	}
	c.JSON(http.StatusOK, gin.H{"response": response, "status": "success"})
}

func (s *Server) generateSuggestions(c *gin.Context) {
	_, trades, ok := s.bindTrades(c)
	if !ok {
		return
	}
	out, err := s.Insights.GenerateSuggestions(c.Request.Context(), trades)
	if err != nil {
		s.writeError(c, "GenerateSuggestions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": out})
}

// chat uses the trades in the body, or the stored journal when none are sent.
func (s *Server) chat(c *gin.Context) {
	body, trades, ok := s.bindTrades(c)
	if !ok {
		return
	}
	if len(trades) == 0 {
		if trades, ok = s.storedTrades(c); !ok {
			return
		}
	}
	reply, err := s.Insights.Chat(c.Request.Context(), body.SessionID, body.Message, trades)
	if err != nil {
		s.writeError(c, "Chat", err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

func (s *Server) chatHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": s.Insights.History(c.Query("sessionId"))})
}

func (s *Server) clearChatHistory(c *gin.Context) {
	s.Insights.ClearHistory(c.Query("sessionId"))
	c.JSON(http.StatusOK, gin.H{"message": "Chat history cleared"})
}
