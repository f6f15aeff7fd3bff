// Package httpapi exposes the journal over HTTP with gin.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"trading-journal/internal/insights"
	"trading-journal/internal/interfaces"
	"trading-journal/internal/trace"
	"trading-journal/internal/tradelog"
)

const requestIDHeader = "X-Request-ID"

type Server struct {
	R           *gin.Engine
	Trades      interfaces.TradeRepository
	Suggestions interfaces.SuggestionRepository
	Insights    *insights.Service
	Journal     *tradelog.Journal
	Logger      *zap.Logger
}

// Deps are the collaborators a Server routes to. Journal may be nil.
type Deps struct {
	Trades      interfaces.TradeRepository
	Suggestions interfaces.SuggestionRepository
	Insights    *insights.Service
	Journal     *tradelog.Journal
	Logger      *zap.Logger
}

// NewServer wires the router, middleware and handlers.
func NewServer(d Deps, corsOrigin string) *Server {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	g := gin.New()

	g.Use(requestID())
	g.Use(tracing())
	g.Use(accessLog(d.Logger))
	g.Use(gin.Recovery())
	g.Use(cors(corsOrigin))

	s := &Server{
		R:           g,
		Trades:      d.Trades,
		Suggestions: d.Suggestions,
		Insights:    d.Insights,
		Journal:     d.Journal,
		Logger:      d.Logger,
	}

	g.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Trading Journal API is running"})
	})
	g.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	api := g.Group("/api")
	api.GET("/test", s.test)

	trades := api.Group("/trades")
	trades.GET("", s.listTrades)
	trades.POST("", s.createTrade)
	trades.GET("/:id", s.getTrade)
	trades.PUT("/:id", s.updateTrade)
	trades.DELETE("/:id", s.deleteTrade)

	analytics := api.Group("/analytics")
	analytics.GET("/performance", s.performance)
	analytics.GET("/patterns", s.patterns)
	analytics.GET("/suggestions", s.patternSuggestions)
	analytics.GET("/advanced", s.advanced)

	gemini := api.Group("/gemini")
	gemini.POST("/analyze", s.analyze)
	gemini.POST("/chat", s.chatWithTrades)
	gemini.POST("/analytics", s.advancedFromBody)

	sugg := api.Group("/suggestions")
	sugg.POST("/generate", s.generateSuggestions)
	sugg.POST("/chat", s.chat)
	sugg.GET("/chat/history", s.chatHistory)
	sugg.DELETE("/chat/history", s.clearChatHistory)
	sugg.GET("", s.listSuggestions)
	sugg.POST("", s.createSuggestion)
	sugg.GET("/:id", s.getSuggestion)
	sugg.PUT("/:id", s.replaceSuggestion)
	sugg.DELETE("/:id", s.deleteSuggestion)

	return s
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := trace.StartRequestSpan(c.Request.Context(), c.Request.Method, c.FullPath())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		trace.EndRequestSpan(span, c.Writer.Status())
	}
}

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http_request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func cors(corsOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		h := c.Writer.Header()
		h.Set("Vary", "Origin")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+requestIDHeader)
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Max-Age", "86400")
		if corsOrigin == "*" {
			h.Set("Access-Control-Allow-Origin", "*")
		} else if origin != "" && origin == corsOrigin {
			h.Set("Access-Control-Allow-Origin", corsOrigin)
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) test(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Backend is running successfully!",
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
