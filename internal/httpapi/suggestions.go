package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trading-journal/internal/types"
)

func (s *Server) listSuggestions(c *gin.Context) {
	rows, err := s.Suggestions.List(c.Request.Context())
	if err != nil {
		s.writeError(c, "ListSuggestions", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) getSuggestion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		s.badRequest(c, "invalid suggestion id")
		return
	}
	row, err := s.Suggestions.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, "GetSuggestion", err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (s *Server) createSuggestion(c *gin.Context) {
	var in types.SavedSuggestion
	if err := c.ShouldBindJSON(&in); err != nil {
		s.badRequest(c, "invalid JSON body")
		return
	}
	row, err := s.Suggestions.Create(c.Request.Context(), in)
	if err != nil {
		s.writeError(c, "CreateSuggestion", err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (s *Server) replaceSuggestion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		s.badRequest(c, "invalid suggestion id")
		return
	}
	var in types.SavedSuggestion
	if err := c.ShouldBindJSON(&in); err != nil {
		s.badRequest(c, "invalid JSON body")
		return
	}
	row, err := s.Suggestions.Replace(c.Request.Context(), id, in)
	if err != nil {
		s.writeError(c, "ReplaceSuggestion", err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (s *Server) deleteSuggestion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		s.badRequest(c, "invalid suggestion id")
		return
	}
	if err := s.Suggestions.Delete(c.Request.Context(), id); err != nil {
		s.writeError(c, "DeleteSuggestion", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Suggestion deleted successfully"})
}
