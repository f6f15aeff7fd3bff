package llm

import (
	"errors"
	"net/http"
	"strings"

	"trading-journal/internal/api"
	"trading-journal/internal/types"
)

// Classify maps a provider failure onto an UpstreamError kind. Message
// substrings are checked first since some providers report bad keys with a
// plain 400.
func Classify(err error) *types.UpstreamError {
	if err == nil {
		return nil
	}
	var ue *types.UpstreamError
	if errors.As(err, &ue) {
		return ue
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "API key not valid"), strings.Contains(msg, "API key expired"):
		return &types.UpstreamError{Kind: types.InvalidCredentials, Err: err}
	case strings.Contains(lower, "quota exceeded"), strings.Contains(lower, "rate limit"):
		return &types.UpstreamError{Kind: types.QuotaExceeded, Err: err}
	}

	var herr *api.HTTPError
	if errors.As(err, &herr) {
		switch herr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &types.UpstreamError{Kind: types.InvalidCredentials, Err: err}
		case http.StatusTooManyRequests:
			return &types.UpstreamError{Kind: types.QuotaExceeded, Err: err}
		}
	}
	return &types.UpstreamError{Kind: types.UpstreamUnavailable, Err: err}
}
