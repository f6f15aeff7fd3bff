package types

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrUpstreamUnavailable = errors.New("text generation service unavailable")
	ErrQuotaExceeded       = errors.New("text generation quota exceeded")
	ErrInvalidCredentials  = errors.New("text generation credentials invalid")
)

// DataValidationError names the trade and field that could not be read.
// Index is the position of the trade in the supplied collection, -1 when unknown.
// Entity defaults to "trade".
type DataValidationError struct {
	Entity  string
	Index   int
	TradeID int64
	Field   string
	Value   string
	Reason  string
}

func (e *DataValidationError) Error() string {
	who := e.Entity
	if who == "" {
		who = "trade"
	}
	switch {
	case e.TradeID != 0:
		who = fmt.Sprintf("%s %d", who, e.TradeID)
	case e.Index >= 0:
		who = fmt.Sprintf("%s at index %d", who, e.Index)
	}
	if e.Value != "" {
		return fmt.Sprintf("invalid %s: field %q value %q: %s", who, e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s: field %q: %s", who, e.Field, e.Reason)
}

type UpstreamKind int

const (
	UpstreamUnavailable UpstreamKind = iota
	QuotaExceeded
	InvalidCredentials
)

func (k UpstreamKind) String() string {
	switch k {
	case QuotaExceeded:
		return "quota_exceeded"
	case InvalidCredentials:
		return "invalid_credentials"
	default:
		return "upstream_unavailable"
	}
}

// UpstreamError is a classified failure of the text-generation service.
type UpstreamError struct {
	Kind UpstreamKind
	Err  error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the kind sentinels.
func (e *UpstreamError) Is(target error) bool {
	switch target {
	case ErrUpstreamUnavailable:
		return e.Kind == UpstreamUnavailable
	case ErrQuotaExceeded:
		return e.Kind == QuotaExceeded
	case ErrInvalidCredentials:
		return e.Kind == InvalidCredentials
	}
	return false
}
