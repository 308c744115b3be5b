package models

import "errors"

// Custom errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key violation")
	ErrInvalidID      = errors.New("invalid ID format")
	ErrMalformedValue = errors.New("malformed prediction value")
	ErrUnknownMarket  = errors.New("unknown market type")
	ErrScoresMissing  = errors.New("final scores not available")
)
