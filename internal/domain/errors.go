package domain

import "errors"

var (
	ErrEmptyBrand      = errors.New("brand cannot be empty")
	ErrEmptyModel      = errors.New("model cannot be empty")
	ErrInvalidMaxPrice = errors.New("max price must be positive")
	ErrNoPlatforms     = errors.New("at least one platform is required")
	ErrInvalidLimit    = errors.New("per-platform limit must be positive")
	ErrInvalidMode     = errors.New("invalid execution mode")
	ErrUnknownPlatform = errors.New("unknown platform")
)

var (
	ErrSessionNotFound = errors.New("session not found")
)
