package model

import "errors"

// Common errors used across the application
var (
	// Setup validation errors
	ErrBlankPlayerName  = errors.New("player name cannot be empty")
	ErrBlankPartnerName = errors.New("partner name cannot be empty")
	ErrBlankPartnerID   = errors.New("partner id cannot be empty")

	// Enum parsing errors
	ErrInvalidDeviceType  = errors.New("invalid device type")
	ErrInvalidSetupMethod = errors.New("invalid setup method")
)
