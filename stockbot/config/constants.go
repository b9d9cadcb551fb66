package config

import "time"

// UI and Display Constants
const (
	// Pagination
	ModulesPerPage    = 10
	DeliveriesPerPage = 10

	// Colors
	ErrorColor    = 0xFF4D4F
	SuccessColor  = 0x00FF00
	InfoColor     = 0x00FFFF
	WarningColor  = 0xFFAA00
	ProgressColor = 0xFFFF00

	// Progress bar
	ProgressBarLength = 12
	ProgressFilled    = "▓"
	ProgressEmpty     = "░"
)

// Timeouts
const (
	DefaultQueryTimeout = 10 * time.Second
	AutocompleteTimeout = 2 * time.Second
	ShutdownTimeout     = 10 * time.Second
	PresenceTimeout     = 5 * time.Second
	LinkSendTimeout     = 10 * time.Second
	// ProgressSlack is kept free of animation for Reserve and the final edit.
	ProgressSlack = 15 * time.Second
)

// MaxAutocompleteChoices is Discord's cap on autocomplete results.
const MaxAutocompleteChoices = 25
