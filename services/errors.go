package services

import "errors"

// Общие ошибки сервисного слоя, участвующие в HTTP-маппинге.
var (
	// Ошибки валидации и бизнес-правил
	ErrUnknownPreset       = errors.New("unknown scoring preset")
	ErrPlayerNameRequired  = errors.New("player name is required")
	ErrMatchIDRequired     = errors.New("match id is required")
	ErrNoMatchesSelected   = errors.New("no matches selected")
	ErrExportNotConfigured = errors.New("export upload storage is not configured")

	// Ошибки аутентификации
	ErrAuthInvalidCredentials = errors.New("invalid organizer password")
)
