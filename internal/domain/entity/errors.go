package entity

import "errors"

var (
	// ErrValidation marks a malformed run request; nothing has been sent anywhere yet.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks missing or invalid external configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrProvider marks a model backend failure, possibly after partial delivery.
	ErrProvider = errors.New("provider error")
	// ErrMemory marks a conversation log read or write failure.
	ErrMemory = errors.New("memory error")
	// ErrDegraded marks a run whose response was delivered but not fully recorded.
	ErrDegraded = errors.New("degraded completion")
)
