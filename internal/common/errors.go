package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Coordinator errors
	ErrBusy              = errors.New("another operation is in progress")
	ErrInvalidState      = errors.New("operation not allowed in current state")
	ErrDisposed          = errors.New("coordinator has been disposed")
	ErrNoSpeech          = errors.New("no speech detected")
	ErrProcessingExpired = errors.New("processing timed out")

	// Draft errors
	ErrDraftNotFound = errors.New("draft not found")
	ErrEmptyDraft    = errors.New("draft has neither text nor media")
	ErrSessionOpen   = errors.New("an editing session is already open")
	ErrNoSession     = errors.New("no editing session is open")

	// Media errors
	ErrMediaNotFound     = errors.New("media not found")
	ErrMediaUnresolvable = errors.New("media reference could not be resolved")
	ErrMediaRequired     = errors.New("target requires media but draft has none")

	// Generation errors
	ErrGenerationFailed = errors.New("content generation failed")

	// Publishing errors
	ErrNoTargets          = errors.New("no target platforms selected")
	ErrPublishFailed      = errors.New("publishing failed for one or more targets")
	ErrNotAuthenticated   = errors.New("platform is not authenticated")
	ErrSubAccountRequired = errors.New("platform requires a business sub-account")
	ErrUnknownPlatform    = errors.New("unknown platform")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)
