package anim

import "errors"

var (
	// ErrBadTemplate is returned when a template fails validation.
	ErrBadTemplate = errors.New("invalid animation template")

	// ErrUnknownMood is returned when a mood name is not registered.
	ErrUnknownMood = errors.New("unknown mood")

	// ErrUnknownChannel is returned when a channel name is not registered.
	ErrUnknownChannel = errors.New("unknown channel")
)
