package domain

import "errors"

var (
	ErrUnknownPitch     = errors.New("unknown pitch")
	ErrPitchSetNotFound = errors.New("pitch set not found")
	ErrSessionActive    = errors.New("session already active")
	ErrNoFinishedRun    = errors.New("no finished run")
)
