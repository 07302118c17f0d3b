package scheduler

import "errors"

var (
	// ErrTriggerNotRunning is returned when requesting a run on a stopped trigger
	ErrTriggerNotRunning = errors.New("sync trigger is not running")

	// ErrInvalidConfig is returned when the trigger configuration is invalid
	ErrInvalidConfig = errors.New("invalid sync trigger configuration")
)
