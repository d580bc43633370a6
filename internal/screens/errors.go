package screens

import "errors"

var (
	// ErrClosed is returned by actions on a screen that has been closed.
	ErrClosed = errors.New("screen closed")
	// ErrStale is returned when a result arrived after the screen moved on
	// and was discarded.
	ErrStale = errors.New("stale result discarded")
	// ErrRefresh wraps a failed reload that followed a successful change.
	// The change itself went through.
	ErrRefresh = errors.New("refresh after change failed")
)
