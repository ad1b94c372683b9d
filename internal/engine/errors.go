package engine

import "errors"

var ErrEmptyWordlist = errors.New("no valid subdomains found in wordlist")

// ConfigurationError aborts a run before any worker starts.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string { return "configuration error: " + e.Err.Error() }

func (e *ConfigurationError) Unwrap() error { return e.Err }
