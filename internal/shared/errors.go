package shared

import "fmt"

var (
	// Export pipeline errors
	ErrAuth       = fmt.Errorf("authentication failed")
	ErrTransport  = fmt.Errorf("transport error")
	ErrProtocol   = fmt.Errorf("malformed response")
	ErrIO         = fmt.Errorf("output error")
	ErrBusy       = fmt.Errorf("job already running")
	ErrNotRunning = fmt.Errorf("no running job")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Lookup errors
	ErrGameNotFound = fmt.Errorf("game not found")
	ErrJobNotFound  = fmt.Errorf("export job not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
