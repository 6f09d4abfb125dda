package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrMissingFont   = fmt.Errorf("%w: font resource not found", ErrInvalidConfig)
	ErrInvalidStyle  = fmt.Errorf("%w: invalid layout style", ErrInvalidConfig)

	// Rendering errors
	ErrRender = fmt.Errorf("render failed")
	ErrEncode = fmt.Errorf("%w: code encoding failed", ErrRender)

	// Job errors
	ErrJobNotFound = fmt.Errorf("export job not found")
	ErrJobFinished = fmt.Errorf("export job already ran")

	// Job-scoped store errors
	ErrKeyExists   = fmt.Errorf("key already exists")
	ErrKeyNotFound = fmt.Errorf("key not found")

	// Input validation errors
	ErrInvalidInput      = fmt.Errorf("invalid input")
	ErrMissingArgument   = fmt.Errorf("missing required argument")
	ErrInvalidArgument   = fmt.Errorf("invalid argument")
	ErrUnsupportedFormat = fmt.Errorf("unsupported format")
)
