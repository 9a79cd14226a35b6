package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication and session errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken   = fmt.Errorf("no refresh token available")

	// API boundary errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrValidation         = fmt.Errorf("validation failed")
	ErrNetwork            = fmt.Errorf("network request failed")
	ErrTimeout            = fmt.Errorf("operation timed out")
	ErrServer             = fmt.Errorf("server error")
	ErrDecode             = fmt.Errorf("response decoding failed")
	ErrConflict           = fmt.Errorf("resource conflict")
	ErrNotFound           = fmt.Errorf("resource not found")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")

	// Image batch errors
	ErrUnsupportedImage = fmt.Errorf("unsupported image format")
	ErrImageTooLarge    = fmt.Errorf("image exceeds maximum file size")
	ErrIncompleteBatch  = fmt.Errorf("image batch incomplete")
)
