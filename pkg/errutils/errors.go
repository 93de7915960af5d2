// Package errutils defines the error values shared across wikidump.
//
// Errors are plain sentinels created with fmt.Errorf and are compared with
// errors.Is. Call sites add context with Wrap and Wrapf or with one of the
// ...WithDetails helpers so that the sentinel stays reachable through the chain.
package errutils

import (
	"fmt"
	"net/http"
)

// Common error types used throughout the application.
var (
	// ErrInvalidName is returned when a mirror name normalizes to an empty token.
	ErrInvalidName = fmt.Errorf("name must normalize to a non-empty string")

	// ErrPathEscape signals a resolved cache path that left its cache directory.
	// It indicates a programming or configuration defect and is raised by panic.
	ErrPathEscape = fmt.Errorf("resolved path escapes cache directory")

	// ErrIntegrity is returned when a downloaded file does not match its checksum.
	ErrIntegrity = fmt.Errorf("download verification failed")

	// ErrHTTPStatus is matched by every *HTTPError.
	ErrHTTPStatus = fmt.Errorf("unexpected HTTP status")

	// ErrNotFound is returned when a wiki, job or file lookup misses.
	ErrNotFound = fmt.Errorf("not found")

	// ErrDownloadFailed is returned when a download request cannot be started.
	ErrDownloadFailed = fmt.Errorf("download failed")

	// ErrIndexStalled is returned when the index transfer makes no progress within the timeout.
	ErrIndexStalled = fmt.Errorf("index transfer stalled")

	// ErrHookPanic is returned when a completion hook panics.
	ErrHookPanic = fmt.Errorf("completion hook panicked")

	// ErrUnknownMirror is returned when a mirror key is not in the registry.
	ErrUnknownMirror = fmt.Errorf("unknown mirror")

	// ErrInvalidPath is returned when a file or directory path is invalid.
	ErrInvalidPath = fmt.Errorf("invalid path")

	// ErrCacheDirectory is returned when the cache directory cannot be used.
	ErrCacheDirectory = fmt.Errorf("invalid cache directory")

	// Config errors are related to configuration file operations and validation.
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate  = fmt.Errorf("failed to create config file")

	// ErrConfigFileExists is returned when attempting to create a configuration file that already exists.
	ErrConfigFileExists = fmt.Errorf("configuration file already exists (use --force to overwrite)")

	// ErrConfigFileRename is returned when renaming the temporary config file fails.
	ErrConfigFileRename = fmt.Errorf("failed to rename temporary config file")

	// ErrConfigMarshal is returned when marshaling the config to YAML fails.
	ErrConfigMarshal = fmt.Errorf("failed to marshal config to YAML")

	// ErrConfigEnv is returned when an environment override holds an unusable value.
	ErrConfigEnv = fmt.Errorf("invalid environment override")

	// ErrIndexTimeoutNegative is returned when the index timeout is set to a negative value.
	ErrIndexTimeoutNegative = fmt.Errorf("index_timeout cannot be negative")

	// ErrChunkSizeInvalid is returned when chunk_size is less than 1.
	ErrChunkSizeInvalid = fmt.Errorf("chunk_size must be at least 1")

	// ErrInvalidOutputFormat is returned when an invalid output format is specified.
	ErrInvalidOutputFormat = fmt.Errorf("invalid output format")

	// ErrInvalidLogLevel is returned when an invalid log level is specified.
	ErrInvalidLogLevel = fmt.Errorf("invalid log level")

	// ErrMirrorIncomplete is returned when a custom mirror has a name but no index URL or vice versa.
	ErrMirrorIncomplete = fmt.Errorf("custom mirror needs both name and index_url")
)

// HTTPError reports a non-success response from a mirror.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: %d %s (%s)", ErrHTTPStatus, e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// Is reports whether target is ErrHTTPStatus.
func (e *HTTPError) Is(target error) bool {
	return target == ErrHTTPStatus
}

// Wrap wraps an error with additional context.
// If the error is nil, Wrap returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
// If the error is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// ErrNotFoundWithName creates an error for a lookup miss of the given kind, e.g. "wiki".
func ErrNotFoundWithName(kind, name string) error {
	return fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
}

// ErrUnknownMirrorWithKey creates an error listing the valid mirror keys.
func ErrUnknownMirrorWithKey(key string, valid []string) error {
	return fmt.Errorf("%w: %q, must be one of: %v", ErrUnknownMirror, key, valid)
}

// ErrIntegrityWithDigests creates a checksum mismatch error carrying both digests.
func ErrIntegrityWithDigests(url, want, got string) error {
	return fmt.Errorf("%w: %s: expected sha1 %s, got %s", ErrIntegrity, url, want, got)
}

// ErrInvalidOutputFormatWithDetails is a helper to create a wrapped error with the invalid format and valid options.
func ErrInvalidOutputFormatWithDetails(format string) error {
	return fmt.Errorf("%w: '%s', must be one of: text, json", ErrInvalidOutputFormat, format)
}

// ErrInvalidLogLevelWithDetails is a helper to create a wrapped error with the invalid level and valid options.
func ErrInvalidLogLevelWithDetails(level string) error {
	return fmt.Errorf("%w: '%s', must be one of: debug, info, warn, error", ErrInvalidLogLevel, level)
}
