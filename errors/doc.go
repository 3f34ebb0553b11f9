// Package errors provides standardized error handling patterns for jobmap.
//
// # Overview
//
// The errors package implements a three-class error classification system:
// Transient (I/O conditions that may clear on a later run), Invalid (bad input,
// rejected payloads, malformed definitions) and Fatal (unusable configuration,
// stop processing).
//
// Every parse failure produced by processor/parser unwraps to ErrParsingFailed,
// so callers can map a whole family of failures onto a single client-facing
// "bad request" outcome without inspecting messages:
//
//	tree, err := parser.Parse(text)
//	if errors.IsInvalid(err) {
//	    // reject the payload, attach err.Error() verbatim
//	}
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// Three wrapper functions provide classification-aware wrapping:
//
//	errors.WrapTransient(err, "Writer", "Write", "rename temp file")
//	errors.WrapInvalid(err, "Converter", "Convert", "decode definitions")
//	errors.WrapFatal(err, "Loader", "Load", "validate schema")
//
// The generic Wrap() function adds context without changing classification.
//
// # Standard Error Variables
//
//   - Input: ErrInvalidData, ErrParsingFailed, ErrUnsupportedFormat
//   - Configuration: ErrInvalidConfig, ErrMissingConfig, ErrConfigNotFound
//   - Output: ErrOutputExists, ErrOutputUnavailable
//   - Lifecycle: ErrAlreadyStarted, ErrNotStarted
//
// # Command-line Integration
//
// ExitCode translates a classified error into the exit status used by
// cmd/jobmap: 0 for success, 2 for fatal conditions and 1 for everything else.
//
// # Thread Safety
//
// All classification and wrapping operations are safe for concurrent use.
// Error variables are immutable and ClassifiedError values are safe to share
// after creation.
package errors
