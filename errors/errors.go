// Package errors provides error handling for tsexport.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints and details
//
// Usage:
//
//	// Wrap with context
//	if err := os.Remove(path); err != nil {
//	    return errors.Wrapf(err, "failed to remove %s", path)
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "re-run with --nocapture to see the test output")
//
//	// Check errors
//	if errors.Is(err, errors.ErrMetadataParse) {
//	    // handle corrupt metadata
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
	CombineErrors      = crdb.CombineErrors
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var AssertionFailedf = crdb.AssertionFailedf

// Sentinel errors for the export pipeline.
// Use these with errors.Is() and wrap them with errors.Wrap() to add context.
var (
	// ErrMetadataParse indicates the transient metadata file is malformed
	ErrMetadataParse = New("malformed metadata")

	// ErrConfigConflict indicates mutually exclusive options were requested together
	ErrConfigConflict = New("conflicting options")

	// ErrInvalidConfig indicates a structurally invalid configuration value
	ErrInvalidConfig = New("invalid configuration")

	// ErrNamingCollision indicates two exports share a name but not a path
	ErrNamingCollision = New("naming collision")

	// ErrTestFailed indicates the external test tool exited unsuccessfully
	ErrTestFailed = New("test run failed")

	// ErrPathEscape indicates a recorded path resolves outside the output directory
	ErrPathEscape = New("path escapes output directory")

	// ErrReservedPath indicates a recorded path is the artifact itself
	ErrReservedPath = New("path is reserved for the index")
)

// NewMetadataError creates a metadata parse error with a formatted message
func NewMetadataError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrMetadataParse)
}

// NewConfigError creates an invalid-config error with a formatted message
func NewConfigError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrInvalidConfig)
}
