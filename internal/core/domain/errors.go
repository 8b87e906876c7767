package domain

import "go.trai.ch/zerr"

var (
	// ErrMalformedRequirement is returned when a requirement token cannot be parsed.
	ErrMalformedRequirement = zerr.New("malformed requirement")

	// ErrUnsatisfiableRequirement is returned when the intersected specifiers for a
	// package admit no available version, or conflict outright.
	ErrUnsatisfiableRequirement = zerr.New("unsatisfiable requirement")

	// ErrDistributionNotFound is returned when an operation names a distribution
	// that has no install record.
	ErrDistributionNotFound = zerr.New("distribution not installed")

	// ErrFetch is returned when a distribution cannot be fetched from its source.
	ErrFetch = zerr.New("fetch failed")

	// ErrBuild is returned when a fetched distribution fails to build or verify.
	ErrBuild = zerr.New("build failed")

	// ErrTransactionIntegrity is returned when rollback itself failed to restore the
	// pre-transaction state. The environment must be assumed inconsistent.
	ErrTransactionIntegrity = zerr.New("rollback failed to restore environment")

	// ErrNoRequirements is returned when an install is requested with nothing to install.
	ErrNoRequirements = zerr.New("no requirements given")
)
