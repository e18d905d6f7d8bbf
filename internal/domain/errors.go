package domain

import "errors"

// Sentinel errors shared across services and mapped to HTTP statuses in one
// place (httpapi.writeError). Services wrap these with context via %w.
var (
	// ErrUnauthenticated: missing/invalid/expired credentials. Clients react
	// with the single-retry refresh flow, never by trusting a partial payload.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUnauthorized: authenticated but wrong role or ownership. No retry.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidRequest: malformed input or an untrusted source link.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrAlreadyExists: idempotent no-op, success-equivalent for retry safety.
	ErrAlreadyExists = errors.New("already exists")

	// ErrCompanyConflict: a real employer already represents this company;
	// permanent rejection for that input.
	ErrCompanyConflict = errors.New("company conflict")

	// ErrDependencyFailure: an external collaborator failed on an essential
	// path (payment verification). Non-essential failures are logged instead.
	ErrDependencyFailure = errors.New("dependency failure")

	ErrNotFound = errors.New("not found")

	// ErrDuplicateAccount: second account for the same (tenant, email) or
	// (tenant, company). Creation fails, never silently merges.
	ErrDuplicateAccount = errors.New("duplicate account")

	// ErrDuplicateOrder: order_id already consumed by an existing job.
	ErrDuplicateOrder = errors.New("duplicate order")
)
