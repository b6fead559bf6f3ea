package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not allowed")

// ErrInternal indicates an unexpected failure inside the service.
var ErrInternal = errors.New("internal error")

// Ledger-specific errors. Every ledger operation surfaces exactly one of
// these (possibly wrapped) when it aborts; the enclosing database
// transaction is rolled back in full.

// ErrInvalidAmount indicates a non-positive or sub-minimum amount.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrInsufficientFunds indicates the available balance cannot cover the amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrSelfTransfer indicates sender and receiver are the same account.
var ErrSelfTransfer = errors.New("cannot transfer to self")

// ErrAccountNotFound indicates no balance row exists for the user.
var ErrAccountNotFound = errors.New("account not found")

// ErrEscrowNotFound indicates no escrow hold exists with the given ID.
var ErrEscrowNotFound = errors.New("escrow hold not found")

// ErrInvalidEscrowState indicates the escrow hold is not in the state the
// requested transition expects (held -> released|refunded only).
var ErrInvalidEscrowState = errors.New("escrow hold is not in the expected state")

// ErrProviderNotFound indicates the escrow reference could not be resolved
// to a payee account.
var ErrProviderNotFound = errors.New("provider could not be resolved for reference")

// ErrLockTimeout indicates a row lock could not be acquired within the
// configured timeout. Callers may retry the operation.
var ErrLockTimeout = errors.New("timed out waiting for a row lock")

// ErrConservationViolation indicates the audit detected a mismatch between
// the summed balances and the issued supply. Never auto-corrected.
var ErrConservationViolation = errors.New("supply conservation violation detected")
