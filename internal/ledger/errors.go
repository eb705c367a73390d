package ledger

import "errors"

var (
	// ErrCustomerNotFound means no balance record exists for the customer.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrForbidden means the customer exists but belongs to another merchant.
	ErrForbidden = errors.New("customer belongs to another merchant")

	// ErrInvalidType is returned for a transaction type outside the closed set.
	ErrInvalidType = errors.New("invalid transaction type")

	// ErrInvalidAmount is returned for a negative amount.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientPoints is returned when a debit exceeds the current
	// balance. Not retryable: the same call will fail again.
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrBalanceOverflow is returned when a credit would push the balance
	// past the int64 maximum.
	ErrBalanceOverflow = errors.New("balance overflow")

	// ErrConflict is returned after the bounded retry loop exhausts its
	// attempts under contention. Callers may retry.
	ErrConflict = errors.New("concurrent update conflict")

	// ErrStorage wraps unexpected durability-layer failures.
	ErrStorage = errors.New("storage unavailable")
)
