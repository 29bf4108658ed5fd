package services

import (
	"errors"

	"modlink/internal/ledger"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrIndexOutOfRange = errors.New("guideline index out of range")
	ErrInvalidRequest  = errors.New("invalid request")
	// ErrInvariantViolation means the ledger reached a state it must never hold.
	ErrInvariantViolation = ledger.ErrInvariantViolation
)
