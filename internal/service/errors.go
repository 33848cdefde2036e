package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the services wraps exactly one of
// these (or ErrInvalidCredentials) so callers can switch on errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidState  = errors.New("invalid state")
	ErrInvalidInput  = errors.New("invalid input")
	ErrAccessDenied  = errors.New("access denied")
	ErrNoActiveShift = errors.New("no active shift")

	ErrInvalidCredentials = errors.New("invalid credentials")
)

var (
	ErrInvalidEmployee     = fmt.Errorf("invalid employee: %w", ErrNotFound)
	ErrOrderNotFound       = fmt.Errorf("order %w", ErrNotFound)
	ErrOrderNotInProgress  = fmt.Errorf("order is not in progress: %w", ErrInvalidState)
	ErrInvalidService      = fmt.Errorf("unknown service id: %w", ErrInvalidInput)
	ErrNoServices          = fmt.Errorf("at least one service is required: %w", ErrInvalidInput)
	ErrInvalidPaymentType  = fmt.Errorf("payment type must be CASH or QR: %w", ErrInvalidInput)
	ErrClientNameRequired  = fmt.Errorf("client name is required: %w", ErrInvalidInput)
	ErrReasonRequired      = fmt.Errorf("reason is required: %w", ErrInvalidInput)
	ErrInvalidPIN          = fmt.Errorf("pin must be 4 to 8 digits: %w", ErrInvalidInput)
	ErrDuplicatePIN        = fmt.Errorf("pin already used: %w", ErrInvalidInput)
	ErrInvalidRole         = fmt.Errorf("role must be EMPLOYEE or ADMIN: %w", ErrInvalidInput)
	ErrInvalidServiceInput = fmt.Errorf("service name and positive price are required: %w", ErrInvalidInput)
	ErrNameRequired        = fmt.Errorf("name is required: %w", ErrInvalidInput)
	ErrDuplicateService    = fmt.Errorf("service already exists: %w", ErrInvalidInput)
)
