package errors

import (
	"errors"
	"fmt"
)

// Common error types for the storefront
var (
	// Account errors
	ErrDuplicateEmail = errors.New("email already exists")
	ErrUnknownUser    = errors.New("no account with this email")
	ErrWrongPassword  = errors.New("incorrect password")

	// Cart errors
	ErrEmptyCart = errors.New("cart is empty")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
