package services

import "errors"

var (
	// ErrEmailTaken is returned when an account with the email already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so callers cannot tell registered emails apart.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrEventNotFound is returned when the referenced event does not exist.
	ErrEventNotFound = errors.New("event not found")

	// ErrRegistrationNotFound is returned when the user holds no
	// registration for the referenced event.
	ErrRegistrationNotFound = errors.New("registration not found")

	// ErrAlreadyRegistered is returned when switching onto an event the user
	// is already registered for.
	ErrAlreadyRegistered = errors.New("already registered for event")
)
