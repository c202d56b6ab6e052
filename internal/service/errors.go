package service

import "errors"

// Business-rule sentinels. Handlers map these to HTTP status codes; anything
// else is an internal failure and surfaces as a generic 500.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyPurchased   = errors.New("course already purchased")
	ErrAlreadyRegistered  = errors.New("already registered for workshop")
	ErrWorkshopFull       = errors.New("workshop is full")
	ErrWorkshopClosed     = errors.New("workshop is not open for registration")
	ErrInvalidSignature   = errors.New("invalid payment signature")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)
