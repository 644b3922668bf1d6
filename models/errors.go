package models

import "errors"

var (
	// Missing entities
	ErrUserNotFound    = errors.New("user not found")
	ErrCompanyNotFound = errors.New("current user does not have a registered company")
	ErrGameNotFound    = errors.New("game not found")
	ErrAssetNotFound   = errors.New("file not found")

	// Business-rule violations
	ErrCompanyNotApproved = errors.New("information about the user's company may be inaccurate, creating is temporarily disabled")
	ErrCompanyExists      = errors.New("user already owns a company")
	ErrAssetConflict      = errors.New("multiple files found but one is required")

	// Auth
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrForbidden          = errors.New("insufficient permissions")
)
