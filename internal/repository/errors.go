package repository

import "errors"

var (
	ErrMissingOwner = errors.New("screening has no owner")
	ErrEmailTaken   = errors.New("email already registered")
	ErrMissingEmail = errors.New("user has no email")
)
