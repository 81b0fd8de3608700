package errors

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrVoterNotFound      = errors.New("voter not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
