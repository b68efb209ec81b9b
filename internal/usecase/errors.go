package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrNotLoaded             = errors.New("results not loaded")
	ErrPrecondition          = errors.New("precondition failed")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrMalformedResponse     = errors.New("malformed provider response")
	ErrEmptyResult           = errors.New("no matchday results")
)
