package cli

import "errors"

// Common CLI errors
var (
	ErrInvalidFixtures     = errors.New("invalid fixtures")
	ErrExpectationsFailed  = errors.New("expectations failed")
	ErrInvalidExpectations = errors.New("invalid expectations file")
)
