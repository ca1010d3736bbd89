package util

import "github.com/pkg/errors"

var (
	ErrContextValueNotFound    = errors.New("value not found in context")
	ErrContextValueInvalidType = errors.New("context value has invalid type")
)
