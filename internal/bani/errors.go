package bani

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBlockingBounds = errors.New("invalid blockingbounds format: expected an array of 4 elements")
	ErrInvalidSprites        = errors.New("missing or invalid sprites property")
	ErrInvalidFrame          = errors.New("invalid frame")
)

// MissingPropertyError называет первое отсутствующее обязательное поле.
type MissingPropertyError struct {
	Path string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("missing property '%s' in the BANI file", e.Path)
}

// ParseError: все, что не дает тексту стать документом.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "parse BANI: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
