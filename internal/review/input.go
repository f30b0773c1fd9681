package review

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const maxTitleLength = 100

// Input carries the scalar review fields submitted by a caller. It is
// validated at the HTTP boundary; the coordinator only ever sees valid input.
type Input struct {
	Title   string
	Content string
	Rating  int
}

// ErrInvalidInput wraps all field-level validation failures.
var ErrInvalidInput = errors.New("invalid input")

// Validate checks the field rules: title non-blank and at most 100
// characters, content non-blank, rating between 1 and 5.
func (in *Input) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fieldError("title is required")
	}
	if utf8.RuneCountInString(in.Title) > maxTitleLength {
		return fieldError("title must be at most 100 characters")
	}
	if strings.TrimSpace(in.Content) == "" {
		return fieldError("content is required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return fieldError("rating must be between 1 and 5")
	}
	return nil
}

type invalidFieldError struct{ msg string }

func (e *invalidFieldError) Error() string { return e.msg }
func (e *invalidFieldError) Unwrap() error { return ErrInvalidInput }

func fieldError(msg string) error {
	return &invalidFieldError{msg: msg}
}
