package domain

import "errors"

var (
	ErrInvalidName   = errors.New("invalid_company_name")
	ErrSlugExhausted = errors.New("slug_attempts_exhausted")
)
