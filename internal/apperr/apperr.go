// Package apperr holds the error kinds shared by every layer. Domain packages
// wrap them so that handlers can map any error to a status with errors.Is.
package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
