package domain

import "errors"

// Sentinel errors shared between stores, services and handlers.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)
