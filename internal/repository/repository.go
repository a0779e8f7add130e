package repository

import "errors"

// Package repository contains data access layer abstractions.
// Implementations live in subpackages: postgres for the hosted database,
// localfile for the JSON-file store used in mock mode.

// ErrNotFound is returned when no record matches an id scoped to an owner.
var ErrNotFound = errors.New("record not found")
