package store

import "github.com/pkg/errors"

var (
	ErrCorruptStorage = errors.New("storage file does not contain a valid JSON document")
	ErrReservedPath   = errors.New("storage path uses a reserved file name")
	ErrNotFound       = errors.New("document not found")
)
