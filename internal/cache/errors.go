package cache

import (
	"errors"
	"fmt"
)

// ErrInit matches every *InitError via errors.Is.
var ErrInit = errors.New("cache initialization failed")

// InitError reports a cache directory that could not be created.
type InitError struct {
	Dir string
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("cache directory %q was not created: %v", e.Dir, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

func (e *InitError) Is(target error) bool {
	return target == ErrInit
}
