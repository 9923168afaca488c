package configs

import (
	"errors"
)

// First returns the value at path, or the zero value when no file sets it.
// A value that does not decode is a broken config and panics.
func First[T any](loader Loader, path string) T {
	value, _ := Lookup[T](loader, path)
	return value
}

// Lookup is First that also reports whether the value is set.
func Lookup[T any](loader Loader, path string) (T, bool) {
	var value T
	err := loader.AssignFirst(path, &value)
	if errors.Is(err, ErrValueNotFound) {
		var zero T
		return zero, false
	}
	if err != nil {
		panic(err)
	}
	return value, true
}
