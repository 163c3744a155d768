package webpack

import "errors"

var (
	// ErrInvalidRoot is returned when the project root does not exist
	// or is not a directory.
	ErrInvalidRoot = errors.New("invalid project root")

	// ErrMissingAliasTarget is returned when an alias target path does
	// not exist under the project's module directory.
	ErrMissingAliasTarget = errors.New("missing alias target")

	// ErrEmptyLocaleSet is returned when no locales are supplied.
	ErrEmptyLocaleSet = errors.New("empty locale set")

	// ErrInvalidLocale is returned when a locale code is not a
	// lowercase language code.
	ErrInvalidLocale = errors.New("invalid locale code")
)
