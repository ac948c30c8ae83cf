package archive

import "errors"

// Common errors returned by the archive package.
var (
	// ErrMissingMetadata is returned when a container has no metadata.json member.
	ErrMissingMetadata = errors.New("container is missing metadata.json")
	// ErrMissingURL is returned when a record has no url field.
	ErrMissingURL = errors.New("record is missing required url field")
	// ErrInvalidEncoding is returned when an asset declares an unknown encoding.
	ErrInvalidEncoding = errors.New("invalid asset encoding")
	// ErrNoContainers is returned when a directory scan loads zero containers.
	ErrNoContainers = errors.New("no containers loaded")
)
