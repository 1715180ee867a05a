package container

import "errors"

var (
	// ErrUnresolvableName is returned when no class or instance name can be
	// derived from the argument (nil, or a value without a type name).
	ErrUnresolvableName = errors.New("no valid name or type was specified")

	// ErrClassNotFound is returned when a class name has no registered class.
	ErrClassNotFound = errors.New("no class found")

	// ErrMissingConfig is returned when a configuration binding has neither
	// a value nor a default.
	ErrMissingConfig = errors.New("no configuration variable is defined")

	// ErrNotAssignable is returned when an injected value cannot be stored
	// in its target field.
	ErrNotAssignable = errors.New("value not assignable")

	// ErrBadHook is returned when an initializer or destructor method is
	// missing or has an unsupported signature.
	ErrBadHook = errors.New("invalid lifecycle method")

	// ErrBadArgument is returned by Arg when a constructor argument is
	// missing or of the wrong type.
	ErrBadArgument = errors.New("invalid constructor argument")
)
