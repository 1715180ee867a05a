// Package metadata is the annotation store consulted by the container.
//
// # Overview
//
// Every injectable class carries a small table of annotations: which field
// wants a configuration value, which one wants the shared logger, which one
// wants another managed instance, and which methods must run after injection
// or during teardown. The table is keyed by (type, member, kind) and is built
// when the class is defined, never by the container itself.
//
// # Declaring annotations
//
// Field annotations can be written as struct tags:
//
//	type Service struct {
//	    Timeout int           `config:"timeout" default:"30"`
//	    Log     *zap.Logger   `logger:""`
//	    Repo    *Repository   `inject:"Repository,name=primary"`
//	    Email   string        `validate:"required|email"`
//	    Note    *string       `nullable:""`
//	}
//
// Method markers and validator functions go through the builder:
//
//	metadata.For[Service](nil).
//	    Init("Start").
//	    Destroy("Close").
//	    Validator("Email", validation.CheckEmail)
//
// # Inheritance
//
// The chain of a type is the type itself followed by every struct it embeds,
// depth first. Annotations declared on an embedded struct therefore apply to
// the promoted fields and methods of the outer type, the same way the members
// of a base class apply to its subclasses. Extra bases can be declared with
// Builder.Extends.
package metadata
