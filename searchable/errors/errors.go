package errors

import (
	stderrors "errors"
	"fmt"
)

type ErrorKind string

const (
	ErrFieldNotFound              ErrorKind = "field_not_found"
	ErrAssociationNotFound        ErrorKind = "association_not_found"
	ErrFieldOrAssociationNotFound ErrorKind = "field_or_association_not_found"
	ErrConditionNotSupported      ErrorKind = "condition_not_supported"
	ErrInvalidArgument            ErrorKind = "invalid_argument"
	ErrSchema                     ErrorKind = "schema"
	ErrSpec                       ErrorKind = "spec"
	ErrSQL                        ErrorKind = "sql"
	ErrIO                         ErrorKind = "io"
)

// Error is the single error type returned by the compiler and its collaborators.
// Entity/Field are set for lookup failures, Condition/Type for handler failures.
type Error struct {
	Kind      ErrorKind
	Message   string
	Entity    string
	Field     string
	Condition string
	Type      string
	Cause     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	base := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match on kind: errors.Is(err, &Error{Kind: ErrInvalidArgument}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func FieldNotFound(entity, field string) *Error {
	return &Error{
		Kind:    ErrFieldNotFound,
		Message: fmt.Sprintf("the entity %q has no field named %q", entity, field),
		Entity:  entity,
		Field:   field,
	}
}

func AssociationNotFound(entity, association string) *Error {
	return &Error{
		Kind:    ErrAssociationNotFound,
		Message: fmt.Sprintf("the entity %q does not have an association named %q", entity, association),
		Entity:  entity,
		Field:   association,
	}
}

func FieldOrAssociationNotFound(entity, name string) *Error {
	return &Error{
		Kind:    ErrFieldOrAssociationNotFound,
		Message: fmt.Sprintf("the entity %q has no field or association named %q", entity, name),
		Entity:  entity,
		Field:   name,
	}
}

func ConditionNotSupported(condition, typeName string) *Error {
	return &Error{
		Kind:      ErrConditionNotSupported,
		Message:   fmt.Sprintf("the condition %q is not supported for the %q type", condition, typeName),
		Condition: condition,
		Type:      typeName,
	}
}

func InvalidArgument(msg string) *Error {
	return &Error{Kind: ErrInvalidArgument, Message: msg}
}

func SchemaError(msg string) *Error {
	return &Error{Kind: ErrSchema, Message: msg}
}

func SpecError(msg string) *Error {
	return &Error{Kind: ErrSpec, Message: msg}
}

// IsKind reports whether err carries the given kind. A missing field or
// association also reports true for ErrFieldNotFound.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if !stderrors.As(err, &e) {
		return false
	}
	if e.Kind == kind {
		return true
	}
	return kind == ErrFieldNotFound && e.Kind == ErrFieldOrAssociationNotFound
}
