package searchable

import serrors "github.com/ministore/searchable/searchable/errors"

type Error = serrors.Error
type ErrorKind = serrors.ErrorKind

const (
	ErrFieldNotFound              = serrors.ErrFieldNotFound
	ErrAssociationNotFound        = serrors.ErrAssociationNotFound
	ErrFieldOrAssociationNotFound = serrors.ErrFieldOrAssociationNotFound
	ErrConditionNotSupported      = serrors.ErrConditionNotSupported
	ErrInvalidArgument            = serrors.ErrInvalidArgument
	ErrSchema                     = serrors.ErrSchema
	ErrSpec                       = serrors.ErrSpec
	ErrSQL                        = serrors.ErrSQL
	ErrIO                         = serrors.ErrIO
)

func Wrap(kind ErrorKind, msg string, cause error) *Error { return serrors.Wrap(kind, msg, cause) }

func IsKind(err error, kind ErrorKind) bool { return serrors.IsKind(err, kind) }

var errNoDatabase = serrors.New(serrors.ErrIO, "repository has no database")
