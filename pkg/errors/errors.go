package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeRateLimit    Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeDependency   Code = "DEPENDENCY_ERROR"
)

type Metadata struct {
	Retryable      bool
	PublicMessage  string
	HTTPStatus     int
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		Retryable:      false,
		PublicMessage:  "validation failed",
		HTTPStatus:     http.StatusBadRequest,
		DetailsAllowed: true,
	},
	CodeUnauthorized: {
		Retryable:      false,
		PublicMessage:  "authentication failed",
		HTTPStatus:     http.StatusUnauthorized,
		DetailsAllowed: false,
	},
	CodeNotFound: {
		Retryable:      false,
		PublicMessage:  "resource not found",
		HTTPStatus:     http.StatusNotFound,
		DetailsAllowed: false,
	},
	CodeConflict: {
		Retryable:      false,
		PublicMessage:  "conflict detected",
		HTTPStatus:     http.StatusConflict,
		DetailsAllowed: true,
	},
	CodeRateLimit: {
		Retryable:      true,
		PublicMessage:  "rate limit exceeded",
		HTTPStatus:     http.StatusTooManyRequests,
		DetailsAllowed: false,
	},
	CodeInternal: {
		Retryable:      true,
		PublicMessage:  "internal error",
		HTTPStatus:     http.StatusInternalServerError,
		DetailsAllowed: false,
	},
	CodeDependency: {
		Retryable:      true,
		PublicMessage:  "dependency unavailable",
		HTTPStatus:     http.StatusBadGateway,
		DetailsAllowed: false,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Retryable reports whether a retry on the next sync cycle can succeed.
func Retryable(err error) bool {
	typed := As(err)
	if typed == nil {
		return false
	}
	return MetadataFor(typed.Code()).Retryable
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
