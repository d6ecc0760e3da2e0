package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/ecommerce_api/internal/pricing"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
)

var (
	ErrValidation   = errors.New("validation")   // 400
	ErrUnauthorized = errors.New("unauthorized") // 401
	ErrForbidden    = errors.New("forbidden")    // 403
	ErrNotFound     = errors.New("not found")    // 404
	ErrConflict     = errors.New("conflict")     // 409
	ErrUnavailable  = errors.New("unavailable")  // 503
)

// Error is a classified failure whose message is safe to show to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

// ValidationError carries per-field detail alongside the message.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return ErrValidation }

// invalid builds a ValidationError; fields are field/reason pairs.
func invalid(message string, fields ...string) error {
	ve := &ValidationError{Message: message}
	if len(fields) > 1 {
		ve.Fields = make(map[string]string, len(fields)/2)
		for i := 0; i+1 < len(fields); i += 2 {
			ve.Fields[fields[i]] = fields[i+1]
		}
	}
	return ve
}

// requireFields takes name/value pairs and reports each blank value.
func requireFields(message string, pairs ...string) error {
	var fields map[string]string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) != "" {
			continue
		}
		if fields == nil {
			fields = map[string]string{}
		}
		fields[pairs[i]] = "required"
	}
	if fields == nil {
		return nil
	}
	return &ValidationError{Message: message, Fields: fields}
}

func notFound(what string) error {
	return &Error{Kind: ErrNotFound, Message: what + " not found"}
}

func conflict(message string) error {
	return &Error{Kind: ErrConflict, Message: message}
}

func forbidden() error {
	return &Error{Kind: ErrForbidden, Message: "Forbidden"}
}

func unauthorized(message string) error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

func unavailable(message string) error {
	return &Error{Kind: ErrUnavailable, Message: message}
}

// fromRepo classifies a store error for the named resource.
func fromRepo(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return notFound(what)
	case errors.Is(err, repo.ErrDuplicate):
		return conflict(what + " already exists")
	}
	return fmt.Errorf("%s: %w", what, err)
}

func fromPricing(err error) error {
	switch {
	case errors.Is(err, pricing.ErrInvalidQuantity):
		return invalid("Quantity must be a positive integer", "quantity", err.Error())
	case errors.Is(err, pricing.ErrInvalidProductID):
		return invalid("Invalid productId", "productId", err.Error())
	case errors.Is(err, pricing.ErrUnknownProduct):
		return invalid("One or more products not found", "items", err.Error())
	}
	return err
}

func isDuplicate(err error) bool {
	return errors.Is(err, repo.ErrDuplicate)
}
