package validation

import (
	"fmt"
	"strings"

	"github.com/postan/postan-api/internal/models"
	"github.com/postan/postan-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
)

// FailureKind identifies a category of validation failure. Pipeline stages
// declare the kinds they may produce and the HTTP layer maps each kind to a
// status code.
type FailureKind string

const (
	KindNoSource          FailureKind = "no_source"
	KindMissingFields     FailureKind = "missing_fields"
	KindNoMatchingField   FailureKind = "no_matching_field"
	KindInvalidIdentifier FailureKind = "invalid_identifier"
	KindUnknownEntity     FailureKind = "unknown_entity_kind"
	KindReferenceNotFound FailureKind = "reference_not_found"
	KindConflict          FailureKind = "conflict"
	KindEntityValidation  FailureKind = "entity_validation"
)

// Failure is a structured, client-facing validation result. Message returns
// a fixed catalog string for the failure.
type Failure interface {
	error
	Kind() FailureKind
	Message() string
}

// Source names where request fields are read from.
type SourceName string

const (
	SourceParams SourceName = "params"
	SourceBody   SourceName = "body"
	SourceQuery  SourceName = "query"
)

func (s SourceName) label() string {
	if s == SourceParams {
		return "route params"
	}
	return string(s) + " params"
}

type NoSourceError struct {
	Source SourceName
}

func (e *NoSourceError) Kind() FailureKind { return KindNoSource }
func (e *NoSourceError) Error() string     { return e.Message() }
func (e *NoSourceError) Message() string {
	return fmt.Sprintf("No request %s available when expected.", e.Source)
}

// MissingFieldsError names exactly the required fields that were absent or
// falsy, in the order they were requested.
type MissingFieldsError struct {
	Source SourceName
	Fields []string
}

func (e *MissingFieldsError) Kind() FailureKind { return KindMissingFields }
func (e *MissingFieldsError) Error() string     { return e.Message() }
func (e *MissingFieldsError) Message() string {
	return fmt.Sprintf("Missing expected req %s %s.", e.Source.label(), strings.Join(e.Fields, ", "))
}

// NoMatchingFieldError lists every candidate when none of them was present.
type NoMatchingFieldError struct {
	Source     SourceName
	Candidates []string
}

func (e *NoMatchingFieldError) Kind() FailureKind { return KindNoMatchingField }
func (e *NoMatchingFieldError) Error() string     { return e.Message() }
func (e *NoMatchingFieldError) Message() string {
	return fmt.Sprintf("Missing params, expected at least one of the following req %s %s.",
		e.Source.label(), strings.Join(e.Candidates, ", "))
}

type InvalidIdentifierError struct {
	Value string
}

func (e *InvalidIdentifierError) Kind() FailureKind { return KindInvalidIdentifier }
func (e *InvalidIdentifierError) Error() string     { return e.Message() }
func (e *InvalidIdentifierError) Message() string   { return "Invalid object ID provided." }

type UnknownEntityKindError struct {
	EntityKind models.Kind
}

func (e *UnknownEntityKindError) Kind() FailureKind { return KindUnknownEntity }
func (e *UnknownEntityKindError) Error() string     { return e.Message() }
func (e *UnknownEntityKindError) Message() string {
	return fmt.Sprintf("No documents exists of type %s.", e.EntityKind)
}

type ReferenceNotFoundError struct {
	ID         string
	EntityKind models.Kind
}

func (e *ReferenceNotFoundError) Kind() FailureKind { return KindReferenceNotFound }
func (e *ReferenceNotFoundError) Error() string     { return e.Message() }
func (e *ReferenceNotFoundError) Message() string {
	return fmt.Sprintf("No documents with id %s in model %s.", e.ID, e.EntityKind)
}

// ConflictError reports an existing document matching a filter that was
// expected to match nothing.
type ConflictError struct {
	EntityKind models.Kind
	Filter     bson.D
}

func (e *ConflictError) Kind() FailureKind { return KindConflict }
func (e *ConflictError) Error() string     { return e.Message() }
func (e *ConflictError) Message() string {
	return fmt.Sprintf("A document exists in model %s with values %s when none were expected.",
		e.EntityKind, store.FormatFilter(e.Filter))
}

// FieldError is the first failing rule of one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates the per-field failures of one entity, in field
// declaration order.
type ValidationError struct {
	EntityKind models.Kind
	Fields     []FieldError
}

func (e *ValidationError) Kind() FailureKind { return KindEntityValidation }
func (e *ValidationError) Error() string     { return e.Message() }

// Message renders "<kind> validation failed: field: msg, field: msg".
func (e *ValidationError) Message() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s validation failed: %s", e.EntityKind, strings.Join(parts, ", "))
}

// FieldMessage returns the message recorded for field, or "".
func (e *ValidationError) FieldMessage(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}
