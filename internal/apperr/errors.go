// Package apperr defines the error taxonomy shared by the catalog core.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when an id does not resolve within the caller's organization.
var ErrNotFound = errors.New("not found")

// NotFound wraps ErrNotFound with the entity kind and id.
func NotFound(entity string, id uint) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}

// FieldError is one per-field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports input that failed a kind-specific check or a required-field check.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field error.
func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// Addf appends a formatted field error.
func (e *ValidationError) Addf(field, format string, args ...any) {
	e.Add(field, fmt.Sprintf(format, args...))
}

// ErrOrNil returns e when it carries at least one field error.
func (e *ValidationError) ErrOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Invalid builds a ValidationError with a single field error.
func Invalid(field, format string, args ...any) *ValidationError {
	v := &ValidationError{}
	v.Addf(field, format, args...)
	return v
}

// SchemaConflictError reports a schema change that would invalidate stored data
// or collide with an existing slug.
type SchemaConflictError struct {
	Reason string
}

func (e *SchemaConflictError) Error() string {
	return "schema conflict: " + e.Reason
}

// SchemaConflict builds a SchemaConflictError.
func SchemaConflict(format string, args ...any) *SchemaConflictError {
	return &SchemaConflictError{Reason: fmt.Sprintf(format, args...)}
}

// DuplicateRelationshipError reports a link attempt for an edge that already exists.
type DuplicateRelationshipError struct {
	SourceType   string
	SourceID     uint
	RelationType string
	TargetType   string
	TargetID     uint
}

func (e *DuplicateRelationshipError) Error() string {
	return fmt.Sprintf("relationship %s:%d -[%s]-> %s:%d already exists",
		e.SourceType, e.SourceID, e.RelationType, e.TargetType, e.TargetID)
}

// TenantIsolationViolation describes a lookup that resolved to another organization's row.
// It is logged, never returned to callers; they receive ErrNotFound.
type TenantIsolationViolation struct {
	Entity       string
	EntityID     uint
	RequestedOrg uint
	OwnerOrg     uint
}

func (e *TenantIsolationViolation) Error() string {
	return fmt.Sprintf("tenant isolation violation: %s %d owned by organization %d requested by organization %d",
		e.Entity, e.EntityID, e.OwnerOrg, e.RequestedOrg)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsSchemaConflict(err error) bool {
	var c *SchemaConflictError
	return errors.As(err, &c)
}

func IsDuplicateRelationship(err error) bool {
	var d *DuplicateRelationshipError
	return errors.As(err, &d)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
