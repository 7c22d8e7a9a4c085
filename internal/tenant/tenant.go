// Package tenant carries the active organization through every core operation.
//
// An organization is the isolation boundary of the catalog. It is always passed
// explicitly to stores and services; the context helpers only exist so the HTTP
// layer can hand the value from middleware to handlers.
package tenant

import (
	"context"
	"errors"
	"strconv"
)

// OrgID identifies an organization (tenant). The zero value is never a valid tenant.
type OrgID uint

// ErrNoOrganization is returned when an operation is attempted without an organization.
var ErrNoOrganization = errors.New("no organization in context")

func (o OrgID) Valid() bool { return o != 0 }

func (o OrgID) String() string { return strconv.FormatUint(uint64(o), 10) }

// Require returns ErrNoOrganization for the zero OrgID.
func (o OrgID) Require() error {
	if !o.Valid() {
		return ErrNoOrganization
	}
	return nil
}

type ctxKey struct{}

// WithOrg returns a copy of ctx carrying org.
func WithOrg(ctx context.Context, org OrgID) context.Context {
	return context.WithValue(ctx, ctxKey{}, org)
}

// FromContext returns the organization stored by WithOrg.
func FromContext(ctx context.Context) (OrgID, error) {
	org, ok := ctx.Value(ctxKey{}).(OrgID)
	if !ok || !org.Valid() {
		return 0, ErrNoOrganization
	}
	return org, nil
}
