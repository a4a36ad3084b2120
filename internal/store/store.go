// Package store declares the narrow interfaces through which the API
// core consumes the underlying record store. The core never talks to a
// database directly; reference implementations live in internal/db.
package store

import (
	"context"

	"github.com/restbridge/restbridge/internal/auth"
	"github.com/restbridge/restbridge/internal/query"
	"github.com/restbridge/restbridge/internal/types"
)

// Op is one of the five generic operations exposed over a model.
type Op string

// The BREAD operations.
const (
	OpBrowse Op = "browse"
	OpRead   Op = "read"
	OpEdit   Op = "edit"
	OpAdd    Op = "add"
	OpDelete Op = "delete"
)

// SchemaRegistry exposes the store's dynamic typing surface: which
// models exist and what fields they carry.
type SchemaRegistry interface {
	// ModelExists reports whether the named model is registered.
	ModelExists(ctx context.Context, model string) (bool, error)
	// Fields returns every field of the model in declaration order.
	Fields(ctx context.Context, model string) ([]types.FieldDescriptor, error)
}

// RecordStore executes store-level operations for a model. All calls may
// block on I/O; the core does not retry.
type RecordStore interface {
	// SearchCount counts the records matching the filter.
	SearchCount(ctx context.Context, model string, filter query.FilterSet) (int64, error)
	// SearchRead fetches one window of matching records with the given
	// projection and normalized sort string.
	SearchRead(ctx context.Context, model string, filter query.FilterSet, fields []string, window query.Window, order string) ([]types.Record, error)
	// Create inserts a record and returns its new id.
	Create(ctx context.Context, model string, values types.Record) (int64, error)
	// Write applies a partial update. found is false when no record has
	// the id.
	Write(ctx context.Context, model string, id int64, values types.Record) (found bool, err error)
	// Unlink deletes a record. found is false when no record has the id.
	Unlink(ctx context.Context, model string, id int64) (found bool, err error)
}

// AccessChecker decides whether a principal may run an operation on a
// model. A denial is a permission error; any other error is a
// collaborator fault.
type AccessChecker interface {
	Check(ctx context.Context, principal auth.Principal, model string, op Op) error
}
