// Copyright (c) 2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package orm

import (
	"context"

	"github.com/uber/cqlorm/pkg/storage/objects/base"
)

// OperationType is the kind of write in a batch.
type OperationType int

const (
	// InsertOperation writes a full row
	InsertOperation OperationType = iota + 1
	// UpdateOperation sets the data columns of an existing key
	UpdateOperation
	// DeleteOperation removes a row by key
	DeleteOperation
)

func (t OperationType) String() string {
	switch t {
	case InsertOperation:
		return "insert"
	case UpdateOperation:
		return "update"
	case DeleteOperation:
		return "delete"
	}
	return "unknown"
}

// Operation is one statement of a batch.
type Operation struct {
	Type OperationType
	// Values to write, all columns for inserts and data columns for updates
	Values []base.Column
	// Keys of the row for updates and deletes
	Keys []base.Column
}

// Connector is the interface that must be implemented for a backend service.
// Every call names the physical table explicitly; e describes the schema
// shared by all tables of an entity.
type Connector interface {
	// CreateIfNotExists creates a row if it doesn't already exist. When the
	// row exists it returns false and the current row.
	CreateIfNotExists(
		ctx context.Context,
		e *base.Definition,
		table string,
		values []base.Column,
		opts *Options,
	) (bool, map[string]interface{}, error)

	// Create creates a row in the table
	Create(
		ctx context.Context,
		e *base.Definition,
		table string,
		values []base.Column,
		opts *Options,
	) error

	// Get fetches a row by primary key. It returns a NotFound error when
	// the row does not exist.
	Get(
		ctx context.Context,
		e *base.Definition,
		table string,
		keys []base.Column,
		opts *Options,
		colNamesToRead ...string,
	) (map[string]interface{}, error)

	// GetAll fetches all rows matching the partition key, or every row of
	// the table when keys is empty
	GetAll(
		ctx context.Context,
		e *base.Definition,
		table string,
		keys []base.Column,
		opts *Options,
	) ([]map[string]interface{}, error)

	// GetAllIter is GetAll returning an iterator
	GetAllIter(
		ctx context.Context,
		e *base.Definition,
		table string,
		keys []base.Column,
		opts *Options,
	) (Iterator, error)

	// GetIn fetches the rows whose column inColumn is one of values. keys
	// restrict the other key columns by equality.
	GetIn(
		ctx context.Context,
		e *base.Definition,
		table string,
		keys []base.Column,
		inColumn string,
		values []interface{},
		opts *Options,
	) ([]map[string]interface{}, error)

	// Count returns the number of rows matching keys
	Count(
		ctx context.Context,
		e *base.Definition,
		table string,
		keys []base.Column,
		opts *Options,
	) (int64, error)

	// Update updates a row in the table
	Update(
		ctx context.Context,
		e *base.Definition,
		table string,
		values []base.Column,
		keys []base.Column,
		opts *Options,
	) error

	// UpdateIf updates a row when every condition holds. When a condition
	// fails it returns false and the current values.
	UpdateIf(
		ctx context.Context,
		e *base.Definition,
		table string,
		values []base.Column,
		keys []base.Column,
		conditions []base.Column,
		opts *Options,
	) (bool, map[string]interface{}, error)

	// Delete deletes a row from the table
	Delete(
		ctx context.Context,
		e *base.Definition,
		table string,
		keys []base.Column,
		opts *Options,
	) error

	// Truncate removes every row of the table
	Truncate(ctx context.Context, e *base.Definition, table string) error

	// ExecuteBatch runs ops against one table as a single logged batch
	ExecuteBatch(
		ctx context.Context,
		e *base.Definition,
		table string,
		ops []Operation,
		opts *Options,
	) error

	// Query runs a raw CQL statement and returns its rows
	Query(
		ctx context.Context,
		table string,
		stmt string,
		opts *Options,
		args ...interface{},
	) ([]map[string]interface{}, error)
}

// Iterator allows the caller to iterate over the results of a query.
type Iterator interface {
	// Next fetches the next row of the result. On reaching the end of
	// results, it returns nil. Error is returned if there is a failure
	// during iteration. Next should not be called once error is returned
	// or Close is called.
	Next() ([]base.Column, error)

	// Close indicates that iterator is no longer required and so any
	// clean-up actions may be performed.
	Close()
}
