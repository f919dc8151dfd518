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

	log "github.com/sirupsen/logrus"

	"github.com/uber/cqlorm/pkg/common"
	"github.com/uber/cqlorm/pkg/storage/mapping"
	"github.com/uber/cqlorm/pkg/storage/objects/base"
)

// tableBatch holds the statements of a batch that target one table.
type tableBatch struct {
	entity *mapping.Entity
	table  mapping.TableID
	ops    []Operation
}

// operation builds the statement of one batch member.
func operation(
	typ OperationType,
	entity *mapping.Entity,
	e base.Object,
) (Operation, error) {
	op := Operation{Type: typ}
	var err error
	switch typ {
	case InsertOperation:
		op.Values, err = entity.Row(e)
	case UpdateOperation:
		if op.Values, err = entity.DataRow(e); err == nil {
			op.Keys, err = entity.KeyRow(e)
		}
	case DeleteOperation:
		op.Keys, err = entity.KeyRow(e)
	}
	return op, err
}

// groupByTable splits entities into per table batches. Batches are ordered
// by the first appearance of their table and keep the input order of their
// members.
func (c *client) groupByTable(
	typ OperationType,
	entities []base.Object,
) ([]*tableBatch, error) {
	var batches []*tableBatch
	index := make(map[string]*tableBatch)
	for _, e := range entities {
		entity, table, err := c.resolve(e)
		if err != nil {
			return nil, err
		}
		op, err := operation(typ, entity, e)
		if err != nil {
			return nil, err
		}
		b, ok := index[table.CQL()]
		if !ok {
			b = &tableBatch{entity: entity, table: table}
			index[table.CQL()] = b
			batches = append(batches, b)
		}
		b.ops = append(b.ops, op)
	}
	return batches, nil
}

func (c *client) executeBatch(
	ctx context.Context,
	b *tableBatch,
	opts *Options,
) error {
	c.metrics.BatchTables.Inc(1)
	err := c.connector.ExecuteBatch(
		ctx, b.entity.Definition(), b.table.CQL(), b.ops, opts)
	if err != nil {
		c.logger(b.entity, b.table).
			WithField("size", len(b.ops)).
			WithError(err).
			Info("batch write failed")
	}
	return err
}

// batch writes entities with one batch per table, sequentially.
func (c *client) batch(
	ctx context.Context,
	typ OperationType,
	entities []base.Object,
	opts []Option,
) (err error) {
	if len(entities) == 0 {
		log.WithField(common.OperationLogField, typ.String()).
			Warn("empty batch, nothing to write")
		return nil
	}
	defer func() { record(err, c.metrics.BatchWrite, c.metrics.BatchWriteFail) }()

	batches, err := c.groupByTable(typ, entities)
	if err != nil {
		return err
	}
	o := NewOptions(opts...)
	for _, b := range batches {
		if err := c.executeBatch(ctx, b, o); err != nil {
			return err
		}
	}
	return nil
}

// BatchInsert inserts entities with one logged batch per table
func (c *client) BatchInsert(ctx context.Context, entities []base.Object, opts ...Option) error {
	return c.batch(ctx, InsertOperation, entities, opts)
}

// BatchUpdate updates entities with one logged batch per table
func (c *client) BatchUpdate(ctx context.Context, entities []base.Object, opts ...Option) error {
	return c.batch(ctx, UpdateOperation, entities, opts)
}

// BatchDelete deletes entities with one logged batch per table
func (c *client) BatchDelete(ctx context.Context, entities []base.Object, opts ...Option) error {
	return c.batch(ctx, DeleteOperation, entities, opts)
}
