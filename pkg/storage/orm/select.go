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
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/uber/cqlorm/pkg/common/concurrency"
	"github.com/uber/cqlorm/pkg/storage/mapping"
	"github.com/uber/cqlorm/pkg/storage/objects/base"
)

// TablePlaceholder is replaced by the resolved table in statements passed
// to SelectForDiscriminator.
const TablePlaceholder = "@table"

func tableInputs(tables []mapping.TableID) []interface{} {
	inputs := make([]interface{}, 0, len(tables))
	for _, t := range tables {
		inputs = append(inputs, t)
	}
	return inputs
}

// selectTable streams every row of one table.
func (c *client) selectTable(
	ctx context.Context,
	entity *mapping.Entity,
	table mapping.TableID,
	opts *Options,
) ([]base.Object, error) {
	iter, err := c.connector.GetAllIter(ctx, entity.Definition(), table.CQL(), nil, opts)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var result []base.Object
	for {
		row, err := iter.Next()
		if err != nil {
			return nil, err
		}
		if row == nil {
			return result, nil
		}
		obj := entity.New()
		if err := restoreDiscriminator(entity, obj, table); err != nil {
			return nil, err
		}
		if err := entity.SetFromColumns(obj, row); err != nil {
			return nil, err
		}
		result = append(result, obj)
	}
}

// SelectAll reads every row of every table of the entity. Rows of one table
// keep their storage order, tables are concatenated in table set order.
func (c *client) SelectAll(
	ctx context.Context,
	prototype base.Object,
	opts ...Option,
) ([]base.Object, error) {
	entity, err := c.mapping.Entity(prototype)
	if err != nil {
		return nil, err
	}
	o := NewOptions(opts...)

	mapper := concurrency.MapperFunc(
		func(ctx context.Context, input interface{}) (interface{}, error) {
			objs, err := c.selectTable(ctx, entity, input.(mapping.TableID), o)
			record(err, c.metrics.TableSelect, c.metrics.TableSelectFail)
			return objs, err
		})
	outputs, err := concurrency.Map(
		ctx,
		mapper,
		tableInputs(entity.Discriminator().TableNames()),
		c.config.Concurrency)
	if err != nil {
		return nil, err
	}

	var result []base.Object
	for _, o := range outputs {
		result = append(result, o.([]base.Object)...)
	}
	return result, nil
}

// SelectTable reads every row of the table selected by discriminator.
func (c *client) SelectTable(
	ctx context.Context,
	prototype base.Object,
	discriminator interface{},
	opts ...Option,
) ([]base.Object, error) {
	entity, err := c.mapping.Entity(prototype)
	if err != nil {
		return nil, err
	}
	table, err := entity.Discriminator().TableNameForDiscriminator(discriminator)
	if err != nil {
		return nil, err
	}
	rows, err := c.connector.GetAll(
		ctx, entity.Definition(), table.CQL(), nil, NewOptions(opts...))
	record(err, c.metrics.TableSelect, c.metrics.TableSelectFail)
	if err != nil {
		return nil, err
	}
	return loadAll(entity, table, rows)
}

func loadAll(
	entity *mapping.Entity,
	table mapping.TableID,
	rows []map[string]interface{},
) ([]base.Object, error) {
	result := make([]base.Object, 0, len(rows))
	for _, row := range rows {
		obj, err := load(entity, table, row)
		if err != nil {
			return nil, err
		}
		result = append(result, obj)
	}
	return result, nil
}

// Count counts the rows of every table of the entity.
func (c *client) Count(
	ctx context.Context,
	prototype base.Object,
	opts ...Option,
) (int64, error) {
	entity, err := c.mapping.Entity(prototype)
	if err != nil {
		return 0, err
	}
	o := NewOptions(opts...)

	mapper := concurrency.MapperFunc(
		func(ctx context.Context, input interface{}) (interface{}, error) {
			n, err := c.connector.Count(
				ctx, entity.Definition(), input.(mapping.TableID).CQL(), nil, o)
			record(err, c.metrics.TableCount, c.metrics.TableCountFail)
			return n, err
		})
	outputs, err := concurrency.Map(
		ctx,
		mapper,
		tableInputs(entity.Discriminator().TableNames()),
		c.config.Concurrency)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, o := range outputs {
		total += o.(int64)
	}
	return total, nil
}

// Truncate empties every table of the entity. Every table is attempted and
// all failures are returned together.
func (c *client) Truncate(ctx context.Context, prototype base.Object) error {
	entity, err := c.mapping.Entity(prototype)
	if err != nil {
		return err
	}

	var result error
	for _, table := range entity.Discriminator().TableNames() {
		err := c.connector.Truncate(ctx, entity.Definition(), table.CQL())
		record(err, c.metrics.TableTruncate, c.metrics.TableTruncateFail)
		if err != nil {
			c.logger(entity, table).WithError(err).Error("failed to truncate table")
			result = multierror.Append(result, err)
		}
	}
	return result
}

// TableName returns the table of a single-table entity.
func (c *client) TableName(prototype base.Object) (mapping.TableID, error) {
	entity, err := c.mapping.Entity(prototype)
	if err != nil {
		return mapping.TableID{}, err
	}
	d := entity.Discriminator()
	if d.IsMultiTable() {
		return mapping.TableID{}, errors.Wrapf(mapping.ErrUnsupportedOperation,
			"%s is stored in %d tables", entity.Name(), len(d.TableNames()))
	}
	return d.TableNames()[0], nil
}

// idBatch collects the identities that resolve to one table.
type idBatch struct {
	table  mapping.TableID
	keys   []base.Column
	values []interface{}
}

// SelectBySimpleIDs reads the entities with the given identities using one
// IN query per table. Entities with more than one key column besides the
// discriminator are not supported.
func (c *client) SelectBySimpleIDs(
	ctx context.Context,
	prototype base.Object,
	ids []interface{},
	opts ...Option,
) ([]base.Object, error) {
	entity, err := c.mapping.Entity(prototype)
	if err != nil {
		return nil, err
	}
	column, err := entity.SimpleKeyColumn()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var batches []*idBatch
	index := make(map[string]*idBatch)
	for _, id := range ids {
		table, err := entity.Discriminator().TableNameForID(id)
		if err != nil {
			return nil, err
		}
		keys, value, err := entity.SimpleKey(id)
		if err != nil {
			return nil, err
		}
		b, ok := index[table.CQL()]
		if !ok {
			b = &idBatch{table: table, keys: keys}
			index[table.CQL()] = b
			batches = append(batches, b)
		}
		b.values = append(b.values, value)
	}

	o := NewOptions(opts...)
	var result []base.Object
	for _, b := range batches {
		rows, err := c.connector.GetIn(
			ctx, entity.Definition(), b.table.CQL(), b.keys, column, b.values, o)
		record(err, c.metrics.TableSelect, c.metrics.TableSelectFail)
		if err != nil {
			return nil, err
		}
		objs, err := loadAll(entity, b.table, rows)
		if err != nil {
			return nil, err
		}
		result = append(result, objs...)
	}
	return result, nil
}

// SelectForDiscriminator runs stmt with args against the table selected by
// discriminator. Every TablePlaceholder in stmt is replaced by the table.
func (c *client) SelectForDiscriminator(
	ctx context.Context,
	prototype base.Object,
	stmt string,
	discriminator interface{},
	args []interface{},
	opts ...Option,
) ([]base.Object, error) {
	if discriminator == nil {
		return nil, errors.Wrap(mapping.ErrInvalidDiscriminator,
			"table discriminator must not be nil")
	}
	entity, err := c.mapping.Entity(prototype)
	if err != nil {
		return nil, err
	}
	table, err := entity.Discriminator().TableNameForDiscriminator(discriminator)
	if err != nil {
		return nil, err
	}
	rows, err := c.connector.Query(
		ctx,
		table.CQL(),
		strings.Replace(stmt, TablePlaceholder, table.CQL(), -1),
		NewOptions(opts...),
		args...)
	record(err, c.metrics.TableSelect, c.metrics.TableSelectFail)
	if err != nil {
		return nil, err
	}
	return loadAll(entity, table, rows)
}
