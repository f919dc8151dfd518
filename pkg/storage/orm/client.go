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
	"github.com/uber-go/tally/v4"
	"go.uber.org/yarpc/yarpcerrors"

	"github.com/uber/cqlorm/pkg/common"
	"github.com/uber/cqlorm/pkg/storage/mapping"
	"github.com/uber/cqlorm/pkg/storage/objects/base"
)

const (
	_defaultConcurrency      = 4
	_defaultWriteConcurrency = 4
)

// Client is the ORM interface exposed to applications. Every operation
// resolves the physical table of an entity through its discriminator.
type Client interface {
	// Insert writes e into the table selected by its discriminator
	Insert(ctx context.Context, e base.Object, opts ...Option) error
	// InsertIfNotExists inserts e unless a row with the same key exists
	InsertIfNotExists(ctx context.Context, e base.Object, opts ...Option) (*LWTResult, error)
	// Update writes the data columns of e
	Update(ctx context.Context, e base.Object, opts ...Option) error
	// UpdateIf updates e when every condition, keyed by Go field name, holds
	UpdateIf(
		ctx context.Context,
		e base.Object,
		conditions map[string]interface{},
		opts ...Option,
	) (*LWTResult, error)
	// Delete removes e by its key
	Delete(ctx context.Context, e base.Object, opts ...Option) error
	// Get fills e from the row matching its key fields
	Get(ctx context.Context, e base.Object, opts ...Option) error
	// GetByID fills e from the row with identity id
	GetByID(ctx context.Context, e base.Object, id interface{}, opts ...Option) error
	// Exists returns true if a row with identity id exists
	Exists(ctx context.Context, prototype base.Object, id interface{}, opts ...Option) (bool, error)
	// DeleteByID removes the row with identity id
	DeleteByID(ctx context.Context, prototype base.Object, id interface{}, opts ...Option) error

	// BatchInsert inserts entities with one logged batch per table
	BatchInsert(ctx context.Context, entities []base.Object, opts ...Option) error
	// BatchUpdate updates entities with one logged batch per table
	BatchUpdate(ctx context.Context, entities []base.Object, opts ...Option) error
	// BatchDelete deletes entities with one logged batch per table
	BatchDelete(ctx context.Context, entities []base.Object, opts ...Option) error

	// SelectAll reads every row of every table of the entity
	SelectAll(ctx context.Context, prototype base.Object, opts ...Option) ([]base.Object, error)
	// SelectTable reads every row of the table selected by discriminator
	SelectTable(
		ctx context.Context,
		prototype base.Object,
		discriminator interface{},
		opts ...Option,
	) ([]base.Object, error)
	// SelectBySimpleIDs reads the entities with the given identities
	SelectBySimpleIDs(
		ctx context.Context,
		prototype base.Object,
		ids []interface{},
		opts ...Option,
	) ([]base.Object, error)
	// SelectForDiscriminator runs stmt with args against the table selected
	// by discriminator, substituting TablePlaceholder
	SelectForDiscriminator(
		ctx context.Context,
		prototype base.Object,
		stmt string,
		discriminator interface{},
		args []interface{},
		opts ...Option,
	) ([]base.Object, error)
	// Count counts the rows of every table of the entity
	Count(ctx context.Context, prototype base.Object, opts ...Option) (int64, error)
	// Truncate empties every table of the entity
	Truncate(ctx context.Context, prototype base.Object) error
	// TableName returns the table of a single-table entity
	TableName(prototype base.Object) (mapping.TableID, error)

	// InsertAsync is Insert running in the background
	InsertAsync(ctx context.Context, e base.Object, l WriteListener, opts ...Option) Cancellable
	// UpdateAsync is Update running in the background
	UpdateAsync(ctx context.Context, e base.Object, l WriteListener, opts ...Option) Cancellable
	// DeleteAsync is Delete running in the background
	DeleteAsync(ctx context.Context, e base.Object, l DeletionListener, opts ...Option) Cancellable
	// BatchInsertAsync is BatchInsert running the per table batches
	// concurrently in the background
	BatchInsertAsync(ctx context.Context, entities []base.Object, l WriteListener, opts ...Option) Cancellable
	// BatchUpdateAsync is the background version of BatchUpdate
	BatchUpdateAsync(ctx context.Context, entities []base.Object, l WriteListener, opts ...Option) Cancellable
	// BatchDeleteAsync is the background version of BatchDelete
	BatchDeleteAsync(ctx context.Context, entities []base.Object, l DeletionListener, opts ...Option) Cancellable

	// Mapping returns the registered entities
	Mapping() *mapping.Context
}

// ClientConfig bounds the concurrency of the client.
type ClientConfig struct {
	// Concurrency is the number of tables read in parallel by whole
	// entity operations
	Concurrency int `yaml:"concurrency"`
	// WriteConcurrency is the number of per table batches written in
	// parallel by async batch operations
	WriteConcurrency int `yaml:"write_concurrency"`
}

// LWTResult is the outcome of a lightweight transaction.
type LWTResult struct {
	// Applied is true if the write happened
	Applied bool
	// Current is the conflicting row when the write was not applied
	Current base.Object
}

type client struct {
	mapping   *mapping.Context
	connector Connector
	config    ClientConfig
	metrics   *Metrics
}

// NewClient returns a new ORM client for the entities and connector
// provided.
func NewClient(
	conn Connector,
	scope tally.Scope,
	config ClientConfig,
	entities ...mapping.EntityConfig,
) (Client, error) {
	mctx, err := mapping.NewContext(entities...)
	if err != nil {
		return nil, err
	}
	return NewClientWithMapping(conn, scope, config, mctx), nil
}

// NewClientWithMapping returns a new ORM client for an existing mapping
// context.
func NewClientWithMapping(
	conn Connector,
	scope tally.Scope,
	config ClientConfig,
	mctx *mapping.Context,
) Client {
	if config.Concurrency <= 0 {
		config.Concurrency = _defaultConcurrency
	}
	if config.WriteConcurrency <= 0 {
		config.WriteConcurrency = _defaultWriteConcurrency
	}
	return &client{
		mapping:   mctx,
		connector: conn,
		config:    config,
		metrics:   NewMetrics(scope.SubScope("orm")),
	}
}

func (c *client) Mapping() *mapping.Context {
	return c.mapping
}

// resolve returns the descriptor and the table of e.
func (c *client) resolve(e base.Object) (*mapping.Entity, mapping.TableID, error) {
	entity, err := c.mapping.Entity(e)
	if err != nil {
		return nil, mapping.TableID{}, err
	}
	table, err := entity.Discriminator().TableNameFor(e)
	if err != nil {
		return nil, mapping.TableID{}, err
	}
	return entity, table, nil
}

// resolveID returns the descriptor of prototype and the table of id.
func (c *client) resolveID(
	prototype base.Object,
	id interface{},
) (*mapping.Entity, mapping.TableID, error) {
	entity, err := c.mapping.Entity(prototype)
	if err != nil {
		return nil, mapping.TableID{}, err
	}
	table, err := entity.Discriminator().TableNameForID(id)
	if err != nil {
		return nil, mapping.TableID{}, err
	}
	return entity, table, nil
}

// load builds an entity from a row of table. A discriminator that is not
// persisted is restored from the table name.
func load(
	entity *mapping.Entity,
	table mapping.TableID,
	row map[string]interface{},
) (base.Object, error) {
	obj := entity.New()
	if err := restoreDiscriminator(entity, obj, table); err != nil {
		return nil, err
	}
	if err := entity.SetFromRow(obj, row); err != nil {
		return nil, err
	}
	return obj, nil
}

func restoreDiscriminator(
	entity *mapping.Entity,
	obj base.Object,
	table mapping.TableID,
) error {
	d := entity.Discriminator()
	if !d.IsMultiTable() {
		return nil
	}
	v, err := d.ParseTableName(table.Name())
	if err != nil {
		return err
	}
	return d.SetDiscriminatorValue(obj, v)
}

func (c *client) logger(entity *mapping.Entity, table mapping.TableID) *log.Entry {
	return log.WithFields(log.Fields{
		common.EntityLogField:  entity.Name(),
		common.DBTableLogField: table.CQL(),
	})
}

// Insert writes e into the table selected by its discriminator
func (c *client) Insert(ctx context.Context, e base.Object, opts ...Option) (err error) {
	defer func() { record(err, c.metrics.EntityInsert, c.metrics.EntityInsertFail) }()

	entity, table, err := c.resolve(e)
	if err != nil {
		return err
	}
	row, err := entity.Row(e)
	if err != nil {
		return err
	}
	return c.connector.Create(
		ctx, entity.Definition(), table.CQL(), row, NewOptions(opts...))
}

// InsertIfNotExists inserts e unless a row with the same key exists
func (c *client) InsertIfNotExists(
	ctx context.Context,
	e base.Object,
	opts ...Option,
) (result *LWTResult, err error) {
	defer func() { record(err, c.metrics.EntityInsert, c.metrics.EntityInsertFail) }()

	entity, table, err := c.resolve(e)
	if err != nil {
		return nil, err
	}
	row, err := entity.Row(e)
	if err != nil {
		return nil, err
	}
	applied, current, err := c.connector.CreateIfNotExists(
		ctx, entity.Definition(), table.CQL(), row, NewOptions(opts...))
	if err != nil {
		return nil, err
	}
	return c.lwtResult(entity, table, applied, current)
}

func (c *client) lwtResult(
	entity *mapping.Entity,
	table mapping.TableID,
	applied bool,
	current map[string]interface{},
) (*LWTResult, error) {
	if applied {
		return &LWTResult{Applied: true}, nil
	}
	c.metrics.EntityNotApplied.Inc(1)
	c.logger(entity, table).Debug("lightweight transaction not applied")
	if len(current) == 0 {
		return &LWTResult{}, nil
	}
	obj, err := load(entity, table, current)
	if err != nil {
		return nil, err
	}
	return &LWTResult{Current: obj}, nil
}

// Update writes the data columns of e
func (c *client) Update(ctx context.Context, e base.Object, opts ...Option) (err error) {
	defer func() { record(err, c.metrics.EntityUpdate, c.metrics.EntityUpdateFail) }()

	entity, table, err := c.resolve(e)
	if err != nil {
		return err
	}
	values, err := entity.DataRow(e)
	if err != nil {
		return err
	}
	keys, err := entity.KeyRow(e)
	if err != nil {
		return err
	}
	return c.connector.Update(
		ctx, entity.Definition(), table.CQL(), values, keys, NewOptions(opts...))
}

// UpdateIf updates e when every condition holds
func (c *client) UpdateIf(
	ctx context.Context,
	e base.Object,
	conditions map[string]interface{},
	opts ...Option,
) (result *LWTResult, err error) {
	defer func() { record(err, c.metrics.EntityUpdate, c.metrics.EntityUpdateFail) }()

	entity, table, err := c.resolve(e)
	if err != nil {
		return nil, err
	}
	conds, err := entity.Conditions(conditions)
	if err != nil {
		return nil, err
	}
	values, err := entity.DataRow(e)
	if err != nil {
		return nil, err
	}
	keys, err := entity.KeyRow(e)
	if err != nil {
		return nil, err
	}
	applied, current, err := c.connector.UpdateIf(
		ctx, entity.Definition(), table.CQL(), values, keys, conds,
		NewOptions(opts...))
	if err != nil {
		return nil, err
	}
	return c.lwtResult(entity, table, applied, current)
}

// Delete removes e by its key
func (c *client) Delete(ctx context.Context, e base.Object, opts ...Option) (err error) {
	defer func() { record(err, c.metrics.EntityDelete, c.metrics.EntityDeleteFail) }()

	entity, table, err := c.resolve(e)
	if err != nil {
		return err
	}
	keys, err := entity.KeyRow(e)
	if err != nil {
		return err
	}
	return c.connector.Delete(
		ctx, entity.Definition(), table.CQL(), keys, NewOptions(opts...))
}

// Get fetches an entity by primary key. The entity provided must contain
// values for all components of its primary key, including the
// discriminator.
func (c *client) Get(ctx context.Context, e base.Object, opts ...Option) error {
	entity, table, err := c.resolve(e)
	if err != nil {
		c.metrics.EntityGetFail.Inc(1)
		return err
	}
	keys, err := entity.KeyRow(e)
	if err != nil {
		c.metrics.EntityGetFail.Inc(1)
		return err
	}
	return c.get(ctx, entity, table, keys, e, NewOptions(opts...))
}

func (c *client) get(
	ctx context.Context,
	entity *mapping.Entity,
	table mapping.TableID,
	keys []base.Column,
	e base.Object,
	opts *Options,
) error {
	row, err := c.connector.Get(ctx, entity.Definition(), table.CQL(), keys, opts)
	if err != nil {
		if yarpcerrors.IsNotFound(err) {
			c.metrics.EntityNotFound.Inc(1)
		} else {
			c.metrics.EntityGetFail.Inc(1)
		}
		return err
	}
	if err := entity.SetFromRow(e, row); err != nil {
		c.metrics.EntityGetFail.Inc(1)
		return err
	}
	c.metrics.EntityGet.Inc(1)
	return nil
}

// GetByID fills e from the row with identity id
func (c *client) GetByID(
	ctx context.Context,
	e base.Object,
	id interface{},
	opts ...Option,
) error {
	entity, table, err := c.resolveID(e, id)
	if err != nil {
		c.metrics.EntityGetFail.Inc(1)
		return err
	}
	keys, err := entity.KeyRowForID(id)
	if err != nil {
		c.metrics.EntityGetFail.Inc(1)
		return err
	}
	if err := entity.SetID(e, id); err != nil {
		c.metrics.EntityGetFail.Inc(1)
		return err
	}
	return c.get(ctx, entity, table, keys, e, NewOptions(opts...))
}

// Exists returns true if a row with identity id exists
func (c *client) Exists(
	ctx context.Context,
	prototype base.Object,
	id interface{},
	opts ...Option,
) (bool, error) {
	entity, table, err := c.resolveID(prototype, id)
	if err != nil {
		return false, err
	}
	keys, err := entity.KeyRowForID(id)
	if err != nil {
		return false, err
	}
	n, err := c.connector.Count(
		ctx, entity.Definition(), table.CQL(), keys, NewOptions(opts...))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteByID removes the row with identity id
func (c *client) DeleteByID(
	ctx context.Context,
	prototype base.Object,
	id interface{},
	opts ...Option,
) (err error) {
	defer func() { record(err, c.metrics.EntityDelete, c.metrics.EntityDeleteFail) }()

	entity, table, err := c.resolveID(prototype, id)
	if err != nil {
		return err
	}
	keys, err := entity.KeyRowForID(id)
	if err != nil {
		return err
	}
	return c.connector.Delete(
		ctx, entity.Definition(), table.CQL(), keys, NewOptions(opts...))
}
