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

	"github.com/uber/cqlorm/pkg/storage/mapping"
	"github.com/uber/cqlorm/pkg/storage/objects/base"
)

// Repository exposes the operations of one entity type.
type Repository struct {
	client    Client
	entity    *mapping.Entity
	prototype base.Object
}

// NewRepository returns a repository for the type of prototype, which must
// be registered with the client.
func NewRepository(client Client, prototype base.Object) (*Repository, error) {
	entity, err := client.Mapping().Entity(prototype)
	if err != nil {
		return nil, err
	}
	return &Repository{
		client:    client,
		entity:    entity,
		prototype: entity.New(),
	}, nil
}

// Entity returns the descriptor of the repository type.
func (r *Repository) Entity() *mapping.Entity {
	return r.entity
}

// Save inserts e
func (r *Repository) Save(ctx context.Context, e base.Object, opts ...Option) error {
	if err := r.entity.Check(e); err != nil {
		return err
	}
	return r.client.Insert(ctx, e, opts...)
}

// SaveAll inserts entities, batched per table
func (r *Repository) SaveAll(ctx context.Context, entities []base.Object, opts ...Option) error {
	for _, e := range entities {
		if err := r.entity.Check(e); err != nil {
			return err
		}
	}
	return r.client.BatchInsert(ctx, entities, opts...)
}

// SaveIfNotExists inserts e unless its key exists
func (r *Repository) SaveIfNotExists(
	ctx context.Context,
	e base.Object,
	opts ...Option,
) (*LWTResult, error) {
	if err := r.entity.Check(e); err != nil {
		return nil, err
	}
	return r.client.InsertIfNotExists(ctx, e, opts...)
}

// UpdateIf updates e when every condition holds
func (r *Repository) UpdateIf(
	ctx context.Context,
	e base.Object,
	conditions map[string]interface{},
	opts ...Option,
) (*LWTResult, error) {
	if err := r.entity.Check(e); err != nil {
		return nil, err
	}
	return r.client.UpdateIf(ctx, e, conditions, opts...)
}

// FindOne reads the entity with identity id
func (r *Repository) FindOne(
	ctx context.Context,
	id interface{},
	opts ...Option,
) (base.Object, error) {
	e := r.entity.New()
	if err := r.client.GetByID(ctx, e, id, opts...); err != nil {
		return nil, err
	}
	return e, nil
}

// FindAll reads every entity from every table
func (r *Repository) FindAll(ctx context.Context, opts ...Option) ([]base.Object, error) {
	return r.client.SelectAll(ctx, r.prototype, opts...)
}

// FindAllByIDs reads the entities with the given identities
func (r *Repository) FindAllByIDs(
	ctx context.Context,
	ids []interface{},
	opts ...Option,
) ([]base.Object, error) {
	return r.client.SelectBySimpleIDs(ctx, r.prototype, ids, opts...)
}

// FindByDiscriminator runs stmt against the table selected by
// discriminator
func (r *Repository) FindByDiscriminator(
	ctx context.Context,
	stmt string,
	discriminator interface{},
	args []interface{},
	opts ...Option,
) ([]base.Object, error) {
	return r.client.SelectForDiscriminator(
		ctx, r.prototype, stmt, discriminator, args, opts...)
}

// Exists returns true if the entity with identity id exists
func (r *Repository) Exists(
	ctx context.Context,
	id interface{},
	opts ...Option,
) (bool, error) {
	return r.client.Exists(ctx, r.prototype, id, opts...)
}

// Count counts the entities of every table
func (r *Repository) Count(ctx context.Context, opts ...Option) (int64, error) {
	return r.client.Count(ctx, r.prototype, opts...)
}

// Delete removes the entity with the identity of e
func (r *Repository) Delete(ctx context.Context, e base.Object, opts ...Option) error {
	id, err := r.entity.ID(e)
	if err != nil {
		return err
	}
	return r.client.DeleteByID(ctx, r.prototype, id, opts...)
}

// DeleteByID removes the entity with identity id
func (r *Repository) DeleteByID(ctx context.Context, id interface{}, opts ...Option) error {
	return r.client.DeleteByID(ctx, r.prototype, id, opts...)
}

// DeleteEntities removes entities, batched per table
func (r *Repository) DeleteEntities(ctx context.Context, entities []base.Object, opts ...Option) error {
	for _, e := range entities {
		if err := r.entity.Check(e); err != nil {
			return err
		}
	}
	return r.client.BatchDelete(ctx, entities, opts...)
}

// DeleteAll truncates every table of the entity
func (r *Repository) DeleteAll(ctx context.Context) error {
	return r.client.Truncate(ctx, r.prototype)
}
