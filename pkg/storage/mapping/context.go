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

package mapping

import (
	"reflect"

	"github.com/pkg/errors"
	"go.uber.org/yarpc/yarpcerrors"
)

// Context holds the descriptors of every registered entity. It is built once
// and read concurrently afterwards.
type Context struct {
	entities map[reflect.Type]*Entity
	ordered  []*Entity
}

// NewContext registers configs. Every table name set is computed here, so
// mapping errors surface before the first query.
func NewContext(configs ...EntityConfig) (*Context, error) {
	c := &Context{
		entities: make(map[reflect.Type]*Entity, len(configs)),
	}
	for _, cfg := range configs {
		e, err := newEntity(cfg)
		if err != nil {
			return nil, err
		}
		if _, ok := c.entities[e.typ]; ok {
			return nil, errors.Wrapf(ErrInvalidMapping,
				"entity %v registered twice", e.typ)
		}
		c.entities[e.typ] = e
		c.ordered = append(c.ordered, e)
	}
	return c, nil
}

// MustContext is NewContext that panics on error.
func MustContext(configs ...EntityConfig) *Context {
	c, err := NewContext(configs...)
	if err != nil {
		panic(err)
	}
	return c
}

// Entity returns the descriptor for the type of obj.
func (c *Context) Entity(obj interface{}) (*Entity, error) {
	if obj == nil {
		return nil, yarpcerrors.InvalidArgumentErrorf("nil entity")
	}
	return c.EntityForType(reflect.TypeOf(obj))
}

// EntityForType returns the descriptor for typ, or for the type it points to.
func (c *Context) EntityForType(typ reflect.Type) (*Entity, error) {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	e, ok := c.entities[typ]
	if !ok {
		return nil, yarpcerrors.NotFoundErrorf(
			"entity type %v is not registered", typ)
	}
	return e, nil
}

// EntityByName returns the descriptor with the given logical name.
func (c *Context) EntityByName(name string) (*Entity, error) {
	for _, e := range c.ordered {
		if e.Name() == name {
			return e, nil
		}
	}
	return nil, yarpcerrors.NotFoundErrorf("entity %q is not registered", name)
}

// Entities returns the descriptors in registration order.
func (c *Context) Entities() []*Entity {
	return append([]*Entity(nil), c.ordered...)
}
