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
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/uber/cqlorm/pkg/storage/objects/base"
)

const (
	columnTag       = "column"
	defaultIDField  = "ID"
	columnNameField = "name"
)

// EntityConfig declares how a Go type is stored.
type EntityConfig struct {
	// Object is a prototype of the entity, e.g. &Thing{}
	Object base.Object
	// Table is the table name, or a name template containing
	// DiscriminatorPlaceholder for multi-table entities. Defaults to the Go
	// type name.
	Table string
	// ForceQuote renders table names as quoted identifiers
	ForceQuote bool
	// IDField is the identity field. Defaults to "ID".
	IDField string
	// Discriminator is required for multi-table entities
	Discriminator *DiscriminatorConfig
}

// DiscriminatorConfig declares the discriminator of a multi-table entity.
type DiscriminatorConfig struct {
	// Field is the discriminator field inside the composite identity
	Field string
	// Values are the discriminator strings. When empty, the converter
	// enumerates them.
	Values []string
	// Converter is inferred for string fields
	Converter DiscriminatorConverter
}

// property maps one Go field to one column.
type property struct {
	field  string
	column string
	// index from the entity root
	index []int
	// index from the identity value, for key properties
	idIndex []int
	typ     reflect.Type
	key     bool
	// discriminator marks the persisted discriminator column
	discriminator bool
}

// Entity describes how one Go type maps to rows and tables.
type Entity struct {
	typ        reflect.Type
	definition *base.Definition

	// persisted properties, key columns first
	properties []*property
	keys       []*property
	data       []*property
	byField    map[string]*property

	idIndex   []int
	idType    reflect.Type
	composite bool

	discriminator EntityDiscriminator
	discProperty  *DiscriminatorProperty
}

// parseColumnTag returns the column name of a `column:"name=<col>"` tag.
func parseColumnTag(tag string) (string, error) {
	for _, part := range strings.Split(tag, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) == 2 && kv[0] == columnNameField {
			if name := strings.TrimSpace(kv[1]); name != "" {
				return name, nil
			}
		}
	}
	return "", errors.Wrapf(ErrInvalidMapping, "invalid column tag %q", tag)
}

// collectColumns returns the tagged fields of a struct type.
func collectColumns(typ reflect.Type, skip string) ([]*property, error) {
	var props []*property
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.Name == skip || f.PkgPath != "" {
			continue
		}
		tag, ok := f.Tag.Lookup(columnTag)
		if !ok {
			continue
		}
		name, err := parseColumnTag(tag)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s.%s", typ.Name(), f.Name)
		}
		props = append(props, &property{
			field:  f.Name,
			column: name,
			index:  f.Index,
			typ:    f.Type,
		})
	}
	return props, nil
}

func newEntity(cfg EntityConfig) (*Entity, error) {
	if cfg.Object == nil {
		return nil, errors.Wrap(ErrInvalidMapping, "entity without prototype")
	}
	typ := reflect.TypeOf(cfg.Object)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, errors.Wrapf(ErrInvalidMapping, "%v is not a struct", typ)
	}

	e := &Entity{
		typ:     typ,
		byField: make(map[string]*property),
	}
	if err := e.buildIdentity(cfg); err != nil {
		return nil, err
	}
	data, err := collectColumns(typ, e.idField(cfg))
	if err != nil {
		return nil, err
	}
	e.data = data
	e.properties = append(append([]*property{}, e.keys...), e.data...)

	e.definition = &base.Definition{
		Name:         typ.Name(),
		Key:          &base.PrimaryKey{},
		ColumnToType: make(map[string]reflect.Type, len(e.properties)),
	}
	for _, p := range e.properties {
		if _, ok := e.definition.ColumnToType[p.column]; ok {
			return nil, errors.Wrapf(ErrInvalidMapping,
				"column %q mapped twice in %v", p.column, typ)
		}
		e.definition.ColumnToType[p.column] = p.typ
		e.definition.Columns = append(e.definition.Columns, p.column)
		e.byField[p.field] = p
	}
	for _, p := range e.keys {
		e.definition.Key.Columns = append(e.definition.Key.Columns, p.column)
	}

	if err := e.buildDiscriminator(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Entity) idField(cfg EntityConfig) string {
	if cfg.IDField != "" {
		return cfg.IDField
	}
	return defaultIDField
}

func (e *Entity) buildIdentity(cfg EntityConfig) error {
	name := e.idField(cfg)
	f, ok := e.typ.FieldByName(name)
	if !ok || len(f.Index) != 1 {
		return errors.Wrapf(ErrInvalidMapping,
			"%v has no identity field %q", e.typ, name)
	}
	e.idIndex = f.Index
	e.idType = f.Type

	if tag, ok := f.Tag.Lookup(columnTag); ok {
		column, err := parseColumnTag(tag)
		if err != nil {
			return errors.Wrapf(err, "field %s.%s", e.typ.Name(), f.Name)
		}
		e.keys = []*property{{
			field:  f.Name,
			column: column,
			index:  f.Index,
			typ:    f.Type,
			key:    true,
		}}
		return nil
	}

	if f.Type.Kind() != reflect.Struct {
		return errors.Wrapf(ErrInvalidMapping,
			"identity %s.%s must have a column tag or be a key struct",
			e.typ.Name(), f.Name)
	}
	e.composite = true
	keys, err := collectColumns(f.Type, "")
	if err != nil {
		return err
	}
	for _, k := range keys {
		k.idIndex = k.index
		k.index = append(append([]int{}, f.Index...), k.index...)
		k.key = true
	}
	e.keys = keys
	return nil
}

func (e *Entity) buildDiscriminator(cfg EntityConfig) error {
	table := cfg.Table
	if table == "" {
		table = e.typ.Name()
	}

	if cfg.Discriminator == nil {
		if strings.Contains(table, DiscriminatorPlaceholder) {
			return errors.Wrapf(ErrInvalidMapping,
				"%v: table name template %q without discriminator", e.typ, table)
		}
		if len(e.keys) == 0 {
			return errors.Wrapf(ErrInvalidMapping, "%v has no key columns", e.typ)
		}
		id, err := NewTableID(table, cfg.ForceQuote)
		if err != nil {
			return errors.Wrapf(err, "entity %v", e.typ)
		}
		e.discriminator = NewSingleTableDiscriminator(id)
		return nil
	}

	dc := cfg.Discriminator
	if !e.composite {
		return errors.Wrapf(ErrInvalidMapping,
			"%v: discriminator must be part of a composite identity", e.typ)
	}
	f, ok := e.idType.FieldByName(dc.Field)
	if !ok || len(f.Index) != 1 {
		return errors.Wrapf(ErrInvalidMapping,
			"%v: identity %v has no discriminator field %q",
			e.typ, e.idType, dc.Field)
	}

	prop := &DiscriminatorProperty{
		entityType: e.typ,
		idType:     e.idType,
		idIndex:    e.idIndex,
		fieldIndex: f.Index,
		fieldType:  f.Type,
	}
	for _, k := range e.keys {
		if k.field == f.Name {
			k.discriminator = true
			prop.column = k.column
		}
	}
	if len(e.keys) == 0 {
		return errors.Wrapf(ErrInvalidMapping, "%v has no key columns", e.typ)
	}

	converter := dc.Converter
	if converter == nil {
		if f.Type.Kind() != reflect.String {
			return errors.Wrapf(ErrInvalidMapping,
				"%v: discriminator of type %v requires a converter", e.typ, f.Type)
		}
		converter = StringConverter
	}
	if tc, ok := converter.(typedConverter); ok && tc.ValueType() != f.Type {
		return errors.Wrapf(ErrInvalidMapping,
			"%v: converter for %v used on discriminator of type %v",
			e.typ, tc.ValueType(), f.Type)
	}

	d, err := NewMultiTableDiscriminator(TemplateConfig{
		Template:   table,
		ForceQuote: cfg.ForceQuote,
		Values:     dc.Values,
		Converter:  converter,
	}, prop)
	if err != nil {
		return errors.Wrapf(err, "entity %v", e.typ)
	}
	e.discProperty = prop
	e.discriminator = d
	return nil
}

// Type returns the Go struct type of the entity.
func (e *Entity) Type() reflect.Type {
	return e.typ
}

// Name returns the logical entity name.
func (e *Entity) Name() string {
	return e.definition.Name
}

// Definition returns the schema of the entity.
func (e *Entity) Definition() *base.Definition {
	return e.definition
}

// Discriminator returns the table resolver of the entity.
func (e *Entity) Discriminator() EntityDiscriminator {
	return e.discriminator
}

// DiscriminatorProperty returns the discriminator accessor, nil for
// single-table entities.
func (e *Entity) DiscriminatorProperty() *DiscriminatorProperty {
	return e.discProperty
}

// New allocates an empty entity.
func (e *Entity) New() base.Object {
	return reflect.New(e.typ).Interface().(base.Object)
}

// Check returns an error if obj is not of the entity type.
func (e *Entity) Check(obj interface{}) error {
	_, err := structValue(obj, e.typ)
	return err
}

func (e *Entity) row(obj interface{}, props []*property) ([]base.Column, error) {
	v, err := structValue(obj, e.typ)
	if err != nil {
		return nil, err
	}
	row := make([]base.Column, 0, len(props))
	for _, p := range props {
		row = append(row, base.Column{
			Name:  p.column,
			Value: v.FieldByIndex(p.index).Interface(),
		})
	}
	return row, nil
}

// Row returns every persisted column of obj, key columns first.
func (e *Entity) Row(obj interface{}) ([]base.Column, error) {
	return e.row(obj, e.properties)
}

// KeyRow returns the key columns of obj.
func (e *Entity) KeyRow(obj interface{}) ([]base.Column, error) {
	return e.row(obj, e.keys)
}

// DataRow returns the non key columns of obj.
func (e *Entity) DataRow(obj interface{}) ([]base.Column, error) {
	return e.row(obj, e.data)
}

// ID returns the identity of obj.
func (e *Entity) ID(obj interface{}) (interface{}, error) {
	v, err := structValue(obj, e.typ)
	if err != nil {
		return nil, err
	}
	return v.FieldByIndex(e.idIndex).Interface(), nil
}

// SetID writes id into the identity field of obj.
func (e *Entity) SetID(obj interface{}, id interface{}) error {
	v, err := settableValue(obj, e.typ)
	if err != nil {
		return err
	}
	return assignValue(v.FieldByIndex(e.idIndex), id)
}

func (e *Entity) idValue(id interface{}) (reflect.Value, error) {
	if e.composite {
		return structValue(id, e.idType)
	}
	if id == nil {
		return reflect.Value{}, errors.Errorf("nil identity for %v", e.typ)
	}
	v := reflect.New(e.idType).Elem()
	if err := assignValue(v, id); err != nil {
		return reflect.Value{}, err
	}
	return v, nil
}

// KeyRowForID returns the key columns of the entity with identity id.
func (e *Entity) KeyRowForID(id interface{}) ([]base.Column, error) {
	v, err := e.idValue(id)
	if err != nil {
		return nil, err
	}
	row := make([]base.Column, 0, len(e.keys))
	for _, p := range e.keys {
		row = append(row, base.Column{
			Name:  p.column,
			Value: e.keyValue(v, p).Interface(),
		})
	}
	return row, nil
}

// keyValue returns the value of a key property within an identity value.
func (e *Entity) keyValue(id reflect.Value, p *property) reflect.Value {
	if !e.composite {
		return id
	}
	return id.FieldByIndex(p.idIndex)
}

// simpleKey returns the only key property that is not the discriminator.
func (e *Entity) simpleKey() (*property, error) {
	var simple *property
	for _, p := range e.keys {
		if p.discriminator {
			continue
		}
		if simple != nil {
			return nil, errors.Wrapf(ErrUnsupportedOperation,
				"%v has a composite key, lookup by simple ids is not possible",
				e.typ)
		}
		simple = p
	}
	if simple == nil {
		return nil, errors.Wrapf(ErrUnsupportedOperation,
			"%v has no simple key column", e.typ)
	}
	return simple, nil
}

// SimpleKeyColumn returns the only non discriminator key column.
func (e *Entity) SimpleKeyColumn() (string, error) {
	p, err := e.simpleKey()
	if err != nil {
		return "", err
	}
	return p.column, nil
}

// SimpleKey splits id into the persisted discriminator column, if any, and
// the value of the simple key column.
func (e *Entity) SimpleKey(id interface{}) ([]base.Column, interface{}, error) {
	p, err := e.simpleKey()
	if err != nil {
		return nil, nil, err
	}
	v, err := e.idValue(id)
	if err != nil {
		return nil, nil, err
	}
	var fixed []base.Column
	for _, k := range e.keys {
		if k.discriminator {
			fixed = append(fixed, base.Column{
				Name:  k.column,
				Value: e.keyValue(v, k).Interface(),
			})
		}
	}
	return fixed, e.keyValue(v, p).Interface(), nil
}

// ColumnForField returns the column a Go field is stored in.
func (e *Entity) ColumnForField(field string) (string, error) {
	p, ok := e.byField[field]
	if !ok {
		return "", errors.Wrapf(ErrInvalidMapping,
			"%v has no persisted field %q", e.typ, field)
	}
	return p.column, nil
}

// Conditions maps field name conditions to columns, sorted by column name.
func (e *Entity) Conditions(conditions map[string]interface{}) ([]base.Column, error) {
	cols := make([]base.Column, 0, len(conditions))
	for field, value := range conditions {
		column, err := e.ColumnForField(field)
		if err != nil {
			return nil, err
		}
		cols = append(cols, base.Column{Name: column, Value: value})
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].Name < cols[j].Name })
	return cols, nil
}

// SetFromRow copies the columns of a row into obj. Columns that are not
// mapped are ignored.
func (e *Entity) SetFromRow(obj interface{}, row map[string]interface{}) error {
	v, err := settableValue(obj, e.typ)
	if err != nil {
		return err
	}
	for _, p := range e.properties {
		value, ok := row[p.column]
		if !ok {
			continue
		}
		if err := assignValue(v.FieldByIndex(p.index), value); err != nil {
			return errors.Wrapf(err, "column %q", p.column)
		}
	}
	return nil
}

// SetFromColumns is SetFromRow for a list of columns.
func (e *Entity) SetFromColumns(obj interface{}, cols []base.Column) error {
	row := make(map[string]interface{}, len(cols))
	for _, c := range cols {
		row[c.Name] = c.Value
	}
	return e.SetFromRow(obj, row)
}
