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
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies the variant of an EntityDiscriminator.
type Kind int

const (
	// SingleTable entities live in exactly one table.
	SingleTable Kind = iota + 1
	// MultiTable entities are spread over a family of tables sharing one
	// schema, selected by a discriminator value.
	MultiTable
)

func (k Kind) String() string {
	switch k {
	case SingleTable:
		return "single_table"
	case MultiTable:
		return "multi_table"
	}
	return "unknown"
}

// EntityDiscriminator resolves the physical table of an entity.
// The only implementations are SingleTableDiscriminator and
// MultiTableDiscriminator.
type EntityDiscriminator interface {
	// Kind returns the variant.
	Kind() Kind
	// TableNameFor returns the table holding entity.
	TableNameFor(entity interface{}) (TableID, error)
	// TableNameForID returns the table holding the entity with identity id.
	TableNameForID(id interface{}) (TableID, error)
	// TableNameForDiscriminator returns the table for a discriminator value.
	TableNameForDiscriminator(value interface{}) (TableID, error)
	// SetDiscriminatorValue writes value into the identity of entity.
	SetDiscriminatorValue(entity interface{}, value interface{}) error
	// ParseTableName returns the discriminator value encoded in a table
	// name. Single-table entities have no discriminator and return nil.
	ParseTableName(name string) (interface{}, error)
	// TableNames returns every table of the entity.
	TableNames() []TableID
	// IsMultiTable returns true for the MultiTable variant.
	IsMultiTable() bool

	sealed()
}

// SingleTableDiscriminator maps every entity to one fixed table.
type SingleTableDiscriminator struct {
	table TableID
}

// NewSingleTableDiscriminator returns a discriminator for table.
func NewSingleTableDiscriminator(table TableID) *SingleTableDiscriminator {
	return &SingleTableDiscriminator{table: table}
}

// Kind returns SingleTable.
func (d *SingleTableDiscriminator) Kind() Kind { return SingleTable }

// TableNameFor returns the table.
func (d *SingleTableDiscriminator) TableNameFor(interface{}) (TableID, error) {
	return d.table, nil
}

// TableNameForID returns the table.
func (d *SingleTableDiscriminator) TableNameForID(interface{}) (TableID, error) {
	return d.table, nil
}

// TableNameForDiscriminator returns the table whatever the value.
func (d *SingleTableDiscriminator) TableNameForDiscriminator(interface{}) (TableID, error) {
	return d.table, nil
}

// SetDiscriminatorValue is a no-op.
func (d *SingleTableDiscriminator) SetDiscriminatorValue(interface{}, interface{}) error {
	return nil
}

// ParseTableName returns nil.
func (d *SingleTableDiscriminator) ParseTableName(string) (interface{}, error) {
	return nil, nil
}

// TableNames returns the table.
func (d *SingleTableDiscriminator) TableNames() []TableID {
	return []TableID{d.table}
}

// IsMultiTable returns false.
func (d *SingleTableDiscriminator) IsMultiTable() bool { return false }

func (d *SingleTableDiscriminator) sealed() {}

// TemplateConfig describes the table family of a multi-table entity.
type TemplateConfig struct {
	// Template is the table name with DiscriminatorPlaceholder in it
	Template string
	// ForceQuote renders every table as a quoted identifier
	ForceQuote bool
	// Values are the discriminator strings of the family. When empty they
	// are enumerated through the converter.
	Values []string
	// Converter defaults to StringConverter
	Converter DiscriminatorConverter
}

// MultiTableDiscriminator resolves tables by substituting the converted
// discriminator into a name template. The table set is computed once at
// construction.
type MultiTableDiscriminator struct {
	tmpl      *nameTemplate
	converter DiscriminatorConverter
	property  *DiscriminatorProperty
	values    []string
	tables    []TableID
	index     map[string]int
}

// NewMultiTableDiscriminator compiles cfg. prop may be nil when only the
// value based operations are needed.
func NewMultiTableDiscriminator(
	cfg TemplateConfig,
	prop *DiscriminatorProperty,
) (*MultiTableDiscriminator, error) {
	tmpl, err := compileTemplate(cfg.Template, cfg.ForceQuote)
	if err != nil {
		return nil, err
	}
	d := &MultiTableDiscriminator{
		tmpl:      tmpl,
		converter: cfg.Converter,
		property:  prop,
		index:     make(map[string]int),
	}
	if d.converter == nil {
		d.converter = StringConverter
	}

	values := cfg.Values
	if len(values) == 0 {
		all, err := d.converter.AllValues()
		if err != nil {
			return nil, errors.Wrapf(err,
				"table name template %q without discriminator values", cfg.Template)
		}
		for _, v := range all {
			s, err := d.converter.Convert(v)
			if err != nil {
				return nil, err
			}
			values = append(values, s)
		}
	}
	if len(values) == 0 {
		return nil, errors.Wrapf(ErrInvalidMapping,
			"table name template %q has no discriminator values", cfg.Template)
	}

	for _, v := range values {
		if err := roundTrips(d.converter, v); err != nil {
			return nil, err
		}
		table, err := tmpl.substitute(v)
		if err != nil {
			return nil, errors.Wrapf(err, "discriminator %q", v)
		}
		if i, ok := d.index[table.key()]; ok {
			return nil, errors.Wrapf(ErrInvalidMapping,
				"discriminators %q and %q map to the same table %s",
				d.values[i], v, table.CQL())
		}
		d.index[table.key()] = len(d.tables)
		d.values = append(d.values, v)
		d.tables = append(d.tables, table)
	}
	return d, nil
}

// roundTrips checks that v is the canonical string form of its own value,
// so that a parsed table name resolves back to the same table.
func roundTrips(c DiscriminatorConverter, v string) error {
	value, err := c.FromString(v)
	if err != nil {
		return errors.Wrapf(ErrInvalidMapping, "discriminator %q: %v", v, err)
	}
	s, err := c.Convert(value)
	if err != nil {
		return errors.Wrapf(ErrInvalidMapping, "discriminator %q: %v", v, err)
	}
	if s != v {
		return errors.Wrapf(ErrInvalidMapping,
			"discriminator %q reads back as %q", v, s)
	}
	return nil
}

// Kind returns MultiTable.
func (d *MultiTableDiscriminator) Kind() Kind { return MultiTable }

// Template returns the table name template.
func (d *MultiTableDiscriminator) Template() string {
	return d.tmpl.template
}

// Converter returns the discriminator converter.
func (d *MultiTableDiscriminator) Converter() DiscriminatorConverter {
	return d.converter
}

// TableNameFor returns the table selected by the discriminator of entity.
func (d *MultiTableDiscriminator) TableNameFor(entity interface{}) (TableID, error) {
	if d.property == nil {
		return TableID{}, errors.Wrap(ErrUnsupportedOperation,
			"discriminator is not bound to an entity type")
	}
	v, err := d.property.Get(entity)
	if err != nil {
		return TableID{}, errors.Wrap(ErrInvalidDiscriminator, err.Error())
	}
	return d.TableNameForDiscriminator(v)
}

// TableNameForID returns the table selected by the discriminator in id.
func (d *MultiTableDiscriminator) TableNameForID(id interface{}) (TableID, error) {
	if d.property == nil {
		return TableID{}, errors.Wrap(ErrUnsupportedOperation,
			"discriminator is not bound to an entity type")
	}
	v, err := d.property.GetFromID(id)
	if err != nil {
		return TableID{}, errors.Wrap(ErrInvalidDiscriminator, err.Error())
	}
	return d.TableNameForDiscriminator(v)
}

// TableNameForDiscriminator substitutes value into the template and checks
// the result against the table set.
func (d *MultiTableDiscriminator) TableNameForDiscriminator(value interface{}) (TableID, error) {
	s, err := d.converter.Convert(value)
	if err != nil {
		return TableID{}, err
	}
	table, err := d.tmpl.substitute(s)
	if err != nil {
		return TableID{}, errors.Wrapf(ErrUnknownDiscriminator,
			"discriminator %q: %v", s, err)
	}
	i, ok := d.index[table.key()]
	if !ok {
		return TableID{}, errors.Wrapf(ErrUnknownDiscriminator,
			"table %s for discriminator %q is not one of %v",
			table.CQL(), s, d.tables)
	}
	return d.tables[i], nil
}

// SetDiscriminatorValue writes value into the identity of entity.
func (d *MultiTableDiscriminator) SetDiscriminatorValue(entity interface{}, value interface{}) error {
	if d.property == nil {
		return errors.Wrap(ErrUnsupportedOperation,
			"discriminator is not bound to an entity type")
	}
	return d.property.Set(entity, value)
}

// ParseTableName extracts the discriminator from a table name and reads it
// back through the converter.
func (d *MultiTableDiscriminator) ParseTableName(name string) (interface{}, error) {
	s, ok := d.tmpl.match(name)
	if !ok {
		return nil, errors.Wrapf(ErrParse,
			"table %q does not match template %q", name, d.tmpl)
	}
	for _, v := range d.values {
		if v == s || (!d.tmpl.forceQuote && strings.EqualFold(v, s)) {
			s = v
			break
		}
	}
	return d.converter.FromString(s)
}

// TableNames returns the table set in declaration order.
func (d *MultiTableDiscriminator) TableNames() []TableID {
	return append([]TableID(nil), d.tables...)
}

// IsMultiTable returns true.
func (d *MultiTableDiscriminator) IsMultiTable() bool { return true }

func (d *MultiTableDiscriminator) sealed() {}
