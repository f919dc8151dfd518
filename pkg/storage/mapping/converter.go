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
	"fmt"
	"reflect"
	"strconv"

	"github.com/pkg/errors"
)

// DiscriminatorConverter translates discriminator values to the string that
// is substituted into a table name template and back.
type DiscriminatorConverter interface {
	// Convert returns the string form of value. It fails only for nil or for
	// values outside of the Go type the converter handles.
	Convert(value interface{}) (string, error)
	// FromString reads a value back from its string form.
	FromString(s string) (interface{}, error)
	// AllValues enumerates the value domain, if it is finite.
	AllValues() ([]interface{}, error)
}

// typedConverter is implemented by converters bound to one Go type.
type typedConverter interface {
	ValueType() reflect.Type
}

type stringConverter struct{}

// StringConverter is the identity converter for string discriminators. Its
// domain cannot be enumerated, so entities using it must declare their
// discriminator values explicitly.
var StringConverter DiscriminatorConverter = stringConverter{}

func (stringConverter) Convert(value interface{}) (string, error) {
	if value == nil {
		return "", errors.Wrap(ErrInvalidDiscriminator, "nil discriminator")
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.String {
		return "", errors.Wrapf(ErrInvalidDiscriminator,
			"expected string discriminator, got %T", value)
	}
	return rv.String(), nil
}

func (stringConverter) FromString(s string) (interface{}, error) {
	return s, nil
}

func (stringConverter) AllValues() ([]interface{}, error) {
	return nil, errors.Wrap(ErrUnsupportedOperation,
		"string discriminators cannot be enumerated")
}

type intConverter struct{}

// IntConverter maps integer discriminators to their decimal form.
var IntConverter DiscriminatorConverter = intConverter{}

func (intConverter) Convert(value interface{}) (string, error) {
	if value == nil {
		return "", errors.Wrap(ErrInvalidDiscriminator, "nil discriminator")
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	}
	return "", errors.Wrapf(ErrInvalidDiscriminator,
		"expected integer discriminator, got %T", value)
}

func (intConverter) FromString(s string) (interface{}, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, errors.Wrapf(ErrParse, "%q is not an integer", s)
	}
	return v, nil
}

func (intConverter) AllValues() ([]interface{}, error) {
	return nil, errors.Wrap(ErrUnsupportedOperation,
		"integer discriminators cannot be enumerated")
}

// EnumConverter converts a closed set of values of one named type through
// their String method.
type EnumConverter struct {
	typ    reflect.Type
	values []fmt.Stringer
	byName map[string]fmt.Stringer
}

// NewEnumConverter creates a converter over values. All values must share
// one type and have distinct names; declaration order is kept by AllValues.
func NewEnumConverter(values ...fmt.Stringer) (*EnumConverter, error) {
	if len(values) == 0 {
		return nil, errors.Wrap(ErrInvalidMapping, "enum converter without values")
	}
	c := &EnumConverter{
		typ:    reflect.TypeOf(values[0]),
		byName: make(map[string]fmt.Stringer, len(values)),
	}
	for _, v := range values {
		if reflect.TypeOf(v) != c.typ {
			return nil, errors.Wrapf(ErrInvalidMapping,
				"enum value %v has type %T, expected %v", v, v, c.typ)
		}
		name := v.String()
		if _, ok := c.byName[name]; ok {
			return nil, errors.Wrapf(ErrInvalidMapping,
				"duplicate enum value %q", name)
		}
		c.byName[name] = v
		c.values = append(c.values, v)
	}
	return c, nil
}

// MustEnumConverter is NewEnumConverter that panics on error.
func MustEnumConverter(values ...fmt.Stringer) *EnumConverter {
	c, err := NewEnumConverter(values...)
	if err != nil {
		panic(err)
	}
	return c
}

// ValueType returns the Go type of the enum.
func (c *EnumConverter) ValueType() reflect.Type {
	return c.typ
}

// Convert returns the name of value.
func (c *EnumConverter) Convert(value interface{}) (string, error) {
	if value == nil {
		return "", errors.Wrap(ErrInvalidDiscriminator, "nil discriminator")
	}
	s, ok := value.(fmt.Stringer)
	if !ok || reflect.TypeOf(value) != c.typ {
		return "", errors.Wrapf(ErrInvalidDiscriminator,
			"expected %v discriminator, got %T", c.typ, value)
	}
	return s.String(), nil
}

// FromString returns the enum value named s.
func (c *EnumConverter) FromString(s string) (interface{}, error) {
	v, ok := c.byName[s]
	if !ok {
		return nil, errors.Wrapf(ErrParse, "%q is not a %v value", s, c.typ)
	}
	return v, nil
}

// AllValues returns the enum values in declaration order.
func (c *EnumConverter) AllValues() ([]interface{}, error) {
	values := make([]interface{}, 0, len(c.values))
	for _, v := range c.values {
		values = append(values, v)
	}
	return values, nil
}
