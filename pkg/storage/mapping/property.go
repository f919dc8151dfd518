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
	"math"
	"reflect"

	"github.com/pkg/errors"
)

// DiscriminatorProperty reads and writes the discriminator field held in the
// composite identity of an entity.
type DiscriminatorProperty struct {
	entityType reflect.Type
	idType     reflect.Type
	// index of the identity field in the entity
	idIndex []int
	// index of the discriminator field in the identity
	fieldIndex []int
	fieldType  reflect.Type
	// column holding the discriminator, empty when it is not persisted
	column string
}

// FieldType returns the Go type of the discriminator field.
func (p *DiscriminatorProperty) FieldType() reflect.Type {
	return p.fieldType
}

// Column returns the column the discriminator is persisted in, or an empty
// string when the discriminator only selects the table.
func (p *DiscriminatorProperty) Column() string {
	return p.column
}

// Get returns the discriminator of an entity.
func (p *DiscriminatorProperty) Get(entity interface{}) (interface{}, error) {
	v, err := structValue(entity, p.entityType)
	if err != nil {
		return nil, err
	}
	return v.FieldByIndex(p.idIndex).FieldByIndex(p.fieldIndex).Interface(), nil
}

// GetFromID returns the discriminator of an identity value.
func (p *DiscriminatorProperty) GetFromID(id interface{}) (interface{}, error) {
	v, err := structValue(id, p.idType)
	if err != nil {
		return nil, err
	}
	return v.FieldByIndex(p.fieldIndex).Interface(), nil
}

// Set writes the discriminator into the identity of entity, which must be a
// pointer.
func (p *DiscriminatorProperty) Set(entity interface{}, value interface{}) error {
	v, err := settableValue(entity, p.entityType)
	if err != nil {
		return errors.Wrap(ErrInvalidDiscriminator, err.Error())
	}
	field := v.FieldByIndex(p.idIndex).FieldByIndex(p.fieldIndex)
	if err := assignValue(field, value); err != nil {
		return errors.Wrap(ErrInvalidDiscriminator, err.Error())
	}
	return nil
}

// structValue dereferences obj and checks that it has type typ.
func structValue(obj interface{}, typ reflect.Type) (reflect.Value, error) {
	if obj == nil {
		return reflect.Value{}, errors.Errorf("nil value, expected %v", typ)
	}
	v := reflect.ValueOf(obj)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, errors.Errorf("nil pointer, expected %v", typ)
		}
		v = v.Elem()
	}
	if v.Type() != typ {
		return reflect.Value{}, errors.Errorf("got %T, expected %v", obj, typ)
	}
	return v, nil
}

// settableValue is structValue for values that are written to.
func settableValue(obj interface{}, typ reflect.Type) (reflect.Value, error) {
	v := reflect.ValueOf(obj)
	if obj == nil || v.Kind() != reflect.Ptr || v.IsNil() {
		return reflect.Value{}, errors.Errorf("got %T, expected *%v", obj, typ)
	}
	return structValue(obj, typ)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

// checkNumeric rejects conversions of sv to dt that would lose the value:
// floats into integers and integers that do not fit the destination.
func checkNumeric(sv reflect.Value, dt reflect.Type) error {
	sk, zero := sv.Kind(), reflect.Zero(dt)
	overflow := false
	switch {
	case isFloat(dt.Kind()):
		overflow = isFloat(sk) && zero.OverflowFloat(sv.Float())
	case isFloat(sk):
		return errors.Errorf("cannot assign %v to integer %v", sv.Type(), dt)
	case isSigned(dt.Kind()):
		if isSigned(sk) {
			overflow = zero.OverflowInt(sv.Int())
		} else {
			overflow = sv.Uint() > math.MaxInt64 || zero.OverflowInt(int64(sv.Uint()))
		}
	default:
		if isSigned(sk) {
			overflow = sv.Int() < 0 || zero.OverflowUint(uint64(sv.Int()))
		} else {
			overflow = zero.OverflowUint(sv.Uint())
		}
	}
	if overflow {
		return errors.Errorf("value %v overflows %v", sv.Interface(), dt)
	}
	return nil
}

// assignValue stores src into dst, converting between numeric types, between
// string types and into pointer fields.
func assignValue(dst reflect.Value, src interface{}) error {
	if src == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	sv := reflect.ValueOf(src)
	if sv.Kind() == reflect.Ptr {
		if sv.IsNil() {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		if !sv.Type().AssignableTo(dst.Type()) {
			sv = sv.Elem()
		}
	}
	st, dt := sv.Type(), dst.Type()
	switch {
	case st.AssignableTo(dt):
		dst.Set(sv)
	case dt.Kind() == reflect.Ptr:
		elem := reflect.New(dt.Elem())
		if err := assignValue(elem.Elem(), sv.Interface()); err != nil {
			return err
		}
		dst.Set(elem)
	case isNumeric(st.Kind()) && isNumeric(dt.Kind()):
		if err := checkNumeric(sv, dt); err != nil {
			return err
		}
		dst.Set(sv.Convert(dt))
	case st.Kind() == reflect.String && dt.Kind() == reflect.String:
		dst.Set(sv.Convert(dt))
	case st.Kind() == reflect.Slice && dt.Kind() == reflect.Slice &&
		st.ConvertibleTo(dt):
		dst.Set(sv.Convert(dt))
	default:
		return errors.Errorf("cannot assign %v to %v", st, dt)
	}
	return nil
}
