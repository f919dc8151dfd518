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

package base

import (
	"reflect"
)

// Definition stores schema information about a logical entity. The physical
// table a row lives in is resolved separately, so one Definition may back
// several tables.
type Definition struct {
	// logical entity name, used for logs and metrics
	Name string
	// Primary key of the entity
	Key *PrimaryKey
	// Column name to data type mapping of the entity
	ColumnToType map[string]reflect.Type
	// Column names in declaration order, key columns first
	Columns []string
}

// Column holds a column name and value for one row.
type Column struct {
	// Name of the column
	Name string
	// Value of the column
	Value interface{}
}

// PrimaryKey stores the key column names of an entity.
type PrimaryKey struct {
	// List of key column names in declaration order
	Columns []string
}

// GetColumnsToRead returns a list of column names to be read for this entity
// in a select operation
func (o *Definition) GetColumnsToRead() []string {
	if len(o.Columns) > 0 {
		return append([]string(nil), o.Columns...)
	}
	colNamesToRead := []string{}
	for col := range o.ColumnToType {
		colNamesToRead = append(colNamesToRead, col)
	}
	return colNamesToRead
}

// IsKeyColumn returns true if the column is part of the primary key.
func (o *Definition) IsKeyColumn(name string) bool {
	if o.Key == nil {
		return false
	}
	for _, k := range o.Key.Columns {
		if k == name {
			return true
		}
	}
	return false
}

// Object is a marker interface embedded in every storage entity. Column
// mappings are declared on the entity fields with the `column` tag:
//
// 	type Thing struct {
//		base.Object
//		ID    ThingKey
//		Value string   `column:"name=value"`
//	}
//
// 	type ThingKey struct {
//		Discriminator string `column:"name=discriminator"`
//		Key           string `column:"name=key"`
//	}
//
// Table names and discriminators are declared separately through
// mapping.EntityConfig.
type Object interface {
	// transform will convert all the value from DB into the corresponding type
	// in ORM object to be interpreted by base store client
	transform(map[string]interface{})
}
