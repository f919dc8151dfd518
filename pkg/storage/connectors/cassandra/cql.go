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

package cassandra

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const (
	// table is used to substitute Table in template with the rendered table
	table = "Table"
	// values is used to substitute Values in template with column values
	values = "Values"
	// columns is used to substitute Columns in template with column names
	columns = "Columns"
	// conditions is used to indicate = conditions in the query
	conditions = "Conditions"
	// in is the key column restricted with IN
	in = "In"
	// ifNotExist makes an insert a lightweight transaction
	ifNotExist = "IfNotExist"
	// ifConditions makes an update a conditional lightweight transaction
	ifConditions = "IfConditions"
	// updates is the list of columns set by an update
	updates = "Updates"
	// limit caps the number of rows of a select
	limit = "Limit"
	// ttl expires written rows
	ttl = "TTL"

	// insertTemplate is used to construct an insert query
	insertTemplate = `INSERT INTO {{.Table}} ({{ColumnFunc .Columns ", "}})` +
		` VALUES ({{QuestionMark .Values ", "}}){{IfNotExistFunc .IfNotExist}}` +
		`{{UsingFunc .TTL}};`

	// selectTemplate is used to construct a select query
	selectTemplate = `SELECT {{ColumnFunc .Columns ", "}} FROM {{.Table}}` +
		`{{WhereFunc .Conditions .In}}{{ConditionsFunc .Conditions " AND "}}` +
		`{{InFunc .Conditions .In}}{{LimitFunc .Limit}};`

	// countTemplate is used to construct a count query
	countTemplate = `SELECT COUNT(*) FROM {{.Table}}` +
		`{{WhereFunc .Conditions .In}}{{ConditionsFunc .Conditions " AND "}};`

	// updateTemplate is used to construct an update query
	updateTemplate = `UPDATE {{.Table}}{{UsingFunc .TTL}}` +
		` SET {{ConditionsFunc .Updates ", "}}` +
		`{{WhereFunc .Conditions .In}}{{ConditionsFunc .Conditions " AND "}}` +
		`{{IfFunc .IfConditions}};`

	// deleteTemplate is used to construct a delete query
	deleteTemplate = `DELETE FROM {{.Table}}` +
		`{{WhereFunc .Conditions .In}}{{ConditionsFunc .Conditions " AND "}};`

	// truncateTemplate is used to construct a truncate query
	truncateTemplate = `TRUNCATE {{.Table}};`
)

var (
	// function map for populating CQL templates
	funcMap = template.FuncMap{
		"ColumnFunc":     strings.Join,
		"QuestionMark":   questionMarkFunc,
		"ConditionsFunc": conditionsFunc,
		"WhereFunc":      whereFunc,
		"InFunc":         inFunc,
		"IfNotExistFunc": ifNotExistFunc,
		"IfFunc":         ifFunc,
		"LimitFunc":      limitFunc,
		"UsingFunc":      usingFunc,
	}

	insertTmpl = template.Must(
		template.New("insert").Funcs(funcMap).Parse(insertTemplate))
	selectTmpl = template.Must(
		template.New("select").Funcs(funcMap).Parse(selectTemplate))
	countTmpl = template.Must(
		template.New("count").Funcs(funcMap).Parse(countTemplate))
	updateTmpl = template.Must(
		template.New("update").Funcs(funcMap).Parse(updateTemplate))
	deleteTmpl = template.Must(
		template.New("delete").Funcs(funcMap).Parse(deleteTemplate))
	truncateTmpl = template.Must(
		template.New("truncate").Funcs(funcMap).Parse(truncateTemplate))
)

// questionMarkFunc adds ? to the insert query in place of values to be inserted
func questionMarkFunc(qs []interface{}, sep string) string {
	questions := make([]string, len(qs))
	for i := range qs {
		questions[i] = "?"
	}
	return strings.Join(questions, sep)
}

// conditionsFunc adds a =? condition for each column
func conditionsFunc(conds []string, sep string) string {
	cstrs := make([]string, len(conds))
	for i, cond := range conds {
		cstrs[i] = fmt.Sprintf("%s=?", cond)
	}
	return strings.Join(cstrs, sep)
}

// whereFunc adds where clause to the query
func whereFunc(conds []string, inColumn string) string {
	if len(conds) > 0 || inColumn != "" {
		return " WHERE "
	}
	return ""
}

// inFunc adds the IN restriction after the equality conditions
func inFunc(conds []string, inColumn string) string {
	if inColumn == "" {
		return ""
	}
	if len(conds) > 0 {
		return fmt.Sprintf(" AND %s IN ?", inColumn)
	}
	return fmt.Sprintf("%s IN ?", inColumn)
}

func ifNotExistFunc(cas bool) string {
	if cas {
		return " IF NOT EXISTS"
	}
	return ""
}

func ifFunc(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " IF " + conditionsFunc(conds, " AND ")
}

func limitFunc(l int) string {
	if l > 0 {
		return fmt.Sprintf(" LIMIT %d", l)
	}
	return ""
}

// usingFunc renders the TTL in whole seconds, sub-second TTLs round up
func usingFunc(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	secs := int64(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return fmt.Sprintf(" USING TTL %d", secs)
}

// Option to compose a cql statement
type Option map[string]interface{}

// OptFunc is the interface to set option
type OptFunc func(Option)

func newOption(opts []OptFunc) Option {
	option := Option{
		table:        "",
		values:       []interface{}(nil),
		columns:      []string(nil),
		conditions:   []string(nil),
		in:           "",
		ifNotExist:   false,
		ifConditions: []string(nil),
		updates:      []string(nil),
		limit:        0,
		ttl:          time.Duration(0),
	}
	for _, opt := range opts {
		opt(option)
	}
	return option
}

// Table sets the `table` to the cql statement. v is the rendered CQL
// identifier, quoted or not.
func Table(v string) OptFunc {
	return func(opt Option) {
		opt[table] = v
	}
}

// Columns sets the `columns` clause to the cql statement
func Columns(v []string) OptFunc {
	return func(opt Option) {
		quoCs := make([]string, len(v))
		for i, c := range v {
			quoCs[i] = strconv.Quote(c)
		}
		opt[columns] = quoCs
	}
}

// Values sets the `values` clause to the cql statement
func Values(v []interface{}) OptFunc {
	return func(opt Option) {
		opt[values] = v
	}
}

// Conditions set the `where` clause to the cql statement
func Conditions(v []string) OptFunc {
	return func(opt Option) {
		opt[conditions] = v
	}
}

// In restricts column to a bound list of values
func In(column string) OptFunc {
	return func(opt Option) {
		opt[in] = column
	}
}

// IfNotExist makes an insert conditional on the row being absent
func IfNotExist(v bool) OptFunc {
	return func(opt Option) {
		opt[ifNotExist] = v
	}
}

// IfConditions makes an update conditional on column values
func IfConditions(v []string) OptFunc {
	return func(opt Option) {
		opt[ifConditions] = v
	}
}

// Updates sets the `set` clause of an update
func Updates(v []string) OptFunc {
	return func(opt Option) {
		opt[updates] = v
	}
}

// Limit caps the rows returned by a select, 0 means no limit
func Limit(v int) OptFunc {
	return func(opt Option) {
		opt[limit] = v
	}
}

// TTL sets the time to live of written rows
func TTL(v time.Duration) OptFunc {
	return func(opt Option) {
		opt[ttl] = v
	}
}

func execute(tmpl *template.Template, opts []OptFunc) (string, error) {
	var bb bytes.Buffer
	err := tmpl.Execute(&bb, newOption(opts))
	return bb.String(), err
}

// InsertStmt creates insert statement
func InsertStmt(opts ...OptFunc) (string, error) {
	return execute(insertTmpl, opts)
}

// SelectStmt creates select statement
func SelectStmt(opts ...OptFunc) (string, error) {
	return execute(selectTmpl, opts)
}

// CountStmt creates a count statement
func CountStmt(opts ...OptFunc) (string, error) {
	return execute(countTmpl, opts)
}

// UpdateStmt creates update statement
func UpdateStmt(opts ...OptFunc) (string, error) {
	return execute(updateTmpl, opts)
}

// DeleteStmt creates delete statement
func DeleteStmt(opts ...OptFunc) (string, error) {
	return execute(deleteTmpl, opts)
}

// TruncateStmt creates truncate statement
func TruncateStmt(opts ...OptFunc) (string, error) {
	return execute(truncateTmpl, opts)
}
