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
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/uber/cqlorm/pkg/common"
	"github.com/uber/cqlorm/pkg/storage/objects/base"
	"github.com/uber/cqlorm/pkg/storage/orm"

	"github.com/gocql/gocql"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"
	"go.uber.org/yarpc/yarpcerrors"
)

const (
	useCasWrite = true
)

const (
	// operation tags for metrics
	create   = "create"
	cas      = "cas"
	get      = "get"
	getAll   = "get_all"
	getIter  = "get_iter"
	getIn    = "get_in"
	count    = "count"
	update   = "update"
	updateIf = "update_if"
	del      = "delete"
	truncate = "truncate"
	batch    = "batch"
	query    = "query"

	// default limit for select statements.
	_defaultQueryLimit = 1
	_ignoredQueryLimit = 0
)

type cassandraConnector struct {
	// Session is the gocql session created for this connector
	Session *gocql.Session
	// scope is the storage scope for metrics
	scope tally.Scope
	// scope is the storage scope for success metrics
	executeSuccessScope tally.Scope
	// scope is the storage scope for failure metrics
	executeFailScope tally.Scope

	// Conf is the Cassandra connector config for this cluster
	Conf *Config
}

// NewCassandraConnector initializes a Cassandra Connector
func NewCassandraConnector(
	config *Config,
	scope tally.Scope,
) (orm.Connector, error) {
	session, err := CreateStoreSession(
		config.CassandraConn, config.StoreName)
	if err != nil {
		return nil, err
	}
	return newConnector(session, config, scope), nil
}

func newConnector(
	session *gocql.Session,
	config *Config,
	scope tally.Scope,
) *cassandraConnector {
	// create a storeScope for the keyspace StoreName
	storeScope := scope.SubScope("cql").Tagged(
		map[string]string{"store": config.StoreName})

	return &cassandraConnector{
		Session: session,
		scope:   storeScope,
		executeSuccessScope: storeScope.Tagged(
			map[string]string{"result": "success"}),
		executeFailScope: storeScope.Tagged(
			map[string]string{"result": "fail"}),
		Conf: config,
	}
}

// ensure that implementation (cassandraConnector) satisfies the interface
var _ orm.Connector = (*cassandraConnector)(nil)

// buildResultRow is used to allocate memory for the row to be populated by
// Cassandra read operation based on what object fields are being read
func buildResultRow(e *base.Definition, columns []string) []interface{} {

	results := make([]interface{}, len(columns))

	for i, column := range columns {
		// get the type of the field from the ColumnToType mapping for object
		// That we we can allocate appropriate memory for this field
		typ, ok := e.ColumnToType[column]
		if !ok {
			var value interface{}
			results[i] = &value
			continue
		}
		if typ.Kind() == reflect.Ptr {
			typ = typ.Elem()
		}

		switch {
		case typ == timeType:
			var value *time.Time
			results[i] = &value
		case typ == gocqlUUIDType:
			var value *gocql.UUID
			results[i] = &value
		case typ.Kind() == reflect.String:
			var value *string
			results[i] = &value
		case typ.Kind() == reflect.Int8, typ.Kind() == reflect.Int16,
			typ.Kind() == reflect.Int32, typ.Kind() == reflect.Uint8,
			typ.Kind() == reflect.Uint16, typ.Kind() == reflect.Uint32,
			typ.Kind() == reflect.Int:
			// C* internally uses int and int64
			var value *int
			results[i] = &value
		case typ.Kind() == reflect.Int64, typ.Kind() == reflect.Uint64,
			typ.Kind() == reflect.Uint:
			var value *int64
			results[i] = &value
		case typ.Kind() == reflect.Float32, typ.Kind() == reflect.Float64:
			var value *float64
			results[i] = &value
		case typ.Kind() == reflect.Bool:
			var value *bool
			results[i] = &value
		case typ.Kind() == reflect.Slice:
			var value *[]byte
			results[i] = &value
		default:
			// Let the driver pick the type of columns we do not recognize
			log.WithFields(log.Fields{"type": typ.Kind(), "column": column}).
				Debug("type not found, reading as interface")
			var value interface{}
			results[i] = &value
		}
	}

	return results
}

var (
	timeType      = reflect.TypeOf(time.Time{})
	gocqlUUIDType = reflect.TypeOf(gocql.UUID{})
)

// getRowFromResult translates a row read from Cassandra into a list of
// base.Column to be interpreted by the orm client
func getRowFromResult(columnNames []string, columnVals []interface{},
) []base.Column {

	row := make([]base.Column, 0, len(columnNames))

	for i, columnName := range columnNames {
		// construct a list of column objects from the lists of column names
		// and values that were returned by the cassandra query
		column := base.Column{
			Name: columnName,
		}

		switch rv := columnVals[i].(type) {
		case **int:
			column.Value = *rv
		case **int64:
			column.Value = *rv
		case **float64:
			column.Value = *rv
		case **string:
			column.Value = *rv
		case **gocql.UUID:
			column.Value = *rv
		case **time.Time:
			column.Value = *rv
		case **bool:
			column.Value = *rv
		case **[]byte:
			column.Value = *rv
		case *interface{}:
			column.Value = *rv
		default:
			log.WithFields(log.Fields{
				"data":   columnVals[i],
				"column": columnName}).Info("type not found")
		}
		row = append(row, column)
	}
	return row
}

// splitColumnNameValue is used to return list of column names and list of their
// corresponding value. Order is very important in this lists as they will be
// used separately when constructing the CQL query.
func splitColumnNameValue(row []base.Column) (
	colNames []string, colValues []interface{}) {

	for _, column := range row {
		colNames = append(colNames, column.Name)
		colValues = append(colValues, toCQLValue(column.Value))
	}

	return colNames, colValues
}

// toCQLValue converts values the driver cannot marshal.
func toCQLValue(v interface{}) interface{} {
	switch value := v.(type) {
	case uuid.UUID:
		if len(value) == 0 {
			return nil
		}
		id, err := gocql.UUIDFromBytes(value)
		if err != nil {
			return []byte(value)
		}
		return id
	default:
		return v
	}
}

// processDBData converts uuids read from C* into the type of the field
// they are loaded into.
func processDBData(e *base.Definition, result []map[string]interface{}) {
	for i, mapItem := range result {
		for k, v := range mapItem {
			id, ok := v.(gocql.UUID)
			if !ok {
				continue
			}
			var typ reflect.Type
			if e != nil {
				typ = e.ColumnToType[k]
			}
			switch {
			case typ == gocqlUUIDType:
			case typ != nil && typ.Kind() == reflect.Slice:
				result[i][k] = uuid.UUID(id.Bytes())
			default:
				result[i][k] = id.String()
			}
		}
	}
}

func parseConsistency(s string) (gocql.Consistency, error) {
	c, err := gocql.ParseConsistencyWrapper(strings.ToUpper(s))
	if err != nil {
		return 0, yarpcerrors.InvalidArgumentErrorf(
			"invalid consistency %q", s)
	}
	return c, nil
}

func parseSerialConsistency(s string) (gocql.SerialConsistency, error) {
	switch strings.ToUpper(s) {
	case "SERIAL":
		return gocql.Serial, nil
	case "LOCAL_SERIAL":
		return gocql.LocalSerial, nil
	}
	return 0, yarpcerrors.InvalidArgumentErrorf(
		"invalid serial consistency %q", s)
}

// newQuery creates a query bound to ctx with the statement options applied
func (c *cassandraConnector) newQuery(
	ctx context.Context,
	opts *orm.Options,
	stmt string,
	args ...interface{},
) (*gocql.Query, error) {
	q := c.Session.Query(stmt, args...).WithContext(ctx)
	if opts == nil {
		return q, nil
	}
	if opts.Consistency != "" {
		cons, err := parseConsistency(opts.Consistency)
		if err != nil {
			return nil, err
		}
		q = q.Consistency(cons)
	}
	if opts.SerialConsistency != "" {
		cons, err := parseSerialConsistency(opts.SerialConsistency)
		if err != nil {
			return nil, err
		}
		q = q.SerialConsistency(cons)
	}
	if !opts.Timestamp.IsZero() {
		q = q.WithTimestamp(opts.Timestamp.UnixNano() / int64(time.Microsecond))
	}
	if opts.PageSize > 0 {
		q = q.PageSize(opts.PageSize)
	}
	return q, nil
}

func ttlOf(opts *orm.Options) time.Duration {
	if opts == nil {
		return 0
	}
	return opts.TTL
}

func logStatement(table, stmt string, args []interface{}, err error) {
	log.WithFields(log.Fields{
		common.DBTableLogField: table,
		common.DBStmtLogField:  stmt,
		common.DBArgsLogField:  args,
	}).WithError(err).Debug("C* statement failed")
}

// CreateIfNotExists creates a new row in DB if it doesn't already exist.
// Uses CAS write and returns the current row when it exists.
func (c *cassandraConnector) CreateIfNotExists(
	ctx context.Context,
	e *base.Definition,
	table string,
	row []base.Column,
	opts *orm.Options,
) (bool, map[string]interface{}, error) {
	return c.create(ctx, e, table, row, opts, useCasWrite)
}

// Create creates a new row in DB.
func (c *cassandraConnector) Create(
	ctx context.Context,
	e *base.Definition,
	table string,
	row []base.Column,
	opts *orm.Options,
) error {
	_, _, err := c.create(ctx, e, table, row, opts, !useCasWrite)
	return err
}

func (c *cassandraConnector) create(
	ctx context.Context,
	e *base.Definition,
	table string,
	row []base.Column,
	opts *orm.Options,
	casWrite bool,
) (bool, map[string]interface{}, error) {
	operation := create
	if casWrite {
		operation = cas
	}

	// split row into a list of names and values to compose query stmt using
	// names and use values in the session query call, so the order needs to be
	// maintained.
	colNames, colValues := splitColumnNameValue(row)

	// Prepare insert statement
	stmt, err := InsertStmt(
		Table(table),
		Columns(colNames),
		Values(colValues),
		IfNotExist(casWrite),
		TTL(ttlOf(opts)),
	)
	if err != nil {
		return false, nil, err
	}

	q, err := c.newQuery(ctx, opts, stmt, colValues...)
	if err != nil {
		sendCounters(c.executeFailScope, table, operation, err)
		return false, nil, err
	}

	if casWrite {
		current := map[string]interface{}{}
		applied, err := q.MapScanCAS(current)
		if err != nil {
			logStatement(table, stmt, colValues, err)
			sendCounters(c.executeFailScope, table, operation, err)
			return false, nil, translateError(err)
		}
		sendLatency(c.scope, table, operation, time.Duration(q.Latency()))
		sendCounters(c.executeSuccessScope, table, operation, nil)
		if !applied {
			processDBData(e, []map[string]interface{}{current})
			return false, current, nil
		}
		return true, nil, nil
	}

	if err := q.Exec(); err != nil {
		logStatement(table, stmt, colValues, err)
		sendCounters(c.executeFailScope, table, operation, err)
		return false, nil, translateError(err)
	}

	sendLatency(c.scope, table, operation, time.Duration(q.Latency()))
	sendCounters(c.executeSuccessScope, table, operation, nil)
	return true, nil, nil
}

// buildSelectQuery builds a select query using base object and key columns.
// If limit is non-zero, it will be enforced in the select query.
// If limit is 0, the select query will fetch all rows that match.
func (c *cassandraConnector) buildSelectQuery(
	ctx context.Context,
	table string,
	keyCols []base.Column,
	colNamesToRead []string,
	limit int,
	opts *orm.Options,
) (*gocql.Query, error) {

	// split keyCols into a list of names and values to compose query stmt using
	// names and use values in the session query call, so the order needs to be
	// maintained.
	keyColNames, keyColValues := splitColumnNameValue(keyCols)

	// Prepare select statement
	stmt, err := SelectStmt(
		Table(table),
		Columns(colNamesToRead),
		Conditions(keyColNames),
		Limit(limit),
	)
	if err != nil {
		return nil, err
	}

	return c.newQuery(ctx, opts, stmt, keyColValues...)
}

// Get fetches a record from DB using primary keys
// returns a map describing a row from DB, key is columnName,
// value is columnValue.
func (c *cassandraConnector) Get(
	ctx context.Context,
	e *base.Definition,
	table string,
	keyCols []base.Column,
	opts *orm.Options,
	colNamesToRead ...string,
) (map[string]interface{}, error) {
	if len(colNamesToRead) == 0 {
		colNamesToRead = e.GetColumnsToRead()
	}

	q, err := c.buildSelectQuery(
		ctx,
		table,
		keyCols,
		colNamesToRead,
		_defaultQueryLimit,
		opts)
	if err != nil {
		sendCounters(c.executeFailScope, table, get, err)
		return nil, err
	}

	// execute query and get iterator
	cqlIter := q.Iter()
	result, err := cqlIter.SliceMap()
	if err != nil {
		sendCounters(c.executeFailScope, table, get, err)
		return nil, translateError(errors.Wrap(err, "SliceMap failed"))
	}

	sendLatency(c.scope, table, get, time.Duration(q.Latency()))
	if len(result) == 0 {
		err = yarpcerrors.NotFoundErrorf("%s not found in %s", e.Name, table)
		sendCounters(c.executeSuccessScope, table, get, err)
		return nil, err
	}
	// at this stage, we know result should be an array size of 1
	processDBData(e, result)
	sendCounters(c.executeSuccessScope, table, get, nil)

	return result[0], nil
}

// GetAll fetches all rows from DB using partition keys
// returns an array of map[string]interface{}
// the key of the map is the columnName, the value of the map is ColumnValue
func (c *cassandraConnector) GetAll(
	ctx context.Context,
	e *base.Definition,
	table string,
	keyCols []base.Column,
	opts *orm.Options,
) ([]map[string]interface{}, error) {
	q, err := c.buildSelectQuery(
		ctx,
		table,
		keyCols,
		e.GetColumnsToRead(),
		_ignoredQueryLimit,
		opts)
	if err != nil {
		sendCounters(c.executeFailScope, table, getAll, err)
		return nil, err
	}
	return c.sliceMap(e, table, getAll, q)
}

// GetIn fetches the rows whose inColumn is one of values
func (c *cassandraConnector) GetIn(
	ctx context.Context,
	e *base.Definition,
	table string,
	keyCols []base.Column,
	inColumn string,
	values []interface{},
	opts *orm.Options,
) ([]map[string]interface{}, error) {
	keyColNames, keyColValues := splitColumnNameValue(keyCols)

	inValues := make([]interface{}, len(values))
	for i, v := range values {
		inValues[i] = toCQLValue(v)
	}

	stmt, err := SelectStmt(
		Table(table),
		Columns(e.GetColumnsToRead()),
		Conditions(keyColNames),
		In(inColumn),
	)
	if err != nil {
		return nil, err
	}

	q, err := c.newQuery(ctx, opts, stmt, append(keyColValues, inValues)...)
	if err != nil {
		return nil, err
	}
	return c.sliceMap(e, table, getIn, q)
}

func (c *cassandraConnector) sliceMap(
	e *base.Definition,
	table string,
	operation string,
	q *gocql.Query,
) ([]map[string]interface{}, error) {
	// execute query and get iterator
	cqlIter := q.Iter()
	defer cqlIter.Close()

	result, err := cqlIter.SliceMap()
	if err != nil {
		logStatement(table, q.Statement(), q.Values(), err)
		sendCounters(c.executeFailScope, table, operation, err)
		return nil, translateError(errors.Wrap(err, "SliceMap failed"))
	}
	processDBData(e, result)
	sendLatency(c.scope, table, operation, time.Duration(q.Latency()))
	sendCounters(c.executeSuccessScope, table, operation, nil)
	return result, nil
}

// GetAllIter gives an iterator to fetch all rows from DB
func (c *cassandraConnector) GetAllIter(
	ctx context.Context,
	e *base.Definition,
	table string,
	keyCols []base.Column,
	opts *orm.Options,
) (iter orm.Iterator, err error) {
	colNamesToRead := e.GetColumnsToRead()

	q, err := c.buildSelectQuery(
		ctx,
		table,
		keyCols,
		colNamesToRead,
		_ignoredQueryLimit,
		opts)
	if err != nil {
		return nil, err
	}

	// execute query and get iterator
	cqlIter := q.Iter()
	sendLatency(c.scope, table, getIter, time.Duration(q.Latency()))

	return newIterator(
		e,
		table,
		colNamesToRead,
		c.executeSuccessScope,
		c.executeFailScope,
		cqlIter,
	), nil
}

// Count returns the number of rows matching keyCols
func (c *cassandraConnector) Count(
	ctx context.Context,
	e *base.Definition,
	table string,
	keyCols []base.Column,
	opts *orm.Options,
) (int64, error) {
	keyColNames, keyColValues := splitColumnNameValue(keyCols)

	stmt, err := CountStmt(
		Table(table),
		Conditions(keyColNames),
	)
	if err != nil {
		return 0, err
	}

	q, err := c.newQuery(ctx, opts, stmt, keyColValues...)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := q.Scan(&n); err != nil {
		logStatement(table, stmt, keyColValues, err)
		sendCounters(c.executeFailScope, table, count, err)
		return 0, translateError(err)
	}
	sendLatency(c.scope, table, count, time.Duration(q.Latency()))
	sendCounters(c.executeSuccessScope, table, count, nil)
	return n, nil
}

// Delete deletes a record from DB using primary keys
func (c *cassandraConnector) Delete(
	ctx context.Context,
	e *base.Definition,
	table string,
	keyCols []base.Column,
	opts *orm.Options,
) error {

	keyColNames, keyColValues := splitColumnNameValue(keyCols)

	// Prepare delete statement
	stmt, err := DeleteStmt(
		Table(table),
		Conditions(keyColNames),
	)
	if err != nil {
		return err
	}

	return c.exec(ctx, table, del, opts, stmt, keyColValues)
}

// Update updates an existing row in DB.
func (c *cassandraConnector) Update(
	ctx context.Context,
	e *base.Definition,
	table string,
	row []base.Column,
	keyCols []base.Column,
	opts *orm.Options,
) error {
	stmt, updateVals, err := updateStmt(table, row, keyCols, nil, opts)
	if err != nil {
		return err
	}
	return c.exec(ctx, table, update, opts, stmt, updateVals)
}

// UpdateIf updates an existing row when every condition holds. It returns
// the current values of the row when the update was not applied.
func (c *cassandraConnector) UpdateIf(
	ctx context.Context,
	e *base.Definition,
	table string,
	row []base.Column,
	keyCols []base.Column,
	conditions []base.Column,
	opts *orm.Options,
) (bool, map[string]interface{}, error) {
	stmt, updateVals, err := updateStmt(table, row, keyCols, conditions, opts)
	if err != nil {
		return false, nil, err
	}

	q, err := c.newQuery(ctx, opts, stmt, updateVals...)
	if err != nil {
		sendCounters(c.executeFailScope, table, updateIf, err)
		return false, nil, err
	}

	current := map[string]interface{}{}
	applied, err := q.MapScanCAS(current)
	if err != nil {
		logStatement(table, stmt, updateVals, err)
		sendCounters(c.executeFailScope, table, updateIf, err)
		return false, nil, translateError(err)
	}
	sendLatency(c.scope, table, updateIf, time.Duration(q.Latency()))
	sendCounters(c.executeSuccessScope, table, updateIf, nil)
	if !applied {
		processDBData(e, []map[string]interface{}{current})
		return false, current, nil
	}
	return true, nil, nil
}

// updateStmt composes an update of row and the list of values to bind:
// updated values, then keys, then conditions.
func updateStmt(
	table string,
	row []base.Column,
	keyCols []base.Column,
	conditions []base.Column,
	opts *orm.Options,
) (string, []interface{}, error) {
	keyColNames, keyColValues := splitColumnNameValue(keyCols)
	colNames, colValues := splitColumnNameValue(row)
	condNames, condValues := splitColumnNameValue(conditions)

	stmt, err := UpdateStmt(
		Table(table),
		Updates(colNames),
		Conditions(keyColNames),
		IfConditions(condNames),
		TTL(ttlOf(opts)),
	)
	if err != nil {
		return "", nil, err
	}

	// list of values to be supplied in the query
	updateVals := make(
		[]interface{}, 0, len(colValues)+len(keyColValues)+len(condValues))
	updateVals = append(updateVals, colValues...)
	updateVals = append(updateVals, keyColValues...)
	updateVals = append(updateVals, condValues...)
	return stmt, updateVals, nil
}

func (c *cassandraConnector) exec(
	ctx context.Context,
	table string,
	operation string,
	opts *orm.Options,
	stmt string,
	args []interface{},
) error {
	q, err := c.newQuery(ctx, opts, stmt, args...)
	if err != nil {
		sendCounters(c.executeFailScope, table, operation, err)
		return err
	}

	if err := q.Exec(); err != nil {
		logStatement(table, stmt, args, err)
		sendCounters(c.executeFailScope, table, operation, err)
		return translateError(err)
	}

	sendLatency(c.scope, table, operation, time.Duration(q.Latency()))
	sendCounters(c.executeSuccessScope, table, operation, nil)
	return nil
}

// Truncate removes all rows of table
func (c *cassandraConnector) Truncate(
	ctx context.Context,
	e *base.Definition,
	table string,
) error {
	stmt, err := TruncateStmt(Table(table))
	if err != nil {
		return err
	}
	return c.exec(ctx, table, truncate, nil, stmt, nil)
}

// batchStatement renders one operation of a batch
func batchStatement(
	table string,
	op orm.Operation,
	opts *orm.Options,
) (string, []interface{}, error) {
	switch op.Type {
	case orm.InsertOperation:
		colNames, colValues := splitColumnNameValue(op.Values)
		stmt, err := InsertStmt(
			Table(table),
			Columns(colNames),
			Values(colValues),
			TTL(ttlOf(opts)),
		)
		return stmt, colValues, err
	case orm.UpdateOperation:
		return updateStmt(table, op.Values, op.Keys, nil, opts)
	case orm.DeleteOperation:
		keyColNames, keyColValues := splitColumnNameValue(op.Keys)
		stmt, err := DeleteStmt(
			Table(table),
			Conditions(keyColNames),
		)
		return stmt, keyColValues, err
	}
	return "", nil, yarpcerrors.InvalidArgumentErrorf(
		"unknown batch operation %v", op.Type)
}

// ExecuteBatch writes ops to table in a single logged batch
func (c *cassandraConnector) ExecuteBatch(
	ctx context.Context,
	e *base.Definition,
	table string,
	ops []orm.Operation,
	opts *orm.Options,
) error {
	if len(ops) == 0 {
		return nil
	}
	if len(ops) > c.Conf.maxBatchSize() {
		log.WithFields(log.Fields{
			common.DBTableLogField: table,
			"batch_size":           len(ops),
			"max_batch_size":       c.Conf.maxBatchSize(),
		}).Warn("batch exceeds max batch size")
	}

	b := c.Session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	for _, op := range ops {
		stmt, args, err := batchStatement(table, op, opts)
		if err != nil {
			sendCounters(c.executeFailScope, table, batch, err)
			return err
		}
		b.Query(stmt, args...)
	}
	if opts != nil {
		if opts.Consistency != "" {
			cons, err := parseConsistency(opts.Consistency)
			if err != nil {
				sendCounters(c.executeFailScope, table, batch, err)
				return err
			}
			b.SetConsistency(cons)
		}
		if !opts.Timestamp.IsZero() {
			b.WithTimestamp(opts.Timestamp.UnixNano() / int64(time.Microsecond))
		}
	}

	start := time.Now()
	if err := c.Session.ExecuteBatch(b); err != nil {
		log.WithFields(log.Fields{
			common.DBTableLogField: table,
			"batch_size":           len(ops),
		}).WithError(err).Debug("C* batch failed")
		sendCounters(c.executeFailScope, table, batch, err)
		return translateError(err)
	}
	sendLatency(c.scope, table, batch, time.Since(start))
	sendCounters(c.executeSuccessScope, table, batch, nil)
	return nil
}

// Query runs a raw statement against table and returns all its rows
func (c *cassandraConnector) Query(
	ctx context.Context,
	table string,
	stmt string,
	opts *orm.Options,
	args ...interface{},
) ([]map[string]interface{}, error) {
	values := make([]interface{}, len(args))
	for i, v := range args {
		values[i] = toCQLValue(v)
	}
	q, err := c.newQuery(ctx, opts, stmt, values...)
	if err != nil {
		return nil, err
	}
	return c.sliceMap(nil, table, query, q)
}

// cassandraIterator implements interface Iterator for Cassandra
type cassandraIterator struct {
	cqlIter        *gocql.Iter
	tableDef       *base.Definition
	table          string
	colNamesToRead []string
	successScope   tally.Scope
	failScope      tally.Scope
}

// ensure that implementation (cassandraIterator) satisfies the interface
var _ orm.Iterator = (*cassandraIterator)(nil)

func newIterator(
	e *base.Definition,
	table string,
	cols []string,
	successScope tally.Scope,
	failScope tally.Scope,
	cqlIter *gocql.Iter,
) *cassandraIterator {
	return &cassandraIterator{
		cqlIter:        cqlIter,
		tableDef:       e,
		table:          table,
		successScope:   successScope,
		failScope:      failScope,
		colNamesToRead: cols,
	}
}

func (iter *cassandraIterator) Close() {
	iter.cqlIter.Close()
}

func (iter *cassandraIterator) Next() ([]base.Column, error) {
	result := buildResultRow(iter.tableDef, iter.colNamesToRead)
	if iter.cqlIter.Scan(result...) {
		return getRowFromResult(iter.colNamesToRead, result), nil
	}
	// Either end-of-results or error
	if err := iter.cqlIter.Close(); err != nil {
		sendCounters(iter.failScope, iter.table, getIter, err)
		return nil, translateError(err)
	}
	sendCounters(iter.successScope, iter.table, getIter, nil)
	return nil, nil
}

// helper function to record call latency metric
func sendLatency(
	scope tally.Scope,
	table, operation string,
	d time.Duration,
) {
	s := scope.Tagged(map[string]string{
		"table":     table,
		"operation": operation,
	})
	s.Timer("execute_latency").Record(d)
}

// helper function to record cql query success/failure metrics
func sendCounters(
	scope tally.Scope,
	table, operation string,
	err error,
) {
	errMsg := "none"
	if err != nil {
		errMsg = getGocqlErrorTag(err)
	}
	s := scope.Tagged(map[string]string{
		"table":     table,
		"operation": operation,
		"error":     errMsg,
	})
	s.Counter("execute").Inc(1)
}
