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
	"github.com/uber-go/tally/v4"
)

// Metrics tracks counters for operations issued through the ORM client
type Metrics struct {
	EntityInsert     tally.Counter
	EntityInsertFail tally.Counter
	EntityUpdate     tally.Counter
	EntityUpdateFail tally.Counter
	EntityDelete     tally.Counter
	EntityDeleteFail tally.Counter
	EntityGet        tally.Counter
	EntityGetFail    tally.Counter
	EntityNotFound   tally.Counter

	// lightweight transactions that lost against an existing row
	EntityNotApplied tally.Counter

	BatchWrite     tally.Counter
	BatchWriteFail tally.Counter
	// number of per table batches issued
	BatchTables tally.Counter

	TableSelect       tally.Counter
	TableSelectFail   tally.Counter
	TableCount        tally.Counter
	TableCountFail    tally.Counter
	TableTruncate     tally.Counter
	TableTruncateFail tally.Counter

	AsyncWrite     tally.Counter
	AsyncWriteFail tally.Counter
	AsyncCancel    tally.Counter
}

// NewMetrics returns a new Metrics struct with all metrics initialized
// and rooted below the given tally scope
func NewMetrics(scope tally.Scope) *Metrics {
	entityScope := scope.SubScope("entity")
	entitySuccessScope := entityScope.Tagged(map[string]string{"result": "success"})
	entityFailScope := entityScope.Tagged(map[string]string{"result": "fail"})
	entityNotFoundScope := entityScope.Tagged(map[string]string{"result": "not_found"})
	entityNotAppliedScope := entityScope.Tagged(map[string]string{"result": "not_applied"})

	batchScope := scope.SubScope("batch")
	batchSuccessScope := batchScope.Tagged(map[string]string{"result": "success"})
	batchFailScope := batchScope.Tagged(map[string]string{"result": "fail"})

	tableScope := scope.SubScope("table")
	tableSuccessScope := tableScope.Tagged(map[string]string{"result": "success"})
	tableFailScope := tableScope.Tagged(map[string]string{"result": "fail"})

	asyncScope := scope.SubScope("async")
	asyncSuccessScope := asyncScope.Tagged(map[string]string{"result": "success"})
	asyncFailScope := asyncScope.Tagged(map[string]string{"result": "fail"})

	return &Metrics{
		EntityInsert:     entitySuccessScope.Counter("insert"),
		EntityInsertFail: entityFailScope.Counter("insert"),
		EntityUpdate:     entitySuccessScope.Counter("update"),
		EntityUpdateFail: entityFailScope.Counter("update"),
		EntityDelete:     entitySuccessScope.Counter("delete"),
		EntityDeleteFail: entityFailScope.Counter("delete"),
		EntityGet:        entitySuccessScope.Counter("get"),
		EntityGetFail:    entityFailScope.Counter("get"),
		EntityNotFound:   entityNotFoundScope.Counter("get"),
		EntityNotApplied: entityNotAppliedScope.Counter("lwt"),

		BatchWrite:     batchSuccessScope.Counter("write"),
		BatchWriteFail: batchFailScope.Counter("write"),
		BatchTables:    batchScope.Counter("tables"),

		TableSelect:       tableSuccessScope.Counter("select"),
		TableSelectFail:   tableFailScope.Counter("select"),
		TableCount:        tableSuccessScope.Counter("count"),
		TableCountFail:    tableFailScope.Counter("count"),
		TableTruncate:     tableSuccessScope.Counter("truncate"),
		TableTruncateFail: tableFailScope.Counter("truncate"),

		AsyncWrite:     asyncSuccessScope.Counter("write"),
		AsyncWriteFail: asyncFailScope.Counter("write"),
		AsyncCancel:    asyncScope.Counter("cancel"),
	}
}

// record increments success or fail depending on err.
func record(err error, success, fail tally.Counter) {
	if err != nil {
		fail.Inc(1)
		return
	}
	success.Inc(1)
}
