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

package orm_test

import (
	"context"
	"errors"

	"github.com/golang/mock/gomock"

	"github.com/uber/cqlorm/pkg/storage/mapping"
	"github.com/uber/cqlorm/pkg/storage/objects/base"
	"github.com/uber/cqlorm/pkg/storage/orm"
)

// keysOf returns the key column values of batch operations.
func keysOf(ops []orm.Operation) []interface{} {
	var keys []interface{}
	for _, op := range ops {
		cols := op.Keys
		if op.Type == orm.InsertOperation {
			cols = op.Values
		}
		for _, c := range cols {
			if c.Name == "key" {
				keys = append(keys, c.Value)
			}
		}
	}
	return keys
}

// TestBatchInsertGroupsByTable tests that a mixed batch becomes one batch
// per table in order of first appearance, keeping the input order
func (suite *ORMTestSuite) TestBatchInsertGroupsByTable() {
	entities := []base.Object{
		thing("A", "a1", "v"),
		thing("B", "b1", "v"),
		thing("A", "a2", "v"),
		thing("B", "b2", "v"),
		thing("A", "a3", "v"),
	}

	gomock.InOrder(
		suite.conn.EXPECT().
			ExecuteBatch(suite.ctx, gomock.Any(), "thing_a", gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, _ *base.Definition, _ string,
				ops []orm.Operation, opts *orm.Options) {
				suite.Equal([]interface{}{"a1", "a2", "a3"}, keysOf(ops))
				for _, op := range ops {
					suite.Equal(orm.InsertOperation, op.Type)
					suite.Len(op.Values, 3)
				}
				suite.Equal("ONE", opts.Consistency)
			}).
			Return(nil),
		suite.conn.EXPECT().
			ExecuteBatch(suite.ctx, gomock.Any(), "thing_b", gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, _ *base.Definition, _ string,
				ops []orm.Operation, opts *orm.Options) {
				suite.Equal([]interface{}{"b1", "b2"}, keysOf(ops))
				suite.Equal("ONE", opts.Consistency)
			}).
			Return(nil),
	)

	suite.NoError(suite.client.BatchInsert(suite.ctx, entities,
		orm.WithConsistency("ONE")))
	suite.Equal(int64(1), suite.counter("orm.batch.write", "success"))
}

// TestBatchSingleTable tests that a homogeneous batch is a single batch
func (suite *ORMTestSuite) TestBatchSingleTable() {
	suite.conn.EXPECT().
		ExecuteBatch(suite.ctx, gomock.Any(), "users", gomock.Len(3), gomock.Any()).
		Return(nil)

	suite.NoError(suite.client.BatchInsert(suite.ctx, []base.Object{
		&User{ID: "1"}, &User{ID: "2"}, &User{ID: "3"},
	}))
}

func (suite *ORMTestSuite) TestBatchUpdateAndDelete() {
	suite.conn.EXPECT().
		ExecuteBatch(suite.ctx, gomock.Any(), "thing_b", gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ *base.Definition, _ string,
			ops []orm.Operation, _ *orm.Options) {
			suite.Equal([]orm.Operation{{
				Type:   orm.UpdateOperation,
				Values: []base.Column{{Name: "value", Value: "v"}},
				Keys: []base.Column{
					{Name: "discriminator", Value: "B"},
					{Name: "key", Value: "b1"},
				},
			}}, ops)
		}).
		Return(nil)
	suite.NoError(suite.client.BatchUpdate(suite.ctx,
		[]base.Object{thing("B", "b1", "v")}))

	suite.conn.EXPECT().
		ExecuteBatch(suite.ctx, gomock.Any(), "event_web", gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ *base.Definition, _ string,
			ops []orm.Operation, _ *orm.Options) {
			suite.Equal([]orm.Operation{{
				Type: orm.DeleteOperation,
				Keys: []base.Column{{Name: "id", Value: "e1"}},
			}}, ops)
		}).
		Return(nil)
	suite.NoError(suite.client.BatchDelete(suite.ctx,
		[]base.Object{&Event{ID: EventKey{Source: "web", ID: "e1"}}}))
}

// TestBatchEmpty tests that an empty batch issues no statements
func (suite *ORMTestSuite) TestBatchEmpty() {
	suite.NoError(suite.client.BatchInsert(suite.ctx, nil))
	suite.NoError(suite.client.BatchDelete(suite.ctx, []base.Object{}))
}

// TestBatchStopsOnError tests that the first failing table batch aborts the
// remaining ones
func (suite *ORMTestSuite) TestBatchStopsOnError() {
	batchErr := errors.New("write timeout")
	suite.conn.EXPECT().
		ExecuteBatch(suite.ctx, gomock.Any(), "thing_a", gomock.Any(), gomock.Any()).
		Return(batchErr)

	err := suite.client.BatchInsert(suite.ctx, []base.Object{
		thing("A", "a1", "v"),
		thing("B", "b1", "v"),
	})
	suite.Equal(batchErr, err)
	suite.Equal(int64(1), suite.counter("orm.batch.write", "fail"))
}

// TestBatchUnresolvable tests that nothing is written when one member
// cannot be resolved
func (suite *ORMTestSuite) TestBatchUnresolvable() {
	err := suite.client.BatchInsert(suite.ctx, []base.Object{
		thing("A", "a1", "v"),
		thing("C", "c1", "v"),
	})
	suite.True(mapping.IsUnknownDiscriminator(err))
}

func (suite *ORMTestSuite) TestOperationTypeString() {
	suite.Equal("insert", orm.InsertOperation.String())
	suite.Equal("update", orm.UpdateOperation.String())
	suite.Equal("delete", orm.DeleteOperation.String())
	suite.Equal("unknown", orm.OperationType(0).String())
}
