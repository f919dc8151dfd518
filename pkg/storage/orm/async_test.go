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

	"github.com/uber/cqlorm/pkg/storage/objects/base"
	"github.com/uber/cqlorm/pkg/storage/orm"
)

func (suite *ORMTestSuite) TestInsertAsync() {
	suite.conn.EXPECT().
		Create(gomock.Any(), gomock.Any(), "thing_a", gomock.Any(), gomock.Any()).
		Return(nil)

	l := &recordingListener{}
	e := thing("A", "a1", "v")
	op := suite.client.InsertAsync(suite.ctx, e, l)
	suite.NoError(op.Wait())
	suite.False(op.IsCancelled())
	suite.Equal([]base.Object{e}, l.completed)
	suite.Empty(l.errs)
	suite.Equal(int64(1), suite.counter("orm.async.write", "success"))
}

func (suite *ORMTestSuite) TestUpdateAsyncFailure() {
	updateErr := errors.New("unavailable")
	suite.conn.EXPECT().
		Update(gomock.Any(), gomock.Any(), "users", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(updateErr)

	l := &recordingListener{}
	op := suite.client.UpdateAsync(suite.ctx, &User{ID: "u1"}, l)
	suite.Equal(updateErr, op.Wait())
	suite.Equal([]error{updateErr}, l.errs)
	suite.Empty(l.completed)
	suite.Equal(int64(1), suite.counter("orm.async.write", "fail"))
}

func (suite *ORMTestSuite) TestDeleteAsyncWithoutListener() {
	suite.conn.EXPECT().
		Delete(gomock.Any(), gomock.Any(), "users", gomock.Any(), gomock.Any()).
		Return(nil)

	op := suite.client.DeleteAsync(suite.ctx, &User{ID: "u1"}, nil)
	suite.NoError(op.Wait())
}

// TestBatchInsertAsync tests that every table batch is written
func (suite *ORMTestSuite) TestBatchInsertAsync() {
	suite.conn.EXPECT().
		ExecuteBatch(gomock.Any(), gomock.Any(), "thing_a", gomock.Len(2), gomock.Any()).
		Return(nil)
	suite.conn.EXPECT().
		ExecuteBatch(gomock.Any(), gomock.Any(), "thing_b", gomock.Len(1), gomock.Any()).
		Return(nil)

	entities := []base.Object{
		thing("A", "a1", "v"),
		thing("B", "b1", "v"),
		thing("A", "a2", "v"),
	}
	l := &recordingListener{}
	op := suite.client.BatchInsertAsync(suite.ctx, entities, l)
	suite.NoError(op.Wait())
	suite.Equal(entities, l.completed)
}

func (suite *ORMTestSuite) TestBatchDeleteAsyncFailure() {
	batchErr := errors.New("write timeout")
	suite.conn.EXPECT().
		ExecuteBatch(gomock.Any(), gomock.Any(), "event_web", gomock.Any(), gomock.Any()).
		Return(batchErr)

	l := &recordingListener{}
	op := suite.client.BatchDeleteAsync(suite.ctx, []base.Object{
		&Event{ID: EventKey{Source: "web", ID: "e1"}},
	}, l)
	suite.Equal(batchErr, op.Wait())
	suite.Equal([]error{batchErr}, l.errs)
}

func (suite *ORMTestSuite) TestBatchUpdateAsyncEmpty() {
	l := &recordingListener{}
	op := suite.client.BatchUpdateAsync(suite.ctx, nil, l)
	suite.NoError(op.Wait())
	suite.Empty(l.completed)
	suite.Empty(l.errs)
}

// TestCancel tests that cancelling an async batch cancels the context the
// table batches run under
func (suite *ORMTestSuite) TestCancel() {
	started := make(chan struct{})
	suite.conn.EXPECT().
		ExecuteBatch(gomock.Any(), gomock.Any(), "users", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ *base.Definition, _ string,
			_ []orm.Operation, _ *orm.Options) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		})

	l := &recordingListener{}
	op := suite.client.BatchInsertAsync(suite.ctx, []base.Object{&User{ID: "u1"}}, l)
	<-started
	op.Cancel()
	op.Cancel()

	suite.Equal(context.Canceled, op.Wait())
	suite.True(op.IsCancelled())
	suite.Equal([]error{context.Canceled}, l.errs)

	var cancels int64
	for _, c := range suite.scope.Snapshot().Counters() {
		if c.Name() == "orm.async.cancel" {
			cancels = c.Value()
		}
	}
	suite.Equal(int64(1), cancels)
}

// TestCancelledContext tests that an operation started under a cancelled
// context never reaches the connector
func (suite *ORMTestSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(suite.ctx)
	cancel()

	l := &recordingListener{}
	op := suite.client.InsertAsync(ctx, &User{ID: "u1"}, l)
	suite.Equal(context.Canceled, op.Wait())
	suite.Equal([]error{context.Canceled}, l.errs)
}
