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
	"errors"

	"github.com/golang/mock/gomock"
	"github.com/hashicorp/go-multierror"

	"github.com/uber/cqlorm/pkg/storage/mapping"
	"github.com/uber/cqlorm/pkg/storage/objects/base"
	"github.com/uber/cqlorm/pkg/storage/orm"
	ormmocks "github.com/uber/cqlorm/pkg/storage/orm/mocks"
)

// iterator returns a mock iterator yielding rows.
func (suite *ORMTestSuite) iterator(rows ...[]base.Column) orm.Iterator {
	iter := ormmocks.NewMockIterator(suite.ctrl)
	var calls []*gomock.Call
	for _, row := range rows {
		calls = append(calls, iter.EXPECT().Next().Return(row, nil))
	}
	calls = append(calls, iter.EXPECT().Next().Return(nil, nil))
	gomock.InOrder(calls...)
	iter.EXPECT().Close()
	return iter
}

// TestSelectAll tests reading every table of a multi-table entity
func (suite *ORMTestSuite) TestSelectAll() {
	suite.conn.EXPECT().
		GetAllIter(gomock.Any(), gomock.Any(), "event_web", nil, gomock.Any()).
		Return(suite.iterator(
			[]base.Column{{Name: "id", Value: "w1"}, {Name: "payload", Value: "p1"}},
			[]base.Column{{Name: "id", Value: "w2"}, {Name: "payload", Value: "p2"}},
		), nil)
	suite.conn.EXPECT().
		GetAllIter(gomock.Any(), gomock.Any(), "event_mobile", nil, gomock.Any()).
		Return(suite.iterator(
			[]base.Column{{Name: "id", Value: "m1"}, {Name: "payload", Value: "p3"}},
		), nil)

	events, err := suite.client.SelectAll(suite.ctx, &Event{})
	suite.NoError(err)
	suite.Equal([]base.Object{
		&Event{ID: EventKey{Source: "web", ID: "w1"}, Payload: "p1"},
		&Event{ID: EventKey{Source: "web", ID: "w2"}, Payload: "p2"},
		&Event{ID: EventKey{Source: "mobile", ID: "m1"}, Payload: "p3"},
	}, events)
	suite.Equal(int64(2), suite.counter("orm.table.select", "success"))
}

func (suite *ORMTestSuite) TestSelectAllError() {
	iterErr := errors.New("read failure")
	iter := ormmocks.NewMockIterator(suite.ctrl)
	iter.EXPECT().Next().Return(nil, iterErr)
	iter.EXPECT().Close()

	suite.conn.EXPECT().
		GetAllIter(gomock.Any(), gomock.Any(), "thing_a", nil, gomock.Any()).
		Return(iter, nil)
	// thing_b may be skipped once the first table failed
	empty := ormmocks.NewMockIterator(suite.ctrl)
	empty.EXPECT().Next().Return(nil, nil).AnyTimes()
	empty.EXPECT().Close().AnyTimes()
	suite.conn.EXPECT().
		GetAllIter(gomock.Any(), gomock.Any(), "thing_b", nil, gomock.Any()).
		Return(empty, nil).
		MaxTimes(1)

	_, err := suite.client.SelectAll(suite.ctx, &Thing{})
	suite.Equal(iterErr, err)
}

func (suite *ORMTestSuite) TestSelectTable() {
	suite.conn.EXPECT().
		GetAll(suite.ctx, gomock.Any(), "thing_b", nil, gomock.Any()).
		Return([]map[string]interface{}{
			{"discriminator": "B", "key": "k1", "value": "v1"},
		}, nil)

	things, err := suite.client.SelectTable(suite.ctx, &Thing{}, "B")
	suite.NoError(err)
	suite.Equal([]base.Object{thing("B", "k1", "v1")}, things)

	_, err = suite.client.SelectTable(suite.ctx, &Thing{}, "C")
	suite.True(mapping.IsUnknownDiscriminator(err))
}

// TestCount tests that counts of every table are summed
func (suite *ORMTestSuite) TestCount() {
	suite.conn.EXPECT().
		Count(gomock.Any(), gomock.Any(), "thing_a", nil, gomock.Any()).
		Return(int64(3), nil)
	suite.conn.EXPECT().
		Count(gomock.Any(), gomock.Any(), "thing_b", nil, gomock.Any()).
		Return(int64(4), nil)

	n, err := suite.client.Count(suite.ctx, &Thing{})
	suite.NoError(err)
	suite.Equal(int64(7), n)

	suite.conn.EXPECT().
		Count(gomock.Any(), gomock.Any(), "users", nil, gomock.Any()).
		Return(int64(0), nil)
	n, err = suite.client.Count(suite.ctx, &User{})
	suite.NoError(err)
	suite.Zero(n)
}

// TestTruncate tests that every table is truncated once, even after a
// failure
func (suite *ORMTestSuite) TestTruncate() {
	truncErr := errors.New("truncate timed out")
	gomock.InOrder(
		suite.conn.EXPECT().
			Truncate(suite.ctx, gomock.Any(), "thing_a").
			Return(truncErr),
		suite.conn.EXPECT().
			Truncate(suite.ctx, gomock.Any(), "thing_b").
			Return(nil),
	)

	err := suite.client.Truncate(suite.ctx, &Thing{})
	suite.Error(err)
	merr, ok := err.(*multierror.Error)
	suite.True(ok)
	suite.Equal([]error{truncErr}, merr.Errors)
	suite.Equal(int64(1), suite.counter("orm.table.truncate", "fail"))
	suite.Equal(int64(1), suite.counter("orm.table.truncate", "success"))

	suite.conn.EXPECT().
		Truncate(suite.ctx, gomock.Any(), "users").
		Return(nil)
	suite.NoError(suite.client.Truncate(suite.ctx, &User{}))
}

func (suite *ORMTestSuite) TestTableName() {
	_, err := suite.client.TableName(&Thing{})
	suite.True(mapping.IsUnsupportedOperation(err))

	table, err := suite.client.TableName(&User{})
	suite.NoError(err)
	suite.Equal("users", table.Name())
}

// TestSelectBySimpleIDs tests that ids are looked up with one IN query per
// table
func (suite *ORMTestSuite) TestSelectBySimpleIDs() {
	gomock.InOrder(
		suite.conn.EXPECT().
			GetIn(suite.ctx, gomock.Any(), "thing_a",
				[]base.Column{{Name: "discriminator", Value: "A"}},
				"key",
				[]interface{}{"a1", "a2"},
				gomock.Any()).
			Return([]map[string]interface{}{
				{"discriminator": "A", "key": "a1", "value": "x"},
			}, nil),
		suite.conn.EXPECT().
			GetIn(suite.ctx, gomock.Any(), "thing_b",
				[]base.Column{{Name: "discriminator", Value: "B"}},
				"key",
				[]interface{}{"b1"},
				gomock.Any()).
			Return([]map[string]interface{}{
				{"discriminator": "B", "key": "b1", "value": "y"},
			}, nil),
	)

	things, err := suite.client.SelectBySimpleIDs(suite.ctx, &Thing{}, []interface{}{
		ThingKey{Discriminator: "A", Key: "a1"},
		ThingKey{Discriminator: "B", Key: "b1"},
		ThingKey{Discriminator: "A", Key: "a2"},
	})
	suite.NoError(err)
	suite.Equal([]base.Object{
		thing("A", "a1", "x"),
		thing("B", "b1", "y"),
	}, things)

	suite.conn.EXPECT().
		GetIn(suite.ctx, gomock.Any(), "users", nil, "id", []interface{}{"u1", "u2"}, gomock.Any()).
		Return(nil, nil)
	users, err := suite.client.SelectBySimpleIDs(suite.ctx, &User{}, []interface{}{"u1", "u2"})
	suite.NoError(err)
	suite.Empty(users)

	things, err = suite.client.SelectBySimpleIDs(suite.ctx, &Thing{}, nil)
	suite.NoError(err)
	suite.Empty(things)
}

func (suite *ORMTestSuite) TestSelectBySimpleIDsComposite() {
	_, err := suite.client.SelectBySimpleIDs(suite.ctx, &Pair{},
		[]interface{}{PairKey{Left: "l", Right: "r"}})
	suite.True(mapping.IsUnsupportedOperation(err))
}

func (suite *ORMTestSuite) TestSelectForDiscriminator() {
	suite.conn.EXPECT().
		Query(suite.ctx, "event_mobile",
			"SELECT * FROM event_mobile WHERE id = ?", gomock.Any(), "e1").
		Return([]map[string]interface{}{{"id": "e1", "payload": "p"}}, nil)

	events, err := suite.client.SelectForDiscriminator(
		suite.ctx, &Event{},
		"SELECT * FROM "+orm.TablePlaceholder+" WHERE id = ?",
		"mobile", []interface{}{"e1"})
	suite.NoError(err)
	suite.Equal([]base.Object{
		&Event{ID: EventKey{Source: "mobile", ID: "e1"}, Payload: "p"},
	}, events)

	_, err = suite.client.SelectForDiscriminator(
		suite.ctx, &Event{}, "SELECT * FROM @table", nil, nil)
	suite.True(mapping.IsInvalidDiscriminator(err))

	_, err = suite.client.SelectForDiscriminator(
		suite.ctx, &Event{}, "SELECT * FROM @table", "tv", nil)
	suite.True(mapping.IsUnknownDiscriminator(err))
}

// TestReadOptions tests that read options reach the connector on every read
// path
func (suite *ORMTestSuite) TestReadOptions() {
	opts := []orm.Option{orm.WithConsistency("ONE"), orm.WithPageSize(100)}
	want := &orm.Options{Consistency: "ONE", PageSize: 100}

	suite.conn.EXPECT().
		Get(suite.ctx, gomock.Any(), "thing_a", gomock.Any(), want).
		Return(map[string]interface{}{"discriminator": "A", "key": "k1"}, nil)
	suite.NoError(suite.client.Get(suite.ctx, thing("A", "k1", ""), opts...))

	suite.conn.EXPECT().
		Get(suite.ctx, gomock.Any(), "event_web", gomock.Any(), want).
		Return(map[string]interface{}{"id": "e1"}, nil)
	suite.NoError(suite.client.GetByID(
		suite.ctx, &Event{}, EventKey{Source: "web", ID: "e1"}, opts...))

	suite.conn.EXPECT().
		Count(suite.ctx, gomock.Any(), "thing_b", gomock.Any(), want).
		Return(int64(1), nil)
	_, err := suite.client.Exists(
		suite.ctx, &Thing{}, ThingKey{Discriminator: "B", Key: "k1"}, opts...)
	suite.NoError(err)

	suite.conn.EXPECT().
		Count(gomock.Any(), gomock.Any(), "users", nil, want).
		Return(int64(2), nil)
	_, err = suite.client.Count(suite.ctx, &User{}, opts...)
	suite.NoError(err)

	suite.conn.EXPECT().
		GetAllIter(gomock.Any(), gomock.Any(), "users", nil, want).
		Return(suite.iterator(), nil)
	_, err = suite.client.SelectAll(suite.ctx, &User{}, opts...)
	suite.NoError(err)

	suite.conn.EXPECT().
		GetAll(suite.ctx, gomock.Any(), "thing_a", nil, want).
		Return(nil, nil)
	_, err = suite.client.SelectTable(suite.ctx, &Thing{}, "A", opts...)
	suite.NoError(err)

	suite.conn.EXPECT().
		GetIn(suite.ctx, gomock.Any(), "users", nil, "id", []interface{}{"u1"}, want).
		Return(nil, nil)
	_, err = suite.client.SelectBySimpleIDs(
		suite.ctx, &User{}, []interface{}{"u1"}, opts...)
	suite.NoError(err)

	suite.conn.EXPECT().
		Query(suite.ctx, "event_web", "SELECT * FROM event_web", want).
		Return(nil, nil)
	_, err = suite.client.SelectForDiscriminator(
		suite.ctx, &Event{}, "SELECT * FROM @table", "web", nil, opts...)
	suite.NoError(err)
}
