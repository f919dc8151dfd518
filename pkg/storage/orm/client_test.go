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
	"time"

	"github.com/golang/mock/gomock"
	"github.com/uber-go/tally/v4"
	"go.uber.org/yarpc/yarpcerrors"

	"github.com/uber/cqlorm/pkg/storage/mapping"
	"github.com/uber/cqlorm/pkg/storage/objects/base"
	"github.com/uber/cqlorm/pkg/storage/orm"
)

// TestNewClient tests creating a client with valid and invalid entities
func (suite *ORMTestSuite) TestNewClient() {
	_, err := orm.NewClient(suite.conn, tally.NoopScope, orm.ClientConfig{})
	suite.NoError(err)

	_, err = orm.NewClient(suite.conn, tally.NoopScope, orm.ClientConfig{},
		mapping.EntityConfig{Object: &User{}, Table: "users_@discriminator"})
	suite.Error(err)
	suite.True(mapping.IsInvalidMapping(err))
}

// TestInsert tests that inserts go to the table selected by the
// discriminator
func (suite *ORMTestSuite) TestInsert() {
	suite.conn.EXPECT().
		Create(suite.ctx, suite.entityDef(&Thing{}), "thing_a", gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ *base.Definition, _ string,
			row []base.Column, opts *orm.Options) {
			suite.Equal([]base.Column{
				{Name: "discriminator", Value: "A"},
				{Name: "key", Value: "k1"},
				{Name: "value", Value: "v1"},
			}, row)
			suite.Equal(time.Hour, opts.TTL)
			suite.Equal("QUORUM", opts.Consistency)
		}).Return(nil)

	err := suite.client.Insert(suite.ctx, thing("A", "k1", "v1"),
		orm.WithTTL(time.Hour), orm.WithConsistency("QUORUM"))
	suite.NoError(err)

	suite.conn.EXPECT().
		Create(suite.ctx, gomock.Any(), "users", gomock.Any(), gomock.Any()).
		Return(nil)
	suite.NoError(suite.client.Insert(suite.ctx, &User{ID: "u1", Name: "n"}))

	suite.Equal(int64(2), suite.counter("orm.entity.insert", "success"))
}

// TestInsertInvalid tests that nothing is written for unknown
// discriminators and unregistered types
func (suite *ORMTestSuite) TestInsertInvalid() {
	err := suite.client.Insert(suite.ctx, thing("C", "k1", "v1"))
	suite.True(mapping.IsUnknownDiscriminator(err))

	err = suite.client.Insert(suite.ctx, &struct{ base.Object }{})
	suite.True(yarpcerrors.IsNotFound(err))

	suite.Equal(int64(2), suite.counter("orm.entity.insert", "fail"))
}

func (suite *ORMTestSuite) TestInsertIfNotExists() {
	suite.conn.EXPECT().
		CreateIfNotExists(suite.ctx, gomock.Any(), "event_web", gomock.Any(), gomock.Any()).
		Return(true, nil, nil)

	event := &Event{ID: EventKey{Source: "web", ID: "e1"}, Payload: "p"}
	result, err := suite.client.InsertIfNotExists(suite.ctx, event)
	suite.NoError(err)
	suite.True(result.Applied)
	suite.Nil(result.Current)

	suite.conn.EXPECT().
		CreateIfNotExists(suite.ctx, gomock.Any(), "event_web", gomock.Any(), gomock.Any()).
		Return(false, map[string]interface{}{"id": "e1", "payload": "old"}, nil)

	result, err = suite.client.InsertIfNotExists(suite.ctx, event)
	suite.NoError(err)
	suite.False(result.Applied)
	// the source is not persisted and comes back from the table name
	suite.Equal(&Event{ID: EventKey{Source: "web", ID: "e1"}, Payload: "old"},
		result.Current)
	suite.Equal(int64(1), suite.counter("orm.entity.lwt", "not_applied"))
}

func (suite *ORMTestSuite) TestUpdate() {
	suite.conn.EXPECT().
		Update(suite.ctx, gomock.Any(), "thing_b",
			[]base.Column{{Name: "value", Value: "v2"}},
			[]base.Column{
				{Name: "discriminator", Value: "B"},
				{Name: "key", Value: "k1"},
			},
			gomock.Any()).
		Return(nil)
	suite.NoError(suite.client.Update(suite.ctx, thing("B", "k1", "v2")))
}

func (suite *ORMTestSuite) TestUpdateIf() {
	suite.conn.EXPECT().
		UpdateIf(suite.ctx, gomock.Any(), "users",
			[]base.Column{{Name: "name", Value: "new"}},
			[]base.Column{{Name: "id", Value: "u1"}},
			[]base.Column{{Name: "name", Value: "old"}},
			gomock.Any()).
		Do(func(_ context.Context, _ *base.Definition, _ string,
			_, _, _ []base.Column, opts *orm.Options) {
			suite.Equal("LOCAL_SERIAL", opts.SerialConsistency)
		}).
		Return(false, map[string]interface{}{"id": "u1", "name": "other"}, nil)

	result, err := suite.client.UpdateIf(
		suite.ctx,
		&User{ID: "u1", Name: "new"},
		map[string]interface{}{"Name": "old"},
		orm.WithSerialConsistency("LOCAL_SERIAL"))
	suite.NoError(err)
	suite.False(result.Applied)
	suite.Equal(&User{ID: "u1", Name: "other"}, result.Current)

	_, err = suite.client.UpdateIf(
		suite.ctx,
		&User{ID: "u1"},
		map[string]interface{}{"Nickname": "old"})
	suite.True(mapping.IsInvalidMapping(err))
}

func (suite *ORMTestSuite) TestDelete() {
	suite.conn.EXPECT().
		Delete(suite.ctx, gomock.Any(), "event_mobile",
			[]base.Column{{Name: "id", Value: "e1"}}, gomock.Any()).
		Return(nil)
	suite.NoError(suite.client.Delete(suite.ctx,
		&Event{ID: EventKey{Source: "mobile", ID: "e1"}}))

	suite.conn.EXPECT().
		Delete(suite.ctx, gomock.Any(), "event_web",
			[]base.Column{{Name: "id", Value: "e2"}}, gomock.Any()).
		Return(nil)
	suite.NoError(suite.client.DeleteByID(suite.ctx, &Event{},
		EventKey{Source: "web", ID: "e2"}))

	suite.Equal(int64(2), suite.counter("orm.entity.delete", "success"))
}

func (suite *ORMTestSuite) TestGet() {
	suite.conn.EXPECT().
		Get(suite.ctx, gomock.Any(), "thing_a", []base.Column{
			{Name: "discriminator", Value: "A"},
			{Name: "key", Value: "k1"},
		}, gomock.Any()).
		Return(map[string]interface{}{
			"discriminator": "A",
			"key":           "k1",
			"value":         "stored",
		}, nil)

	e := thing("A", "k1", "")
	suite.NoError(suite.client.Get(suite.ctx, e))
	suite.Equal("stored", e.Value)
	suite.Equal(int64(1), suite.counter("orm.entity.get", "success"))
}

func (suite *ORMTestSuite) TestGetByID() {
	suite.conn.EXPECT().
		Get(suite.ctx, gomock.Any(), "event_mobile", []base.Column{
			{Name: "id", Value: "e1"},
		}, gomock.Any()).
		Return(map[string]interface{}{"id": "e1", "payload": "p"}, nil)

	e := &Event{}
	suite.NoError(suite.client.GetByID(suite.ctx, e, EventKey{Source: "mobile", ID: "e1"}))
	suite.Equal(&Event{ID: EventKey{Source: "mobile", ID: "e1"}, Payload: "p"}, e)

	suite.conn.EXPECT().
		Get(suite.ctx, gomock.Any(), "users", gomock.Any(), gomock.Any()).
		Return(nil, yarpcerrors.NotFoundErrorf("not found"))

	err := suite.client.GetByID(suite.ctx, &User{}, "missing")
	suite.True(yarpcerrors.IsNotFound(err))
	suite.Equal(int64(1), suite.counter("orm.entity.get", "not_found"))

	err = suite.client.GetByID(suite.ctx, &Event{}, EventKey{Source: "tv", ID: "e1"})
	suite.True(mapping.IsUnknownDiscriminator(err))
}

func (suite *ORMTestSuite) TestExists() {
	gomock.InOrder(
		suite.conn.EXPECT().
			Count(suite.ctx, gomock.Any(), "thing_b", []base.Column{
				{Name: "discriminator", Value: "B"},
				{Name: "key", Value: "k1"},
			}, gomock.Any()).
			Return(int64(1), nil),
		suite.conn.EXPECT().
			Count(suite.ctx, gomock.Any(), "thing_a", gomock.Any(), gomock.Any()).
			Return(int64(0), nil),
	)

	ok, err := suite.client.Exists(suite.ctx, &Thing{}, ThingKey{Discriminator: "B", Key: "k1"})
	suite.NoError(err)
	suite.True(ok)

	ok, err = suite.client.Exists(suite.ctx, &Thing{}, ThingKey{Discriminator: "A", Key: "k1"})
	suite.NoError(err)
	suite.False(ok)
}
