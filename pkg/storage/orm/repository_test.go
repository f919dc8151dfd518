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
	"github.com/golang/mock/gomock"
	"go.uber.org/yarpc/yarpcerrors"

	"github.com/uber/cqlorm/pkg/storage/objects/base"
	"github.com/uber/cqlorm/pkg/storage/orm"
)

func (suite *ORMTestSuite) newRepository(prototype base.Object) *orm.Repository {
	r, err := orm.NewRepository(suite.client, prototype)
	suite.Require().NoError(err)
	return r
}

func (suite *ORMTestSuite) TestNewRepository() {
	r := suite.newRepository(&Thing{})
	suite.Equal("Thing", r.Entity().Name())

	_, err := orm.NewRepository(suite.client, &struct{ base.Object }{})
	suite.True(yarpcerrors.IsNotFound(err))
}

func (suite *ORMTestSuite) TestRepositoryWrites() {
	r := suite.newRepository(&Thing{})

	suite.conn.EXPECT().
		Create(suite.ctx, gomock.Any(), "thing_a", gomock.Any(), gomock.Any()).
		Return(nil)
	suite.NoError(r.Save(suite.ctx, thing("A", "a1", "v")))

	suite.conn.EXPECT().
		ExecuteBatch(suite.ctx, gomock.Any(), "thing_b", gomock.Len(2), gomock.Any()).
		Return(nil)
	suite.NoError(r.SaveAll(suite.ctx, []base.Object{
		thing("B", "b1", "v"),
		thing("B", "b2", "v"),
	}))

	suite.conn.EXPECT().
		CreateIfNotExists(suite.ctx, gomock.Any(), "thing_a", gomock.Any(), gomock.Any()).
		Return(true, nil, nil)
	result, err := r.SaveIfNotExists(suite.ctx, thing("A", "a1", "v"))
	suite.NoError(err)
	suite.True(result.Applied)

	suite.conn.EXPECT().
		UpdateIf(suite.ctx, gomock.Any(), "thing_a", gomock.Any(), gomock.Any(),
			[]base.Column{{Name: "value", Value: "v"}}, gomock.Any()).
		Return(true, nil, nil)
	result, err = r.UpdateIf(suite.ctx, thing("A", "a1", "w"),
		map[string]interface{}{"Value": "v"})
	suite.NoError(err)
	suite.True(result.Applied)

	// entities of another type are rejected before reaching the client
	suite.Error(r.Save(suite.ctx, &User{ID: "u1"}))
	suite.Error(r.SaveAll(suite.ctx, []base.Object{&User{ID: "u1"}}))
	suite.Error(r.DeleteEntities(suite.ctx, []base.Object{&User{ID: "u1"}}))
}

func (suite *ORMTestSuite) TestRepositoryReads() {
	r := suite.newRepository(&Thing{})

	suite.conn.EXPECT().
		Get(suite.ctx, gomock.Any(), "thing_b", gomock.Any(), gomock.Any()).
		Return(map[string]interface{}{"discriminator": "B", "key": "b1", "value": "v"}, nil)
	obj, err := r.FindOne(suite.ctx, ThingKey{Discriminator: "B", Key: "b1"})
	suite.NoError(err)
	suite.Equal(thing("B", "b1", "v"), obj)

	suite.conn.EXPECT().
		Count(suite.ctx, gomock.Any(), "thing_b", gomock.Any(), gomock.Any()).
		Return(int64(1), nil)
	ok, err := r.Exists(suite.ctx, ThingKey{Discriminator: "B", Key: "b1"})
	suite.NoError(err)
	suite.True(ok)

	suite.conn.EXPECT().Count(gomock.Any(), gomock.Any(), "thing_a", nil, gomock.Any()).Return(int64(1), nil)
	suite.conn.EXPECT().Count(gomock.Any(), gomock.Any(), "thing_b", nil, gomock.Any()).Return(int64(2), nil)
	n, err := r.Count(suite.ctx)
	suite.NoError(err)
	suite.Equal(int64(3), n)

	suite.conn.EXPECT().
		GetIn(suite.ctx, gomock.Any(), "thing_a", gomock.Any(), "key", []interface{}{"a1"}, gomock.Any()).
		Return(nil, nil)
	objs, err := r.FindAllByIDs(suite.ctx, []interface{}{ThingKey{Discriminator: "A", Key: "a1"}})
	suite.NoError(err)
	suite.Empty(objs)

	suite.conn.EXPECT().
		Query(suite.ctx, "thing_a", "SELECT * FROM thing_a", gomock.Any()).
		Return(nil, nil)
	objs, err = r.FindByDiscriminator(suite.ctx, "SELECT * FROM @table", "A", nil)
	suite.NoError(err)
	suite.Empty(objs)

	suite.conn.EXPECT().
		GetAllIter(gomock.Any(), gomock.Any(), "thing_a", nil, gomock.Any()).
		Return(suite.iterator(), nil)
	suite.conn.EXPECT().
		GetAllIter(gomock.Any(), gomock.Any(), "thing_b", nil, gomock.Any()).
		Return(suite.iterator(), nil)
	objs, err = r.FindAll(suite.ctx)
	suite.NoError(err)
	suite.Empty(objs)
}

func (suite *ORMTestSuite) TestRepositoryDeletes() {
	r := suite.newRepository(&Thing{})

	suite.conn.EXPECT().
		Delete(suite.ctx, gomock.Any(), "thing_a", []base.Column{
			{Name: "discriminator", Value: "A"},
			{Name: "key", Value: "a1"},
		}, gomock.Any()).
		Return(nil).
		Times(2)
	suite.NoError(r.Delete(suite.ctx, thing("A", "a1", "v")))
	suite.NoError(r.DeleteByID(suite.ctx, ThingKey{Discriminator: "A", Key: "a1"}))

	suite.conn.EXPECT().
		ExecuteBatch(suite.ctx, gomock.Any(), "thing_b", gomock.Len(1), gomock.Any()).
		Return(nil)
	suite.NoError(r.DeleteEntities(suite.ctx, []base.Object{thing("B", "b1", "v")}))

	suite.conn.EXPECT().Truncate(suite.ctx, gomock.Any(), "thing_a").Return(nil)
	suite.conn.EXPECT().Truncate(suite.ctx, gomock.Any(), "thing_b").Return(nil)
	suite.NoError(r.DeleteAll(suite.ctx))
}
