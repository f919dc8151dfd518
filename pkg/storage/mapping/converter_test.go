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
	"testing"

	"github.com/stretchr/testify/suite"
)

type ConverterTestSuite struct {
	suite.Suite
}

func TestConverterTestSuite(t *testing.T) {
	suite.Run(t, new(ConverterTestSuite))
}

type label string

func (suite *ConverterTestSuite) TestStringConverter() {
	s, err := StringConverter.Convert("A")
	suite.NoError(err)
	suite.Equal("A", s)

	s, err = StringConverter.Convert(label("named"))
	suite.NoError(err)
	suite.Equal("named", s)

	_, err = StringConverter.Convert(nil)
	suite.True(IsInvalidDiscriminator(err))

	_, err = StringConverter.Convert(1)
	suite.True(IsInvalidDiscriminator(err))

	v, err := StringConverter.FromString("B")
	suite.NoError(err)
	suite.Equal("B", v)

	_, err = StringConverter.AllValues()
	suite.True(IsUnsupportedOperation(err))
}

func (suite *ConverterTestSuite) TestIntConverter() {
	s, err := IntConverter.Convert(42)
	suite.NoError(err)
	suite.Equal("42", s)

	s, err = IntConverter.Convert(uint16(7))
	suite.NoError(err)
	suite.Equal("7", s)

	_, err = IntConverter.Convert("42")
	suite.True(IsInvalidDiscriminator(err))

	v, err := IntConverter.FromString("13")
	suite.NoError(err)
	suite.Equal(13, v)

	_, err = IntConverter.FromString("x13")
	suite.True(IsParseError(err))

	_, err = IntConverter.AllValues()
	suite.True(IsUnsupportedOperation(err))
}

func (suite *ConverterTestSuite) TestEnumConverter() {
	c, err := NewEnumConverter(D1, D2, D3)
	suite.NoError(err)

	s, err := c.Convert(D2)
	suite.NoError(err)
	suite.Equal("D2", s)

	_, err = c.Convert("D2")
	suite.True(IsInvalidDiscriminator(err))

	_, err = c.Convert(nil)
	suite.True(IsInvalidDiscriminator(err))

	v, err := c.FromString("D3")
	suite.NoError(err)
	suite.Equal(D3, v)

	_, err = c.FromString("d3")
	suite.True(IsParseError(err))

	all, err := c.AllValues()
	suite.NoError(err)
	suite.Equal([]interface{}{D1, D2, D3}, all)
}

func (suite *ConverterTestSuite) TestEnumConverterInvalid() {
	_, err := NewEnumConverter()
	suite.True(IsInvalidMapping(err))

	_, err = NewEnumConverter(D1, D1)
	suite.True(IsInvalidMapping(err))

	_, err = NewEnumConverter(D1, Kind(1))
	suite.True(IsInvalidMapping(err))

	suite.Panics(func() { MustEnumConverter() })
}
