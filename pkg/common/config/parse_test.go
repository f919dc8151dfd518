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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type testConfig struct {
	Name     string   `yaml:"name" validate:"nonzero"`
	Hosts    []string `yaml:"hosts"`
	PageSize int      `yaml:"page_size" validate:"min=1"`
}

type ParseTestSuite struct {
	suite.Suite
	dir string
}

func TestParseTestSuite(t *testing.T) {
	suite.Run(t, new(ParseTestSuite))
}

func (s *ParseTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *ParseTestSuite) write(name, content string) string {
	path := filepath.Join(s.dir, name)
	require.NoError(s.T(), os.WriteFile(path, []byte(content), 0644))
	return path
}

func (s *ParseTestSuite) TestParseMergesFilesInOrder() {
	base := s.write("base.yaml", "name: things\nhosts: [h1]\npage_size: 10\n")
	override := s.write("override.yaml", "hosts: [h2, h3]\n")

	var cfg testConfig
	s.NoError(Parse(&cfg, base, override))
	s.Equal("things", cfg.Name)
	s.Equal([]string{"h2", "h3"}, cfg.Hosts)
	s.Equal(10, cfg.PageSize)
}

func (s *ParseTestSuite) TestParseNoFiles() {
	var cfg testConfig
	s.Error(Parse(&cfg))
}

func (s *ParseTestSuite) TestParseMissingFile() {
	var cfg testConfig
	s.Error(Parse(&cfg, filepath.Join(s.dir, "missing.yaml")))
}

func (s *ParseTestSuite) TestParseBadYAML() {
	path := s.write("bad.yaml", "name: [unterminated\n")
	var cfg testConfig
	err := Parse(&cfg, path)
	s.Error(err)
	s.Contains(err.Error(), "bad.yaml")
}

func (s *ParseTestSuite) TestParseValidation() {
	path := s.write("invalid.yaml", "hosts: [h1]\n")

	var cfg testConfig
	err := Parse(&cfg, path)
	s.Require().Error(err)

	verr, ok := err.(ValidationError)
	s.Require().True(ok)
	assert.Error(s.T(), verr.ErrForField("Name"))
	assert.Error(s.T(), verr.ErrForField("PageSize"))
	s.Contains(verr.Error(), "validation failed")
}
