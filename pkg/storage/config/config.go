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
	"strings"

	"github.com/uber/cqlorm/pkg/storage/connectors/cassandra"
	"github.com/uber/cqlorm/pkg/storage/mapping"
	"github.com/uber/cqlorm/pkg/storage/orm"

	"github.com/pkg/errors"
	"go.uber.org/yarpc/yarpcerrors"
)

// Config is the storage configuration
type Config struct {
	// Cassandra is the connector configuration
	Cassandra *cassandra.Config `yaml:"cassandra" validate:"nonzero"`
	// ORM bounds the concurrency of the orm client
	ORM orm.ClientConfig `yaml:"orm"`
	// Tables declares table families by name, for tools that work on tables
	// without the Go entity types
	Tables []TableFamily `yaml:"tables"`
	// SensitiveTables are tables whose bound values are redacted from logs
	SensitiveTables []string `yaml:"sensitive_tables"`
}

// TableFamily is the yaml form of an entity's table set.
type TableFamily struct {
	Name       string   `yaml:"name" validate:"nonzero"`
	Template   string   `yaml:"template" validate:"nonzero"`
	Values     []string `yaml:"values"`
	ForceQuote bool     `yaml:"force_quote"`
}

// Discriminator builds the discriminator of the family. Templates without
// the placeholder name a single table.
func (f TableFamily) Discriminator() (mapping.EntityDiscriminator, error) {
	if !strings.Contains(f.Template, mapping.DiscriminatorPlaceholder) {
		if len(f.Values) > 0 {
			return nil, errors.Wrapf(mapping.ErrInvalidMapping,
				"table %q has discriminator values but no placeholder", f.Name)
		}
		table, err := mapping.NewTableID(f.Template, f.ForceQuote)
		if err != nil {
			return nil, err
		}
		return mapping.NewSingleTableDiscriminator(table), nil
	}
	d, err := mapping.NewMultiTableDiscriminator(mapping.TemplateConfig{
		Template:   f.Template,
		ForceQuote: f.ForceQuote,
		Values:     f.Values,
	}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "table family %q", f.Name)
	}
	return d, nil
}

// Family returns the table family called name.
func (c *Config) Family(name string) (TableFamily, error) {
	for _, f := range c.Tables {
		if f.Name == name {
			return f, nil
		}
	}
	return TableFamily{}, yarpcerrors.NotFoundErrorf(
		"table family %q is not configured", name)
}
