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

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/uber/cqlorm/pkg/common"
	"github.com/uber/cqlorm/pkg/common/concurrency"
	"github.com/uber/cqlorm/pkg/storage/mapping"
	"github.com/uber/cqlorm/pkg/storage/objects/base"
	"github.com/uber/cqlorm/pkg/storage/orm"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
)

// printTables writes the physical tables of d, one per line.
func printTables(w io.Writer, d mapping.EntityDiscriminator) {
	for _, t := range d.TableNames() {
		fmt.Fprintln(w, t.CQL())
	}
}

// parseTable writes the discriminator encoded in table name.
func parseTable(w io.Writer, d mapping.EntityDiscriminator, name string) error {
	v, err := d.ParseTableName(name)
	if err != nil {
		return err
	}
	if v == nil {
		fmt.Fprintln(w, "<single table>")
		return nil
	}
	fmt.Fprintln(w, v)
	return nil
}

// resolveTable writes the table storing discriminator value.
func resolveTable(w io.Writer, d mapping.EntityDiscriminator, value string) error {
	t, err := d.TableNameForDiscriminator(value)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, t.CQL())
	return nil
}

// countRows counts every table of the family with up to workers tables
// in flight, and writes one line per table followed by the total.
func countRows(
	ctx context.Context,
	w io.Writer,
	conn orm.Connector,
	family string,
	d mapping.EntityDiscriminator,
	workers int,
) (int64, error) {
	def := &base.Definition{Name: family}
	tables := d.TableNames()
	inputs := make([]interface{}, len(tables))
	for i, t := range tables {
		inputs[i] = t
	}

	outputs, err := concurrency.Map(
		ctx,
		concurrency.MapperFunc(
			func(ctx context.Context, input interface{}) (interface{}, error) {
				return conn.Count(ctx, def, input.(mapping.TableID).CQL(), nil, nil)
			}),
		inputs,
		workers,
	)
	if err != nil {
		return 0, err
	}

	var total int64
	for i, o := range outputs {
		n := o.(int64)
		total += n
		fmt.Fprintf(w, "%s\t%d\n", tables[i].CQL(), n)
	}
	fmt.Fprintf(w, "total\t%d\n", total)
	return total, nil
}

// truncateTables truncates every table of the family. All tables are
// attempted and the failures returned together.
func truncateTables(
	ctx context.Context,
	w io.Writer,
	conn orm.Connector,
	family string,
	d mapping.EntityDiscriminator,
) error {
	def := &base.Definition{Name: family}

	var result error
	for _, t := range d.TableNames() {
		if err := conn.Truncate(ctx, def, t.CQL()); err != nil {
			log.WithError(err).
				WithField(common.DBTableLogField, t.CQL()).
				Error("failed to truncate table")
			result = multierror.Append(result, err)
			continue
		}
		fmt.Fprintf(w, "truncated %s\n", t.CQL())
	}
	return result
}
