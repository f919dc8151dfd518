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
	"net/http"
	"os"
	"time"

	"github.com/uber/cqlorm/pkg/common"
	"github.com/uber/cqlorm/pkg/common/config"
	"github.com/uber/cqlorm/pkg/common/logging"
	"github.com/uber/cqlorm/pkg/common/metrics"
	"github.com/uber/cqlorm/pkg/storage/connectors/cassandra"

	log "github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

const _metricFlushInterval = time.Second

var (
	version string
	app     = kingpin.New("tablectl", "Tool to inspect the tables backing multi-table entities")

	debug = app.Flag(
		"debug", "enable debug logging").
		Short('d').
		Default("false").
		Envar("ENABLE_DEBUG_LOGGING").
		Bool()

	configFiles = app.Flag(
		"config",
		"YAML config files (can be provided multiple times to merge configs)").
		Short('c').
		Required().
		ExistingFiles()

	cassandraHosts = app.Flag(
		"cassandra-hosts", "Cassandra hosts").
		Envar("CASSANDRA_HOSTS").
		Strings()

	cassandraStore = app.Flag(
		"cassandra-store", "Cassandra store name").
		Default("").
		Envar("CASSANDRA_STORE").
		String()

	cassandraPort = app.Flag(
		"cassandra-port", "Cassandra port to connect").
		Default("0").
		Envar("CASSANDRA_PORT").
		Int()

	listenAddress = app.Flag(
		"listen", "address serving /metrics, /health and /logging-level while the command runs").
		Default("").
		Envar("TABLECTL_LISTEN").
		String()

	tablesCmd    = app.Command("tables", "Print the tables of a table family")
	tablesFamily = tablesCmd.Arg("family", "table family name").Required().String()

	parseCmd    = app.Command("parse", "Print the discriminator encoded in a table name")
	parseFamily = parseCmd.Arg("family", "table family name").Required().String()
	parseTbl    = parseCmd.Arg("table", "table name").Required().String()

	resolveCmd    = app.Command("resolve", "Print the table storing a discriminator value")
	resolveFamily = resolveCmd.Arg("family", "table family name").Required().String()
	resolveValue  = resolveCmd.Arg("discriminator", "discriminator value").Required().String()

	countCmd    = app.Command("count", "Count the rows of every table of a family")
	countFamily = countCmd.Arg("family", "table family name").Required().String()

	truncateCmd    = app.Command("truncate", "Truncate every table of a family")
	truncateFamily = truncateCmd.Arg("family", "table family name").Required().String()
)

func main() {
	app.Version(version)
	app.HelpFlag.Short('h')
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	initialLevel := log.InfoLevel
	if *debug {
		initialLevel = log.DebugLevel
	}
	levels := logging.NewLevelHandler(initialLevel)

	// Logs go to stderr, command output to stdout so it can be parsed.
	log.SetOutput(os.Stderr)
	log.SetFormatter(
		&logging.LogFieldFormatter{
			Formatter: &logging.SecretsFormatter{Formatter: &log.JSONFormatter{}},
			Fields: log.Fields{
				common.AppLogField: app.Name,
			},
		},
	)
	log.WithField("files", *configFiles).Debug("Loading tablectl config")

	var cfg Config
	if err := config.Parse(&cfg, *configFiles...); err != nil {
		log.WithError(err).Fatal("Cannot parse yaml config")
	}

	log.SetFormatter(
		&logging.LogFieldFormatter{
			Formatter: &logging.SecretsFormatter{
				Formatter: &log.JSONFormatter{},
				Tables:    cfg.Storage.SensitiveTables,
			},
			Fields: log.Fields{
				common.AppLogField: app.Name,
			},
		},
	)

	cassandraConfig := cfg.Storage.Cassandra
	if *cassandraHosts != nil && len(*cassandraHosts) > 0 {
		cassandraConfig.CassandraConn.ContactPoints = *cassandraHosts
	}

	if *cassandraStore != "" {
		cassandraConfig.StoreName = *cassandraStore
	}

	if *cassandraPort != 0 {
		cassandraConfig.CassandraConn.Port = *cassandraPort
	}

	var family string
	switch cmd {
	case tablesCmd.FullCommand():
		family = *tablesFamily
	case parseCmd.FullCommand():
		family = *parseFamily
	case resolveCmd.FullCommand():
		family = *resolveFamily
	case countCmd.FullCommand():
		family = *countFamily
	case truncateCmd.FullCommand():
		family = *truncateFamily
	}

	f, err := cfg.Storage.Family(family)
	if err != nil {
		log.WithError(err).Fatal("Unknown table family")
	}
	d, err := f.Discriminator()
	if err != nil {
		log.WithError(err).WithField("family", family).
			Fatal("Invalid table family")
	}

	switch cmd {
	case tablesCmd.FullCommand():
		printTables(os.Stdout, d)
		return
	case parseCmd.FullCommand():
		if err := parseTable(os.Stdout, d, *parseTbl); err != nil {
			log.WithError(err).Fatal("Cannot parse table name")
		}
		return
	case resolveCmd.FullCommand():
		if err := resolveTable(os.Stdout, d, *resolveValue); err != nil {
			log.WithError(err).Fatal("Cannot resolve table")
		}
		return
	}

	rootScope, scopeCloser, mux, err := metrics.InitMetricScope(
		&cfg.Metrics,
		app.Name,
		_metricFlushInterval,
		levels,
	)
	if err != nil {
		log.WithError(err).Fatal("Cannot set up metrics")
	}
	defer scopeCloser.Close()

	if *listenAddress != "" {
		go func() {
			if err := http.ListenAndServe(*listenAddress, mux); err != nil {
				log.WithError(err).Error("Debug listener stopped")
			}
		}()
	}

	conn, err := cassandra.NewCassandraConnector(cassandraConfig, rootScope)
	if err != nil {
		log.WithError(err).Fatal("Cannot connect to Cassandra")
	}

	ctx := context.Background()
	switch cmd {
	case countCmd.FullCommand():
		if _, err := countRows(
			ctx, os.Stdout, conn, family, d, cfg.Storage.ORM.Concurrency); err != nil {
			log.WithError(err).Fatal("Cannot count rows")
		}
	case truncateCmd.FullCommand():
		if err := truncateTables(ctx, os.Stdout, conn, family, d); err != nil {
			log.WithError(err).Fatal("Cannot truncate tables")
		}
	}
}
