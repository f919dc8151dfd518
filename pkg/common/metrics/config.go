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

package metrics

import (
	"fmt"
	"io"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/uber/cqlorm/pkg/common/logging"

	"github.com/cactus/go-statsd-client/v5/statsd"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"
	tallyprom "github.com/uber-go/tally/v4/prometheus"
	tallystatsd "github.com/uber-go/tally/v4/statsd"
)

// Config is the metrics configuration
type Config struct {
	Prometheus *PrometheusConfig `yaml:"prometheus"`
	Statsd     *StatsdConfig     `yaml:"statsd"`
}

// PrometheusConfig enables the prometheus reporter
type PrometheusConfig struct {
	Enable bool `yaml:"enable"`
}

// StatsdConfig enables the statsd reporter
type StatsdConfig struct {
	Enable   bool   `yaml:"enable"`
	Endpoint string `yaml:"endpoint"`
}

// InitMetricScope initializes a root scope and its closer, with a http server
// mux serving /metrics (prometheus only), /health and the logging level
// overwrite endpoint.
func InitMetricScope(
	cfg *Config,
	rootMetricScope string,
	metricFlushInterval time.Duration,
	levels *logging.LevelHandler,
) (tally.Scope, io.Closer, *nethttp.ServeMux, error) {
	// mux is used to mux together other non-RPC handlers, like metrics
	// exposition endpoints
	mux := nethttp.NewServeMux()
	opts := tally.ScopeOptions{
		Prefix:    rootMetricScope,
		Tags:      map[string]string{},
		Separator: tally.DefaultSeparator,
	}

	switch {
	case cfg.Prometheus != nil && cfg.Prometheus.Enable:
		// tally panics if scope name contains "-", hence force convert to "_"
		opts.Prefix = strings.Replace(rootMetricScope, "-", "_", -1)
		opts.Separator = tallyprom.DefaultSeparator
		promReporter := tallyprom.NewReporter(tallyprom.Options{})
		opts.CachedReporter = promReporter
		log.Info("Setting up prometheus metrics handler at /metrics")
		mux.Handle("/metrics", promReporter.HTTPHandler())
	case cfg.Statsd != nil && cfg.Statsd.Enable:
		log.Infof("Metrics configured with statsd endpoint %s", cfg.Statsd.Endpoint)
		c, err := statsd.NewClientWithConfig(&statsd.ClientConfig{
			Address: cfg.Statsd.Endpoint,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		opts.Reporter = tallystatsd.NewReporter(c, tallystatsd.Options{})
	default:
		log.Warn("No metrics backends configured, using the statsd.NoopClient")
		// A nil *statsd.Client is the v5 replacement for the removed NoopClient.
		var c *statsd.Client
		opts.Reporter = tallystatsd.NewReporter(c, tallystatsd.Options{})
	}

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
		fmt.Fprintln(w, "OK")
	})
	if levels != nil {
		mux.Handle(logging.LevelOverwrite, levels)
	}

	metricScope, scopeCloser := tally.NewRootScope(opts, metricFlushInterval)
	return metricScope, scopeCloser, mux, nil
}
