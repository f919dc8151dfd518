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

package orm

import (
	"time"
)

// Options are per statement settings passed down to the connector.
type Options struct {
	// Consistency overrides the session consistency, e.g. "LOCAL_QUORUM"
	Consistency string
	// SerialConsistency is used by lightweight transactions
	SerialConsistency string
	// TTL of written rows, zero keeps rows forever
	TTL time.Duration
	// Timestamp of writes, zero uses the server time
	Timestamp time.Time
	// PageSize of reads, zero uses the session default
	PageSize int
}

// Option sets a field of Options.
type Option func(*Options)

// WithConsistency sets the consistency level of a statement.
func WithConsistency(c string) Option {
	return func(o *Options) {
		o.Consistency = c
	}
}

// WithSerialConsistency sets the serial consistency of a lightweight
// transaction.
func WithSerialConsistency(c string) Option {
	return func(o *Options) {
		o.SerialConsistency = c
	}
}

// WithTTL expires written rows after ttl.
func WithTTL(ttl time.Duration) Option {
	return func(o *Options) {
		o.TTL = ttl
	}
}

// WithTimestamp sets the write timestamp.
func WithTimestamp(ts time.Time) Option {
	return func(o *Options) {
		o.Timestamp = ts
	}
}

// WithPageSize sets the page size of reads.
func WithPageSize(size int) Option {
	return func(o *Options) {
		o.PageSize = size
	}
}

// NewOptions applies opts to empty Options.
func NewOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
