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

package cassandra

import (
	"time"

	"github.com/gocql/gocql"
	log "github.com/sirupsen/logrus"
)

const (
	defaultConnectionsPerHost = 3
	defaultTimeout            = 20000 * time.Millisecond
	defaultProtoVersion       = 3
	defaultConsistency        = "LOCAL_QUORUM"
	defaultSocketKeepAlive    = 30 * time.Second
	defaultPageSize           = 1000
	defaultPort               = 9042
	defaultRetryCount         = 3
	defaultMaxBatchSize       = 50

	tokenAwareHostPolicy = "TokenAwareHostPolicy"
)

// Config is the config for the cassandra connector
type Config struct {
	// CassandraConn is the connection config for the cluster
	CassandraConn *CassandraConn `yaml:"connection" validate:"nonzero"`
	// StoreName is the keyspace every table lives in
	StoreName string `yaml:"store_name" validate:"nonzero"`
	// MaxBatchSize is the number of rows above which a batch is logged
	// as oversized. Cassandra rejects batches above
	// batch_size_fail_threshold_in_kb.
	MaxBatchSize int `yaml:"max_batch_size_rows"`
}

// CassandraConn describes the properties to manage a Cassandra connection.
type CassandraConn struct {
	ContactPoints      []string      `yaml:"contactPoints"`
	Port               int           `yaml:"port"`
	Username           string        `yaml:"username"`
	Password           string        `yaml:"password"`
	Consistency        string        `yaml:"consistency"`
	ConnectionsPerHost int           `yaml:"connectionsPerHost"`
	Timeout            time.Duration `yaml:"timeout"`
	SocketKeepalive    time.Duration `yaml:"socketKeepalive"`
	ProtoVersion       int           `yaml:"protoVersion"`
	DataCenter         string        `yaml:"dataCenter"` // data center filter
	PageSize           int           `yaml:"pageSize"`
	RetryCount         int           `yaml:"retryCount"`
	HostPolicy         string        `yaml:"hostPolicy"`
	CQLVersion         string        `yaml:"cqlVersion"` // set only on C* 3.x
}

func (c *Config) maxBatchSize() int {
	if c.MaxBatchSize <= 0 {
		return defaultMaxBatchSize
	}
	return c.MaxBatchSize
}

// CreateStoreSession creates a gocql session on keySpace
func CreateStoreSession(
	storeConfig *CassandraConn, keySpace string) (*gocql.Session, error) {
	cluster := newCluster(storeConfig)
	cluster.Keyspace = keySpace

	cSession, err := cluster.CreateSession()
	if err != nil {
		log.WithError(err).Error("Fail to create C* session")
		return nil, err
	}

	log.WithFields(log.Fields{
		"key_space":      keySpace,
		"cassandra_port": cluster.Port,
	}).Info("C* Session Created.")
	return cSession, nil
}

// newCluster returns a clusterConfig object
func newCluster(config *CassandraConn) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(config.ContactPoints...)

	if len(config.Username) != 0 {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: config.Username,
			Password: config.Password,
		}
	}

	consistency := config.Consistency
	if consistency == "" {
		consistency = defaultConsistency
	}
	if c, err := gocql.ParseConsistencyWrapper(consistency); err == nil {
		cluster.Consistency = c
	} else {
		log.WithError(err).
			WithField("consistency", consistency).
			Warn("invalid consistency, using " + defaultConsistency)
		cluster.Consistency = gocql.LocalQuorum
	}

	cluster.Timeout = config.Timeout
	if cluster.Timeout == 0 {
		cluster.Timeout = defaultTimeout
	}

	cluster.NumConns = config.ConnectionsPerHost
	if cluster.NumConns == 0 {
		cluster.NumConns = defaultConnectionsPerHost
	}

	cluster.ProtoVersion = config.ProtoVersion
	if cluster.ProtoVersion == 0 {
		cluster.ProtoVersion = defaultProtoVersion
	} else if cluster.ProtoVersion != 3 {
		log.Warn("protocol version 2/4 is not compatible between " +
			"2.2.x and 3.y. use 3 instead.")
	}

	cluster.SocketKeepalive = config.SocketKeepalive
	if cluster.SocketKeepalive == 0 {
		cluster.SocketKeepalive = defaultSocketKeepAlive
	}

	cluster.PageSize = config.PageSize
	if cluster.PageSize == 0 {
		cluster.PageSize = defaultPageSize
	}

	cluster.Port = config.Port
	if cluster.Port == 0 {
		cluster.Port = defaultPort
	}

	dc := config.DataCenter
	if dc != "" {
		cluster.HostFilter = gocql.DataCentreHostFilter(dc)
	}

	if config.HostPolicy == tokenAwareHostPolicy {
		if dc != "" {
			cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(
				gocql.DCAwareRoundRobinPolicy(dc))
		} else {
			cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(
				gocql.RoundRobinHostPolicy())
		}
	} else {
		cluster.PoolConfig.HostSelectionPolicy = gocql.RoundRobinHostPolicy()
	}

	if len(config.CQLVersion) > 0 {
		cluster.CQLVersion = config.CQLVersion
	}

	retries := config.RetryCount
	if retries == 0 {
		retries = defaultRetryCount
	}
	cluster.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: retries}

	return cluster
}
