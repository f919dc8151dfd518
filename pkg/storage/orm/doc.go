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

/*
Package orm implements the object mapping layer on top of Cassandra. There
are three major components of this layer:

  * Entity - is the Go representation of a row. An entity type is registered
             with a mapping.EntityConfig that names its table, or a table
             name template when the entity is spread over several tables
             that share one schema. The discriminator field in the entity's
             identity then selects the physical table of every row.

  * Client - is the interface exposed by ORM to the application layer. It
             resolves the table of every entity it is handed, groups batch
             writes per table and visits every table of an entity for whole
             entity operations like SelectAll, Count and Truncate.

  * Connector - is the interface mapping directly to the statements issued
             against the database, with the physical table passed explicitly.
             The cassandra connector implements it on top of gocql.
*/
