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

// Package mapping maps Go entity types to Cassandra tables.
//
// An entity either lives in a single table or, when its EntityConfig carries
// a discriminator, in a family of tables sharing one schema. The table of a
// multi-table entity is derived from a name template such as
// "thing_@discriminator" by substituting the converted discriminator value
// found in the entity's composite identity. Table names can be parsed back
// into discriminator values, and the full table set is known at registration
// time so that whole-entity operations can visit every table.
package mapping
