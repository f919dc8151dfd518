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

package common

const (
	// AppLogField is used to log the name of the binary
	AppLogField = "app"
	// DBStmtLogField is used to log a CQL statement
	DBStmtLogField = "db_stmt"
	// DBArgsLogField is used to log the arguments of a CQL statement
	DBArgsLogField = "db_args"
	// DBTableLogField is used to log the physical table of a statement
	DBTableLogField = "db_table"
	// EntityLogField is used to log the logical entity of an operation
	EntityLogField = "entity"
	// OperationLogField is used to log the storage operation
	OperationLogField = "operation"
)
