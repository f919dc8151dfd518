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

package mapping

import (
	"github.com/pkg/errors"
)

var (
	// ErrParse is returned when a table name does not match the name
	// template of an entity or a discriminator cannot be read back from its
	// string form.
	ErrParse = errors.New("unable to parse discriminator")

	// ErrUnknownDiscriminator is returned when a discriminator resolves to a
	// table outside of the entity's table set.
	ErrUnknownDiscriminator = errors.New("unknown discriminator")

	// ErrUnsupportedOperation is returned for operations that are not
	// defined for the entity, e.g. asking a multi-table entity for its single
	// table name.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrInvalidMapping is returned when an entity cannot be registered.
	ErrInvalidMapping = errors.New("invalid entity mapping")

	// ErrInvalidDiscriminator is returned for nil or wrongly typed
	// discriminator values.
	ErrInvalidDiscriminator = errors.New("invalid discriminator value")
)

// IsParseError returns true if the cause of err is ErrParse.
func IsParseError(err error) bool {
	return errors.Cause(err) == ErrParse
}

// IsUnknownDiscriminator returns true if the cause of err is
// ErrUnknownDiscriminator.
func IsUnknownDiscriminator(err error) bool {
	return errors.Cause(err) == ErrUnknownDiscriminator
}

// IsUnsupportedOperation returns true if the cause of err is
// ErrUnsupportedOperation.
func IsUnsupportedOperation(err error) bool {
	return errors.Cause(err) == ErrUnsupportedOperation
}

// IsInvalidMapping returns true if the cause of err is ErrInvalidMapping.
func IsInvalidMapping(err error) bool {
	return errors.Cause(err) == ErrInvalidMapping
}

// IsInvalidDiscriminator returns true if the cause of err is
// ErrInvalidDiscriminator.
func IsInvalidDiscriminator(err error) bool {
	return errors.Cause(err) == ErrInvalidDiscriminator
}
