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
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// MaxIdentifierLength is the longest table name Cassandra accepts.
const MaxIdentifierLength = 48

var unquotedIdentifier = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// TableID is a physical Cassandra table identifier together with its quoting
// policy. Unquoted identifiers are case-insensitive and render lower-case,
// quoted identifiers keep their exact spelling.
type TableID struct {
	name   string
	quoted bool
}

// NewTableID validates name and returns its identifier. Without forceQuote
// the name must be a legal unquoted CQL identifier.
func NewTableID(name string, forceQuote bool) (TableID, error) {
	if name == "" {
		return TableID{}, errors.Wrap(ErrInvalidMapping, "empty table name")
	}
	if len(name) > MaxIdentifierLength {
		return TableID{}, errors.Wrapf(ErrInvalidMapping,
			"table name %q longer than %d characters", name, MaxIdentifierLength)
	}
	if !forceQuote && !unquotedIdentifier.MatchString(name) {
		return TableID{}, errors.Wrapf(ErrInvalidMapping,
			"table name %q is not a valid unquoted identifier", name)
	}
	return TableID{name: name, quoted: forceQuote}, nil
}

// Name returns the identifier as it was declared.
func (t TableID) Name() string {
	return t.name
}

// Quoted returns true if the identifier is always rendered quoted.
func (t TableID) Quoted() bool {
	return t.quoted
}

// CQL renders the identifier for use in a statement.
func (t TableID) CQL() string {
	if t.quoted {
		return `"` + strings.Replace(t.name, `"`, `""`, -1) + `"`
	}
	return strings.ToLower(t.name)
}

// Equal compares two identifiers the way Cassandra resolves them.
func (t TableID) Equal(other TableID) bool {
	return t.key() == other.key()
}

// IsZero returns true for the zero identifier.
func (t TableID) IsZero() bool {
	return t.name == ""
}

func (t TableID) String() string {
	return t.name
}

// key is the name Cassandra stores for the identifier.
func (t TableID) key() string {
	if t.quoted {
		return t.name
	}
	return strings.ToLower(t.name)
}

// unquote strips surrounding double quotes from a rendered identifier.
func unquote(name string) string {
	if len(name) >= 2 && name[0] == '"' && name[len(name)-1] == '"' {
		return strings.Replace(name[1:len(name)-1], `""`, `"`, -1)
	}
	return name
}
