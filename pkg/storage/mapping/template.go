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

// DiscriminatorPlaceholder marks where the discriminator is substituted in a
// table name template.
const DiscriminatorPlaceholder = "@discriminator"

// nameTemplate renders table names from discriminator strings and parses
// them back.
type nameTemplate struct {
	template   string
	prefix     string
	suffix     string
	forceQuote bool
	pattern    *regexp.Regexp
}

func compileTemplate(template string, forceQuote bool) (*nameTemplate, error) {
	if n := strings.Count(template, DiscriminatorPlaceholder); n != 1 {
		return nil, errors.Wrapf(ErrInvalidMapping,
			"table name template %q must contain %s exactly once, found %d",
			template, DiscriminatorPlaceholder, n)
	}
	i := strings.Index(template, DiscriminatorPlaceholder)
	t := &nameTemplate{
		template:   template,
		prefix:     template[:i],
		suffix:     template[i+len(DiscriminatorPlaceholder):],
		forceQuote: forceQuote,
	}

	expr := "^" + regexp.QuoteMeta(t.prefix) + `(\w+?)` +
		regexp.QuoteMeta(t.suffix) + "$"
	if !forceQuote {
		expr = "(?i)" + expr
	}
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidMapping,
			"table name template %q: %v", template, err)
	}
	t.pattern = pattern
	return t, nil
}

// substitute renders the table for a converted discriminator.
func (t *nameTemplate) substitute(discriminator string) (TableID, error) {
	return NewTableID(t.prefix+discriminator+t.suffix, t.forceQuote)
}

// match extracts the discriminator string from a table name. Surrounding
// quotes are ignored.
func (t *nameTemplate) match(name string) (string, bool) {
	m := t.pattern.FindStringSubmatch(unquote(name))
	if m == nil {
		return "", false
	}
	return m[1], true
}

func (t *nameTemplate) String() string {
	return t.template
}
