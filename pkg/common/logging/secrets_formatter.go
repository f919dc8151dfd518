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

package logging

import (
	"strings"

	"github.com/uber/cqlorm/pkg/common"

	log "github.com/sirupsen/logrus"
)

const redactedStr = "REDACTED"

// passwordLogField is redacted wherever it appears
const passwordLogField = "password"

// SecretsFormatter scrubs sensitive information from logs before handing
// them to Formatter. Bound arguments of statements touching one of Tables
// are redacted.
type SecretsFormatter struct {
	Formatter log.Formatter
	// Tables holds lower case table names whose values must not be logged
	Tables []string
}

func (f *SecretsFormatter) sensitive(s string) bool {
	s = strings.ToLower(s)
	for _, t := range f.Tables {
		if t != "" && strings.Contains(s, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// Format is called by logrus and returns the formatted string.
// It looks for secrets data in each entry and redacts it.
func (f *SecretsFormatter) Format(entry *log.Entry) ([]byte, error) {
	redactArgs := false
	for k, v := range entry.Data {
		switch k {
		case passwordLogField:
			entry.Data[k] = redactedStr
		case common.DBStmtLogField, common.DBTableLogField:
			if s, ok := v.(string); ok && f.sensitive(s) {
				redactArgs = true
			}
		}
	}
	if redactArgs {
		if _, ok := entry.Data[common.DBArgsLogField]; ok {
			entry.Data[common.DBArgsLogField] = redactedStr
		}
	}
	return f.Formatter.Format(entry)
}
