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
	"fmt"

	"github.com/uber/cqlorm/pkg/storage/objects/base"
)

// Thing persists its discriminator as part of the key.
type Thing struct {
	base.Object
	ID    ThingKey
	Value string `column:"name=value"`
}

type ThingKey struct {
	Discriminator string `column:"name=discriminator"`
	Key           string `column:"name=key"`
}

// Event only uses its discriminator to select the table.
type Event struct {
	base.Object
	ID      EventKey
	Payload string `column:"name=payload"`
}

type EventKey struct {
	Source string
	ID     string `column:"name=id"`
}

type Tier int

const (
	D1 Tier = iota
	D2
	D3
)

func (t Tier) String() string {
	switch t {
	case D1:
		return "D1"
	case D2:
		return "D2"
	case D3:
		return "D3"
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

type Tiered struct {
	base.Object
	ID   TieredKey
	Data string `column:"name=data"`
}

type TieredKey struct {
	Tier Tier   `column:"name=tier"`
	Name string `column:"name=name"`
}

type User struct {
	base.Object
	ID   string `column:"name=id"`
	Name string `column:"name=name"`
	Age  int32  `column:"name=age"`
}

func thingConfig() EntityConfig {
	return EntityConfig{
		Object: &Thing{},
		Table:  "thing_@discriminator",
		Discriminator: &DiscriminatorConfig{
			Field:  "Discriminator",
			Values: []string{"A", "B"},
		},
	}
}

func eventConfig() EntityConfig {
	return EntityConfig{
		Object: &Event{},
		Table:  "event_@discriminator",
		Discriminator: &DiscriminatorConfig{
			Field:  "Source",
			Values: []string{"web", "mobile"},
		},
	}
}

func tieredConfig(template string) EntityConfig {
	return EntityConfig{
		Object: &Tiered{},
		Table:  template,
		Discriminator: &DiscriminatorConfig{
			Field:     "Tier",
			Converter: MustEnumConverter(D1, D2, D3),
		},
	}
}

func userConfig() EntityConfig {
	return EntityConfig{
		Object: &User{},
		Table:  "users",
	}
}
