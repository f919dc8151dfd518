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

package concurrency

import (
	"context"
	"sync"
)

// Mapper maps inputs into outputs.
type Mapper interface {
	Map(ctx context.Context, input interface{}) (output interface{}, err error)
}

// MapperFunc is an adaptor to allow the use of ordinary functions as Mappers.
type MapperFunc func(ctx context.Context, input interface{}) (output interface{}, err error)

// Map calls f.
func (f MapperFunc) Map(ctx context.Context, input interface{}) (output interface{}, err error) {
	return f(ctx, input)
}

// Map applies m.Map to inputs using at most numWorkers goroutines. Outputs
// are returned in input order. The first error cancels the work still in
// flight and is returned.
func Map(
	ctx context.Context,
	m Mapper,
	inputs []interface{},
	numWorkers int,
) ([]interface{}, error) {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if numWorkers > len(inputs) {
		numWorkers = len(inputs)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	outputs := make([]interface{}, len(inputs))
	indexc := make(chan int)
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexc {
				// Drain without mapping once the work is cancelled.
				if ctx.Err() != nil {
					continue
				}
				o, err := m.Map(ctx, inputs[i])
				if err != nil {
					fail(err)
					continue
				}
				outputs[i] = o
			}
		}()
	}

feed:
	for i := range inputs {
		select {
		case indexc <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexc) // Signal to workers there are no more inputs.
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outputs, nil
}
