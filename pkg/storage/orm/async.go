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

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/uber/cqlorm/pkg/common"
	"github.com/uber/cqlorm/pkg/storage/objects/base"
)

// WriteListener is notified when an async write finishes.
type WriteListener interface {
	// OnComplete is called with the written entities
	OnComplete(entities []base.Object)
	// OnException is called when the write failed or was cancelled
	OnException(err error)
}

// DeletionListener is notified when an async delete finishes.
type DeletionListener interface {
	// OnComplete is called with the deleted entities
	OnComplete(entities []base.Object)
	// OnException is called when the delete failed or was cancelled
	OnException(err error)
}

// listener is the method set shared by WriteListener and DeletionListener.
type listener interface {
	OnComplete(entities []base.Object)
	OnException(err error)
}

// Cancellable is the handle of an async operation.
type Cancellable interface {
	// Cancel cancels the context the operation runs under. Calling it more
	// than once has no effect.
	Cancel()
	// Wait blocks until the operation finished and returns its error
	Wait() error
	// IsCancelled returns true once Cancel was called
	IsCancelled() bool
}

type asyncOp struct {
	cancel    context.CancelFunc
	cancelled *atomic.Bool
	done      chan struct{}
	err       error
	metrics   *Metrics
}

func (a *asyncOp) Cancel() {
	if a.cancelled.Swap(true) {
		return
	}
	a.metrics.AsyncCancel.Inc(1)
	a.cancel()
}

func (a *asyncOp) Wait() error {
	<-a.done
	return a.err
}

func (a *asyncOp) IsCancelled() bool {
	return a.cancelled.Load()
}

// runAsync runs fn on its own goroutine under a cancellable context and
// reports the outcome to l, which may be nil.
func (c *client) runAsync(
	ctx context.Context,
	entities []base.Object,
	l listener,
	fn func(ctx context.Context) error,
) Cancellable {
	ctx, cancel := context.WithCancel(ctx)
	op := &asyncOp{
		cancel:    cancel,
		cancelled: atomic.NewBool(false),
		done:      make(chan struct{}),
		metrics:   c.metrics,
	}

	go func() {
		defer close(op.done)
		defer cancel()

		err := ctx.Err()
		if err == nil {
			err = fn(ctx)
		}
		op.err = err
		record(err, c.metrics.AsyncWrite, c.metrics.AsyncWriteFail)

		if l == nil {
			return
		}
		if err != nil {
			l.OnException(err)
			return
		}
		l.OnComplete(entities)
	}()
	return op
}

// InsertAsync is Insert running in the background
func (c *client) InsertAsync(
	ctx context.Context,
	e base.Object,
	l WriteListener,
	opts ...Option,
) Cancellable {
	return c.runAsync(ctx, []base.Object{e}, l, func(ctx context.Context) error {
		return c.Insert(ctx, e, opts...)
	})
}

// UpdateAsync is Update running in the background
func (c *client) UpdateAsync(
	ctx context.Context,
	e base.Object,
	l WriteListener,
	opts ...Option,
) Cancellable {
	return c.runAsync(ctx, []base.Object{e}, l, func(ctx context.Context) error {
		return c.Update(ctx, e, opts...)
	})
}

// DeleteAsync is Delete running in the background
func (c *client) DeleteAsync(
	ctx context.Context,
	e base.Object,
	l DeletionListener,
	opts ...Option,
) Cancellable {
	return c.runAsync(ctx, []base.Object{e}, l, func(ctx context.Context) error {
		return c.Delete(ctx, e, opts...)
	})
}

// batchAsync writes the per table batches concurrently, bounded by the
// configured write concurrency. The first failure cancels the others.
func (c *client) batchAsync(
	ctx context.Context,
	typ OperationType,
	entities []base.Object,
	l listener,
	opts []Option,
) Cancellable {
	return c.runAsync(ctx, entities, l, func(ctx context.Context) error {
		if len(entities) == 0 {
			log.WithField(common.OperationLogField, typ.String()).
				Warn("empty batch, nothing to write")
			return nil
		}
		batches, err := c.groupByTable(typ, entities)
		if err != nil {
			return err
		}

		o := NewOptions(opts...)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.config.WriteConcurrency)
		for _, b := range batches {
			b := b
			g.Go(func() error {
				return c.executeBatch(gctx, b, o)
			})
		}
		err = g.Wait()
		record(err, c.metrics.BatchWrite, c.metrics.BatchWriteFail)
		return err
	})
}

// BatchInsertAsync is BatchInsert running the per table batches
// concurrently in the background
func (c *client) BatchInsertAsync(
	ctx context.Context,
	entities []base.Object,
	l WriteListener,
	opts ...Option,
) Cancellable {
	return c.batchAsync(ctx, InsertOperation, entities, l, opts)
}

// BatchUpdateAsync is the background version of BatchUpdate
func (c *client) BatchUpdateAsync(
	ctx context.Context,
	entities []base.Object,
	l WriteListener,
	opts ...Option,
) Cancellable {
	return c.batchAsync(ctx, UpdateOperation, entities, l, opts)
}

// BatchDeleteAsync is the background version of BatchDelete
func (c *client) BatchDeleteAsync(
	ctx context.Context,
	entities []base.Object,
	l DeletionListener,
	opts ...Option,
) Cancellable {
	return c.batchAsync(ctx, DeleteOperation, entities, l, opts)
}
