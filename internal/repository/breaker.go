package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/menden/shop-api/internal/domain"
)

// Breaker decorates a Documents with a circuit breaker so a struggling
// document store sheds load instead of stacking up timed-out calls.
// Domain outcomes (not found, bad id) do not count as failures.
type Breaker struct {
	docs Documents
	cb   *gobreaker.CircuitBreaker[any]
}

func NewBreaker(name string, docs Documents) *Breaker {
	settings := gobreaker.Settings{
		Name:     name,
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidID)
		},
	}
	return &Breaker{
		docs: docs,
		cb:   gobreaker.NewCircuitBreaker[any](settings),
	}
}

func (b *Breaker) All(ctx context.Context) ([]domain.Document, error) {
	return execMany(b, func() ([]domain.Document, error) {
		return b.docs.All(ctx)
	})
}

func (b *Breaker) Get(ctx context.Context, id string) (domain.Document, error) {
	return execOne(b, func() (domain.Document, error) {
		return b.docs.Get(ctx, id)
	})
}

func (b *Breaker) FindByField(ctx context.Context, field, value string) ([]domain.Document, error) {
	return execMany(b, func() ([]domain.Document, error) {
		return b.docs.FindByField(ctx, field, value)
	})
}

func (b *Breaker) FindOneByField(ctx context.Context, field, value string) (domain.Document, error) {
	return execOne(b, func() (domain.Document, error) {
		return b.docs.FindOneByField(ctx, field, value)
	})
}

func (b *Breaker) Search(ctx context.Context, field, keyword string) ([]domain.Document, error) {
	return execMany(b, func() ([]domain.Document, error) {
		return b.docs.Search(ctx, field, keyword)
	})
}

func (b *Breaker) Insert(ctx context.Context, doc domain.Document) (domain.Document, error) {
	return execOne(b, func() (domain.Document, error) {
		return b.docs.Insert(ctx, doc)
	})
}

func (b *Breaker) Update(ctx context.Context, id string, fields domain.Document) (domain.Document, error) {
	return execOne(b, func() (domain.Document, error) {
		return b.docs.Update(ctx, id, fields)
	})
}

func (b *Breaker) UpdateByField(ctx context.Context, field, value string, fields domain.Document) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.docs.UpdateByField(ctx, field, value, fields)
	})
	return mapBreakerErr(err)
}

func (b *Breaker) Delete(ctx context.Context, id string) (domain.Document, error) {
	return execOne(b, func() (domain.Document, error) {
		return b.docs.Delete(ctx, id)
	})
}

func execOne(b *Breaker, call func() (domain.Document, error)) (domain.Document, error) {
	v, err := b.cb.Execute(func() (any, error) { return call() })
	if err != nil {
		return nil, mapBreakerErr(err)
	}
	return v.(domain.Document), nil
}

func execMany(b *Breaker, call func() ([]domain.Document, error)) ([]domain.Document, error) {
	v, err := b.cb.Execute(func() (any, error) { return call() })
	if err != nil {
		return nil, mapBreakerErr(err)
	}
	return v.([]domain.Document), nil
}

func mapBreakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrUnavailable
	}
	return err
}
