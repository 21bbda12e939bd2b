package eventbus

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v3"

	"github.com/ThreeDotsLabs/eventful"
	"github.com/ThreeDotsLabs/eventful/domain"
)

// Retry decorates an EventPublisher so that failed publishes are retried.
// The retry behaviour is configurable, with exponential backoff and maximum
// elapsed time.
type Retry struct {
	// MaxRetries is the maximum number of times a retry will be attempted.
	MaxRetries int

	// InitialInterval is the first interval between retries. Subsequent intervals will be scaled by Multiplier.
	InitialInterval time.Duration
	// MaxInterval sets the limit for the exponential backoff of retries. The interval will not be increased beyond MaxInterval.
	MaxInterval time.Duration
	// Multiplier is the factor by which the waiting interval will be multiplied between retries.
	Multiplier float64
	// MaxElapsedTime sets the time limit of how long retries will be attempted. Disabled if 0.
	MaxElapsedTime time.Duration
	// RandomizationFactor randomizes the spread of the backoff times within the interval of:
	// [currentInterval * (1 - randomization_factor), currentInterval * (1 + randomization_factor)].
	RandomizationFactor float64

	// OnRetryHook is an optional function that will be executed on each retry attempt.
	// The number of the current retry is passed as retryNum.
	OnRetryHook func(retryNum int, delay time.Duration)

	Logger eventful.LoggerAdapter
}

// Decorate wraps publisher with the configured retry behaviour.
func (r Retry) Decorate(publisher domain.EventPublisher) domain.EventPublisher {
	if publisher == nil {
		panic("missing publisher")
	}
	if r.Logger == nil {
		r.Logger = eventful.NopLogger{}
	}

	return retryingPublisher{
		config:    r,
		publisher: publisher,
	}
}

type retryingPublisher struct {
	config    Retry
	publisher domain.EventPublisher
}

func (p retryingPublisher) Publish(ctx context.Context, event interface{}) error {
	err := p.publisher.Publish(ctx, event)
	if err == nil {
		return nil
	}

	r := p.config

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = r.InitialInterval
	expBackoff.MaxInterval = r.MaxInterval
	expBackoff.Multiplier = r.Multiplier
	expBackoff.MaxElapsedTime = r.MaxElapsedTime
	expBackoff.RandomizationFactor = r.RandomizationFactor

	if r.MaxElapsedTime > 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, r.MaxElapsedTime)
		defer cancel()
	}

	retryNum := 1
	expBackoff.Reset()

	for {
		waitTime := expBackoff.NextBackOff()

		select {
		case <-ctx.Done():
			return err
		case <-time.After(waitTime):
			// go on
		}

		r.Logger.Trace("Retrying publish", eventful.LogFields{
			"event_name":   domain.EventName(event),
			"retry_no":     retryNum,
			"max_retries":  r.MaxRetries,
			"wait_time":    waitTime,
			"elapsed_time": expBackoff.GetElapsedTime(),
		})

		err = p.publisher.Publish(ctx, event)
		if err == nil {
			return nil
		}

		if r.OnRetryHook != nil {
			r.OnRetryHook(retryNum, waitTime)
		}

		retryNum++
		if retryNum > r.MaxRetries {
			break
		}
	}

	return err
}
