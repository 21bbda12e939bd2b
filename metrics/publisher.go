package metrics

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ThreeDotsLabs/eventful/domain"
)

var errMissingDecorated = errors.New("missing decorated object")

// PublisherPrometheusMetricsDecorator decorates an EventPublisher
// with Prometheus metrics.
type PublisherPrometheusMetricsDecorator struct {
	pub domain.EventPublisher

	publishSuccessTotal *prometheus.CounterVec
	publishFailTotal    *prometheus.CounterVec
	publishTimeSeconds  *prometheus.HistogramVec
}

// Publish updates the relevant publisher metrics and calls the wrapped publisher's Publish.
func (m PublisherPrometheusMetricsDecorator) Publish(ctx context.Context, event interface{}) (err error) {
	labels := prometheus.Labels{labelKeyEventName: domain.EventName(event)}
	now := time.Now()

	defer func() {
		m.publishTimeSeconds.With(labels).Observe(time.Since(now).Seconds())

		if err != nil {
			m.publishFailTotal.With(labels).Inc()
			return
		}
		m.publishSuccessTotal.With(labels).Inc()
	}()

	return m.pub.Publish(ctx, event)
}
