// Package metrics provides Prometheus decorators for event publishers
// and repositories.
package metrics

import (
	multierror "github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ThreeDotsLabs/eventful/domain"
)

const labelKeyEventName = "event_name"

// PrometheusMetricsBuilder provides methods to decorate publishers and
// repositories with Prometheus metrics.
type PrometheusMetricsBuilder struct {
	// PrometheusRegistry may be filled with a pre-existing Prometheus registry, or left empty for a new one.
	PrometheusRegistry *prometheus.Registry

	Namespace string
	Subsystem string
}

func (b PrometheusMetricsBuilder) registry() *prometheus.Registry {
	if b.PrometheusRegistry != nil {
		return b.PrometheusRegistry
	}

	return prometheus.NewRegistry()
}

// DecoratePublisher wraps the underlying publisher with Prometheus metrics.
func (b PrometheusMetricsBuilder) DecoratePublisher(pub domain.EventPublisher) (domain.EventPublisher, error) {
	if pub == nil {
		return nil, errMissingDecorated
	}

	prometheusRegistry := b.registry()

	publishSuccessTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: b.Namespace,
			Subsystem: b.Subsystem,
			Name:      "publisher_success_total",
			Help:      "Total number of successfully published events",
		},
		[]string{labelKeyEventName},
	)

	publishFailTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: b.Namespace,
			Subsystem: b.Subsystem,
			Name:      "publisher_fail_total",
			Help:      "Total number of failed attempts to publish an event",
		},
		[]string{labelKeyEventName},
	)

	publishTimeSeconds := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: b.Namespace,
			Subsystem: b.Subsystem,
			Name:      "publish_time_seconds",
			Help:      "The time that a publishing attempt (success or not) took in seconds",
		},
		[]string{labelKeyEventName},
	)

	var err error
	for _, c := range []prometheus.Collector{
		publishSuccessTotal,
		publishFailTotal,
		publishTimeSeconds,
	} {
		if registerErr := prometheusRegistry.Register(c); registerErr != nil {
			err = multierror.Append(err, registerErr)
		}
	}
	if err != nil {
		return nil, err
	}

	return PublisherPrometheusMetricsDecorator{
		pub:                 pub,
		publishSuccessTotal: publishSuccessTotal,
		publishFailTotal:    publishFailTotal,
		publishTimeSeconds:  publishTimeSeconds,
	}, nil
}
