package metrics

import (
	"context"
	"time"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ThreeDotsLabs/eventful/repository"
)

const labelKeyOperation = "operation"

// DecorateRepository wraps repo with Prometheus metrics for every repository
// operation.
//
// It is a free function rather than a method of PrometheusMetricsBuilder,
// because Go methods cannot introduce type parameters.
func DecorateRepository[ID comparable, T any](
	b PrometheusMetricsBuilder,
	repo repository.Repository[ID, T],
) (repository.Repository[ID, T], error) {
	if repo == nil {
		return nil, errMissingDecorated
	}

	prometheusRegistry := b.registry()

	opSuccessTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: b.Namespace,
			Subsystem: b.Subsystem,
			Name:      "repository_op_success_total",
			Help:      "Total number of successful repository operations",
		},
		[]string{labelKeyOperation},
	)

	opFailTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: b.Namespace,
			Subsystem: b.Subsystem,
			Name:      "repository_op_fail_total",
			Help:      "Total number of failed repository operations",
		},
		[]string{labelKeyOperation},
	)

	opDurationSeconds := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: b.Namespace,
			Subsystem: b.Subsystem,
			Name:      "repository_op_duration_seconds",
			Help:      "The time that a repository operation (success or not) took in seconds",
		},
		[]string{labelKeyOperation},
	)

	var err error
	for _, c := range []prometheus.Collector{
		opSuccessTotal,
		opFailTotal,
		opDurationSeconds,
	} {
		if registerErr := prometheusRegistry.Register(c); registerErr != nil {
			err = multierror.Append(err, registerErr)
		}
	}
	if err != nil {
		return nil, err
	}

	return &RepositoryPrometheusMetricsDecorator[ID, T]{
		repo:              repo,
		opSuccessTotal:    opSuccessTotal,
		opFailTotal:       opFailTotal,
		opDurationSeconds: opDurationSeconds,
	}, nil
}

// RepositoryPrometheusMetricsDecorator decorates a Repository
// with Prometheus metrics.
type RepositoryPrometheusMetricsDecorator[ID comparable, T any] struct {
	repo repository.Repository[ID, T]

	opSuccessTotal    *prometheus.CounterVec
	opFailTotal       *prometheus.CounterVec
	opDurationSeconds *prometheus.HistogramVec
}

func (m *RepositoryPrometheusMetricsDecorator[ID, T]) observe(operation string, start time.Time, err error) {
	labels := prometheus.Labels{labelKeyOperation: operation}

	m.opDurationSeconds.With(labels).Observe(time.Since(start).Seconds())

	if err != nil {
		m.opFailTotal.With(labels).Inc()
		return
	}
	m.opSuccessTotal.With(labels).Inc()
}

func (m *RepositoryPrometheusMetricsDecorator[ID, T]) Save(ctx context.Context, entity T) (err error) {
	start := time.Now()
	defer func() { m.observe("save", start, err) }()

	return m.repo.Save(ctx, entity)
}

func (m *RepositoryPrometheusMetricsDecorator[ID, T]) SaveAll(ctx context.Context, entities []T) (err error) {
	start := time.Now()
	defer func() { m.observe("save_all", start, err) }()

	return m.repo.SaveAll(ctx, entities)
}

func (m *RepositoryPrometheusMetricsDecorator[ID, T]) FindByID(ctx context.Context, id ID) (entity T, err error) {
	start := time.Now()
	defer func() { m.observe("find_by_id", start, err) }()

	return m.repo.FindByID(ctx, id)
}

func (m *RepositoryPrometheusMetricsDecorator[ID, T]) FindAll(ctx context.Context) (entities []T, err error) {
	start := time.Now()
	defer func() { m.observe("find_all", start, err) }()

	return m.repo.FindAll(ctx)
}

func (m *RepositoryPrometheusMetricsDecorator[ID, T]) DeleteByID(ctx context.Context, id ID) (err error) {
	start := time.Now()
	defer func() { m.observe("delete_by_id", start, err) }()

	return m.repo.DeleteByID(ctx, id)
}

func (m *RepositoryPrometheusMetricsDecorator[ID, T]) Count(ctx context.Context) (count int, err error) {
	start := time.Now()
	defer func() { m.observe("count", start, err) }()

	return m.repo.Count(ctx)
}
