package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metrics publishes counters and timings to CloudWatch. Publishing is
// fire-and-forget; a metrics failure must never fail the request path.
type Metrics struct {
	namespace string
	client    *cloudwatch.Client
}

// NewMetrics creates a metrics publisher for the given namespace
func NewMetrics(namespace string, client *cloudwatch.Client) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
	}
}

// Increment increments a counter metric with a label dimension
func (m *Metrics) Increment(metric, label string) {
	m.put(metric, label, 1, types.StandardUnitCount)
}

// RecordDuration records a timing metric in milliseconds
func (m *Metrics) RecordDuration(metric, label string, d time.Duration) {
	m.put(metric, label, float64(d.Milliseconds()), types.StandardUnitMilliseconds)
}

// StartTimer starts a timer for the given metric; Stop records the duration
func (m *Metrics) StartTimer(metric, label string) Timer {
	return &metricTimer{
		metrics: m,
		metric:  metric,
		label:   label,
		started: time.Now(),
	}
}

// Timer records a duration when stopped
type Timer interface {
	Stop()
}

type metricTimer struct {
	metrics *Metrics
	metric  string
	label   string
	started time.Time
}

func (t *metricTimer) Stop() {
	t.metrics.RecordDuration(t.metric, t.label, time.Since(t.started))
}

func (m *Metrics) put(metric, label string, value float64, unit types.StandardUnit) {
	if m.client == nil {
		return
	}

	datum := types.MetricDatum{
		MetricName: aws.String(metric),
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(time.Now()),
		Dimensions: []types.Dimension{
			{Name: aws.String("Operation"), Value: aws.String(label)},
		},
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		// Errors are dropped intentionally; CloudWatch unavailability is not
		// a reason to surface a failure to the caller.
		_, _ = m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(m.namespace),
			MetricData: []types.MetricDatum{datum},
		})
	}()
}
