package worker

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// JobInstrumenter wraps scheduled jobs in spans and OTLP metrics.
type JobInstrumenter struct {
	tracer      trace.Tracer
	jobsRunning metric.Int64UpDownCounter
	jobDuration metric.Float64Histogram
	jobsTotal   metric.Int64Counter
}

func NewJobInstrumenter(tracer trace.Tracer, meter metric.Meter, serviceName string) (*JobInstrumenter, error) {
	jobsRunning, err := meter.Int64UpDownCounter(
		fmt.Sprintf("%s_jobs_running", serviceName),
		metric.WithDescription("Number of scheduled jobs currently running"),
	)
	if err != nil {
		return nil, err
	}

	jobDuration, err := meter.Float64Histogram(
		fmt.Sprintf("%s_job_duration_seconds", serviceName),
		metric.WithDescription("Scheduled job duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	jobsTotal, err := meter.Int64Counter(
		fmt.Sprintf("%s_jobs_total", serviceName),
		metric.WithDescription("Total scheduled job runs"),
	)
	if err != nil {
		return nil, err
	}

	return &JobInstrumenter{
		tracer:      tracer,
		jobsRunning: jobsRunning,
		jobDuration: jobDuration,
		jobsTotal:   jobsTotal,
	}, nil
}

// Run executes fn inside a span named after job and records its outcome.
func (w *JobInstrumenter) Run(ctx context.Context, job string, fn func(context.Context) error) error {
	w.jobsRunning.Add(ctx, 1)
	defer w.jobsRunning.Add(ctx, -1)

	ctx, span := w.tracer.Start(ctx, "job."+job, trace.WithAttributes(attribute.String("job.name", job)))
	defer span.End()

	start := time.Now()
	err := fn(ctx)

	status := "success"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	attrs := metric.WithAttributes(
		attribute.String("job.name", job),
		attribute.String("status", status),
	)
	w.jobDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	w.jobsTotal.Add(ctx, 1, attrs)
	return err
}
