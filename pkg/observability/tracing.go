package observability

import (
	"context"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// Tracer wraps X-Ray segment management for the lineage service
type Tracer struct {
	serviceName string
}

// NewTracer creates a tracer that prefixes segments with the service name
func NewTracer(serviceName string) *Tracer {
	return &Tracer{
		serviceName: serviceName,
	}
}

// StartSegment opens a top-level trace segment
func (t *Tracer) StartSegment(ctx context.Context, name string) (context.Context, *xray.Segment) {
	return xray.BeginSegment(ctx, fmt.Sprintf("%s.%s", t.serviceName, name))
}

// StartSubsegment opens a subsegment within an existing segment
func (t *Tracer) StartSubsegment(ctx context.Context, name string) (context.Context, *xray.Segment) {
	return xray.BeginSubsegment(ctx, name)
}

// TraceOperation runs fn inside a subsegment and records its error, if any
func (t *Tracer) TraceOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, seg := t.StartSubsegment(ctx, name)
	defer seg.Close(nil)

	err := fn(ctx)
	if err != nil {
		seg.AddError(err)
	}

	return err
}

// AnnotateSubject tags the current segment with the subject being operated
// on, so traces can be filtered per lineage
func (t *Tracer) AnnotateSubject(ctx context.Context, subjectID string) {
	if seg := xray.GetSegment(ctx); seg != nil {
		seg.AddAnnotation("subject_id", subjectID)
	}
}

// RecordError attaches an error to the current segment
func (t *Tracer) RecordError(ctx context.Context, err error) {
	if seg := xray.GetSegment(ctx); seg != nil {
		seg.AddError(err)
	}
}
