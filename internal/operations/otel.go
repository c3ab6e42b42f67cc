package operations

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sentimentcli/internal/infrastructure"
)

// recordStepSpan copies the step outcome and metadata onto the step span in ctx
func recordStepSpan(ctx context.Context, state *StepState) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	attrs := map[string]interface{}{
		"step.status":           string(state.CurrentStatus()),
		"step.duration_seconds": state.Duration().Seconds(),
	}
	state.mu.RLock()
	for k, v := range state.Metadata {
		attrs["step."+k] = v
	}
	state.mu.RUnlock()

	infrastructure.SetSpanAttributes(ctx, attrs)
	span.SetStatus(codes.Ok, "step completed")
}
