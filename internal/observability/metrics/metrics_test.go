package metrics

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("visit_status", "visited-onboarded"),
		attribute.String("vendor_id", "123"),
		attribute.String("payment_type", "onboarding"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	for _, attr := range attrs {
		if attr.Key == "vendor_id" {
			t.Fatalf("expected vendor_id to be dropped")
		}
	}
}

func TestRecordersAreNilSafe(t *testing.T) {
	var m *Metrics
	ctx := t.Context()
	m.RecordStatusTransition(ctx, "visited-onboarded")
	m.RecordPaymentRecorded(ctx, "visit")
	m.RecordPaymentsSettled(ctx, 3)
	m.RecordNotification(ctx, "status-change")
	m.RecordRateLimitDenied(ctx, "/api/vendors")
}
