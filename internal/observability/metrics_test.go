package observability

import (
	"testing"
	"time"

	"github.com/danmuck/smppctl/internal/testutil/testlog"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	RecordSent("submit_sm")
	RecordSent("submit_sm")
	RecordReceived("submit_sm_resp", 0)
	RecordDecodeError("malformed")
	RecordResponse("submit_sm", 12*time.Millisecond)
	RecordMessageParts(3)
	RecordHTTPRequest("GET", "/health", 200)

	if got := testutil.ToFloat64(pduSent.WithLabelValues("submit_sm")); got < 2 {
		t.Fatalf("sent counter=%v", got)
	}
	if got := testutil.ToFloat64(pduReceived.WithLabelValues("submit_sm_resp", "0x0")); got < 1 {
		t.Fatalf("received counter=%v", got)
	}
}

func TestSetStateIsOneHot(t *testing.T) {
	testlog.Start(t)
	all := []string{"CLOSED", "OPEN", "BOUND_TRANSMITTER"}
	SetState("OPEN", all)
	SetState("BOUND_TRANSMITTER", all)
	if testutil.ToFloat64(sessionState.WithLabelValues("BOUND_TRANSMITTER")) != 1 {
		t.Fatalf("BOUND_TRANSMITTER should be active")
	}
	if testutil.ToFloat64(sessionState.WithLabelValues("OPEN")) != 0 {
		t.Fatalf("OPEN should be cleared")
	}
}
