package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordLink(t *testing.T) {
	tests := []struct {
		name   string
		op     string
		err    error
		result string
	}{
		{"success", "favorite_song", nil, "success"},
		{"failure", "create_playlist", errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(LinkOperations.WithLabelValues(tt.op, tt.result))
			RecordLink(tt.op, tt.err)
			after := testutil.ToFloat64(LinkOperations.WithLabelValues(tt.op, tt.result))
			if after-before != 1 {
				t.Errorf("counter moved by %v, want 1", after-before)
			}
		})
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/music/songs", "200"))
	RecordAPIRequest("GET", "/api/music/songs", "200", 5*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/music/songs", "200"))
	if after-before != 1 {
		t.Errorf("counter moved by %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("gauge = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("gauge = %v, want %v", got, before)
	}
}
