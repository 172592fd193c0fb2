package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelay(t *testing.T) {
	tests := []struct {
		name    string
		backoff Backoff
		retry   int
		want    time.Duration
	}{
		{"zero value disabled", Backoff{}, 1, 0},
		{"zero retry", Backoff{Mode: BackoffFixed, Initial: time.Second}, 0, 0},
		{"fixed", Backoff{Mode: BackoffFixed, Initial: 2 * time.Second}, 3, 2 * time.Second},
		{"linear first", Backoff{Mode: BackoffLinear, Initial: time.Second}, 1, time.Second},
		{"linear third", Backoff{Mode: BackoffLinear, Initial: time.Second}, 3, 3 * time.Second},
		{"exponential first", Backoff{Mode: BackoffExponential, Initial: time.Second}, 1, time.Second},
		{"exponential fourth", Backoff{Mode: BackoffExponential, Initial: time.Second}, 4, 8 * time.Second},
		{"capped at max", Backoff{Mode: BackoffExponential, Initial: time.Second, Max: 5 * time.Second}, 4, 5 * time.Second},
		{"unknown mode falls back to linear", Backoff{Mode: "", Initial: time.Second}, 2, 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.backoff.Delay(tt.retry))
		})
	}
}
