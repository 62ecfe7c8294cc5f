package viewModel

import "testing"

func TestBucketFor(t *testing.T) {
	tests := []struct {
		score float64
		want  ConfidenceBucket
	}{
		{1.0, ConfidenceHigh},
		{0.75, ConfidenceHigh},
		{0.7000001, ConfidenceHigh},
		{0.7, ConfidenceMedium},
		{0.5, ConfidenceMedium},
		{0.4, ConfidenceLow},
		{0.3, ConfidenceLow},
		{0, ConfidenceLow},
	}
	for _, tt := range tests {
		if got := BucketFor(tt.score); got != tt.want {
			t.Errorf("BucketFor(%v) = %s; want %s", tt.score, got, tt.want)
		}
	}
}
