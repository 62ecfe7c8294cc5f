package utils

import "testing"

func TestParseTopK(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"5", 5},
		{" 2 ", 2},
		{"", 3},
		{"abc", 3},
		{"0", 3},
		{"-4", 3},
		{"2.5", 3},
	}
	for _, tt := range tests {
		if got := ParseTopK(tt.raw, 3); got != tt.want {
			t.Errorf("ParseTopK(%q) = %d; want %d", tt.raw, got, tt.want)
		}
	}
}

func TestGetNewUUID_Unique(t *testing.T) {
	if GetNewUUID() == GetNewUUID() {
		t.Error("two calls returned the same id")
	}
}
