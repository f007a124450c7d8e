package types

import (
	"errors"
	"testing"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    int64
		wantErr bool
	}{
		{"json number", float64(10), 10, false},
		{"json fraction truncates", 10.9, 10, false},
		{"numeric string", "25", 25, false},
		{"padded string", " 7 ", 7, false},
		{"leading zero is decimal", "010", 10, false},
		{"hex prefix", "0x10", 0, true},
		{"digit separator", "1_0", 0, true},
		{"fractional string", "10.5", 0, true},
		{"word", "lots", 0, true},
		{"boolean", true, 0, true},
		{"null", nil, 0, true},
		{"object", map[string]any{"n": 1.0}, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseQuantity(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrNotAQuantity) {
					t.Fatalf("got %d, %v; want ErrNotAQuantity", got, err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("got %d, %v; want %d", got, err, tc.want)
			}
		})
	}
}
