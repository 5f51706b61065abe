package repository

import (
	"errors"
	"testing"
)

func TestIsDuplicateKey(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"mysql duplicate entry", errors.New("Error 1062 (23000): Duplicate entry 'room A' for key 'leases.name'"), true},
		{"other mysql error", errors.New("Error 1146 (42S02): Table 'leases' doesn't exist"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isDuplicateKey(tc.err); got != tc.want {
				t.Fatalf("isDuplicateKey(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
