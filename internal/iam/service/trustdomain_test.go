package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchTrustDomain(t *testing.T) {
	tests := []struct {
		name     string
		required string
		actual   string
		want     bool
	}{
		{"exact match", "astha.ai", "astha.ai", true},
		{"different domain", "astha.ai", "marketplace.com", false},
		{"case differs", "astha.ai", "Astha.AI", false},
		{"whitespace is not trimmed", "astha.ai", " astha.ai", false},
		{"empty actual never matches", "astha.ai", "", false},
		{"empty actual does not match empty required", "", "", false},
		{"no prefix matching", "astha.ai", "astha.ai.evil.com", false},
		{"no suffix matching", "astha.ai", "sub.astha.ai", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, MatchTrustDomain(tt.required, tt.actual))
		})
	}
}
