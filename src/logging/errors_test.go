package logging

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsQuotaExhausted(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"quota code", errors.New("openai API error: You exceeded your current quota (type: insufficient_quota, code: insufficient_quota)"), true},
		{"billing", errors.New("Billing hard limit has been reached"), true},
		{"wrapped", fmt.Errorf("dao_proposal_optimizer: analyze proposals: %w", errors.New("insufficient_quota")), true},
		{"rate limit", errors.New("429 Too Many Requests"), false},
		{"unrelated", errors.New("space not found"), false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, IsQuotaExhausted(tc.err))
		})
	}
}

func TestIsRateLimit(t *testing.T) {
	t.Parallel()

	assert.False(t, IsRateLimit(nil))
	assert.True(t, IsRateLimit(errors.New("openai: rate_limit_exceeded")))
	assert.True(t, IsRateLimit(errors.New("status 429")))
	assert.False(t, IsRateLimit(errors.New("insufficient_quota")))
}
