package logging

import "strings"

// IsRateLimit reports whether err looks like a provider rate limit response.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "rate_limit") || strings.Contains(msg, "429")
}

// IsQuotaExhausted reports whether err looks like an exhausted-credits or billing
// failure from the AI provider. Front ends treat this as the one recoverable case:
// the user can supply their own API key and continue. Detection is by substring on
// the upstream error text, so it is only as stable as the provider's wording.
func IsQuotaExhausted(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "insufficient_quota") || strings.Contains(msg, "billing")
}
