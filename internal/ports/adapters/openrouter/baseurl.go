package openrouter

import "github.com/forPelevin/reelcut/internal/ports/adapters/endpoint"

const defaultBaseURL = "https://openrouter.ai"

var baseURLPolicy = endpoint.Policy{
	Name:         "OPENROUTER_BASE_URL",
	DefaultHosts: []string{"openrouter.ai", "api.openrouter.ai"},
}

func normalizeBaseURL(baseURL string) string {
	return endpoint.Normalize(baseURL, defaultBaseURL)
}

// ValidateBaseURL checks an OpenRouter base URL against allowedHosts, or the
// public OpenRouter hosts when none are configured.
func ValidateBaseURL(baseURL string, allowedHosts []string) error {
	return endpoint.Validate(baseURLPolicy, normalizeBaseURL(baseURL), allowedHosts)
}
