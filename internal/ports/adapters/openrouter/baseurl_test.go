package openrouter

import "testing"

func TestValidateBaseURL(t *testing.T) {
	if err := ValidateBaseURL("", nil); err != nil {
		t.Fatalf("empty base url should default to openrouter.ai: %v", err)
	}
	if err := ValidateBaseURL("https://api.openrouter.ai/", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateBaseURL("https://proxy.internal", nil); err == nil {
		t.Fatalf("expected unknown host to be rejected")
	}
	if err := ValidateBaseURL("https://proxy.internal", []string{"proxy.internal"}); err != nil {
		t.Fatalf("configured host rejected: %v", err)
	}
}
