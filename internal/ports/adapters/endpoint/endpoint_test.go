package endpoint

import "testing"

var testPolicy = Policy{Name: "TEST_BASE_URL", DefaultHosts: []string{"openrouter.ai", "api.openrouter.ai"}}

func TestValidate(t *testing.T) {
	tests := []struct {
		name         string
		baseURL      string
		allowedHosts []string
		wantErr      bool
	}{
		{name: "default host with https", baseURL: "https://openrouter.ai"},
		{name: "default api host with https", baseURL: "https://api.openrouter.ai"},
		{name: "host is case insensitive", baseURL: "HTTPS://OpenRouter.ai/api"},
		{name: "reject non-absolute URL", baseURL: "openrouter.ai", wantErr: true},
		{name: "reject http", baseURL: "http://openrouter.ai", wantErr: true},
		{name: "reject unknown host", baseURL: "https://evil.example", wantErr: true},
		{name: "reject userinfo", baseURL: "https://user:pw@openrouter.ai", wantErr: true},
		{name: "reject query", baseURL: "https://openrouter.ai?x=1", wantErr: true},
		{name: "reject fragment", baseURL: "https://openrouter.ai#frag", wantErr: true},
		{name: "allow configured host", baseURL: "https://proxy.internal", allowedHosts: []string{"https://proxy.internal:8443/"}},
		{name: "configured hosts replace defaults", baseURL: "https://openrouter.ai", allowedHosts: []string{"proxy.internal"}, wantErr: true},
		{name: "blank configured hosts fall back", baseURL: "https://openrouter.ai", allowedHosts: []string{" ", "https://"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(testPolicy, tt.baseURL, tt.allowedHosts)
			if tt.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  ", "https://x.example"); got != "https://x.example" {
		t.Fatalf("default not applied: %q", got)
	}
	if got := Normalize("https://x.example//", ""); got != "https://x.example" {
		t.Fatalf("trailing slash kept: %q", got)
	}
}
