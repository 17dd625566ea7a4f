package core

import "testing"

func TestFaviconURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"https", "https://www.reuters.com/world/x", "https://www.google.com/s2/favicons?domain=reuters.com&sz=32"},
		{"http with port", "http://Example.COM:8080/a", "https://www.google.com/s2/favicons?domain=example.com&sz=32"},
		{"empty", "", ""},
		{"no scheme", "reuters.com/a", ""},
		{"garbage", "::not a url::", ""},
		{"bad escape", "https://exa%zzmple.com", ""},
		{"mailto", "mailto:someone@example.com", ""},
		{"no host", "https:///path", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FaviconURL(tt.in); got != tt.want {
				t.Errorf("FaviconURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHostname(t *testing.T) {
	if got := Hostname(" https://WWW.bbc.co.uk/news "); got != "bbc.co.uk" {
		t.Errorf("Hostname = %q", got)
	}
	if got := Hostname("ftp://files.example.com"); got != "" {
		t.Errorf("non-http scheme should yield empty host, got %q", got)
	}
}
