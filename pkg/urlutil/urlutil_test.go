package urlutil

import (
	"net/url"
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "trailing slash removed",
			input:    "https://docs.example.com/guide/",
			expected: "https://docs.example.com/guide",
		},
		{
			name:     "no trailing slash stays same",
			input:    "https://docs.example.com/guide",
			expected: "https://docs.example.com/guide",
		},
		{
			name:     "fragment removed",
			input:    "https://docs.example.com/guide#index",
			expected: "https://docs.example.com/guide",
		},
		{
			name:     "tracking query parameter stripped",
			input:    "https://docs.example.com/guide?utm_source=twitter",
			expected: "https://docs.example.com/guide",
		},
		{
			name:     "non-tracking query parameter kept",
			input:    "https://docs.example.com/guide?id=123",
			expected: "https://docs.example.com/guide?id=123",
		},
		{
			name:     "mixed tracking and real params: tracking stripped, rest sorted",
			input:    "https://docs.example.com/guide?utm_source=twitter&id=123&b=2&a=1",
			expected: "https://docs.example.com/guide?a=1&b=2&id=123",
		},
		{
			name:     "query keys lowercased before sorting",
			input:    "https://docs.example.com/guide?Id=123&GCLID=xyz",
			expected: "https://docs.example.com/guide?id=123",
		},
		{
			name:     "both fragment and tracking query removed",
			input:    "https://docs.example.com/guide?utm_source=twitter#index",
			expected: "https://docs.example.com/guide",
		},
		{
			name:     "scheme lowercased",
			input:    "HTTPS://docs.example.com/guide",
			expected: "https://docs.example.com/guide",
		},
		{
			name:     "http upgraded to https",
			input:    "http://docs.example.com/guide",
			expected: "https://docs.example.com/guide",
		},
		{
			name:     "host lowercased",
			input:    "https://DOCS.EXAMPLE.COM/guide",
			expected: "https://docs.example.com/guide",
		},
		{
			name:     "scheme and host lowercased",
			input:    "HTTPS://DOCS.EXAMPLE.COM/GUIDE",
			expected: "https://docs.example.com/GUIDE",
		},
		{
			name:     "default http port removed and upgraded to https",
			input:    "http://docs.example.com:80/guide",
			expected: "https://docs.example.com/guide",
		},
		{
			name:     "default https port removed",
			input:    "https://docs.example.com:443/guide",
			expected: "https://docs.example.com/guide",
		},
		{
			name:     "non-default port preserved",
			input:    "https://docs.example.com:8080/guide",
			expected: "https://docs.example.com:8080/guide",
		},
		{
			name:     "multiple trailing slashes removed",
			input:    "https://docs.example.com/guide///",
			expected: "https://docs.example.com/guide",
		},
		{
			name:     "root path preserved",
			input:    "https://docs.example.com/",
			expected: "https://docs.example.com/",
		},
		{
			name:     "root path without slash",
			input:    "https://docs.example.com",
			expected: "https://docs.example.com",
		},
		{
			name:     "complex path with fragment and non-tracking query",
			input:    "https://docs.example.com/api/v1/users?id=123#section",
			expected: "https://docs.example.com/api/v1/users?id=123",
		},
		{
			name:     "path with uppercase preserved",
			input:    "https://docs.example.com/API/v1/Users",
			expected: "https://docs.example.com/API/v1/Users",
		},
		{
			name:     "empty query removed",
			input:    "https://docs.example.com/guide?",
			expected: "https://docs.example.com/guide",
		},
		{
			name:     "empty fragment removed",
			input:    "https://docs.example.com/guide#",
			expected: "https://docs.example.com/guide",
		},
		{
			name:     "all-tracking query string collapses to no query",
			input:    "https://docs.example.com/guide?utm_source=x&utm_medium=y&fbclid=z",
			expected: "https://docs.example.com/guide",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputURL, err := url.Parse(tt.input)
			if err != nil {
				t.Fatalf("failed to parse input URL %q: %v", tt.input, err)
			}

			result := NormalizeURL(*inputURL)
			resultStr := result.String()

			if resultStr != tt.expected {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, resultStr, tt.expected)
			}
		})
	}
}

func TestNormalizeURLIdempotent(t *testing.T) {
	testURLs := []string{
		"https://docs.example.com/guide/",
		"https://docs.example.com/guide?utm_source=twitter&id=1",
		"https://docs.example.com/guide#index",
		"HTTPS://DOCS.EXAMPLE.COM:443/GUIDE/?#",
		"http://example.com:80/path///",
	}

	for _, urlStr := range testURLs {
		t.Run(urlStr, func(t *testing.T) {
			inputURL, err := url.Parse(urlStr)
			if err != nil {
				t.Fatalf("failed to parse URL %q: %v", urlStr, err)
			}

			first := NormalizeURL(*inputURL)
			second := NormalizeURL(first)

			firstStr := first.String()
			secondStr := second.String()

			if firstStr != secondStr {
				t.Errorf("NormalizeURL is not idempotent: first=%q, second=%q", firstStr, secondStr)
			}
		})
	}
}

func TestNormalizeURLDoesNotMutateInput(t *testing.T) {
	input, _ := url.Parse("https://example.com/path/?query=1#frag")
	original := *input

	_ = NormalizeURL(*input)

	if input.String() != original.String() {
		t.Error("NormalizeURL mutated the input URL")
	}
}

func TestLowerASCII(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello", "hello"},
		{"HELLO", "hello"},
		{"hello", "hello"},
		{"HTTPS", "https"},
		{"MixedCASE", "mixedcase"},
		{"already-lower", "already-lower"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := lowerASCII(tt.input)
			if result != tt.expected {
				t.Errorf("lowerASCII(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestStripTrailingSlash(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/path/", "/path"},
		{"/path//", "/path"},
		{"/path///", "/path"},
		{"/path", "/path"},
		{"/", "/"},
		{"///", "/"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := stripTrailingSlash(tt.input)
			if result != tt.expected {
				t.Errorf("stripTrailingSlash(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
