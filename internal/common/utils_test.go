package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "clean", in: "https://example.com", want: "https://example.com"},
		{name: "whitespace", in: "  https://example.com/a \n", want: "https://example.com/a"},
		{name: "markdown link", in: "[shop](https://example.com/shop)", want: "https://example.com/shop"},
		{name: "trailing comma", in: "https://example.com,", want: "https://example.com"},
		{name: "wrapped in angle brackets", in: "<https://example.com>", want: "https://example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeURL(tt.in))
		})
	}
}

func TestSanitizeAndValidateURLs(t *testing.T) {
	valid, invalid := SanitizeAndValidateURLs([]string{
		"https://example.com/products",
		"http://localhost:8080/page",
		"https://example.com,",
		"ftp://example.com",
		"https://exa mple.com",
		"not a url",
		"",
	})

	assert.Equal(t, []string{
		"https://example.com/products",
		"http://localhost:8080/page",
		"https://example.com",
	}, valid)
	assert.Equal(t, []string{"ftp://example.com", "https://exa mple.com", "not a url", ""}, invalid)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a, ,b,"))
	assert.Nil(t, SplitList(""))
}
