package extraction

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRefresh(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{content: "0; url=https://example.com/next", want: "https://example.com/next"},
		{content: "0;URL='/relative'", want: "/relative"},
		{content: `5; url="https://example.com/q?a=1&b=2"`, want: "https://example.com/q?a=1&b=2"},
		{content: "3, url=/comma", want: "/comma"},
		{content: "0; https://example.com/bare", want: "https://example.com/bare"},
		{content: "10", want: ""},
		{content: "", want: ""},
		{content: "0;", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRefresh(tt.content))
		})
	}
}

func TestExtractor_RefreshTarget(t *testing.T) {
	base, err := url.Parse("https://example.com/start/page")
	require.NoError(t, err)

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "absolute target",
			html: `<html><head><meta http-equiv="refresh" content="0; url=https://other.example.org/"></head></html>`,
			want: "https://other.example.org/",
		},
		{
			name: "relative target",
			html: `<html><head><META HTTP-EQUIV="Refresh" CONTENT="0;URL=../next"></head></html>`,
			want: "https://example.com/next",
		},
		{
			name: "first refresh wins",
			html: `<meta http-equiv="content-type" content="text/html"><meta http-equiv="refresh" content="0;url=/a"><meta http-equiv="refresh" content="0;url=/b">`,
			want: "https://example.com/a",
		},
		{
			name: "reload without url",
			html: `<meta http-equiv="refresh" content="30">`,
			want: "",
		},
		{
			name: "refresh to self",
			html: `<meta http-equiv="refresh" content="0; url=/start/page">`,
			want: "",
		},
		{
			name: "no meta",
			html: `<html><body><a href="/x">x</a></body></html>`,
			want: "",
		},
	}

	e := NewExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.RefreshTarget(strings.NewReader(tt.html), base)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractor_RefreshTarget_NilBase(t *testing.T) {
	got, err := NewExtractor().RefreshTarget(strings.NewReader(`<meta http-equiv="refresh" content="0;url=https://example.com/">`), nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", got)
}
