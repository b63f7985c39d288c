package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleArticleHTML = `<html><head><title>Deep Dive</title></head>
<body><article><h1>Deep Dive Into Go Concurrency</h1>
<p>This is a long-form article with enough text that Readability should
treat it as the main content block rather than boilerplate navigation
or footer text scattered around the page.</p>
<p>A second paragraph adds more substantive content so extraction has
something real to latch onto during the test.</p>
</article></body></html>`

func TestContentEnhancer_ShouldEnhance(t *testing.T) {
	e := NewContentEnhancer(ContentFetchConfig{Enabled: true, Threshold: 1500})
	assert.True(t, e.ShouldEnhance("short"))
	assert.False(t, e.ShouldEnhance(string(make([]byte, 2000))))

	disabled := NewContentEnhancer(ContentFetchConfig{Enabled: false, Threshold: 1500})
	assert.False(t, disabled.ShouldEnhance("short"))
}

func TestContentEnhancer_DoFetch_ExtractsReadableText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleArticleHTML))
	}))
	defer srv.Close()

	cfg := ContentFetchConfig{
		Enabled:      true,
		Threshold:    1500,
		Timeout:      5 * time.Second,
		MaxBodySize:  1024 * 1024,
		MaxRedirects: 3,
	}
	e := NewContentEnhancer(cfg)

	content, err := e.doFetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, content, "Deep Dive Into Go Concurrency")
}

func TestContentEnhancer_FetchContent_RejectsPrivateIP(t *testing.T) {
	cfg := DefaultFetchConfig().ContentEnhancement
	e := NewContentEnhancer(cfg)

	_, err := e.FetchContent(context.Background(), "http://127.0.0.1:9/article")
	assert.Error(t, err)
}

func TestContentEnhancer_DoFetch_BodyTooLargeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleArticleHTML))
	}))
	defer srv.Close()

	cfg := ContentFetchConfig{
		Enabled:      true,
		Threshold:    1500,
		Timeout:      5 * time.Second,
		MaxBodySize:  10,
		MaxRedirects: 3,
	}
	e := NewContentEnhancer(cfg)

	_, err := e.doFetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}
