package quotes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextRotatesFallback(t *testing.T) {
	p := NewProvider(nil)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < len(fallback); i++ {
		q := p.Next(ctx)
		require.NotEmpty(t, q)
		require.False(t, seen[q], "quote repeated within one rotation: %s", q)
		seen[q] = true
	}

	// The rotation wraps around.
	require.Equal(t, fallback[0], p.Next(ctx))
}

func TestNextUsesFeedItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0"?>
<rss version="2.0"><channel><title>quotes</title>
<item><title>Stay curious.</title></item>
<item><title></title><description>Show up every day.</description></item>
</channel></rss>`)
	}))
	defer srv.Close()

	p := NewProvider([]Feed{{Name: "test", URL: srv.URL}})
	ctx := context.Background()

	require.Equal(t, "Stay curious.", p.Next(ctx))
	require.Equal(t, "Show up every day.", p.Next(ctx))
	require.Equal(t, "Stay curious.", p.Next(ctx))
}

func TestNextFallsBackWhenFeedIsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewProvider([]Feed{{Name: "broken", URL: srv.URL}})
	require.Equal(t, fallback[0], p.Next(context.Background()))
}
