// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package covers

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/shelf-engine/pkg/types"
)

// pngBytes encodes a width x height PNG for test servers.
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func imageServer(t *testing.T, body []byte, status int) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		w.Write(body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestValidImage(t *testing.T) {
	ts := imageServer(t, pngBytes(t, 150, 200), http.StatusOK)

	c := NewChecker(types.CoversConfig{})
	assert.True(t, c.Valid(context.Background(), ts.URL))
}

func TestPlaceholderPixelIsBroken(t *testing.T) {
	ts := imageServer(t, pngBytes(t, 1, 1), http.StatusOK)

	c := NewChecker(types.CoversConfig{})
	assert.False(t, c.Valid(context.Background(), ts.URL))
}

func TestNotFoundIsBroken(t *testing.T) {
	ts := imageServer(t, nil, http.StatusNotFound)

	c := NewChecker(types.CoversConfig{})
	assert.False(t, c.Valid(context.Background(), ts.URL))
}

func TestNonImagePayloadIsBroken(t *testing.T) {
	ts := imageServer(t, []byte("<html>not an image</html>"), http.StatusOK)

	c := NewChecker(types.CoversConfig{})
	assert.False(t, c.Valid(context.Background(), ts.URL))
}

func TestEmptyURLIsBroken(t *testing.T) {
	c := NewChecker(types.CoversConfig{})
	assert.False(t, c.Valid(context.Background(), ""))
}

func TestBrokenURLMemoized(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(ts.Close)

	c := NewChecker(types.CoversConfig{})
	assert.False(t, c.Valid(context.Background(), ts.URL))
	assert.False(t, c.Valid(context.Background(), ts.URL))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second check should hit the broken cache")
}

func TestURLSubstitutesPlaceholder(t *testing.T) {
	good := imageServer(t, pngBytes(t, 150, 200), http.StatusOK)
	bad := imageServer(t, nil, http.StatusNotFound)

	c := NewChecker(types.CoversConfig{})
	ctx := context.Background()

	assert.Equal(t, good.URL, c.URL(ctx, types.Book{ImageURL: good.URL}))
	assert.Equal(t, PlaceholderURL, c.URL(ctx, types.Book{ImageURL: bad.URL}))
	assert.Equal(t, PlaceholderURL, c.URL(ctx, types.Book{}))
}
