package whttp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("BAND,OUTPUT,INPUT\n"))
	}))
	defer server.Close()

	client, err := NewClient(Options{UserAgent: "test-agent"})
	require.NoError(t, err)

	body, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "BAND,OUTPUT,INPUT\n", string(body))
}

func TestFetchDecodesLatin1(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// 0xA7 is the section sign in Latin-1.
		_, _ = w.Write([]byte{'1', '4', '6', '.', '6', '2', '0', 0xA7})
	}))
	defer server.Close()

	client, err := NewClient(Options{})
	require.NoError(t, err)

	body, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "146.620§", string(body))
}

func TestFetchNonSuccessStatus(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("<html><head><title>Down for maintenance</title></head></html>"))
	}))
	defer server.Close()

	client, err := NewClient(Options{})
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, http.StatusServiceUnavailable, terr.StatusCode)
	assert.Equal(t, "Down for maintenance", terr.Title)
	assert.Equal(t, int32(1), hits.Load(), "fetch must not retry")
}

func TestFetchNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient(Options{Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), url)
	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Zero(t, terr.StatusCode)
	assert.NotNil(t, terr.Err)
}

func TestNewClientInvalidProxy(t *testing.T) {
	_, err := NewClient(Options{Proxy: "://bad"})
	assert.Error(t, err)
}

func TestPageTitle(t *testing.T) {
	title, ok := PageTitle("<html><head><title>\n Utah Repeaters \r\n</title></head></html>")
	require.True(t, ok)
	assert.Equal(t, "Utah Repeaters", title)

	_, ok = PageTitle("BAND,OUTPUT")
	assert.False(t, ok)
}

func TestPacerFloorAndSpacing(t *testing.T) {
	p := NewPacer(10 * time.Millisecond)
	assert.Equal(t, MinPace, p.Delay())

	ctx := context.Background()
	start := time.Now()
	require.NoError(t, p.Wait(ctx))
	assert.Less(t, time.Since(start), MinPace/2, "first wait should not block")

	require.NoError(t, p.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), MinPace-20*time.Millisecond)
}

func TestPacerDoneRestartsDelay(t *testing.T) {
	p := NewPacer(MinPace)
	ctx := context.Background()
	require.NoError(t, p.Wait(ctx))

	// A request slower than the delay still leaves a full gap before the next one.
	time.Sleep(MinPace + 100*time.Millisecond)
	p.Done()

	start := time.Now()
	require.NoError(t, p.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), MinPace-20*time.Millisecond)
}

func TestPacerHonoursContext(t *testing.T) {
	p := NewPacer(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.Wait(ctx))
	cancel()
	assert.Error(t, p.Wait(ctx))
}
