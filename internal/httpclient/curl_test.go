package httpclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurlFetcher_BuildCommand(t *testing.T) {
	form := url.Values{}
	form.Set("UstId", "106")
	form.Set("DilId", "1")

	f := NewCurlFetcher("curl", "test-agent", nil)
	cmd := f.buildCommand(&Request{
		Method: http.MethodPost,
		URL:    "https://data.example.gov.tr/Bulten/GetBultenList",
		Form:   form,
	})

	assert.True(t, strings.HasPrefix(cmd, "curl -s -X POST 'https://data.example.gov.tr/Bulten/GetBultenList'"))
	assert.Contains(t, cmd, "-H 'User-Agent: test-agent'")
	assert.Contains(t, cmd, "-H 'Content-Type: application/x-www-form-urlencoded'")
	assert.Contains(t, cmd, "--data '"+form.Encode()+"'")
}

func TestCurlFetcher_BuildCommandQuoting(t *testing.T) {
	f := NewCurlFetcher("curl", "agent", nil)
	cmd := f.buildCommand(&Request{
		URL: "https://example.com/path?q=o'brien",
	})

	// Embedded single quotes must not break out of the shell argument
	assert.Contains(t, cmd, `'https://example.com/path?q=o'\''brien'`)
}

func TestCurlFetcher_DefaultsToGet(t *testing.T) {
	f := NewCurlFetcher("", "agent", nil)
	cmd := f.buildCommand(&Request{URL: "https://example.com/"})

	assert.True(t, strings.HasPrefix(cmd, "curl -s -X GET"))
}

func TestCurlFetcher_Do(t *testing.T) {
	// "echo" stands in for the HTTP client binary: the rendered arguments
	// become stdout, which is enough to exercise the exec path.
	f := NewCurlFetcher("echo", "agent", nil)
	resp, err := f.Do(context.Background(), &Request{URL: "https://example.com/"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "https://example.com/")
}

func TestCurlFetcher_EmptyOutputIsFailure(t *testing.T) {
	// "true" ignores its arguments and exits 0 without producing output;
	// that must still count as a failed fetch.
	f := NewCurlFetcher("true", "agent", nil)
	_, err := f.Do(context.Background(), &Request{URL: "https://example.com/"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no output")
}

func TestCurlFetcher_OversizedOutputFailsWithoutHanging(t *testing.T) {
	// The trailing "#" comments out the rendered curl arguments, so the
	// command degenerates to head emitting more than the output cap. The
	// fetcher must drain past the cap and fail; before the drain step an
	// over-limit child blocked forever on a full stdout pipe.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	f := NewCurlFetcher("head -c 11500000 /dev/zero #", "agent", nil)
	_, err := f.Do(ctx, &Request{URL: "https://example.com/"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded")
	require.NoError(t, ctx.Err(), "fetcher must settle well before the deadline")
}

func TestCurlFetcher_ExecErrorIsFailure(t *testing.T) {
	f := NewCurlFetcher("/nonexistent-http-client", "agent", nil)
	_, err := f.Do(context.Background(), &Request{URL: "https://example.com/"})
	require.Error(t, err)
}
