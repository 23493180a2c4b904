package httpclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher records calls and returns a canned outcome.
type fakeFetcher struct {
	calls int
	resp  *Response
	err   error
}

func (f *fakeFetcher) Do(ctx context.Context, req *Request) (*Response, error) {
	f.calls++
	return f.resp, f.err
}

func TestFallbackFetcher_PrimarySucceeds(t *testing.T) {
	primary := &fakeFetcher{resp: &Response{StatusCode: 200, Body: []byte("primary")}}
	secondary := &fakeFetcher{resp: &Response{StatusCode: 200, Body: []byte("secondary")}}

	f := NewFallbackFetcher(primary, secondary, false, nil)
	resp, err := f.Do(context.Background(), &Request{URL: "https://example.com/"})
	require.NoError(t, err)

	assert.Equal(t, "primary", string(resp.Body))
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, secondary.calls, "secondary must not run when the primary succeeds")
}

func TestFallbackFetcher_PrimaryFails(t *testing.T) {
	primary := &fakeFetcher{err: errors.New("connection reset")}
	secondary := &fakeFetcher{resp: &Response{StatusCode: 200, Body: []byte("secondary")}}

	f := NewFallbackFetcher(primary, secondary, false, nil)
	resp, err := f.Do(context.Background(), &Request{URL: "https://example.com/"})
	require.NoError(t, err)

	assert.Equal(t, "secondary", string(resp.Body))
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestFallbackFetcher_BothFail(t *testing.T) {
	primary := &fakeFetcher{err: errors.New("primary down")}
	secondary := &fakeFetcher{err: errors.New("secondary down")}

	f := NewFallbackFetcher(primary, secondary, false, nil)
	_, err := f.Do(context.Background(), &Request{URL: "https://example.com/"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secondary down")
}

func TestFallbackFetcher_Force(t *testing.T) {
	primary := &fakeFetcher{resp: &Response{StatusCode: 200, Body: []byte("primary")}}
	secondary := &fakeFetcher{resp: &Response{StatusCode: 200, Body: []byte("secondary")}}

	f := NewFallbackFetcher(primary, secondary, true, nil)
	resp, err := f.Do(context.Background(), &Request{URL: "https://example.com/"})
	require.NoError(t, err)

	assert.Equal(t, "secondary", string(resp.Body))
	assert.Equal(t, 0, primary.calls, "force must skip the primary entirely")
}
