package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_BrowserHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(WithUserAgent("test-agent"))
	resp, err := client.Do(context.Background(), &Request{URL: server.URL})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []byte("ok"), resp.Body)
	assert.Equal(t, "test-agent", got.Get("User-Agent"))
	assert.Equal(t, "https://www.google.com/", got.Get("Referer"))
	assert.Equal(t, "1", got.Get("Upgrade-Insecure-Requests"))
	assert.Contains(t, got.Get("Accept-Language"), "tr-TR")
}

func TestClient_HeaderOverride(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient()
	_, err := client.Do(context.Background(), &Request{
		URL:    server.URL,
		Header: map[string]string{"Referer": "https://example.com/", "Origin": "https://example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/", got.Get("Referer"))
	assert.Equal(t, "https://example.com", got.Get("Origin"))
}

func TestClient_FormPost(t *testing.T) {
	var gotMethod, gotContentType, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotBody = r.PostForm.Encode()
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	form := url.Values{}
	form.Set("UstId", "106")
	form.Set("DilId", "1")
	form.Add("VeriYillari", "2024")
	form.Add("VeriYillari", "2025")

	client := NewClient()
	_, err := client.Do(context.Background(), &Request{
		Method: http.MethodPost,
		URL:    server.URL,
		Form:   form,
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, form.Encode(), gotBody)
}

func TestClient_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient()
	resp, err := client.Do(context.Background(), &Request{URL: server.URL})
	require.Error(t, err)
	assert.Nil(t, resp)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "backend exploded")
}

func TestClient_TransportError(t *testing.T) {
	client := NewClient()
	// Connection refused: nothing listens on this port
	_, err := client.Do(context.Background(), &Request{URL: "http://127.0.0.1:1/nope"})
	require.Error(t, err)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr), "transport errors must not masquerade as status errors")
}
