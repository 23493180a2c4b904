package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"
)

// maxCurlOutput caps how much stdout the external process may produce;
// anything past it fails the call. Bulletin listings are large HTML
// pages but stay well under this.
const maxCurlOutput = 10 << 20 // 10 MB

// CurlFetcher re-issues a request as a shell invocation of an external
// HTTP client binary. The statistics portal sometimes rejects the native
// client fingerprint; this path is deliberate redundancy, not a
// correctness guarantee. No timeout is enforced beyond the process's own
// behavior - callers impose an outer deadline via ctx if they need one.
type CurlFetcher struct {
	binary    string
	userAgent string
	logger    arbor.ILogger
}

// NewCurlFetcher creates the external-process Fetcher. binary defaults to
// "curl" when empty.
func NewCurlFetcher(binary, userAgent string, logger arbor.ILogger) *CurlFetcher {
	if binary == "" {
		binary = "curl"
	}
	return &CurlFetcher{
		binary:    binary,
		userAgent: userAgent,
		logger:    logger,
	}
}

// shellQuote wraps s in single quotes, escaping embedded single quotes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// buildCommand renders the request as one shell command line.
func (f *CurlFetcher) buildCommand(req *Request) string {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	parts := []string{f.binary, "-s", "-X", method, shellQuote(req.URL)}

	headers := defaultHeaders(f.userAgent)
	if req.Form != nil {
		headers["Content-Type"] = "application/x-www-form-urlencoded"
	}
	for k, v := range req.Header {
		headers[k] = v
	}
	// Stable ordering keeps the command reproducible across runs
	for _, k := range sortedKeys(headers) {
		parts = append(parts, "-H", shellQuote(k+": "+headers[k]))
	}

	if req.Form != nil {
		parts = append(parts, "--data", shellQuote(req.Form.Encode()))
	}

	return strings.Join(parts, " ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Do executes the command and returns stdout as the response body. Any
// execution error or empty stdout is a failure the caller must treat
// exactly like an HTTP failure: skip this source for this run.
func (f *CurlFetcher) Do(ctx context.Context, req *Request) (*Response, error) {
	command := f.buildCommand(req)

	if f.logger != nil {
		f.logger.Debug().Str("url", req.URL).Msg("Executing fallback HTTP client")
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open fallback stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start fallback command: %w", err)
	}

	// Read one byte past the cap so an over-limit response is detectable,
	// then drain whatever remains: a full pipe would leave the child
	// blocked in write and Wait below would never return.
	body, readErr := io.ReadAll(io.LimitReader(stdout, maxCurlOutput+1))
	_, _ = io.Copy(io.Discard, stdout)
	waitErr := cmd.Wait()

	if readErr != nil {
		return nil, fmt.Errorf("failed to read fallback output: %w", readErr)
	}
	if waitErr != nil {
		return nil, fmt.Errorf("fallback command failed: %w", waitErr)
	}
	if len(body) > maxCurlOutput {
		return nil, fmt.Errorf("fallback output for %s exceeded %d bytes", req.URL, maxCurlOutput)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("fallback command for %s produced no output", req.URL)
	}

	// The external client swallows the status line; a non-empty body is
	// the success signal on this path.
	return &Response{StatusCode: http.StatusOK, Body: body}, nil
}
