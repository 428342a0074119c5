package validate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// InfoPath is the endpoint every server answers without authentication.
const InfoPath = "/api/info"

const maxInfoBody = 1 << 20

// HTTPProber probes candidates over HTTP(S) by fetching InfoPath.
type HTTPProber struct {
	Client *http.Client
}

// Probe classifies candidate: 401 is NeedsAuth, a 2xx JSON body with a
// version is Valid, a deadline is Timeout, anything else is Invalid.
// Credentials embedded in the URL are sent as basic auth by net/http.
func (p HTTPProber) Probe(ctx context.Context, candidate string) Status {
	if !HasScheme(candidate) {
		return StatusInvalid
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(candidate, "/")+InfoPath, nil)
	if err != nil {
		return StatusInvalid
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return StatusNeedsAuth
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return StatusInvalid
	}
	var info struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxInfoBody)).Decode(&info); err != nil {
		return classifyTransportError(ctx, err)
	}
	if info.Version == "" {
		return StatusInvalid
	}
	return StatusValid
}

func classifyTransportError(ctx context.Context, err error) Status {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return StatusTimeout
	}
	return StatusInvalid
}

// TrimInfoPath strips a trailing InfoPath, as reported by certificate
// prompts that name the probe URL instead of the server.
func TrimInfoPath(url string) string {
	return strings.TrimSuffix(url, InfoPath)
}
