package gateways

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	domainerrors "sampark/contexts/voter-outreach/campaign-service/domain/errors"
)

const maxResponseBytes = 1 << 20

// httpDoer lets tests substitute the transport.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// postJSON issues a JSON request and decodes a JSON response into out (when
// out is non-nil). Transport failures and provider rejections come back as
// *domainerrors.GatewayError with the retry classification applied.
func postJSON(ctx context.Context, client httpDoer, provider string, endpoint string, headers map[string]string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &domainerrors.GatewayError{Provider: provider, Cause: "encode request", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &domainerrors.GatewayError{Provider: provider, Cause: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	return doRequest(client, provider, req, out)
}

// postForm issues a form-encoded request, used by the telephony providers.
func postForm(ctx context.Context, client httpDoer, provider string, endpoint string, headers map[string]string, values url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader([]byte(values.Encode())))
	if err != nil {
		return &domainerrors.GatewayError{Provider: provider, Cause: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	return doRequest(client, provider, req, out)
}

func doRequest(client httpDoer, provider string, req *http.Request, out any) error {
	if client == nil {
		client = defaultHTTPClient()
	}
	resp, err := client.Do(req)
	if err != nil {
		return &domainerrors.GatewayError{
			Provider:  provider,
			Cause:     "transport",
			Temporary: isTemporaryNetErr(err),
			Err:       err,
		}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &domainerrors.GatewayError{Provider: provider, Cause: "read response", Temporary: true, Err: err}
	}
	if resp.StatusCode >= 400 {
		return &domainerrors.GatewayError{
			Provider:  provider,
			Cause:     "status " + resp.Status,
			Temporary: isTemporaryStatus(resp.StatusCode),
			Err:       errors.New(string(payload)),
		}
	}
	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return &domainerrors.GatewayError{Provider: provider, Cause: "decode response", Err: err}
		}
	}
	return nil
}

// isTemporaryStatus marks server-side and throttling statuses as retryable;
// other 4xx responses are provider rejections that a retry cannot fix.
func isTemporaryStatus(status int) bool {
	return status >= 500 || status == http.StatusTooManyRequests || status == http.StatusRequestTimeout
}

func isTemporaryNetErr(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
