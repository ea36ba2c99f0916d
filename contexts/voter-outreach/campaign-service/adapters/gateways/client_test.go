package gateways

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	domainerrors "sampark/contexts/voter-outreach/campaign-service/domain/errors"
)

type stubDoer struct {
	status int
	body   string
	err    error
}

func (d stubDoer) Do(_ *http.Request) (*http.Response, error) {
	if d.err != nil {
		return nil, d.err
	}
	return &http.Response{
		StatusCode: d.status,
		Status:     http.StatusText(d.status),
		Body:       io.NopCloser(bytes.NewReader([]byte(d.body))),
	}, nil
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func gatewayErrFrom(t *testing.T, err error) *domainerrors.GatewayError {
	t.Helper()
	var gatewayErr *domainerrors.GatewayError
	if !errors.As(err, &gatewayErr) {
		t.Fatalf("expected gateway error, got %v", err)
	}
	return gatewayErr
}

func TestDoRequestRetryClassification(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name      string
		doer      stubDoer
		temporary bool
	}{
		{"server error", stubDoer{status: 502, body: "bad gateway"}, true},
		{"throttled", stubDoer{status: 429, body: "slow down"}, true},
		{"request timeout", stubDoer{status: 408, body: "timeout"}, true},
		{"rejected", stubDoer{status: 400, body: "invalid number"}, false},
		{"unauthorized", stubDoer{status: 401, body: "bad key"}, false},
		{"network timeout", stubDoer{err: timeoutErr{}}, true},
		{"cancelled", stubDoer{err: context.Canceled}, false},
	}
	for _, tc := range cases {
		err := postJSON(ctx, tc.doer, "test", "http://provider.invalid/send", nil, map[string]string{}, nil)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if gatewayErrFrom(t, err).Temporary != tc.temporary {
			t.Fatalf("%s: Temporary = %v, want %v", tc.name, !tc.temporary, tc.temporary)
		}
	}
}

func TestDoRequestDecodesResponse(t *testing.T) {
	var out struct {
		RequestID string `json:"request_id"`
	}
	err := postJSON(context.Background(), stubDoer{status: 200, body: `{"request_id":"req-1"}`},
		"test", "http://provider.invalid/send", nil, map[string]string{}, &out)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if out.RequestID != "req-1" {
		t.Fatalf("expected decoded response, got %+v", out)
	}
}

func TestRouteMobileSend(t *testing.T) {
	gateway := RouteMobileGateway{
		Username: "acct",
		Password: "secret",
		Client:   stubDoer{status: 200, body: `{"status":"1701","msg_id":"rml-1"}`},
	}
	result, err := gateway.Send(context.Background(), entities.Message{
		Sender:    "SAMPRK",
		Recipient: "+919800000001",
		Content:   "Polling booth details inside",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if result.Status != entities.MessageStatusSent {
		t.Fatalf("expected sent, got %s", result.Status)
	}
	if result.Metadata["provider_message_id"] != "rml-1" {
		t.Fatalf("expected provider message id, got %v", result.Metadata)
	}
}
