package signer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testID = "3f2b8c1e-4d5a-4b6c-8d7e-9f0a1b2c3d4e"

var testTxJSON = json.RawMessage(`{"TransactionType":"EscrowCreate","Account":"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"}`)

type fakeSigner struct {
	status atomic.Value // string, json body of payload status
	code   int32        // status code of payload status
	polls  int32
	create func(w http.ResponseWriter, r *http.Request)
}

func newFakeSigner(t *testing.T) (*fakeSigner, *httptest.Server) {
	fs := &fakeSigner{code: http.StatusOK}
	fs.status.Store(`{"meta":{"exists":true}}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "key" || r.Header.Get("X-API-Secret") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/platform/payload":
			fs.create(w, r)
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/platform/payload/"+testID:
			atomic.AddInt32(&fs.polls, 1)
			w.WriteHeader(int(atomic.LoadInt32(&fs.code)))
			_, _ = w.Write([]byte(fs.status.Load().(string)))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return fs, srv
}

func newTestCoordinator(t *testing.T, apiAddress string) *Coordinator {
	c, err := NewCoordinator(&Config{
		APIAddress: apiAddress,
		APIKey:     "key",
		APISecret:  "secret",
		Timeout:    2,
	})
	require.NoError(t, err)
	return c
}

func TestCreateSignRequest(t *testing.T) {
	fs, srv := newFakeSigner(t)
	fs.create = func(w http.ResponseWriter, r *http.Request) {
		var args map[string]json.RawMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&args))
		assert.JSONEq(t, string(testTxJSON), string(args["txjson"]))
		assert.JSONEq(t, `{"instruction":"Lock 10 XRP"}`, string(args["custom_meta"]))
		_, _ = w.Write([]byte(`{"uuid":"` + testID + `","next":{"always":"https://sign.example/` + testID + `"}}`))
	}
	c := newTestCoordinator(t, srv.URL+"/api/v1/platform/")

	req, err := c.CreateSignRequest(context.Background(), testTxJSON, "Lock 10 XRP")
	require.NoError(t, err)
	assert.Equal(t, testID, req.ID)
	assert.Equal(t, StatePending, req.State)
	assert.Equal(t, "https://sign.example/"+testID, req.NextURL)
}

func TestCreateSignRequestErrors(t *testing.T) {
	fs, srv := newFakeSigner(t)
	fs.create = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"next":{}}`))
	}
	c := newTestCoordinator(t, srv.URL+"/api/v1/platform")

	_, err := c.CreateSignRequest(context.Background(), nil, "")
	require.ErrorIs(t, err, ErrEmptyTxJSON)

	_, err = c.CreateSignRequest(context.Background(), testTxJSON, "")
	require.ErrorIs(t, err, ErrWrongSignerResponse)
}

func TestPollSignRequestStates(t *testing.T) {
	tests := []struct {
		name   string
		status string
		state  SignState
	}{
		{"pending", `{"meta":{"exists":true}}`, StatePending},
		{"cancelled", `{"meta":{"exists":true,"resolved":true,"cancelled":true}}`, StateCancelled},
		{"declined", `{"meta":{"exists":true,"resolved":true,"signed":false}}`, StateCancelled},
		{"expired", `{"meta":{"exists":true,"expired":true}}`, StateExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, srv := newFakeSigner(t)
			fs.status.Store(tt.status)
			c := newTestCoordinator(t, srv.URL+"/api/v1/platform")

			req, err := c.PollSignRequest(context.Background(), testID)
			require.NoError(t, err)
			assert.Equal(t, tt.state, req.State)
			assert.Empty(t, req.SignedPayload)
			assert.Empty(t, req.LastError)
		})
	}
}

func TestPollSignRequestSignedIsCached(t *testing.T) {
	fs, srv := newFakeSigner(t)
	hexBlob := strings.Repeat("AB", 80)
	fs.status.Store(`{"meta":{"exists":true,"resolved":true,"signed":true},
		"payload":{"request_json":{"TransactionType":"Payment"}},
		"response":{"hex":"` + hexBlob + `","txid":"ABCD","account":"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"}}`)
	c := newTestCoordinator(t, srv.URL+"/api/v1/platform")

	for i := 0; i < 3; i++ {
		req, err := c.PollSignRequest(context.Background(), testID)
		require.NoError(t, err)
		assert.Equal(t, StateSigned, req.State)
		assert.Equal(t, hexBlob, req.SignedPayload)
		assert.Equal(t, "ABCD", req.TxHash)
		assert.Equal(t, "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", req.Signer)
		assert.JSONEq(t, `{"TransactionType":"Payment"}`, string(req.TxJSON))
		req.State = StatePending // callers cannot alter the cached result
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&fs.polls))

	c.Release(testID)
	_, err := c.PollSignRequest(context.Background(), testID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&fs.polls))
}

func TestPollSignRequestSignedWithoutPayload(t *testing.T) {
	fs, srv := newFakeSigner(t)
	fs.status.Store(`{"meta":{"exists":true,"signed":true}}`)
	c := newTestCoordinator(t, srv.URL+"/api/v1/platform")

	req, err := c.PollSignRequest(context.Background(), testID)
	require.NoError(t, err)
	assert.Equal(t, StatePending, req.State)
	assert.NotEmpty(t, req.LastError)
}

func TestPollSignRequestNotFound(t *testing.T) {
	fs, srv := newFakeSigner(t)
	c := newTestCoordinator(t, srv.URL+"/api/v1/platform")

	_, err := c.PollSignRequest(context.Background(), "other-id")
	require.ErrorIs(t, err, ErrSignRequestNotFound)

	fs.status.Store(`{"meta":{"exists":false}}`)
	_, err = c.PollSignRequest(context.Background(), testID)
	require.ErrorIs(t, err, ErrSignRequestNotFound)

	_, err = c.PollSignRequest(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptyRequestID)
}

func TestPollSignRequestServerError(t *testing.T) {
	fs, srv := newFakeSigner(t)
	atomic.StoreInt32(&fs.code, http.StatusBadGateway)
	fs.status.Store(`bad gateway`)
	c := newTestCoordinator(t, srv.URL+"/api/v1/platform")

	req, err := c.PollSignRequest(context.Background(), testID)
	require.NoError(t, err)
	assert.Equal(t, StatePending, req.State)
	assert.Contains(t, req.LastError, "502")

	atomic.StoreInt32(&fs.code, http.StatusOK)
	fs.status.Store(`{"meta":{"exists":true,"expired":true}}`)
	req, err = c.PollSignRequest(context.Background(), testID)
	require.NoError(t, err)
	assert.Equal(t, StateExpired, req.State)
	assert.Empty(t, req.LastError)
}

func TestPollSignRequestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	address := srv.URL
	srv.Close()
	c := newTestCoordinator(t, address)

	req, err := c.PollSignRequest(context.Background(), testID)
	require.NoError(t, err)
	assert.Equal(t, StatePending, req.State)
	assert.NotEmpty(t, req.LastError)
}

func TestPollSignRequestUnauthorized(t *testing.T) {
	_, srv := newFakeSigner(t)
	c, err := NewCoordinator(&Config{APIAddress: srv.URL + "/api/v1/platform", APIKey: "key", APISecret: "wrong"})
	require.NoError(t, err)

	_, err = c.PollSignRequest(context.Background(), testID)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrSignRequestNotFound)
}

func TestPollSignRequestCallerCancelled(t *testing.T) {
	_, srv := newFakeSigner(t)
	c := newTestCoordinator(t, srv.URL+"/api/v1/platform")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.PollSignRequest(ctx, testID)
	require.ErrorIs(t, err, context.Canceled)
}

func TestConfigCheck(t *testing.T) {
	tests := []struct {
		cfg Config
		ok  bool
	}{
		{Config{APIAddress: "https://signer.example/api", APIKey: "k", APISecret: "s"}, true},
		{Config{APIKey: "k", APISecret: "s"}, false},
		{Config{APIAddress: "signer.example", APIKey: "k", APISecret: "s"}, false},
		{Config{APIAddress: "https://signer.example", APIKey: "k"}, false},
		{Config{APIAddress: "https://signer.example", APIKey: "k", APISecret: "s", Timeout: -1}, false},
	}
	for i, tt := range tests {
		err := tt.cfg.CheckConfig()
		assert.Equal(t, tt.ok, err == nil, "case %d: %v", i, err)
	}
	cfg := &Config{}
	assert.Equal(t, defaultTimeout, cfg.GetTimeout())
	assert.Equal(t, "https://x/payload/a%2Fb", (&Config{APIAddress: "https://x/"}).payloadURL("a/b"))
}
