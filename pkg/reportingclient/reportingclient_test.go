package reportingclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gaze-network/grc20-indexer/common"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name   string
		config Config
		err    error
	}{
		{"valid", Config{URL: "https://api.opi.network/report_block", Name: "test"}, nil},
		{"missing url", Config{Name: "test"}, errs.InvalidArgument},
		{"missing name", Config{URL: "https://api.opi.network/report_block"}, errs.InvalidArgument},
		{"negative retries", Config{URL: "https://api.opi.network/report_block", Name: "test", Retries: -1}, errs.InvalidArgument},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client, err := New(tc.config)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.config.Name, client.config.Name)
			assert.Equal(t, DefaultRetries, client.config.Retries)
		})
	}
}

func newTestServer(t *testing.T, statuses ...int) (*httptest.Server, *atomic.Int32, chan SubmitBlockReportPayload) {
	t.Helper()
	var calls atomic.Int32
	payloads := make(chan SubmitBlockReportPayload, 16)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1))
		body, err := io.ReadAll(r.Body)
		if assert.NoError(t, err) {
			var payload SubmitBlockReportPayload
			if assert.NoError(t, json.Unmarshal(body, &payload)) {
				payloads <- payload
			}
		}
		status := statuses[len(statuses)-1]
		if n <= len(statuses) {
			status = statuses[n-1]
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server, &calls, payloads
}

func TestSubmitBlockReport(t *testing.T) {
	payload := SubmitBlockReportPayload{
		Type:                "grc20",
		NodeType:            "full_node",
		Network:             common.NetworkRegtest,
		BlockHeight:         100,
		BlockHash:           "00",
		BlockEventHash:      "aa",
		CumulativeEventHash: "bb",
	}

	t.Run("success after retries", func(t *testing.T) {
		server, calls, payloads := newTestServer(t, http.StatusInternalServerError, http.StatusBadGateway, http.StatusOK)
		client, err := New(Config{URL: server.URL, Name: "test-node", Retries: 5, RetryDelay: time.Millisecond})
		require.NoError(t, err)

		require.NoError(t, client.SubmitBlockReport(context.Background(), payload))
		assert.Equal(t, int32(3), calls.Load())

		received := <-payloads
		assert.Equal(t, "test-node", received.Name)
		assert.Equal(t, payload.CumulativeEventHash, received.CumulativeEventHash)
		assert.Equal(t, common.NetworkRegtest, received.Network)
	})

	t.Run("give up", func(t *testing.T) {
		server, calls, _ := newTestServer(t, http.StatusInternalServerError)
		client, err := New(Config{URL: server.URL, Name: "test-node", Retries: 3, RetryDelay: time.Millisecond})
		require.NoError(t, err)

		assert.NoError(t, client.SubmitBlockReport(context.Background(), payload))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("canceled", func(t *testing.T) {
		server, calls, _ := newTestServer(t, http.StatusInternalServerError)
		client, err := New(Config{URL: server.URL, Name: "test-node", Retries: 3, RetryDelay: time.Hour})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, client.SubmitBlockReport(ctx, payload), context.Canceled)
		assert.Zero(t, calls.Load())
	})
}
