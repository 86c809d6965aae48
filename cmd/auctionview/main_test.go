package main

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"

	"gem-auction/internal/config"
	"gem-auction/internal/liveauction"

	"github.com/stretchr/testify/require"
)

// countingOpener wraps openBackend and counts cleanup calls
func countingOpener(cleaned *atomic.Int32) backendOpener {
	return func(ctx context.Context, cfg config.Config, apiURL string, offline bool) (liveauction.Backend, func(), error) {
		backend, cleanup, err := openBackend(ctx, cfg, apiURL, offline)
		if err != nil {
			return nil, nil, err
		}
		return backend, func() {
			cleaned.Add(1)
			cleanup()
		}, nil
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "offline_watch",
			args:       []string{"-offline", "-watch", "100ms"},
			wantCode:   0,
			wantStdout: "Quick bids:",
		},
		{
			name:       "unknown_auction",
			args:       []string{"-offline", "-auction", "missing", "-watch", "1s"},
			wantCode:   1,
			wantStderr: "auctionview:",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			var cleaned atomic.Int32
			code := run(tc.args, &stdout, &stderr, countingOpener(&cleaned))

			require.Equal(t, tc.wantCode, code, stderr.String())
			require.Equal(t, int32(1), cleaned.Load(), "backend cleanup runs on every exit path")
			require.Contains(t, stdout.String(), tc.wantStdout)
			require.Contains(t, stderr.String(), tc.wantStderr)
		})
	}
}

func TestRun_BadFlag(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	var cleaned atomic.Int32
	require.Equal(t, 2, run([]string{"-no-such-flag"}, &stdout, &stderr, countingOpener(&cleaned)))
	require.Zero(t, cleaned.Load())
}
