package server

import (
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/server/config"
	"github.com/dmitrijs2005/fintrack/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, parseLevel("chatty"))
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestApp_InMemoryRunAndStop(t *testing.T) {
	cfg := &config.Config{
		EndpointAddrGRPC:            freeAddr(t),
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Minute,
		LogLevel:                    "error",
	}

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &repomanager.InMemoryRepositoryManager{}, app.repos)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
}
