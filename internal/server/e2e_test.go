package server

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/client/client"
	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/server/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClientAgainstInMemoryBackend drives the device-side gRPC client against
// a real backend instance.
func TestClientAgainstInMemoryBackend(t *testing.T) {
	cfg := &config.Config{
		EndpointAddrGRPC:            freeAddr(t),
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Minute,
		LogLevel:                    "error",
	}
	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go app.Run(ctx)

	c, err := client.NewGRPCClient(cfg.EndpointAddrGRPC)
	require.NoError(t, err)
	defer c.Close()

	require.Eventually(t, func() bool { return c.Ping(ctx) == nil }, 2*time.Second, 20*time.Millisecond)
	require.NoError(t, c.Login(ctx, "device-A"))

	acc := &models.Account{Name: "Cash", Type: models.AccountCash, Currency: "EUR", Balance: decimal.RequireFromString("12.50")}
	acc.SetRecordID(models.NewProvisionalID())
	created, err := c.Create(ctx, acc)
	require.NoError(t, err)

	id := created.RecordID()
	assert.False(t, id.IsProvisional())
	got := created.(*models.Account)
	assert.Equal(t, "device-A", got.UserID)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("12.5")))

	updated, err := c.Update(ctx, models.KindAccount, id, &models.AccountPatch{Name: models.Ptr("Wallet")})
	require.NoError(t, err)
	assert.Equal(t, "Wallet", updated.(*models.Account).Name)
	assert.Equal(t, "EUR", updated.(*models.Account).Currency)

	list, err := c.List(ctx, models.KindAccount)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, c.Delete(ctx, models.KindAccount, id))
	assert.ErrorIs(t, c.Delete(ctx, models.KindAccount, id), client.ErrNotFound)

	// another device never sees device-A's rows
	other, err := client.NewGRPCClient(cfg.EndpointAddrGRPC)
	require.NoError(t, err)
	defer other.Close()
	require.NoError(t, other.Login(ctx, "device-B"))
	_, err = other.Create(ctx, &models.Category{Name: "Food", CategoryType: models.CategoryExpense})
	require.NoError(t, err)
	mine, err := c.List(ctx, models.KindCategory)
	require.NoError(t, err)
	assert.Empty(t, mine)
}
