package main

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeto-network/zeto-escrowd/internal/core/application/escrow"
	"github.com/zeto-network/zeto-escrowd/internal/core/application/operator"
	"github.com/zeto-network/zeto-escrowd/internal/core/application/pubsub"
	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
	"github.com/zeto-network/zeto-escrowd/internal/core/ports"
	"github.com/zeto-network/zeto-escrowd/internal/infrastructure/clock"
	pubsubinfra "github.com/zeto-network/zeto-escrowd/internal/infrastructure/pubsub"
	"github.com/zeto-network/zeto-escrowd/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/zeto-network/zeto-escrowd/internal/interfaces/http"
)

func startDaemon(t *testing.T) (string, ports.RepoManager) {
	repoManager := inmemory.NewRepoManager()
	ps, err := pubsubinfra.NewService(repoManager.WebhookRepository(), 0)
	require.NoError(t, err)
	pubsubSvc := pubsub.NewService(ps)
	t.Cleanup(pubsubSvc.Close)

	escrowSvc, err := escrow.NewService(
		repoManager, pubsubSvc, clock.NewSystemClock(),
		domain.DefaultFeeSchedule(), "treasury",
	)
	require.NoError(t, err)
	operatorSvc, err := operator.NewService(pubsubSvc, repoManager)
	require.NoError(t, err)

	server := httptest.NewServer(httpinterface.NewHandler(httpinterface.ServiceOpts{
		Port:        9945,
		NoAuth:      true,
		EscrowSvc:   escrowSvc,
		OperatorSvc: operatorSvc,
	}))
	t.Cleanup(server.Close)
	return server.URL, repoManager
}

func runCLICommand(t *testing.T, args ...string) error {
	return newApp().Run(append([]string{"zeto"}, args...))
}

func useTempState(t *testing.T) {
	prev := statePath
	statePath = filepath.Join(t.TempDir(), "state.json")
	t.Cleanup(func() { statePath = prev })
}

func TestConfig(t *testing.T) {
	useTempState(t)

	require.Error(t, runCLICommand(t, "config"))

	require.NoError(t, runCLICommand(
		t, "config", "init", "--rpcserver", "http://localhost:1234",
	))
	require.NoError(t, runCLICommand(t, "config", "set", "caller", "alice"))
	require.Error(t, runCLICommand(t, "config", "set", "caller"))

	state, err := getState()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:1234", state["rpcserver"])
	require.Equal(t, "alice", state["caller"])

	require.NoError(t, runCLICommand(
		t, "config", "token", "--secret", "s3cr3t", "--identity", "alice",
	))
	state, err = getState()
	require.NoError(t, err)
	require.NotEmpty(t, state["token"])
}

func TestDealCommands(t *testing.T) {
	useTempState(t)
	url, repoManager := startDaemon(t)

	require.NoError(t, runCLICommand(t, "config", "init", "--rpcserver", url))
	require.NoError(t, runCLICommand(t, "info"))

	setCaller := func(caller string) {
		require.NoError(t, runCLICommand(t, "config", "set", "caller", caller))
	}

	setCaller("admin")
	require.NoError(t, runCLICommand(
		t, "ledger", "credit", "--owner", "seller", "--asset", "BASE", "--amount", "100",
	))
	require.NoError(t, runCLICommand(
		t, "ledger", "credit", "--owner", "buyer", "--asset", "USDC", "--amount", "1000",
	))

	setCaller("seller")
	require.NoError(t, runCLICommand(
		t, "deal", "init", "--id", "cli-deal", "--buyer", "buyer",
		"--base_asset", "BASE", "--quote_asset", "USDC",
		"--base_amount", "100", "--quote_amount", "1000",
	))
	require.NoError(t, runCLICommand(t, "deal", "fund", "--id", "cli-deal"))
	require.NoError(t, runCLICommand(t, "deal", "quote", "--id", "cli-deal"))

	// Only the buyer can settle.
	require.Error(t, runCLICommand(t, "deal", "settle", "--id", "cli-deal"))

	setCaller("buyer")
	require.NoError(t, runCLICommand(t, "deal", "settle", "--id", "cli-deal"))
	require.NoError(t, runCLICommand(t, "deal", "get", "--id", "cli-deal"))
	require.NoError(t, runCLICommand(t, "deal", "events", "--id", "cli-deal"))
	require.NoError(t, runCLICommand(t, "deal", "list", "--status", "settled"))
	require.NoError(t, runCLICommand(
		t, "ledger", "balance", "--owner", "seller", "--asset", "USDC",
	))

	balance, err := repoManager.Ledger().Balance(
		context.Background(), "seller", "USDC",
	)
	require.NoError(t, err)
	require.Equal(t, uint64(998), balance)

	require.Error(t, runCLICommand(t, "deal", "get", "--id", "unknown"))
}

func TestWebhookCommands(t *testing.T) {
	useTempState(t)
	url, repoManager := startDaemon(t)

	require.NoError(t, runCLICommand(t, "config", "init", "--rpcserver", url, "--caller", "admin"))
	require.NoError(t, runCLICommand(
		t, "webhook", "add", "--endpoint", "http://127.0.0.1:9999/hook",
		"--event", domain.DealSettledTopic,
	))
	require.NoError(t, runCLICommand(t, "webhooks"))

	hooks, err := repoManager.WebhookRepository().ListWebhooksForTopic(
		context.Background(), "",
	)
	require.NoError(t, err)
	require.Len(t, hooks, 1)

	require.NoError(t, runCLICommand(t, "webhook", "remove", "--id", hooks[0].ID))
	require.Error(t, runCLICommand(t, "webhook", "remove", "--id", hooks[0].ID))
}
