package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
)

func TestWebhookRepositoryImplementations(t *testing.T) {
	repositories := createRepoManagers(t)

	for i := range repositories {
		repo := repositories[i]

		t.Run(repo.Name, func(t *testing.T) {
			testWebhooks(t, repo)
		})
	}
}

func testWebhooks(t *testing.T, repo repoManager) {
	ctx := context.Background()
	hookRepo := repo.DBManager.WebhookRepository()

	settled, err := domain.NewWebhook(
		domain.DealSettledTopic, "http://localhost:8080/settled", "secret",
	)
	require.NoError(t, err)
	anyHook, err := domain.NewWebhook(
		domain.AnyTopic, "http://localhost:8080/all", "",
	)
	require.NoError(t, err)

	require.NoError(t, hookRepo.AddWebhook(ctx, settled))
	require.NoError(t, hookRepo.AddWebhook(ctx, anyHook))

	hook, err := hookRepo.GetWebhook(ctx, settled.ID)
	require.NoError(t, err)
	require.Equal(t, *settled, *hook)

	hooks, err := hookRepo.ListWebhooksForTopic(ctx, domain.DealSettledTopic)
	require.NoError(t, err)
	require.Len(t, hooks, 1)

	hooks, err = hookRepo.ListWebhooksForTopic(ctx, "")
	require.NoError(t, err)
	require.Len(t, hooks, 2)

	require.NoError(t, hookRepo.RemoveWebhook(ctx, settled.ID))
	err = hookRepo.RemoveWebhook(ctx, settled.ID)
	require.ErrorIs(t, err, domain.ErrWebhookNotFound)

	_, err = hookRepo.GetWebhook(ctx, settled.ID)
	require.ErrorIs(t, err, domain.ErrWebhookNotFound)

	hooks, err = hookRepo.ListWebhooksForTopic(ctx, "")
	require.NoError(t, err)
	require.Len(t, hooks, 1)
	require.Equal(t, anyHook.ID, hooks[0].ID)
}
