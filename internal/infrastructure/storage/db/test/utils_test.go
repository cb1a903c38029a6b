package db_test

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
	"github.com/zeto-network/zeto-escrowd/internal/core/ports"
	dbbadger "github.com/zeto-network/zeto-escrowd/internal/infrastructure/storage/db/badger"
	"github.com/zeto-network/zeto-escrowd/internal/infrastructure/storage/db/inmemory"
)

const (
	seller = "seller"
	buyer  = "buyer"
)

type repoManager struct {
	Name      string
	DBManager ports.RepoManager
}

func (r repoManager) read(query func(context.Context) (interface{}, error)) (interface{}, error) {
	return r.DBManager.RunTransaction(context.Background(), true, query)
}

func (r repoManager) write(query func(context.Context) (interface{}, error)) (interface{}, error) {
	return r.DBManager.RunTransaction(context.Background(), false, query)
}

func createRepoManagers(t *testing.T) []repoManager {
	inmemoryDBManager := inmemory.NewRepoManager()
	badgerDBManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		badgerDBManager.Close()
		inmemoryDBManager.Close()
	})

	return []repoManager{
		{
			Name:      "badger",
			DBManager: badgerDBManager,
		},
		{
			Name:      "inmemory",
			DBManager: inmemoryDBManager,
		},
	}
}

func makeRandomDeal(createdAt int64) *domain.Deal {
	var id domain.DealID
	//nolint
	rand.Read(id[:])
	deal, _ := domain.NewDeal(domain.DealTerms{
		ID:           id,
		Seller:       seller,
		Buyer:        buyer,
		BaseAsset:    "BASE",
		QuoteAsset:   "USDC",
		BaseAmount:   1000,
		QuoteAmount:  10000,
		ExpiryTime:   createdAt + 3600,
		FeeRecipient: "treasury",
	}, domain.DefaultFeeSchedule(), createdAt)
	return deal
}
