package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
)

func TestDealRepositoryImplementations(t *testing.T) {
	repositories := createRepoManagers(t)

	for i := range repositories {
		repo := repositories[i]

		t.Run(repo.Name, func(t *testing.T) {
			t.Run("testAddAndGetDeal", func(t *testing.T) {
				testAddAndGetDeal(t, repo)
			})

			t.Run("testListDeals", func(t *testing.T) {
				testListDeals(t, repo)
			})

			t.Run("testUpdateDeal", func(t *testing.T) {
				testUpdateDeal(t, repo)
			})

			t.Run("testUpdateDealRollback", func(t *testing.T) {
				testUpdateDealRollback(t, repo)
			})
		})
	}
}

func testAddAndGetDeal(t *testing.T, repo repoManager) {
	deal := makeRandomDeal(1000)

	_, err := repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.DBManager.DealRepository().AddDeal(ctx, deal)
	})
	require.NoError(t, err)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.DBManager.DealRepository().AddDeal(ctx, deal)
	})
	require.ErrorIs(t, err, domain.ErrDealAlreadyExists)

	iDeal, err := repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.DBManager.DealRepository().GetDeal(ctx, deal.ID)
	})
	require.NoError(t, err)
	require.Equal(t, *deal, *iDeal.(*domain.Deal))

	_, err = repo.DBManager.DealRepository().GetDeal(
		context.Background(), makeRandomDeal(1000).ID,
	)
	require.ErrorIs(t, err, domain.ErrDealNotFound)
}

func testListDeals(t *testing.T, repo repoManager) {
	ctx := context.Background()
	dealRepo := repo.DBManager.DealRepository()

	existing, err := dealRepo.ListDeals(ctx, domain.DealFilter{}, nil)
	require.NoError(t, err)

	deals := []*domain.Deal{
		makeRandomDeal(3000), makeRandomDeal(2000), makeRandomDeal(4000),
	}
	deals[1].Buyer = "another_buyer"
	for _, d := range deals {
		require.NoError(t, dealRepo.AddDeal(ctx, d))
	}
	require.NoError(t, dealRepo.UpdateDeal(
		ctx, deals[2].ID, func(d *domain.Deal) (*domain.Deal, error) {
			return d, d.Fund(seller)
		},
	))

	list, err := dealRepo.ListDeals(ctx, domain.DealFilter{}, nil)
	require.NoError(t, err)
	require.Len(t, list, len(existing)+len(deals))
	for i := 1; i < len(list); i++ {
		require.LessOrEqual(t, list[i-1].CreatedAt, list[i].CreatedAt)
	}

	funded := domain.DealStatusFunded
	list, err = dealRepo.ListDeals(ctx, domain.DealFilter{Status: &funded}, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, deals[2].ID, list[0].ID)

	list, err = dealRepo.ListDeals(ctx, domain.DealFilter{Party: "another_buyer"}, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, deals[1].ID, list[0].ID)

	page := domain.NewPage(1, 2)
	list, err = dealRepo.ListDeals(ctx, domain.DealFilter{}, &page)
	require.NoError(t, err)
	require.Len(t, list, 2)

	page = domain.NewPage(100, 2)
	list, err = dealRepo.ListDeals(ctx, domain.DealFilter{}, &page)
	require.NoError(t, err)
	require.Empty(t, list)
}

func testUpdateDeal(t *testing.T, repo repoManager) {
	deal := makeRandomDeal(1000)

	iDeal, err := repo.write(func(ctx context.Context) (interface{}, error) {
		dealRepo := repo.DBManager.DealRepository()
		if err := dealRepo.AddDeal(ctx, deal); err != nil {
			return nil, err
		}
		if err := dealRepo.UpdateDeal(
			ctx, deal.ID, func(d *domain.Deal) (*domain.Deal, error) {
				if err := d.Fund(seller); err != nil {
					return nil, err
				}
				return d, nil
			},
		); err != nil {
			return nil, err
		}
		return dealRepo.GetDeal(ctx, deal.ID)
	})
	require.NoError(t, err)
	require.True(t, iDeal.(*domain.Deal).IsFunded())

	iDeal, err = repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.DBManager.DealRepository().GetDeal(ctx, deal.ID)
	})
	require.NoError(t, err)
	require.True(t, iDeal.(*domain.Deal).IsFunded())
}

func testUpdateDealRollback(t *testing.T, repo repoManager) {
	expectedErr := errors.New("something went wrong")
	deal := makeRandomDeal(1000)

	_, err := repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.DBManager.DealRepository().AddDeal(ctx, deal)
	})
	require.NoError(t, err)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		dealRepo := repo.DBManager.DealRepository()
		if err := dealRepo.UpdateDeal(
			ctx, deal.ID, func(d *domain.Deal) (*domain.Deal, error) {
				return d, d.Fund(seller)
			},
		); err != nil {
			return nil, err
		}
		if err := repo.DBManager.EventRepository().AddEvent(
			ctx, domain.NewDealFundedEvent(deal, 1001),
		); err != nil {
			return nil, err
		}
		return nil, expectedErr
	})
	require.EqualError(t, err, expectedErr.Error())

	iDeal, err := repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.DBManager.DealRepository().GetDeal(ctx, deal.ID)
	})
	require.NoError(t, err)
	require.True(t, iDeal.(*domain.Deal).IsInitialized())

	events, err := repo.DBManager.EventRepository().ListEventsForDeal(
		context.Background(), deal.ID,
	)
	require.NoError(t, err)
	require.Empty(t, events)
}
