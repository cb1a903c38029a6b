package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
	"github.com/zeto-network/zeto-escrowd/internal/core/ports"
	"github.com/zeto-network/zeto-escrowd/internal/infrastructure/ledger"
)

var (
	ctx   = context.Background()
	asset = "USDC"
	alice = "alice"
	bob   = "bob"
)

func TestTransfer(t *testing.T) {
	l := newTestLedger(t)

	err := l.Transfer(ctx, ports.TransferArgs{
		Asset: asset, From: alice, To: bob, Amount: 40,
		Authority: domain.SignerAuthority(alice),
	})
	require.NoError(t, err)

	requireBalance(t, l, alice, 60)
	requireBalance(t, l, bob, 40)
}

func TestFailingTransfer(t *testing.T) {
	tests := []struct {
		name          string
		args          ports.TransferArgs
		setup         func(l ports.Ledger)
		expectedError error
	}{
		{
			name: "zero_amount",
			args: ports.TransferArgs{
				Asset: asset, From: alice, To: bob,
				Authority: domain.SignerAuthority(alice),
			},
			expectedError: ports.ErrInvalidTransfer,
		},
		{
			name: "insufficient_funds",
			args: ports.TransferArgs{
				Asset: asset, From: alice, To: bob, Amount: 101,
				Authority: domain.SignerAuthority(alice),
			},
			expectedError: ports.ErrInsufficientFunds,
		},
		{
			name: "wrong_signer",
			args: ports.TransferArgs{
				Asset: asset, From: alice, To: bob, Amount: 1,
				Authority: domain.SignerAuthority(bob),
			},
			expectedError: ports.ErrUnauthorizedSigner,
		},
		{
			name: "missing_source",
			args: ports.TransferArgs{
				Asset: "BTC", From: alice, To: bob, Amount: 1,
				Authority: domain.SignerAuthority(alice),
			},
			expectedError: ports.ErrHoldingNotFound,
		},
		{
			name: "frozen_source",
			args: ports.TransferArgs{
				Asset: asset, From: alice, To: bob, Amount: 1,
				Authority: domain.SignerAuthority(alice),
			},
			setup: func(l ports.Ledger) {
				//nolint
				l.Freeze(ctx, alice, asset)
			},
			expectedError: ports.ErrFrozenAccount,
		},
		{
			name: "frozen_destination",
			args: ports.TransferArgs{
				Asset: asset, From: alice, To: bob, Amount: 1,
				Authority: domain.SignerAuthority(alice),
			},
			setup: func(l ports.Ledger) {
				//nolint
				l.Credit(ctx, bob, asset, 1)
				//nolint
				l.Freeze(ctx, bob, asset)
			},
			expectedError: ports.ErrFrozenAccount,
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t)
			if tt.setup != nil {
				tt.setup(l)
			}

			err := l.Transfer(ctx, tt.args)
			require.ErrorIs(t, err, tt.expectedError)
			requireBalance(t, l, alice, 100)
		})
	}
}

func TestCustodialHolding(t *testing.T) {
	l := newTestLedger(t)
	id, _ := domain.DealIDFromString("deal")
	deal := &domain.Deal{ID: id}
	vaultAddress := deal.VaultAddress()

	err := l.OpenHolding(ctx, deal.VaultAuthority(), asset)
	require.NoError(t, err)
	// Opening twice is a no-op.
	err = l.OpenHolding(ctx, deal.VaultAuthority(), asset)
	require.NoError(t, err)

	holding, err := l.GetHolding(ctx, vaultAddress, asset)
	require.NoError(t, err)
	require.True(t, holding.Custodial)

	err = l.Credit(ctx, vaultAddress, asset, 10)
	require.ErrorIs(t, err, ports.ErrUnauthorizedSigner)

	err = l.Transfer(ctx, ports.TransferArgs{
		Asset: asset, From: alice, To: vaultAddress, Amount: 100,
		Authority: domain.SignerAuthority(alice),
	})
	require.NoError(t, err)
	requireBalance(t, l, vaultAddress, 100)

	// Nobody can top up a funded vault.
	err = l.Credit(ctx, bob, asset, 10)
	require.NoError(t, err)
	err = l.Transfer(ctx, ports.TransferArgs{
		Asset: asset, From: bob, To: vaultAddress, Amount: 10,
		Authority: domain.SignerAuthority(bob),
	})
	require.ErrorIs(t, err, ports.ErrUnauthorizedSigner)

	// A signer claiming the vault identity can't spend from it.
	err = l.Transfer(ctx, ports.TransferArgs{
		Asset: asset, From: vaultAddress, To: bob, Amount: 100,
		Authority: domain.SignerAuthority(vaultAddress),
	})
	require.ErrorIs(t, err, ports.ErrUnauthorizedSigner)

	err = l.CloseHolding(ctx, vaultAddress, asset, alice, deal.VaultAuthority())
	require.ErrorIs(t, err, ports.ErrHoldingNotEmpty)

	err = l.Transfer(ctx, ports.TransferArgs{
		Asset: asset, From: vaultAddress, To: bob, Amount: 100,
		Authority: deal.VaultAuthority(),
	})
	require.NoError(t, err)

	err = l.CloseHolding(ctx, vaultAddress, asset, alice, domain.SignerAuthority(alice))
	require.ErrorIs(t, err, ports.ErrUnauthorizedSigner)

	err = l.CloseHolding(ctx, vaultAddress, asset, alice, deal.VaultAuthority())
	require.NoError(t, err)

	_, err = l.GetHolding(ctx, vaultAddress, asset)
	require.ErrorIs(t, err, ports.ErrHoldingNotFound)
	requireBalance(t, l, vaultAddress, 0)
	requireBalance(t, l, bob, 110)
}

func TestFreezeUnfreeze(t *testing.T) {
	l := newTestLedger(t)

	require.NoError(t, l.Freeze(ctx, alice, asset))
	holding, err := l.GetHolding(ctx, alice, asset)
	require.NoError(t, err)
	require.True(t, holding.Frozen)

	require.NoError(t, l.Unfreeze(ctx, alice, asset))
	holding, err = l.GetHolding(ctx, alice, asset)
	require.NoError(t, err)
	require.False(t, holding.Frozen)

	err = l.Freeze(ctx, bob, asset)
	require.ErrorIs(t, err, ports.ErrHoldingNotFound)
}

func TestCreditOverflow(t *testing.T) {
	l := newTestLedger(t)

	err := l.Credit(ctx, alice, asset, ^uint64(0))
	require.ErrorIs(t, err, domain.ErrOverflow)
	requireBalance(t, l, alice, 100)
}

func newTestLedger(t *testing.T) ports.Ledger {
	l := ledger.NewLedger(newMapStore())
	require.NoError(t, l.Credit(ctx, alice, asset, 100))
	return l
}

func requireBalance(t *testing.T, l ports.Ledger, owner string, expected uint64) {
	balance, err := l.Balance(ctx, owner, asset)
	require.NoError(t, err)
	require.Equal(t, expected, balance)
}

type holdingKey struct {
	owner, asset string
}

type mapStore map[holdingKey]ports.Holding

func newMapStore() mapStore {
	return mapStore{}
}

func (s mapStore) GetHolding(
	_ context.Context, owner, asset string,
) (*ports.Holding, error) {
	h, ok := s[holdingKey{owner, asset}]
	if !ok {
		return nil, ports.ErrHoldingNotFound
	}
	return &h, nil
}

func (s mapStore) PutHolding(_ context.Context, h *ports.Holding) error {
	s[holdingKey{h.Owner, h.Asset}] = *h
	return nil
}

func (s mapStore) DeleteHolding(_ context.Context, owner, asset string) error {
	delete(s, holdingKey{owner, asset})
	return nil
}
