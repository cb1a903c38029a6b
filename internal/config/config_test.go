package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zeto-network/zeto-escrowd/internal/config"
)

func TestInitConfig(t *testing.T) {
	datadir := t.TempDir()
	t.Setenv("ZETO_DATADIR", datadir)
	t.Setenv("ZETO_FEE_RECIPIENT", "treasury")
	t.Setenv("ZETO_AUTH_SECRET", "secret")
	t.Setenv("ZETO_ENABLE_PROFILER", "true")

	require.NoError(t, config.InitConfig())

	fees := config.GetFeeSchedule()
	require.Equal(t, uint16(20), fees.BuyerFeeBps)
	require.Zero(t, fees.SellerFeeBps)
	require.Equal(t, 9945, config.GetInt(config.HTTPListeningPortKey))
	require.Equal(t, config.DBBadger, config.GetString(config.DBTypeKey))
	require.Equal(t, 600*time.Second, config.GetStatsInterval())

	for _, dir := range []string{config.DbLocation, config.ProfilerLocation} {
		info, err := os.Stat(filepath.Join(datadir, dir))
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}
}

func TestInitConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing_fee_recipient",
			env:  map[string]string{"ZETO_AUTH_SECRET": "secret"},
		},
		{
			name: "missing_auth_secret",
			env:  map[string]string{"ZETO_FEE_RECIPIENT": "treasury"},
		},
		{
			name: "fee_out_of_range",
			env: map[string]string{
				"ZETO_FEE_RECIPIENT": "treasury", "ZETO_NO_AUTH": "true",
				"ZETO_FEE_BPS": "10001",
			},
		},
		{
			name: "unsupported_db",
			env: map[string]string{
				"ZETO_FEE_RECIPIENT": "treasury", "ZETO_NO_AUTH": "true",
				"ZETO_DB_TYPE": "postgres",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ZETO_DATADIR", t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			require.Error(t, config.InitConfig())
		})
	}
}
