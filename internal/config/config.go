package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/viper"
	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
)

const (
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// HTTPListeningPortKey is the port where the REST interface will listen on
	HTTPListeningPortKey = "HTTP_LISTENING_PORT"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// FeeBpsKey is the fee, in basis points of the quote amount, charged to
	// the buyer of new deals
	FeeBpsKey = "FEE_BPS"
	// SellerFeeBpsKey is the fee, in basis points of the base amount, charged
	// to the seller of new deals
	SellerFeeBpsKey = "SELLER_FEE_BPS"
	// FeeRecipientKey is the identity receiving the fees of new deals
	FeeRecipientKey = "FEE_RECIPIENT"
	// AuthSecretKey is the HS256 secret used to verify caller tokens
	AuthSecretKey = "AUTH_SECRET"
	// NoAuthKey is used to start the daemon trusting the caller header
	NoAuthKey = "NO_AUTH"
	// EnableProfilerKey enables profiler that can be used to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval for printing basic statistics
	StatsIntervalKey = "STATS_INTERVAL"
	// WebhookRateLimitKey is the max number of webhook requests per second
	WebhookRateLimitKey = "WEBHOOK_RATE_LIMIT"

	DbLocation       = "db"
	ProfilerLocation = "stats"

	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var (
	vip            *viper.Viper
	defaultDatadir = btcutil.AppDataDir("zeto-escrowd", false)

	supportedDBTypes = map[string]struct{}{
		DBBadger:   {},
		DBInMemory: {},
	}
)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("ZETO")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(HTTPListeningPortKey, 9945)
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(FeeBpsKey, domain.DefaultFeeBps)
	vip.SetDefault(SellerFeeBpsKey, domain.DefaultSellerFeeBps)
	vip.SetDefault(NoAuthKey, false)
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)
	vip.SetDefault(WebhookRateLimitKey, 50)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetStatsInterval returns the interval, configured in seconds, between two
// prints of the memory statistics.
func GetStatsInterval() time.Duration {
	return time.Duration(GetInt(StatsIntervalKey)) * time.Second
}

// GetFeeSchedule returns the fees applied to new deals.
func GetFeeSchedule() domain.FeeSchedule {
	return domain.FeeSchedule{
		BuyerFeeBps:  uint16(GetInt(FeeBpsKey)),
		SellerFeeBps: uint16(GetInt(SellerFeeBpsKey)),
	}
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	for _, key := range []string{FeeBpsKey, SellerFeeBpsKey} {
		bps := GetInt(key)
		if bps < 0 || bps > domain.MaxFeeBps {
			return fmt.Errorf("%s must be in range [0, %d]", key, domain.MaxFeeBps)
		}
	}

	if len(GetString(FeeRecipientKey)) <= 0 {
		return fmt.Errorf("missing fee recipient")
	}

	if !GetBool(NoAuthKey) && len(GetString(AuthSecretKey)) <= 0 {
		return fmt.Errorf("auth secret is required unless %s is set", NoAuthKey)
	}

	if _, ok := supportedDBTypes[GetString(DBTypeKey)]; !ok {
		return fmt.Errorf("unsupported db type %s", GetString(DBTypeKey))
	}

	port := GetInt(HTTPListeningPortKey)
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid http listening port %d", port)
	}

	if GetInt(StatsIntervalKey) <= 0 {
		return fmt.Errorf("%s must be greater than zero", StatsIntervalKey)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if GetString(DBTypeKey) == DBBadger {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
			return err
		}
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
