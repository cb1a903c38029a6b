package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dgraph-io/badger/v3"
	log "github.com/sirupsen/logrus"
	"github.com/zeto-network/zeto-escrowd/internal/config"
	"github.com/zeto-network/zeto-escrowd/internal/core/application/escrow"
	"github.com/zeto-network/zeto-escrowd/internal/core/application/operator"
	"github.com/zeto-network/zeto-escrowd/internal/core/application/pubsub"
	"github.com/zeto-network/zeto-escrowd/internal/core/ports"
	"github.com/zeto-network/zeto-escrowd/internal/infrastructure/clock"
	pubsubinfra "github.com/zeto-network/zeto-escrowd/internal/infrastructure/pubsub"
	dbbadger "github.com/zeto-network/zeto-escrowd/internal/infrastructure/storage/db/badger"
	"github.com/zeto-network/zeto-escrowd/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/zeto-network/zeto-escrowd/internal/interfaces/http"
	"github.com/zeto-network/zeto-escrowd/pkg/stats"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	logLevel := log.Level(config.GetInt(config.LogLevelKey))
	log.SetLevel(logLevel)

	datadir := config.GetDatadir()
	dbType := config.GetString(config.DBTypeKey)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if config.GetBool(config.EnableProfilerKey) {
		stats.EnableMemoryStatistics(
			ctx, config.GetStatsInterval(),
			filepath.Join(datadir, config.ProfilerLocation),
		)
	}

	repoManager, err := newRepoManager(dbType, datadir, logLevel)
	if err != nil {
		log.WithError(err).Fatal("failed to open db")
	}

	webhookPubSub, err := pubsubinfra.NewService(
		repoManager.WebhookRepository(), config.GetInt(config.WebhookRateLimitKey),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize pubsub")
	}
	pubsubSvc := pubsub.NewService(webhookPubSub)

	escrowSvc, err := escrow.NewService(
		repoManager, pubsubSvc, clock.NewSystemClock(),
		config.GetFeeSchedule(), config.GetString(config.FeeRecipientKey),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize escrow service")
	}
	operatorSvc, err := operator.NewService(pubsubSvc, repoManager)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize operator service")
	}

	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Port:        config.GetInt(config.HTTPListeningPortKey),
		AuthSecret:  config.GetString(config.AuthSecretKey),
		NoAuth:      config.GetBool(config.NoAuthKey),
		EscrowSvc:   escrowSvc,
		OperatorSvc: operatorSvc,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize http interface")
	}

	log.RegisterExitHandler(svc.Stop)

	log.Info("starting daemon")
	if err := svc.Start(); err != nil {
		log.WithError(err).Fatal("failed to start daemon")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down daemon")
	svc.Stop()
	escrowSvc.Close()
	pubsubSvc.Close()
	repoManager.Close()
	cancel()

	log.Info("exiting")
}

func newRepoManager(
	dbType, datadir string, logLevel log.Level,
) (ports.RepoManager, error) {
	if dbType == config.DBInMemory {
		log.Warn("using in-memory db, state is lost on shutdown")
		return inmemory.NewRepoManager(), nil
	}

	var logger badger.Logger
	if logLevel >= log.DebugLevel {
		logger = log.StandardLogger()
	}
	return dbbadger.NewRepoManager(filepath.Join(datadir, config.DbLocation), logger)
}
