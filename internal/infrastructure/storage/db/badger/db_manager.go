package dbbadger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
	"github.com/zeto-network/zeto-escrowd/internal/core/ports"
	"github.com/zeto-network/zeto-escrowd/internal/infrastructure/ledger"
)

const (
	// maxTxRetries is the number of times a read-write transaction is
	// retried when committing fails because of a conflict.
	maxTxRetries = 5
)

type txKey struct{}

type repoManager struct {
	store *badgerhold.Store

	dealRepository    domain.DealRepository
	eventRepository   domain.EventRepository
	webhookRepository domain.WebhookRepository
	ledger            ports.Ledger
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// It expects a base data dir and an optional logger. If the data dir is
// empty, the store is kept in memory.
func NewRepoManager(
	baseDbDir string, logger badger.Logger,
) (ports.RepoManager, error) {
	store, err := createDb(baseDbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	return &repoManager{
		store:             store,
		dealRepository:    newDealRepositoryImpl(store),
		eventRepository:   newEventRepositoryImpl(store),
		webhookRepository: newWebhookRepositoryImpl(store),
		ledger:            ledger.NewLedger(newHoldingStoreImpl(store)),
	}, nil
}

func (r *repoManager) DealRepository() domain.DealRepository {
	return r.dealRepository
}

func (r *repoManager) EventRepository() domain.EventRepository {
	return r.eventRepository
}

func (r *repoManager) WebhookRepository() domain.WebhookRepository {
	return r.webhookRepository
}

func (r *repoManager) Ledger() ports.Ledger {
	return r.ledger
}

func (r *repoManager) Close() {
	if err := r.store.Close(); err != nil {
		log.WithError(err).Warn("failed to close db")
	}
}

// RunTransaction runs the handler within a badger transaction carried by the
// context. Read-write transactions failing to commit because of a conflict
// with a concurrent one are retried from scratch. If the context already
// carries a transaction, the handler takes part to it.
func (r *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if txFromContext(ctx) != nil {
		return handler(ctx)
	}

	for attempt := 0; ; attempt++ {
		tx := r.store.Badger().NewTransaction(!readOnly)

		res, err := handler(context.WithValue(ctx, txKey{}, tx))
		if err != nil {
			tx.Discard()
			return nil, err
		}

		if readOnly {
			tx.Discard()
			return res, nil
		}

		if err := tx.Commit(); err != nil {
			if errors.Is(err, badger.ErrConflict) && attempt < maxTxRetries {
				log.WithField("attempt", attempt+1).Debug(
					"transaction conflict, retrying",
				)
				continue
			}
			return nil, err
		}
		return res, nil
	}
}

func txFromContext(ctx context.Context) *badger.Txn {
	tx, _ := ctx.Value(txKey{}).(*badger.Txn)
	return tx
}

// JSONEncode is a custom JSON based encoder for badger
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)

	err := en.Encode(value)
	if err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger
func JSONDecode(data []byte, value interface{}) error {
	var buff bytes.Buffer
	de := json.NewDecoder(&buff)

	_, err := buff.Write(data)
	if err != nil {
		return err
	}

	return de.Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
