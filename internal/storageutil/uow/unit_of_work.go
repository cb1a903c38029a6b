package uow

import (
	"context"
	"fmt"
)

// Transactional begins a transaction
type Transactional interface {
	Begin() (Tx, error)
}

// Tx represents an all-or-nothing transaction, by committing or rolling back
// a set of read/write operations
type Tx interface {
	Commit() error
	Rollback() error
}

// ContextProvider returns a context key
type ContextProvider interface {
	ContextKey() interface{}
}

// ContextKey returns the key under which the transaction of the given
// repository is stored in the context.
func ContextKey(repository Transactional) interface{} {
	if cp, ok := repository.(ContextProvider); ok {
		return cp.ContextKey()
	}
	return repository
}

// UnitOfWork allows to run multiple transactions as one
type UnitOfWork struct {
	repositories []Transactional
}

// NewUnitOfWork returns a new UnitOfWork with the given Transaction interfaces
func NewUnitOfWork(repositories ...Transactional) *UnitOfWork {
	return &UnitOfWork{repositories}
}

// Run executes the given function over the current UnitOfWork. The given
// function is likely making read/write operations to different repositories in
// a transactional way. The context passed to the function carries the
// transaction of every repository. Run makes sure that all the transactions
// within the given function are either all committed to the relative storage
// or rolled back if any error occur.
// Repositories whose transaction is already in the parent context take part
// to the outer unit of work instead of starting a new one.
func (u *UnitOfWork) Run(
	ctx context.Context, fn func(ctx context.Context) error,
) (err error) {
	txs := make([]Tx, 0, len(u.repositories))

	defer func() {
		if err == nil {
			return
		}
		for _, tx := range txs {
			if _err := tx.Rollback(); _err != nil {
				err = _err
				return
			}
		}
	}()

	defer func() {
		if err != nil {
			return
		}
		for _, tx := range txs {
			if _err := tx.Commit(); _err != nil {
				err = _err
				return
			}
		}
	}()

	defer func() {
		// panicking returns an error that causes txs rollback
		if rec := recover(); rec != nil {
			err = fmt.Errorf("recovered: %v", rec)
		}
	}()

	for _, r := range u.repositories {
		key := ContextKey(r)
		// make sure that the same context providers share the same context
		if ctx.Value(key) != nil {
			continue
		}

		tx, err := r.Begin()
		if err != nil {
			return err
		}
		ctx = context.WithValue(ctx, key, tx)
		txs = append(txs, tx)
	}

	return fn(ctx)
}
