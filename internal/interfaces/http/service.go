package httpinterface

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/zeto-network/zeto-escrowd/internal/core/application/escrow"
	"github.com/zeto-network/zeto-escrowd/internal/core/application/operator"
	interfaces "github.com/zeto-network/zeto-escrowd/internal/interfaces"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type service struct {
	opts   ServiceOpts
	server *http.Server
}

type ServiceOpts struct {
	Port int
	// AuthSecret is the HS256 key used to verify bearer tokens.
	AuthSecret string
	// NoAuth trusts the caller identity from the X-Zeto-Caller header.
	NoAuth bool

	EscrowSvc   *escrow.Service
	OperatorSvc *operator.Service
}

func (o ServiceOpts) validate() error {
	if o.Port <= 0 || o.Port > 65535 {
		return fmt.Errorf("invalid listening port %d", o.Port)
	}
	if !o.NoAuth && len(o.AuthSecret) <= 0 {
		return fmt.Errorf("auth secret is required unless auth is disabled")
	}
	if o.EscrowSvc == nil {
		return fmt.Errorf("missing escrow service")
	}
	if o.OperatorSvc == nil {
		return fmt.Errorf("missing operator service")
	}
	return nil
}

func (o ServiceOpts) address() string {
	return fmt.Sprintf(":%d", o.Port)
}

// NewService returns the REST interface of the daemon.
func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}

	server := &http.Server{
		Addr:              opts.address(),
		Handler:           NewHandler(opts),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return &service{opts, server}, nil
}

func (s *service) Start() error {
	go func() {
		if err := s.server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server exited with error")
		}
	}()
	log.Infof("http interface is listening on %s", s.opts.address())
	return nil
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully stop http interface")
		return
	}
	log.Debug("stopped http interface")
}
