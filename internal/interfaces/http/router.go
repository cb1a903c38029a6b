package httpinterface

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// NewHandler returns the router serving the REST API.
func NewHandler(opts ServiceOpts) http.Handler {
	deals := &dealHandler{opts.EscrowSvc}
	ops := &operatorHandler{opts.OperatorSvc}
	auth := newAuthenticator(opts.AuthSecret, opts.NoAuth)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(api chi.Router) {
		api.Get("/info", deals.getInfo)

		api.Group(func(public chi.Router) {
			public.Get("/deals", deals.listDeals)
			public.Get("/deals/{id}", deals.getDeal)
			public.Get("/deals/{id}/events", deals.listDealEvents)
			public.Get("/deals/{id}/quote", deals.quoteSettlement)
			public.Post("/deals/{id}/reclaim", deals.reclaimDeal)
			public.Get("/ledger/{owner}/{asset}", ops.getHolding)
		})

		api.Group(func(parties chi.Router) {
			parties.Use(auth.requireCaller)
			parties.Post("/deals", deals.initDeal)
			parties.Post("/deals/{id}/fund", deals.fundDeal)
			parties.Post("/deals/{id}/settle", deals.settleDeal)
			parties.Post("/deals/{id}/cancel", deals.cancelDeal)
		})

		api.Group(func(admin chi.Router) {
			admin.Use(auth.requireCaller, auth.requireOperator)
			admin.Post("/ledger/credit", ops.credit)
			admin.Post("/ledger/freeze", ops.freeze)
			admin.Post("/ledger/unfreeze", ops.unfreeze)
			admin.Get("/webhooks", ops.listWebhooks)
			admin.Post("/webhooks", ops.addWebhook)
			admin.Delete("/webhooks/{id}", ops.removeWebhook)
		})
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.WithFields(log.Fields{
				"request_id": chimw.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"elapsed":    time.Since(start).String(),
			}).Debug("http request")
		}()
		next.ServeHTTP(ww, r)
	})
}

func urlParam(r *http.Request, key string) string {
	param := chi.URLParam(r, key)
	if unescaped, err := url.PathUnescape(param); err == nil {
		return unescaped
	}
	return param
}
