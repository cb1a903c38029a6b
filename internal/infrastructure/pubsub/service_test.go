package pubsub_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"
	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
	"github.com/zeto-network/zeto-escrowd/internal/core/ports"
	pubsub "github.com/zeto-network/zeto-escrowd/internal/infrastructure/pubsub"
	"github.com/zeto-network/zeto-escrowd/internal/infrastructure/storage/db/inmemory"
)

var (
	testSecret  = "secret"
	testMessage = `{"event":"DEAL_SETTLED","deal_id":"6465616c2d31","base_to_buyer":1000,"quote_to_seller":9980}`
)

func TestPubSubService(t *testing.T) {
	server := newTestWebServer(t)
	pubsubSvc := newTestService(t)

	settledEndpoint := fmt.Sprintf("%s/settled", server.URL)
	allEventsEndpoint := fmt.Sprintf("%s/allevents", server.URL)

	testSubs := []struct {
		topic    string
		endpoint string
		secret   string
	}{
		{domain.DealSettledTopic, settledEndpoint, testSecret},
		{domain.DealSettledTopic, settledEndpoint, ""},
		{domain.AnyTopic, allEventsEndpoint, ""},
	}
	for _, sub := range testSubs {
		subID, err := pubsubSvc.Subscribe(sub.topic, sub.endpoint, sub.secret)
		require.NoError(t, err)
		require.NotEmpty(t, subID)
	}

	_, err := pubsubSvc.Subscribe("TRADE_SETTLED", settledEndpoint, "")
	require.Error(t, err)
	_, err = pubsubSvc.Subscribe(domain.DealFundedTopic, "not an url", "")
	require.Error(t, err)

	subs, err := pubsubSvc.ListSubscriptionsForTopic(domain.DealSettledTopic)
	require.NoError(t, err)
	require.Len(t, subs, len(testSubs))

	subs, err = pubsubSvc.ListSubscriptionsForTopic(domain.DealFundedTopic)
	require.NoError(t, err)
	require.Len(t, subs, 1)

	// Should invoke all hooks.
	err = pubsubSvc.Publish(domain.DealSettledTopic, testMessage)
	require.NoError(t, err)
	require.Len(t, server.requests(), len(testSubs))

	for _, r := range server.requests() {
		require.Equal(t, testMessage, r.body)
		if r.authorization == "" {
			continue
		}
		token, err := jwt.Parse(
			strings.TrimPrefix(r.authorization, "Bearer "),
			func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil },
		)
		require.NoError(t, err)
		require.True(t, token.Valid)
		claims := token.Claims.(jwt.MapClaims)
		require.Equal(t, domain.DealSettledTopic, claims["topic"])
	}

	subs, _ = pubsubSvc.ListSubscriptionsForTopic("")
	for _, s := range subs {
		require.NoError(t, pubsubSvc.Unsubscribe(s.ID))
	}
	subs, err = pubsubSvc.ListSubscriptionsForTopic("")
	require.NoError(t, err)
	require.Empty(t, subs)

	// Checks that it's all ok if there are no hooks to invoke.
	err = pubsubSvc.Publish(domain.DealFundedTopic, testMessage)
	require.NoError(t, err)
	pubsubSvc.Close()
}

func TestPublishFailingEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		},
	))
	t.Cleanup(server.Close)

	pubsubSvc := newTestService(t)
	_, err := pubsubSvc.Subscribe(domain.DealFundedTopic, server.URL, "")
	require.NoError(t, err)

	err = pubsubSvc.Publish(domain.DealFundedTopic, testMessage)
	require.Error(t, err)
}

func TestPublishAcceptsAnySuccessStatus(t *testing.T) {
	statuses := []int{http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent}

	pubsubSvc := newTestService(t)
	for _, status := range statuses {
		status := status
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			},
		))
		t.Cleanup(server.Close)

		_, err := pubsubSvc.Subscribe(domain.DealFundedTopic, server.URL, "")
		require.NoError(t, err)
	}

	// Enough rounds for the breaker to trip if any reply counted as a failure.
	for i := 0; i < 5; i++ {
		err := pubsubSvc.Publish(domain.DealFundedTopic, testMessage)
		require.NoError(t, err)
	}
}

func newTestService(t *testing.T) ports.PubSub {
	repoManager := inmemory.NewRepoManager()
	svc, err := pubsub.NewService(repoManager.WebhookRepository(), 0)
	require.NoError(t, err)
	return svc
}

type receivedRequest struct {
	endpoint      string
	body          string
	authorization string
}

type testWebServer struct {
	*httptest.Server

	lock     sync.Mutex
	received []receivedRequest
}

func (s *testWebServer) requests() []receivedRequest {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]receivedRequest{}, s.received...)
}

func newTestWebServer(t *testing.T) *testWebServer {
	srv := &testWebServer{}
	handleFn := func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Bad method", http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("Content-Type") == "" {
			http.Error(w, "Missing Content-Type header", http.StatusUnsupportedMediaType)
			return
		}
		defer r.Body.Close()
		payload, _ := io.ReadAll(r.Body)
		if !json.Valid(payload) {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		srv.lock.Lock()
		srv.received = append(srv.received, receivedRequest{
			r.URL.Path, string(payload), r.Header.Get("Authorization"),
		})
		srv.lock.Unlock()

		fmt.Fprintf(w, "Done")
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/settled", handleFn)
	mux.HandleFunc("/allevents", handleFn)
	srv.Server = httptest.NewServer(mux)
	t.Cleanup(srv.Server.Close)
	return srv
}
