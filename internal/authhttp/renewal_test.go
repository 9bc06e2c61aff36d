package authhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/florianilch/taskdesk/internal/tokenstore"
)

// fakeRenewer counts renewal calls and delegates to fn.
type fakeRenewer struct {
	calls atomic.Int32
	fn    func(ctx context.Context, refresh string) (*oauth2.Token, error)
}

func (f *fakeRenewer) Renew(ctx context.Context, refresh string) (*oauth2.Token, error) {
	f.calls.Add(1)
	return f.fn(ctx, refresh)
}

func renewTo(access string) *fakeRenewer {
	return &fakeRenewer{fn: func(context.Context, string) (*oauth2.Token, error) {
		return &oauth2.Token{AccessToken: access, TokenType: "Bearer"}, nil
	}}
}

// recorder is a backend that accepts exactly one bearer token and records
// the Authorization header of every request.
type recorder struct {
	mu     sync.Mutex
	auth   []string
	bodies []string
	valid  string
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	body, _ := io.ReadAll(req.Body)

	r.mu.Lock()
	r.auth = append(r.auth, req.Header.Get("Authorization"))
	r.bodies = append(r.bodies, string(body))
	valid := r.valid
	r.mu.Unlock()

	if valid != "" && req.Header.Get("Authorization") != "Bearer "+valid {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`[{"id":1,"title":"write docs"}]`))
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.auth...)
}

func newStore(t *testing.T, tokens map[tokenstore.Kind]string) *tokenstore.MemoryStore {
	t.Helper()
	store := tokenstore.NewMemoryStore()
	for kind, v := range tokens {
		require.NoError(t, store.Set(context.Background(), kind, v))
	}
	return store
}

func newClient(store tokenstore.Store, renewer Renewer, opts ...RenewalOption) *http.Client {
	return &http.Client{Transport: NewRenewalTransport(&Pipeline{Store: store}, renewer, opts...)}
}

func stored(t *testing.T, store tokenstore.Store, kind tokenstore.Kind) string {
	t.Helper()
	v, err := store.Get(context.Background(), kind)
	if errors.Is(err, tokenstore.ErrNotFound) {
		return ""
	}
	require.NoError(t, err)
	return v
}

func TestRenewalTransport_NoTokenSendsNoAuthorization(t *testing.T) {
	backend := &recorder{}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	client := newClient(tokenstore.NewMemoryStore(), renewTo("unused"))

	resp, err := client.Get(srv.URL + "/projects/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{""}, backend.seen())
}

func TestRenewalTransport_AttachesStoredAccessToken(t *testing.T) {
	backend := &recorder{valid: "A1"}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	renewer := renewTo("unused")
	client := newClient(newStore(t, map[tokenstore.Kind]string{tokenstore.Access: "A1"}), renewer)

	resp, err := client.Get(srv.URL + "/tasks/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Bearer A1"}, backend.seen())
	assert.Zero(t, renewer.calls.Load())
}

func TestRenewalTransport_RenewsAndReplaysOnce(t *testing.T) {
	backend := &recorder{valid: "A2"}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	store := newStore(t, map[tokenstore.Kind]string{tokenstore.Access: "A1", tokenstore.Refresh: "R1"})
	var gotRefresh string
	renewer := &fakeRenewer{fn: func(_ context.Context, refresh string) (*oauth2.Token, error) {
		gotRefresh = refresh
		return &oauth2.Token{AccessToken: "A2"}, nil
	}}
	client := newClient(store, renewer)

	resp, err := client.Get(srv.URL + "/tasks/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "write docs")

	assert.Equal(t, []string{"Bearer A1", "Bearer A2"}, backend.seen())
	assert.Equal(t, int32(1), renewer.calls.Load())
	assert.Equal(t, "R1", gotRefresh)
	assert.Equal(t, "A2", stored(t, store, tokenstore.Access))
	assert.Equal(t, "R1", stored(t, store, tokenstore.Refresh), "refresh token is never mutated")

	// subsequent calls use the renewed token without renewing again
	resp2, err := client.Get(srv.URL + "/tasks/")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, "Bearer A2", backend.seen()[2])
	assert.Equal(t, int32(1), renewer.calls.Load())
}

func TestRenewalTransport_RenewalFailureTearsDownSession(t *testing.T) {
	backend := &recorder{valid: "never"}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	store := newStore(t, map[tokenstore.Kind]string{tokenstore.Access: "A1", tokenstore.Refresh: "R1"})
	rejected := &RenewalError{StatusCode: http.StatusUnauthorized, Message: "Token is invalid or expired"}
	renewer := &fakeRenewer{fn: func(context.Context, string) (*oauth2.Token, error) {
		return nil, rejected
	}}

	var hookErr error
	client := newClient(store, renewer, OnSessionExpired(func(_ context.Context, err error) {
		hookErr = err
	}))

	resp, err := client.Get(srv.URL + "/tasks/")
	require.Error(t, err)
	assert.Nil(t, resp)

	assert.ErrorIs(t, err, ErrSessionExpired)
	var renewalErr *RenewalError
	require.ErrorAs(t, err, &renewalErr)
	assert.Equal(t, http.StatusUnauthorized, renewalErr.StatusCode)

	require.Error(t, hookErr)
	assert.ErrorIs(t, hookErr, ErrSessionExpired)

	assert.Empty(t, stored(t, store, tokenstore.Access))
	assert.Empty(t, stored(t, store, tokenstore.Refresh))
	assert.Len(t, backend.seen(), 1, "no replay after failed renewal")

	// later calls go out unauthenticated and get rejected without renewing
	resp, err = client.Get(srv.URL + "/tasks/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "", backend.seen()[1])
	assert.Equal(t, int32(1), renewer.calls.Load())
}

func TestRenewalTransport_SecondUnauthorizedIsNotRenewed(t *testing.T) {
	backend := &recorder{valid: "never"}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	store := newStore(t, map[tokenstore.Kind]string{tokenstore.Access: "A1", tokenstore.Refresh: "R1"})
	renewer := renewTo("A2")
	client := newClient(store, renewer)

	resp, err := client.Get(srv.URL + "/tasks/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(1), renewer.calls.Load())
	assert.Equal(t, []string{"Bearer A1", "Bearer A2"}, backend.seen())
}

func TestRenewalTransport_NoRefreshTokenPropagatesOriginal(t *testing.T) {
	backend := &recorder{valid: "A2"}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	store := newStore(t, map[tokenstore.Kind]string{tokenstore.Access: "A1"})
	renewer := renewTo("A2")
	client := newClient(store, renewer)

	resp, err := client.Get(srv.URL + "/tasks/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "Given token not valid")
	assert.Zero(t, renewer.calls.Load())
	assert.Equal(t, "A1", stored(t, store, tokenstore.Access))
}

func TestRenewalTransport_NonAuthFailuresPassThrough(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.WriteHeader(status)
			}))
			defer srv.Close()

			renewer := renewTo("A2")
			client := newClient(newStore(t, map[tokenstore.Kind]string{tokenstore.Access: "A1", tokenstore.Refresh: "R1"}), renewer)

			resp, err := client.Get(srv.URL + "/tasks/")
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, status, resp.StatusCode)
			assert.Equal(t, int32(1), hits.Load())
			assert.Zero(t, renewer.calls.Load())
		})
	}
}

func TestRenewalTransport_TransportErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	renewer := renewTo("A2")
	client := newClient(newStore(t, map[tokenstore.Kind]string{tokenstore.Access: "A1", tokenstore.Refresh: "R1"}), renewer)

	_, err := client.Get(url + "/tasks/")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionExpired)
	assert.Zero(t, renewer.calls.Load())
}

func TestRenewalTransport_ReplaysRequestBody(t *testing.T) {
	backend := &recorder{valid: "A2"}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	store := newStore(t, map[tokenstore.Kind]string{tokenstore.Access: "A1", tokenstore.Refresh: "R1"})
	client := newClient(store, renewTo("A2"))

	payload := `{"task":7,"content":"looks good"}`
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/tasks/comments/", bytes.NewBufferString(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Equal(t, []string{payload, payload}, backend.bodies)
	assert.Empty(t, req.Header.Get("Authorization"), "caller's request is not modified")
}

func TestRenewalTransport_UnreplayableBodyPropagatesOriginal(t *testing.T) {
	backend := &recorder{valid: "A2"}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	renewer := renewTo("A2")
	client := newClient(newStore(t, map[tokenstore.Kind]string{tokenstore.Access: "A1", tokenstore.Refresh: "R1"}), renewer)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/tasks/", io.NopCloser(bytes.NewBufferString(`{}`)))
	require.NoError(t, err)
	req.GetBody = nil

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, renewer.calls.Load())
}

func TestRenewalTransport_WithoutAuthSkipsTokenAndRenewal(t *testing.T) {
	backend := &recorder{valid: "A2"}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	renewer := renewTo("A2")
	client := newClient(newStore(t, map[tokenstore.Kind]string{tokenstore.Access: "A1", tokenstore.Refresh: "R1"}), renewer)

	req, err := http.NewRequestWithContext(WithoutAuth(context.Background()), http.MethodPost, srv.URL+"/users/token/", http.NoBody)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, []string{""}, backend.seen())
	assert.Zero(t, renewer.calls.Load())
}

func TestRenewalTransport_ReplayKeepsRequestID(t *testing.T) {
	var ids []string
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ids = append(ids, r.Header.Get(RequestIDHeader))
		mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer A2" {
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	client := newClient(newStore(t, map[tokenstore.Kind]string{tokenstore.Access: "A1", tokenstore.Refresh: "R1"}), renewTo("A2"))
	resp, err := client.Get(srv.URL + "/tasks/")
	require.NoError(t, err)
	resp.Body.Close()

	require.Len(t, ids, 2)
	assert.NotEmpty(t, ids[0])
	assert.Equal(t, ids[0], ids[1])
}

func TestRenewalTransport_CanceledRenewalKeepsSession(t *testing.T) {
	backend := &recorder{valid: "A2"}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	store := newStore(t, map[tokenstore.Kind]string{tokenstore.Access: "A1", tokenstore.Refresh: "R1"})
	renewer := &fakeRenewer{fn: func(ctx context.Context, _ string) (*oauth2.Token, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	client := newClient(store, renewer, WithRenewalMode(RenewalIndependent))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/tasks/", nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, "R1", stored(t, store, tokenstore.Refresh))
}

// concurrentUnauthorized fires two requests that both receive 401 for A1 at
// the same time, waits for both to succeed and returns the store.
func concurrentUnauthorized(t *testing.T, mode RenewalMode, renewer *fakeRenewer) tokenstore.Store {
	t.Helper()

	var rejected atomic.Int32
	bothRejected := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer A1" {
			if rejected.Add(1) == 2 {
				close(bothRejected)
			}
			select {
			case <-bothRejected:
			case <-time.After(2 * time.Second):
			}
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	store := newStore(t, map[tokenstore.Kind]string{tokenstore.Access: "A1", tokenstore.Refresh: "R1"})
	client := newClient(store, renewer, WithRenewalMode(mode))

	var wg sync.WaitGroup
	statuses := make([]int, 2)
	for i := range statuses {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := client.Get(srv.URL + "/tasks/")
			if !assert.NoError(t, err) {
				return
			}
			resp.Body.Close()
			statuses[i] = resp.StatusCode
		}()
	}
	wg.Wait()

	assert.Equal(t, []int{http.StatusOK, http.StatusOK}, statuses)
	return store
}

func TestRenewalTransport_IndependentRenewalsDoNotCoalesce(t *testing.T) {
	var arrived atomic.Int32
	bothRenewing := make(chan struct{})
	renewer := &fakeRenewer{fn: func(context.Context, string) (*oauth2.Token, error) {
		if arrived.Add(1) == 2 {
			close(bothRenewing)
		}
		select {
		case <-bothRenewing:
		case <-time.After(2 * time.Second):
		}
		return &oauth2.Token{AccessToken: "A2"}, nil
	}}

	store := concurrentUnauthorized(t, RenewalIndependent, renewer)

	assert.Equal(t, int32(2), renewer.calls.Load())
	assert.Equal(t, "A2", stored(t, store, tokenstore.Access))
}

func TestRenewalTransport_CoalescedRenewalsShareOneCall(t *testing.T) {
	renewer := &fakeRenewer{fn: func(context.Context, string) (*oauth2.Token, error) {
		// give the second request time to join the in-flight renewal
		time.Sleep(200 * time.Millisecond)
		return &oauth2.Token{AccessToken: "A2"}, nil
	}}

	store := concurrentUnauthorized(t, RenewalCoalesced, renewer)

	assert.Equal(t, int32(1), renewer.calls.Load())
	assert.Equal(t, "A2", stored(t, store, tokenstore.Access))
}

func TestRefreshEndpoint_Renew(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantToken  string
		wantStatus int
	}{
		{name: "success", status: http.StatusOK, body: `{"access":"A2"}`, wantToken: "A2"},
		{name: "rejected", status: http.StatusUnauthorized, body: `{"detail":"Token is invalid or expired","code":"token_not_valid"}`, wantStatus: http.StatusUnauthorized},
		{name: "missing access", status: http.StatusOK, body: `{}`, wantStatus: http.StatusOK},
		{name: "server error", status: http.StatusBadGateway, body: `upstream down`, wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/users/token/refresh/", r.URL.Path)
				assert.Empty(t, r.Header.Get("Authorization"))

				var in map[string]string
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
				assert.Equal(t, map[string]string{"refresh": "R1"}, in)

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			endpoint, err := NewRefreshEndpoint(srv.URL + "/api/")
			require.NoError(t, err)

			tok, err := endpoint.Renew(context.Background(), "R1")
			if tt.wantToken != "" {
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, tok.AccessToken)
				assert.Equal(t, "Bearer", tok.Type())
				return
			}

			var renewalErr *RenewalError
			require.ErrorAs(t, err, &renewalErr)
			assert.Equal(t, tt.wantStatus, renewalErr.StatusCode)
		})
	}
}

func TestRefreshEndpoint_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	endpoint, err := NewRefreshEndpoint(url)
	require.NoError(t, err)

	_, err = endpoint.Renew(context.Background(), "R1")
	require.Error(t, err)
}

func TestNewRefreshEndpoint_EmptyBaseURL(t *testing.T) {
	_, err := NewRefreshEndpoint("")
	require.Error(t, err)
}
