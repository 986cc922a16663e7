package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"portal-client/internal/api"
	"portal-client/internal/shared/kvkeys"
	"portal-client/internal/shared/storage/kv"
)

func TestLoginPersistsCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/website/user/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"message":"ok","token":"tok-1","user":{"id":7,"username":"may","email":"may@example.com"}}`))
	}))
	defer srv.Close()

	store := kv.NewMemoryStore()
	svc := NewService(api.New(srv.URL, store), store)
	resp, err := svc.Login(context.Background(), "may", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token != "tok-1" {
		t.Fatalf("unexpected token %q", resp.Token)
	}
	if raw, ok := store.Get(kvkeys.AuthToken); !ok || string(raw) != "tok-1" {
		t.Fatalf("expected stored token, got %q ok=%v", raw, ok)
	}
	if !svc.IsAuthenticated() {
		t.Fatalf("expected authenticated after login")
	}
	if _, ok := store.Get(kvkeys.UserLastRefresh); !ok {
		t.Fatalf("expected refresh marker")
	}
}

func TestRegisterDoesNotStoreCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"registered","token":"tok-x","user":{"id":1,"username":"new"}}`))
	}))
	defer srv.Close()

	store := kv.NewMemoryStore()
	svc := NewService(api.New(srv.URL, store), store)
	if _, err := svc.Register(context.Background(), api.RegisterRequest{Username: "new", Email: "n@example.com", Password: "pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, ok := store.Get(kvkeys.AuthToken); ok {
		t.Fatalf("register must not store a token")
	}
}

func TestLogoutClearsStateEvenWhenBackendFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := kv.NewMemoryStore()
	store.Set(kvkeys.AuthToken, []byte("tok"))
	store.Set(kvkeys.User, []byte(`{"id":1}`))
	store.Set(kvkeys.UserLastRefresh, []byte("123"))

	svc := NewService(api.New(srv.URL, store), store)
	svc.Logout(context.Background())

	for _, key := range []string{kvkeys.AuthToken, kvkeys.User, kvkeys.UserLastRefresh} {
		if _, ok := store.Get(key); ok {
			t.Fatalf("expected %s cleared", key)
		}
	}
}

func TestEnsureFreshUserSkipsNetworkWhenRecent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"id":7,"username":"may"}`))
	}))
	defer srv.Close()

	store := kv.NewMemoryStore()
	store.Set(kvkeys.User, []byte(`{"id":7,"username":"may"}`))
	now := time.Now()
	store.Set(kvkeys.UserLastRefresh, []byte(strconv.FormatInt(now.Add(-time.Hour).UnixMilli(), 10)))

	svc := NewService(api.New(srv.URL, store), store)
	svc.now = func() time.Time { return now }

	user, err := svc.EnsureFreshUser(context.Background())
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if user.Username != "may" {
		t.Fatalf("unexpected user %+v", user)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no network call, got %d", calls.Load())
	}
}

func TestEnsureFreshUserRefetchesWhenStale(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"id":7,"username":"fresh"}`))
	}))
	defer srv.Close()

	store := kv.NewMemoryStore()
	store.Set(kvkeys.User, []byte(`{"id":7,"username":"stale"}`))
	now := time.Now()
	store.Set(kvkeys.UserLastRefresh, []byte(strconv.FormatInt(now.Add(-25*time.Hour).UnixMilli(), 10)))

	svc := NewService(api.New(srv.URL, store), store)
	svc.now = func() time.Time { return now }

	user, err := svc.EnsureFreshUser(context.Background())
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if user.Username != "fresh" || calls.Load() != 1 {
		t.Fatalf("expected refetch, user=%+v calls=%d", user, calls.Load())
	}
}

func TestCurrentUserToleratesCorruptValue(t *testing.T) {
	store := kv.NewMemoryStore()
	store.Set(kvkeys.User, []byte("{broken"))
	svc := NewService(api.New("http://unreachable.invalid", store), store)
	if _, ok := svc.CurrentUser(); ok {
		t.Fatalf("corrupt profile must read as absent")
	}
}
