package auth

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"portal-client/internal/api"
	"portal-client/internal/shared/kvkeys"
	"portal-client/internal/shared/storage/kv"
	"portal-client/internal/shared/telemetry"
)

// userRefreshTTL bounds how old the stored profile may get before app
// start re-fetches it.
const userRefreshTTL = 24 * time.Hour

// Service manages the stored credential and the auth-adjacent backend
// flows. All persisted state lives in the injected store under the
// kvkeys names.
type Service struct {
	api   *api.Client
	store kv.Store
	now   func() time.Time
}

// NewService constructs an auth service.
func NewService(client *api.Client, store kv.Store) *Service {
	return &Service{api: client, store: store, now: time.Now}
}

// Login authenticates and, on success, persists the token, the user
// profile, and the profile refresh marker.
func (s *Service) Login(ctx context.Context, username, password string) (api.AuthResponse, error) {
	resp, err := s.api.Login(ctx, api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return api.AuthResponse{}, err
	}
	if resp.Token != "" {
		s.persistCredential(resp.Token, resp.User)
	}
	return resp, nil
}

// Register creates an account. The credential is deliberately not stored;
// the user logs in manually afterwards.
func (s *Service) Register(ctx context.Context, req api.RegisterRequest) (api.AuthResponse, error) {
	return s.api.Register(ctx, req)
}

// Logout invalidates the backend session best-effort and always clears
// local state.
func (s *Service) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		telemetry.Warn("auth.logout_backend_failed", map[string]any{"error": err.Error()})
	}
	_ = s.store.Remove(kvkeys.AuthToken)
	_ = s.store.Remove(kvkeys.User)
	_ = s.store.Remove(kvkeys.UserLastRefresh)
}

// CurrentUser returns the locally stored profile, if present and readable.
func (s *Service) CurrentUser() (api.User, bool) {
	raw, ok := s.store.Get(kvkeys.User)
	if !ok {
		return api.User{}, false
	}
	var user api.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return api.User{}, false
	}
	return user, true
}

// IsAuthenticated reports whether both a token and a readable profile are
// stored.
func (s *Service) IsAuthenticated() bool {
	if _, ok := s.api.Token(); !ok {
		return false
	}
	_, ok := s.CurrentUser()
	return ok
}

// UserInfo fetches the profile from the backend and restamps the refresh
// marker.
func (s *Service) UserInfo(ctx context.Context) (api.User, error) {
	user, err := s.api.UserInfo(ctx)
	if err != nil {
		return api.User{}, err
	}
	s.persistUser(user)
	return user, nil
}

// UpdateUser submits a profile update, then refreshes the stored profile.
// A failed refresh is logged but does not fail the update.
func (s *Service) UpdateUser(ctx context.Context, req api.UpdateUserRequest) (string, error) {
	msg, err := s.api.UpdateUser(ctx, req)
	if err != nil {
		return "", err
	}
	if _, err := s.UserInfo(ctx); err != nil {
		telemetry.Warn("auth.profile_refresh_failed", map[string]any{"error": err.Error()})
	}
	return msg, nil
}

// EnsureFreshUser re-fetches the profile when the stored copy is older
// than the refresh TTL. A fresh stored copy is returned without a network
// call.
func (s *Service) EnsureFreshUser(ctx context.Context) (api.User, error) {
	if user, ok := s.CurrentUser(); ok {
		if last, ok := s.lastRefresh(); ok && s.now().Sub(last) < userRefreshTTL {
			return user, nil
		}
	}
	return s.UserInfo(ctx)
}

func (s *Service) persistCredential(token string, user api.User) {
	if err := s.store.Set(kvkeys.AuthToken, []byte(token)); err != nil {
		telemetry.Error("auth.persist_token_failed", map[string]any{"error": err.Error()})
	}
	s.persistUser(user)
}

func (s *Service) persistUser(user api.User) {
	payload, err := json.Marshal(user)
	if err == nil {
		if err := s.store.Set(kvkeys.User, payload); err != nil {
			telemetry.Error("auth.persist_user_failed", map[string]any{"error": err.Error()})
		}
	}
	stamp := strconv.FormatInt(s.now().UnixMilli(), 10)
	if err := s.store.Set(kvkeys.UserLastRefresh, []byte(stamp)); err != nil {
		telemetry.Error("auth.persist_refresh_failed", map[string]any{"error": err.Error()})
	}
}

func (s *Service) lastRefresh() (time.Time, bool) {
	raw, ok := s.store.Get(kvkeys.UserLastRefresh)
	if !ok {
		return time.Time{}, false
	}
	millis, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(millis), true
}
