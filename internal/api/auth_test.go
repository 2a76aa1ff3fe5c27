package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexfit/gymctl/internal/session"
)

func newAuthClient(t *testing.T, handler http.Handler) (*Client, *session.FileStore) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := session.NewFileStore(t.TempDir())
	require.NoError(t, err)

	client, err := NewClient(srv.URL, store)
	require.NoError(t, err)

	return client, store
}

func TestLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))

		if creds["password"] != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "acc-1",
			"refresh_token": "ref-1",
			"user": map[string]any{
				"id": 7, "name": "Mia", "email": creds["email"], "role": "member",
			},
		})
	})
	client, store := newAuthClient(t, mux)

	t.Run("success stores session and mirrors cookie", func(t *testing.T) {
		sess, err := client.Login(context.Background(), "mia@example.com", "hunter2")
		require.NoError(t, err)

		assert.Equal(t, "acc-1", sess.AccessToken)
		assert.Equal(t, session.RoleMember, sess.Role())

		stored, err := store.Get()
		require.NoError(t, err)
		assert.Equal(t, "acc-1", stored.AccessToken)
		assert.Equal(t, "ref-1", stored.RefreshToken)
		assert.Equal(t, "acc-1", client.Mirror().Token())
	})

	t.Run("bad password", func(t *testing.T) {
		_, err := client.Login(context.Background(), "mia@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLogin_LegacyResponseShape(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"token": "legacy-acc", "role": "admin"})
	})
	client, store := newAuthClient(t, mux)

	sess, err := client.Login(context.Background(), "root@example.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, "legacy-acc", sess.AccessToken)
	assert.Equal(t, session.RoleAdmin, sess.Role())

	stored, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "legacy-acc", stored.AccessToken)
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var form RegistrationForm
		require.NoError(t, json.NewDecoder(r.Body).Decode(&form))

		switch form.Email {
		case "taken@example.com":
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Email already exists!"})
		case "bad@example.com":
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{
				"error":  "Validation failed",
				"errors": map[string]string{"zipcode": "must be 5 digits"},
			})
		case "legacy@example.com":
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"message": "User registered successfully!"})
		default:
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "acc-new",
				"refresh_token": "ref-new",
				"user":          map[string]any{"id": 9, "name": form.Name, "email": form.Email, "role": "member"},
			})
		}
	})
	client, store := newAuthClient(t, mux)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := client.Register(context.Background(), RegistrationForm{Email: "taken@example.com"})
		assert.ErrorIs(t, err, ErrDuplicateAccount)
	})

	t.Run("field validation", func(t *testing.T) {
		_, err := client.Register(context.Background(), RegistrationForm{Email: "bad@example.com"})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Error(), "zipcode")
	})

	t.Run("tokenless registration leaves no session", func(t *testing.T) {
		_, err := client.Register(context.Background(), RegistrationForm{Email: "legacy@example.com"})
		require.NoError(t, err)

		_, err = store.Get()
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("token-bearing registration logs in", func(t *testing.T) {
		sess, err := client.Register(context.Background(), RegistrationForm{Name: "Ana", Email: "ana@example.com", Password: "pw"})
		require.NoError(t, err)

		assert.Equal(t, "acc-new", sess.AccessToken)

		stored, err := store.Get()
		require.NoError(t, err)
		assert.Equal(t, "ref-new", stored.RefreshToken)
	})
}

func TestRefresh(t *testing.T) {
	t.Run("rotates access token, keeps refresh token when omitted", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "acc-2"})
		})
		client, store := newAuthClient(t, mux)
		require.NoError(t, store.Set(&session.Session{AccessToken: "acc-1", RefreshToken: "ref-1"}))

		sess, err := client.Refresh(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "acc-2", sess.AccessToken)
		assert.Equal(t, "ref-1", sess.RefreshToken, "old refresh token survives an omitted rotation")

		stored, err := store.Get()
		require.NoError(t, err)
		assert.Equal(t, "acc-2", stored.AccessToken)
		assert.Equal(t, "acc-2", client.Mirror().Token())
	})

	t.Run("no session", func(t *testing.T) {
		client, _ := newAuthClient(t, http.NewServeMux())

		_, err := client.Refresh(context.Background())
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("no refresh token held", func(t *testing.T) {
		client, store := newAuthClient(t, http.NewServeMux())
		require.NoError(t, store.Set(&session.Session{AccessToken: "acc-1"}))

		_, err := client.Refresh(context.Background())
		assert.ErrorIs(t, err, ErrRefreshRejected)
	})

	t.Run("rejected by server", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		client, store := newAuthClient(t, mux)
		require.NoError(t, store.Set(&session.Session{AccessToken: "acc-1", RefreshToken: "ref-1"}))

		_, err := client.Refresh(context.Background())
		assert.ErrorIs(t, err, ErrRefreshRejected)
	})
}

func TestLogout(t *testing.T) {
	t.Run("notifies server and clears everything", func(t *testing.T) {
		var notified bool
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
			notified = true
			assert.Equal(t, "Bearer acc-1", r.Header.Get("Authorization"))
		})
		client, store := newAuthClient(t, mux)
		require.NoError(t, store.Set(&session.Session{AccessToken: "acc-1", RefreshToken: "ref-1"}))
		client.Mirror().Set("acc-1")

		require.NoError(t, client.Logout(context.Background()))

		assert.True(t, notified)
		_, err := store.Get()
		assert.ErrorIs(t, err, session.ErrNoSession)
		assert.Empty(t, client.Mirror().Token())
	})

	t.Run("server failure never blocks teardown", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		client, store := newAuthClient(t, mux)
		require.NoError(t, store.Set(&session.Session{AccessToken: "acc-1", RefreshToken: "ref-1"}))

		require.NoError(t, client.Logout(context.Background()))

		_, err := store.Get()
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("logout without session is a no-op", func(t *testing.T) {
		client, _ := newAuthClient(t, http.NewServeMux())
		assert.NoError(t, client.Logout(context.Background()))
	})
}

func TestProfile_UpdatesCachedUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/dashboard/profile", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(UserProfile{
			ID: 7, Name: "Mia Chen", Email: "mia@example.com", Role: session.RoleTrainer,
		})
	})
	client, store := newAuthClient(t, mux)
	require.NoError(t, store.Set(&session.Session{
		AccessToken:  "acc-1",
		RefreshToken: "ref-1",
		User:         &session.User{ID: 7, Name: "Mia", Role: session.RoleMember},
	}))

	profile, err := client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Mia Chen", profile.Name)

	stored, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, session.RoleTrainer, stored.Role(), "role routing follows the fresh profile")
}
