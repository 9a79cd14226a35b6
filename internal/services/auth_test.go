package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	tu "github.com/formahq/forma/internal/testing"
)

func TestSessionState(t *testing.T) {
	cases := map[SessionState]string{
		StateUnresolved:    "unresolved",
		StateResolving:     "resolving",
		StateAuthenticated: "authenticated",
		StateAnonymous:     "anonymous",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

func TestAuthService(t *testing.T) {
	t.Run("starts unresolved", func(t *testing.T) {
		auth := NewAuthService(NewClient("", nil, nil), tu.NewMemTokenStore("", ""))
		if auth.State() != StateUnresolved {
			t.Errorf("expected unresolved, got %v", auth.State())
		}
		if auth.IsAuthenticated() {
			t.Error("expected not authenticated")
		}
	})

	t.Run("Bootstrap", func(t *testing.T) {
		t.Run("settles anonymous without a stored token", func(t *testing.T) {
			auth := NewAuthService(NewClient("", nil, nil), tu.NewMemTokenStore("", ""))

			if err := auth.Bootstrap(context.Background()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if auth.State() != StateAnonymous {
				t.Errorf("expected anonymous, got %v", auth.State())
			}
		})

		t.Run("verifies a stored token against the profile endpoint", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/auth/profile/" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				fmt.Fprint(w, `{"id":7,"email":"a@acme.com","name":"Ada"}`)
			}))
			defer server.Close()

			tokens := tu.NewMemTokenStore("access-1", "refresh-1")
			auth := NewAuthService(NewClient(server.URL, nil, tokens), tokens)

			if err := auth.Bootstrap(context.Background()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if auth.State() != StateAuthenticated {
				t.Errorf("expected authenticated, got %v", auth.State())
			}
			if user := auth.CurrentUser(); user == nil || user.Email != "a@acme.com" {
				t.Errorf("expected resolved user, got %+v", user)
			}
		})

		t.Run("failed verification clears tokens and settles anonymous", func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/api/auth/profile/", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"detail":"token invalid"}`)
			})
			mux.HandleFunc("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			})
			server := httptest.NewServer(mux)
			defer server.Close()

			tokens := tu.NewMemTokenStore("stale", "stale")
			auth := NewAuthService(NewClient(server.URL, nil, tokens), tokens)

			if err := auth.Bootstrap(context.Background()); err != nil {
				t.Fatalf("expected bootstrap to absorb the failure, got %v", err)
			}
			if auth.State() != StateAnonymous {
				t.Errorf("expected anonymous, got %v", auth.State())
			}
			access, refresh := tokens.Tokens()
			if access != "" || refresh != "" {
				t.Errorf("expected tokens cleared, got %q / %q", access, refresh)
			}
		})

		t.Run("surfaces token store failures", func(t *testing.T) {
			tokens := tu.NewMemTokenStore("x", "y")
			tokens.Err = errors.New("disk gone")
			auth := NewAuthService(NewClient("", nil, tokens), tokens)

			if err := auth.Bootstrap(context.Background()); err == nil {
				t.Fatal("expected error from token store")
			}
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("stores tokens and loads the profile", func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
				var creds map[string]string
				if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
					t.Errorf("failed to decode login payload: %v", err)
				}
				if creds["email"] != "a@acme.com" || creds["password"] != "hunter2" {
					t.Errorf("unexpected credentials: %v", creds)
				}
				fmt.Fprint(w, `{"access":"access-1","refresh":"refresh-1"}`)
			})
			mux.HandleFunc("/api/auth/profile/", func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "Bearer access-1" {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				fmt.Fprint(w, `{"id":7,"email":"a@acme.com"}`)
			})
			server := httptest.NewServer(mux)
			defer server.Close()

			tokens := tu.NewMemTokenStore("", "")
			auth := NewAuthService(NewClient(server.URL, nil, tokens), tokens)

			user, err := auth.Login(context.Background(), "a@acme.com", "hunter2")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if user.Email != "a@acme.com" {
				t.Errorf("unexpected user %+v", user)
			}
			if auth.State() != StateAuthenticated {
				t.Errorf("expected authenticated, got %v", auth.State())
			}

			access, refresh := tokens.Tokens()
			if access != "access-1" || refresh != "refresh-1" {
				t.Errorf("expected token pair stored, got %q / %q", access, refresh)
			}
		})

		t.Run("bad credentials settle anonymous", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"detail":"invalid credentials"}`)
			}))
			defer server.Close()

			tokens := tu.NewMemTokenStore("", "")
			auth := NewAuthService(NewClient(server.URL, nil, tokens), tokens)

			if _, err := auth.Login(context.Background(), "a@acme.com", "wrong"); err == nil {
				t.Fatal("expected login error")
			}
			if auth.State() != StateAnonymous {
				t.Errorf("expected anonymous, got %v", auth.State())
			}
		})

		t.Run("missing tokens in response fail the login", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"message":"ok"}`)
			}))
			defer server.Close()

			tokens := tu.NewMemTokenStore("", "")
			auth := NewAuthService(NewClient(server.URL, nil, tokens), tokens)

			if _, err := auth.Login(context.Background(), "a@acme.com", "hunter2"); err == nil {
				t.Fatal("expected error for missing tokens")
			}
		})
	})

	t.Run("Register", func(t *testing.T) {
		t.Run("sends password confirmation and stays anonymous", func(t *testing.T) {
			var payload map[string]string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/auth/register/" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
					t.Errorf("failed to decode register payload: %v", err)
				}
				w.WriteHeader(http.StatusCreated)
				fmt.Fprint(w, `{"id":9,"email":"new@acme.com"}`)
			}))
			defer server.Close()

			tokens := tu.NewMemTokenStore("", "")
			auth := NewAuthService(NewClient(server.URL, nil, tokens), tokens)

			err := auth.Register(context.Background(), RegisterRequest{
				Email:    "new@acme.com",
				Password: "hunter2",
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if payload["password_confirm"] != "hunter2" {
				t.Errorf("expected password_confirm defaulted, got %q", payload["password_confirm"])
			}
			if auth.IsAuthenticated() {
				t.Error("registration must not authenticate the session")
			}
			access, refresh := tokens.Tokens()
			if access != "" || refresh != "" {
				t.Errorf("expected no tokens stored, got %q / %q", access, refresh)
			}
		})
	})

	t.Run("Logout", func(t *testing.T) {
		tokens := tu.NewMemTokenStore("access-1", "refresh-1")
		auth := NewAuthService(NewClient("", nil, tokens), tokens)

		if err := auth.Logout(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if auth.State() != StateAnonymous {
			t.Errorf("expected anonymous, got %v", auth.State())
		}
		access, refresh := tokens.Tokens()
		if access != "" || refresh != "" {
			t.Errorf("expected tokens cleared, got %q / %q", access, refresh)
		}
	})

	t.Run("DeleteAccount", func(t *testing.T) {
		var deleted bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodDelete && r.URL.Path == "/api/auth/delete/" {
				deleted = true
				w.WriteHeader(http.StatusNoContent)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		tokens := tu.NewMemTokenStore("access-1", "refresh-1")
		auth := NewAuthService(NewClient(server.URL, nil, tokens), tokens)

		if err := auth.DeleteAccount(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !deleted {
			t.Error("expected delete endpoint to be called")
		}
		if auth.State() != StateAnonymous {
			t.Errorf("expected anonymous after deletion, got %v", auth.State())
		}
	})
}
