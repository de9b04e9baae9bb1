package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/helpdeskhq/helpdesk-api/internal/api/middleware"
	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
	"github.com/helpdeskhq/helpdesk-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn   func(ctx context.Context, email, password string) (string, *domain.User, error)
	logoutFn  func(ctx context.Context, tokenID string, expiresAt time.Time) error
	meFn      func(ctx context.Context, p domain.Principal) (*domain.User, error)
	patchMeFn func(ctx context.Context, p domain.Principal, input ports.PatchUserInput) error
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return s.logoutFn(ctx, tokenID, expiresAt)
}

func (s *stubAuthService) Me(ctx context.Context, p domain.Principal) (*domain.User, error) {
	return s.meFn(ctx, p)
}

func (s *stubAuthService) PatchMe(ctx context.Context, p domain.Principal, input ports.PatchUserInput) error {
	return s.patchMeFn(ctx, p, input)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (string, *domain.User, error) {
			if email != "budi@example.com" || password != "hunter22" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return "signed-token", &domain.User{UUID: "u-1", Name: "Budi", Role: domain.RoleUser}, nil
		},
	}
	h := NewAuthHandler(stub)

	body := strings.NewReader(`{"email":"budi@example.com","password":"hunter22"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "signed-token" {
		t.Fatalf("unexpected token: %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["name"] != "Budi" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
}

func TestAuthHandler_Login_MalformedPayload(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			t.Fatal("service must not be reached")
			return "", nil, nil
		},
	})

	for name, body := range map[string]string{
		"invalid json":  `{"email": `,
		"missing email": `{"password":"hunter22"}`,
		"bad email":     `{"email":"not-an-email","password":"hunter22"}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()

			err := h.Login(e.NewContext(req, rec))
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 HTTPError, got %v", err)
			}
		})
	}
}

func TestAuthHandler_Login_ServiceError(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	})

	body := strings.NewReader(`{"email":"budi@example.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.Login(e.NewContext(req, rec))
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected credentials error to propagate, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEcho()
	exp := time.Now().Add(30 * time.Minute)
	var gotID string
	var gotExp time.Time
	h := NewAuthHandler(&stubAuthService{
		logoutFn: func(_ context.Context, tokenID string, expiresAt time.Time) error {
			gotID, gotExp = tokenID, expiresAt
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxTokenID, "jti-1")
	c.Set(middleware.CtxTokenExp, exp)

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "jti-1" || !gotExp.Equal(exp) {
		t.Fatalf("service got %q %v", gotID, gotExp)
	}
}

func TestAuthHandler_Logout_MissingTokenID(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{
		logoutFn: func(context.Context, string, time.Time) error {
			t.Fatal("service must not be reached")
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()

	err := h.Logout(e.NewContext(req, rec))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{
		meFn: func(_ context.Context, p domain.Principal) (*domain.User, error) {
			if p.ID != "u-1" || p.Role != domain.RoleManager {
				t.Fatalf("unexpected principal: %+v", p)
			}
			return &domain.User{UUID: "u-1", Name: "Siti", Role: domain.RoleManager}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxUserID, "u-1")
	c.Set(middleware.CtxRole, "manager")

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var user domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if user.Name != "Siti" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthHandler_Me_MissingClaims(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()

	err := h.Me(e.NewContext(req, rec))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuthHandler_PatchMe(t *testing.T) {
	e := newTestEcho()
	var got ports.PatchUserInput
	h := NewAuthHandler(&stubAuthService{
		patchMeFn: func(_ context.Context, p domain.Principal, input ports.PatchUserInput) error {
			got = input
			return nil
		},
	})

	body := strings.NewReader(`{"name":"Siti Rahma"}`)
	req := httptest.NewRequest(http.MethodPatch, "/auth/me", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxUserID, "u-1")
	c.Set(middleware.CtxRole, "manager")

	if err := h.PatchMe(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Name == nil || *got.Name != "Siti Rahma" {
		t.Fatalf("unexpected input: %+v", got)
	}
}
