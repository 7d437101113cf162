package core

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/caasmo/notefold/config"
	"github.com/caasmo/notefold/db"
	"github.com/caasmo/notefold/db/mock"
	"github.com/caasmo/notefold/oauth2"
	"github.com/caasmo/notefold/router/servemux"
)

// MockValidator implements Validator with overridable behavior.
type MockValidator struct {
	ContentTypeFunc func(r *http.Request, allowedType string) (jsonResponse, error)
}

func (m *MockValidator) ContentType(r *http.Request, allowedType string) (jsonResponse, error) {
	if m.ContentTypeFunc != nil {
		return m.ContentTypeFunc(r, allowedType)
	}
	return jsonResponse{}, nil
}

// MockOtpIssuer implements OtpIssuer with overridable behavior.
type MockOtpIssuer struct {
	IssueFunc   func(ctx context.Context, email string) error
	ConsumeFunc func(email, code string) (*db.Otp, error)

	// Issued collects the emails Issue was called with.
	Issued []string
}

func (m *MockOtpIssuer) Issue(ctx context.Context, email string) error {
	m.Issued = append(m.Issued, email)
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, email)
	}
	return nil
}

func (m *MockOtpIssuer) Consume(email, code string) (*db.Otp, error) {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(email, code)
	}
	return nil, db.ErrOtpNotFound
}

// MockBridge implements oauth2.Bridge with overridable behavior.
type MockBridge struct {
	AuthCodeURLFunc          func(state, codeVerifier string) string
	ResolveFromAssertionFunc func(ctx context.Context, assertion string) (*oauth2.Identity, error)
	ResolveFromCodeFunc      func(ctx context.Context, code, codeVerifier string) (*oauth2.Identity, error)
}

func (m *MockBridge) AuthCodeURL(state, codeVerifier string) string {
	if m.AuthCodeURLFunc != nil {
		return m.AuthCodeURLFunc(state, codeVerifier)
	}
	return "https://provider.example.com/auth?state=" + state
}

func (m *MockBridge) ResolveFromAssertion(ctx context.Context, assertion string) (*oauth2.Identity, error) {
	if m.ResolveFromAssertionFunc != nil {
		return m.ResolveFromAssertionFunc(ctx, assertion)
	}
	return nil, oauth2.ErrInvalidAssertion
}

func (m *MockBridge) ResolveFromCode(ctx context.Context, code, codeVerifier string) (*oauth2.Identity, error) {
	if m.ResolveFromCodeFunc != nil {
		return m.ResolveFromCodeFunc(ctx, code, codeVerifier)
	}
	return nil, oauth2.ErrExchangeFailed
}

// newTestApp builds an App with a default config, discard logger, mock
// database and stub collaborators, ready for handler tests.
func newTestApp(t *testing.T, mockDb *mock.Db) (*App, *MockOtpIssuer, *MockBridge) {
	t.Helper()

	if mockDb == nil {
		mockDb = &mock.Db{}
	}

	cfg := config.NewDefaultConfig()
	cfg.Jwt.AuthSecret = "0123456789abcdef0123456789abcdef"
	provider := config.NewProvider(cfg)

	issuer := &MockOtpIssuer{}
	bridge := &MockBridge{}

	app, err := NewApp(
		WithDbApp(mockDb),
		WithConfigProvider(provider),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithRouter(servemux.New()),
		WithOtpIssuer(issuer),
		WithOauthBridge(bridge),
	)
	if err != nil {
		t.Fatalf("failed to build test app: %v", err)
	}
	return app, issuer, bridge
}
