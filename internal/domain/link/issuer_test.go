package link

import (
	"context"
	"testing"

	"tekeer/internal/infrastructure/provider"
)

type MockProviderClient struct {
	CreateConnectedIDFunc func(ctx context.Context, p provider.ConnectedIDParams) (*provider.ConnectedIDResult, error)
}

func (m *MockProviderClient) CreateConnectedID(ctx context.Context, p provider.ConnectedIDParams) (*provider.ConnectedIDResult, error) {
	return m.CreateConnectedIDFunc(ctx, p)
}
func (m *MockProviderClient) CardList(ctx context.Context, p provider.ListParams) ([]provider.CardEntry, error) {
	return nil, nil
}
func (m *MockProviderClient) BillingList(ctx context.Context, p provider.ListParams) ([]provider.BillingEntry, error) {
	return nil, nil
}
func (m *MockProviderClient) ApprovalList(ctx context.Context, p provider.ApprovalParams) ([]provider.ApprovalEntry, error) {
	return nil, nil
}

type MockAccountRepo struct {
	UpsertFunc func(ctx context.Context, userID int64, organization, connectedID string) (*ConnectedAccount, error)
	upserts    int
}

func (m *MockAccountRepo) GetByUserAndOrganization(ctx context.Context, userID int64, organization string) (*ConnectedAccount, error) {
	return nil, nil
}
func (m *MockAccountRepo) Upsert(ctx context.Context, userID int64, organization, connectedID string) (*ConnectedAccount, error) {
	m.upserts++
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, userID, organization, connectedID)
	}
	return &ConnectedAccount{UserID: userID, Organization: organization, ConnectedID: connectedID}, nil
}
func (m *MockAccountRepo) ListAll(ctx context.Context) ([]*ConnectedAccount, error) {
	return nil, nil
}

func passwordCreds() Credentials {
	return Credentials{
		Organization: "0304",
		LoginType:    provider.LoginTypeIDPassword,
		LoginID:      "member",
		Password:     "pw",
	}
}

func TestSubmit_Linked(t *testing.T) {
	client := &MockProviderClient{
		CreateConnectedIDFunc: func(ctx context.Context, p provider.ConnectedIDParams) (*provider.ConnectedIDResult, error) {
			if p.TwoWay != nil {
				t.Error("initial submit must not carry a continuation")
			}
			return &provider.ConnectedIDResult{ConnectedID: "cid-1"}, nil
		},
	}
	repo := &MockAccountRepo{}
	issuer := NewIssuer(client, repo)

	result := issuer.Submit(context.Background(), 42, passwordCreds())

	if result.Status != StatusLinked {
		t.Fatalf("Status = %v, want StatusLinked", result.Status)
	}
	if result.ConnectedID != "cid-1" {
		t.Errorf("ConnectedID = %q", result.ConnectedID)
	}
	if repo.upserts != 1 {
		t.Errorf("connected account stored %d times, want 1", repo.upserts)
	}
}

func TestSubmit_TwoFactorPending(t *testing.T) {
	client := &MockProviderClient{
		CreateConnectedIDFunc: func(ctx context.Context, p provider.ConnectedIDParams) (*provider.ConnectedIDResult, error) {
			return &provider.ConnectedIDResult{TwoFactor: &provider.TwoFactorContinuation{
				Message: "앱 인증을 완료해주세요",
				Data:    provider.TwoWayInfo{"jti": "tx-9"},
			}}, nil
		},
	}
	repo := &MockAccountRepo{}
	issuer := NewIssuer(client, repo)

	result := issuer.Submit(context.Background(), 42, passwordCreds())

	if result.Status != StatusTwoFactorPending {
		t.Fatalf("Status = %v, want StatusTwoFactorPending (never a failure)", result.Status)
	}
	if result.Prompt == "" {
		t.Error("prompt missing")
	}
	if result.Continuation["jti"] != "tx-9" {
		t.Errorf("Continuation = %v", result.Continuation)
	}
	if repo.upserts != 0 {
		t.Error("no account must be stored while two-factor is pending")
	}
}

func TestSubmit_AlreadyRegisteredIsLinked(t *testing.T) {
	client := &MockProviderClient{
		CreateConnectedIDFunc: func(ctx context.Context, p provider.ConnectedIDParams) (*provider.ConnectedIDResult, error) {
			return &provider.ConnectedIDResult{ConnectedID: "cid-existing", AlreadyRegistered: true}, nil
		},
	}
	issuer := NewIssuer(client, &MockAccountRepo{})

	result := issuer.Submit(context.Background(), 42, passwordCreds())

	if result.Status != StatusLinked {
		t.Fatalf("Status = %v, want StatusLinked for already-registered", result.Status)
	}
	if !result.AlreadyRegistered || result.ConnectedID != "cid-existing" {
		t.Errorf("result = %+v", result)
	}
}

func TestSubmit_ProviderErrorSurfacedVerbatim(t *testing.T) {
	client := &MockProviderClient{
		CreateConnectedIDFunc: func(ctx context.Context, p provider.ConnectedIDParams) (*provider.ConnectedIDResult, error) {
			return nil, &provider.Error{Kind: provider.KindProvider, Code: "CF-12100", Message: "아이디 또는 비밀번호 오류"}
		},
	}
	issuer := NewIssuer(client, &MockAccountRepo{})

	result := issuer.Submit(context.Background(), 42, passwordCreds())

	if result.Status != StatusFailed {
		t.Fatalf("Status = %v, want StatusFailed", result.Status)
	}
	if result.Code != "CF-12100" || result.Reason != "아이디 또는 비밀번호 오류" {
		t.Errorf("failure not surfaced verbatim: %+v", result)
	}
}

func TestContinue_CompletesLink(t *testing.T) {
	client := &MockProviderClient{
		CreateConnectedIDFunc: func(ctx context.Context, p provider.ConnectedIDParams) (*provider.ConnectedIDResult, error) {
			if p.TwoWay == nil || p.TwoWay["jti"] != "tx-9" {
				t.Errorf("continuation not echoed: %v", p.TwoWay)
			}
			return &provider.ConnectedIDResult{ConnectedID: "cid-2"}, nil
		},
	}
	repo := &MockAccountRepo{}
	issuer := NewIssuer(client, repo)

	result := issuer.Continue(context.Background(), 42, passwordCreds(), provider.TwoWayInfo{"jti": "tx-9"})

	if result.Status != StatusLinked || result.ConnectedID != "cid-2" {
		t.Fatalf("result = %+v", result)
	}
	if repo.upserts != 1 {
		t.Errorf("connected account stored %d times, want 1", repo.upserts)
	}
}

func TestContinue_SecondChallengeLoops(t *testing.T) {
	client := &MockProviderClient{
		CreateConnectedIDFunc: func(ctx context.Context, p provider.ConnectedIDParams) (*provider.ConnectedIDResult, error) {
			return &provider.ConnectedIDResult{TwoFactor: &provider.TwoFactorContinuation{
				Message: "한 번 더 인증이 필요합니다",
				Data:    provider.TwoWayInfo{"jti": "tx-10"},
			}}, nil
		},
	}
	issuer := NewIssuer(client, &MockAccountRepo{})

	result := issuer.Continue(context.Background(), 42, passwordCreds(), provider.TwoWayInfo{"jti": "tx-9"})

	if result.Status != StatusTwoFactorPending {
		t.Fatalf("Status = %v, want StatusTwoFactorPending on a second challenge", result.Status)
	}
	if result.Continuation["jti"] != "tx-10" {
		t.Errorf("Continuation = %v, want the fresh payload", result.Continuation)
	}
}

func TestContinue_WithoutContinuationFails(t *testing.T) {
	called := false
	client := &MockProviderClient{
		CreateConnectedIDFunc: func(ctx context.Context, p provider.ConnectedIDParams) (*provider.ConnectedIDResult, error) {
			called = true
			return nil, nil
		},
	}
	issuer := NewIssuer(client, &MockAccountRepo{})

	result := issuer.Continue(context.Background(), 42, passwordCreds(), nil)

	if result.Status != StatusFailed {
		t.Fatalf("Status = %v, want StatusFailed", result.Status)
	}
	if called {
		t.Error("provider must not be called without a continuation")
	}
}
