package provider

import "context"

// ClientInterface is the contract sync services and the link issuer
// depend on, so tests can substitute a mock client.
type ClientInterface interface {
	CreateConnectedID(ctx context.Context, p ConnectedIDParams) (*ConnectedIDResult, error)
	CardList(ctx context.Context, p ListParams) ([]CardEntry, error)
	BillingList(ctx context.Context, p ListParams) ([]BillingEntry, error)
	ApprovalList(ctx context.Context, p ApprovalParams) ([]ApprovalEntry, error)
}
