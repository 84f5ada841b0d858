// Package link drives the connected-account issuance state machine:
// credential submission either completes, suspends on an out-of-band
// two-factor challenge, or fails. The caller stores the continuation
// payload between steps; this package holds no session state.
package link

import (
	"context"
	"errors"
	"fmt"
	"log"

	"tekeer/internal/infrastructure/provider"
)

// Status is the three-way outcome of a link attempt.
type Status int

const (
	StatusLinked Status = iota
	StatusTwoFactorPending
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLinked:
		return "linked"
	case StatusTwoFactorPending:
		return "two_factor_pending"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Credentials is what the caller supplies to start (or continue) a link.
type Credentials struct {
	Organization string
	LoginType    string
	LoginID      string
	Password     string
	UserName     string
	PhoneNo      string
	Identity     string
	Telecom      string
	CardNo       string
	CardPassword string
}

// Result reports one transition of the state machine. Exactly one of the
// three shapes is populated, selected by Status.
type Result struct {
	Status            Status
	ConnectedID       string
	AlreadyRegistered bool

	// Two-factor continuation, surfaced to the caller for the next step.
	Prompt       string
	Continuation provider.TwoWayInfo

	// Failure detail, reported verbatim. Code is the provider result code
	// when the rejection came from the provider.
	Code   string
	Reason string
}

// Issuer issues connected accounts and records successful links. Failures
// are never retried here; each rejection is surfaced for the caller to
// decide on resubmission.
type Issuer struct {
	client   provider.ClientInterface
	accounts Repository
}

func NewIssuer(client provider.ClientInterface, accounts Repository) *Issuer {
	return &Issuer{client: client, accounts: accounts}
}

// Submit performs the initial credential submission for userID.
func (i *Issuer) Submit(ctx context.Context, userID int64, creds Credentials) Result {
	return i.attempt(ctx, userID, creds, nil)
}

// Continue resumes a pending two-factor login with the continuation
// payload returned by an earlier Submit. A second two-factor outcome is
// possible for multi-round flows and is surfaced the same way.
func (i *Issuer) Continue(ctx context.Context, userID int64, creds Credentials, continuation provider.TwoWayInfo) Result {
	if len(continuation) == 0 {
		return Result{Status: StatusFailed, Reason: "continuation payload is required"}
	}
	return i.attempt(ctx, userID, creds, continuation)
}

func (i *Issuer) attempt(ctx context.Context, userID int64, creds Credentials, twoWay provider.TwoWayInfo) Result {
	outcome, err := i.client.CreateConnectedID(ctx, provider.ConnectedIDParams{
		Organization: creds.Organization,
		LoginType:    creds.LoginType,
		LoginID:      creds.LoginID,
		Password:     creds.Password,
		UserName:     creds.UserName,
		PhoneNo:      creds.PhoneNo,
		Identity:     creds.Identity,
		Telecom:      creds.Telecom,
		CardNo:       creds.CardNo,
		CardPassword: creds.CardPassword,
		TwoWay:       twoWay,
	})
	if err != nil {
		return failureResult(err)
	}

	if outcome.TwoFactor != nil {
		return Result{
			Status:       StatusTwoFactorPending,
			Prompt:       outcome.TwoFactor.Message,
			Continuation: outcome.TwoFactor.Data,
		}
	}

	if outcome.ConnectedID == "" {
		return Result{Status: StatusFailed, Reason: "provider reported success without a connected id"}
	}

	if _, err := i.accounts.Upsert(ctx, userID, creds.Organization, outcome.ConnectedID); err != nil {
		// The provider-side link exists; losing the local record is a
		// storage failure, not a link failure the user can fix.
		log.Printf("Failed to store connected account for user %d org %s: %v",
			userID, creds.Organization, err)
		return Result{Status: StatusFailed, Reason: fmt.Sprintf("failed to store connected account: %v", err)}
	}

	return Result{
		Status:            StatusLinked,
		ConnectedID:       outcome.ConnectedID,
		AlreadyRegistered: outcome.AlreadyRegistered,
	}
}

func failureResult(err error) Result {
	var perr *provider.Error
	if errors.As(err, &perr) {
		return Result{Status: StatusFailed, Code: perr.Code, Reason: perr.Message}
	}
	return Result{Status: StatusFailed, Reason: err.Error()}
}
