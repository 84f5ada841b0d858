// Package provider implements the integration client for the external
// card-data provider: token lifecycle, field encryption of credentials,
// tolerant response decoding, and one typed method per remote operation.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	createAccountPath = "/v1/account/create"
	cardListPath      = "/v1/kr/card/p/account/card-list"
	billingListPath   = "/v1/kr/card/p/account/billing-list"
	approvalListPath  = "/v1/kr/card/p/account/approval-list"

	// Connected-account creation waits on out-of-band user approval, so
	// it gets a much longer deadline than plain list pulls.
	createTimeout = 60 * time.Second
	listTimeout   = 30 * time.Second
)

// FieldEncryptor encrypts a single credential field before transmission.
// crypto.Encryptor is the production implementation.
type FieldEncryptor interface {
	Encrypt(plaintext string) (string, error)
}

// Client performs the provider's remote operations. All methods are safe
// for concurrent use; the shared token cache and rate limiter do their own
// synchronization.
type Client struct {
	baseURL    string
	tokens     *TokenManager
	encryptor  FieldEncryptor
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ ClientInterface = (*Client)(nil)

// NewClient builds a provider client. requestsPerSecond bounds the
// outbound call rate across all concurrent syncs; the provider enforces
// per-client quotas and responds to bursts with throttling errors.
func NewClient(baseURL string, tokens *TokenManager, encryptor FieldEncryptor, requestsPerSecond float64) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	return &Client{
		baseURL:    baseURL,
		tokens:     tokens,
		encryptor:  encryptor,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), int(requestsPerSecond)+1),
	}
}

// CreateConnectedID drives one attempt of the connected-account issuance
// protocol. The returned result is three-way: a connected identifier, a
// pending two-factor continuation, or a typed error. An "already
// registered" response that still carries an identifier counts as success.
func (c *Client) CreateConnectedID(ctx context.Context, p ConnectedIDParams) (*ConnectedIDResult, error) {
	if p.Organization == "" {
		return nil, fmt.Errorf("organization is required")
	}
	loginType := p.LoginType
	if loginType == "" {
		loginType = LoginTypeIDPassword
	}

	account := map[string]any{
		"countryCode":  "KR",
		"businessType": "CD",
		"clientType":   "P",
		"organization": p.Organization,
		"loginType":    loginType,
		"certType":     "1",
	}

	switch loginType {
	case LoginTypeIDPassword:
		if p.LoginID == "" || p.Password == "" {
			return nil, fmt.Errorf("login id and password are required for the password flow")
		}
		encryptedPassword, err := c.encryptor.Encrypt(p.Password)
		if err != nil {
			return nil, wrapError(KindEncryption, err, "failed to encrypt password")
		}
		account["id"] = p.LoginID
		account["password"] = encryptedPassword

		if p.Identity != "" {
			encryptedIdentity, err := c.encryptor.Encrypt(p.Identity)
			if err != nil {
				return nil, wrapError(KindEncryption, err, "failed to encrypt identity")
			}
			account["identity"] = encryptedIdentity
		}

	case LoginTypeSimplified, LoginTypeSimplifiedAlt:
		if p.TwoWay == nil && (p.UserName == "" || p.PhoneNo == "" || p.Identity == "" || p.Telecom == "") {
			return nil, fmt.Errorf("user name, phone, identity and telecom are required for simplified auth")
		}
		encryptedPhone, err := c.encryptor.Encrypt(p.PhoneNo)
		if err != nil {
			return nil, wrapError(KindEncryption, err, "failed to encrypt phone number")
		}
		encryptedIdentity, err := c.encryptor.Encrypt(p.Identity)
		if err != nil {
			return nil, wrapError(KindEncryption, err, "failed to encrypt identity")
		}
		account["userName"] = p.UserName
		account["phoneNo"] = encryptedPhone
		account["identity"] = encryptedIdentity
		account["telecom"] = p.Telecom

		if level, ok := p.TwoWay["loginTypeLevel"]; ok {
			account["loginTypeLevel"] = level
		}

	default:
		return nil, fmt.Errorf("unsupported login type %q", loginType)
	}

	if p.CardNo != "" {
		account["cardNo"] = p.CardNo
	}
	if p.CardPassword != "" {
		encrypted, err := c.encryptor.Encrypt(p.CardPassword)
		if err != nil {
			return nil, wrapError(KindEncryption, err, "failed to encrypt card password")
		}
		account["cardPassword"] = encrypted
	}

	if p.TwoWay != nil {
		account["isTwoWay"] = true
		account["simpleAuth"] = p.TwoWay
	}

	resp, perr := c.post(ctx, createAccountPath, map[string]any{"accountList": []any{account}}, createTimeout)
	if perr != nil {
		return nil, perr
	}

	switch {
	case resp.Succeeded():
		return &ConnectedIDResult{ConnectedID: resp.ConnectedID()}, nil

	case resp.AlreadyRegistered():
		if cid := resp.ConnectedID(); cid != "" {
			return &ConnectedIDResult{ConnectedID: cid, AlreadyRegistered: true}, nil
		}
		return nil, &Error{Kind: KindProvider, Code: resp.Code,
			Message: "account already registered but no connected id was returned"}

	case resp.TwoFactorRequired():
		var continuation TwoWayInfo
		if len(resp.Data) > 0 {
			if err := json.Unmarshal(resp.Data, &continuation); err != nil {
				return nil, wrapError(KindMalformed, err, "two-factor continuation payload did not parse")
			}
		}
		return &ConnectedIDResult{TwoFactor: &TwoFactorContinuation{
			Message: resp.Message,
			Data:    continuation,
		}}, nil

	default:
		return nil, providerFailure(resp)
	}
}

// CardList pulls the user's card catalog entries from the issuer.
func (c *Client) CardList(ctx context.Context, p ListParams) ([]CardEntry, error) {
	payload, err := c.listPayload(p)
	if err != nil {
		return nil, err
	}

	resp, perr := c.post(ctx, cardListPath, payload, listTimeout)
	if perr != nil {
		return nil, perr
	}
	if !resp.Succeeded() {
		return nil, providerFailure(resp)
	}

	entries, derr := decodeList[CardEntry](resp.Data)
	if derr != nil {
		return nil, derr
	}
	return entries, nil
}

// BillingList pulls billed (settled) transaction history.
func (c *Client) BillingList(ctx context.Context, p ListParams) ([]BillingEntry, error) {
	payload, err := c.listPayload(p)
	if err != nil {
		return nil, err
	}

	resp, perr := c.post(ctx, billingListPath, payload, listTimeout)
	if perr != nil {
		return nil, perr
	}
	if !resp.Succeeded() {
		return nil, providerFailure(resp)
	}

	entries, derr := decodeList[BillingEntry](resp.Data)
	if derr != nil {
		return nil, derr
	}
	return entries, nil
}

// ApprovalList pulls authorized transactions for a date range.
func (c *Client) ApprovalList(ctx context.Context, p ApprovalParams) ([]ApprovalEntry, error) {
	if p.Organization == "" || p.ConnectedID == "" {
		return nil, fmt.Errorf("organization and connected id are required")
	}
	if p.StartDate == "" || p.EndDate == "" {
		return nil, fmt.Errorf("start and end dates are required")
	}

	inquiryType := p.InquiryType
	if inquiryType == "" {
		inquiryType = "0"
	}
	payload := map[string]any{
		"connectedId":  p.ConnectedID,
		"organization": p.Organization,
		"startDate":    p.StartDate,
		"endDate":      p.EndDate,
		"orderBy":      "1",
		"inquiryType":  inquiryType,
	}
	if p.CardNo != "" {
		payload["cardNo"] = p.CardNo
	}
	if p.CardPassword != "" {
		encrypted, err := c.encryptor.Encrypt(p.CardPassword)
		if err != nil {
			return nil, wrapError(KindEncryption, err, "failed to encrypt card password")
		}
		payload["cardPassword"] = encrypted
	}
	if p.BirthDate != "" {
		payload["birthDate"] = p.BirthDate
	}

	resp, perr := c.post(ctx, approvalListPath, payload, listTimeout)
	if perr != nil {
		return nil, perr
	}
	if !resp.Succeeded() {
		return nil, providerFailure(resp)
	}

	entries, derr := decodeList[ApprovalEntry](resp.Data)
	if derr != nil {
		return nil, derr
	}
	return entries, nil
}

func (c *Client) listPayload(p ListParams) (map[string]any, error) {
	if p.Organization == "" || p.ConnectedID == "" {
		return nil, fmt.Errorf("organization and connected id are required")
	}

	payload := map[string]any{
		"connectedId":  p.ConnectedID,
		"organization": p.Organization,
		"birthDate":    p.BirthDate,
	}
	if p.CardNo != "" {
		payload["cardNo"] = p.CardNo
	}
	if p.CardPassword != "" {
		encrypted, err := c.encryptor.Encrypt(p.CardPassword)
		if err != nil {
			return nil, wrapError(KindEncryption, err, "failed to encrypt card password")
		}
		payload["cardPassword"] = encrypted
	}
	if p.InquiryType != "" && p.InquiryType != "0" {
		payload["inquiryType"] = p.InquiryType
	}
	return payload, nil
}

// post sends one JSON request with bearer auth and decodes the body. A 401
// triggers exactly one forced token refresh and retry; a second rejection
// surfaces as an auth error.
func (c *Client) post(ctx context.Context, path string, payload any, timeout time.Duration) (*Response, *Error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, wrapError(KindTransport, err, "failed to encode request")
	}

	resp, perr := c.doOnce(ctx, path, body, timeout, false)
	if perr != nil && perr.Kind == KindAuth {
		return c.doOnce(ctx, path, body, timeout, true)
	}
	return resp, perr
}

func (c *Client) doOnce(ctx context.Context, path string, body []byte, timeout time.Duration, forceRefresh bool) (*Response, *Error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, wrapError(KindTransport, err, "request cancelled while rate limited")
	}

	token, err := c.tokens.Token(ctx, forceRefresh)
	if err != nil {
		if perr, ok := err.(*Error); ok {
			return nil, perr
		}
		return nil, wrapError(KindAuth, err, "failed to obtain access token")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, wrapError(KindTransport, err, "failed to build request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapError(KindTransport, err, "provider request failed")
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, wrapError(KindTransport, err, "failed to read provider response")
	}

	if httpResp.StatusCode == http.StatusUnauthorized {
		return nil, newError(KindAuth, "provider rejected access token (status 401)")
	}

	return decodeResponse(raw, httpResp.StatusCode)
}

func providerFailure(resp *Response) *Error {
	message := resp.Message
	if message == "" {
		message = fmt.Sprintf("unknown provider error (HTTP %d)", resp.HTTPStatus)
	}
	return &Error{Kind: KindProvider, Code: resp.Code, Message: message}
}
