package provider

import (
	"encoding/json"
	"net/url"
	"strings"
)

// Result codes the provider uses. Success arrives either bare or with the
// "CF-" prefix depending on the endpoint.
const (
	codeSuccess           = "00000"
	codeSuccessPrefixed   = "CF-00000"
	codeAlreadyRegistered = "CF-00002"
	codeTwoFactorRequired = "CF-03002"
)

// rawExcerptLimit bounds how much of an unparseable body is carried in
// error messages. Bodies never contain the fields we encrypt, but they can
// be arbitrarily large.
const rawExcerptLimit = 200

// Response is the canonical shape every provider body is normalized into:
// a result code, a human-readable message, and an opaque data payload.
type Response struct {
	HTTPStatus int
	Code       string
	Message    string
	Data       json.RawMessage
}

// Succeeded reports a definitive success code. CF-00002 ("already
// registered") is not included here; it only counts as success when the
// body still carries a connected-account identifier, which
// ConnectedID-aware call sites check via AlreadyRegistered.
func (r *Response) Succeeded() bool {
	return r.Code == codeSuccess || r.Code == codeSuccessPrefixed
}

// TwoFactorRequired reports the suspended-login outcome. It is not a
// failure: the caller must echo the data payload back to continue.
func (r *Response) TwoFactorRequired() bool {
	return r.Code == codeTwoFactorRequired
}

// AlreadyRegistered reports the re-issuance outcome for connected-account
// creation.
func (r *Response) AlreadyRegistered() bool {
	return r.Code == codeAlreadyRegistered
}

// ConnectedID extracts data.connectedId when present, else "".
func (r *Response) ConnectedID() string {
	if len(r.Data) == 0 {
		return ""
	}
	var payload struct {
		ConnectedID string `json:"connectedId"`
	}
	if err := json.Unmarshal(r.Data, &payload); err != nil {
		return ""
	}
	return payload.ConnectedID
}

// decodeResponse normalizes a raw provider body. The provider sometimes
// percent-encodes entire JSON bodies; a body starting with %7B or carrying
// %22 sequences is percent-decoded first, falling back to parsing the raw
// bytes if that decoding fails.
func decodeResponse(body []byte, httpStatus int) (*Response, *Error) {
	if len(body) == 0 {
		return nil, newError(KindEmpty, "provider returned empty response (status %d)", httpStatus)
	}

	text := string(body)
	if isPercentEncoded(text) {
		if decoded, err := url.QueryUnescape(text); err == nil {
			text = decoded
		}
	}

	var envelope struct {
		Result struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"result"`
		Data json.RawMessage `json:"data"`

		// Token-endpoint style errors carry no result object.
		ErrorField       string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return nil, wrapError(KindMalformed, err,
			"provider returned unparseable body (status %d): %s", httpStatus, excerpt(string(body)))
	}

	message := envelope.Result.Message
	if message == "" {
		if envelope.ErrorDescription != "" {
			message = envelope.ErrorDescription
		} else if envelope.ErrorField != "" {
			message = envelope.ErrorField
		}
	}

	return &Response{
		HTTPStatus: httpStatus,
		Code:       envelope.Result.Code,
		Message:    message,
		Data:       envelope.Data,
	}, nil
}

func isPercentEncoded(text string) bool {
	return strings.HasPrefix(text, "%7B") || strings.Contains(text, "%22")
}

func excerpt(s string) string {
	if len(s) > rawExcerptLimit {
		return s[:rawExcerptLimit] + "..."
	}
	return s
}

// decodeList unmarshals a data payload that the provider may send as
// either a single object or a list of objects for the same endpoint.
func decodeList[T any](data json.RawMessage) ([]T, *Error) {
	if len(data) == 0 {
		return nil, nil
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, wrapError(KindMalformed, err, "provider list payload did not match expected shape")
		}
		return items, nil
	}

	var single T
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, wrapError(KindMalformed, err, "provider payload did not match expected shape")
	}
	return []T{single}, nil
}
