package provider

import (
	"net/url"
	"strings"
	"testing"
)

func TestDecodeResponse_PlainJSON(t *testing.T) {
	body := `{"result":{"code":"CF-00000","message":"성공"},"data":{"connectedId":"abc123"}}`

	resp, err := decodeResponse([]byte(body), 200)
	if err != nil {
		t.Fatalf("decodeResponse() failed: %v", err)
	}
	if !resp.Succeeded() {
		t.Errorf("Succeeded() = false for code %q", resp.Code)
	}
	if resp.ConnectedID() != "abc123" {
		t.Errorf("ConnectedID() = %q, want abc123", resp.ConnectedID())
	}
}

func TestDecodeResponse_PercentEncodedBody(t *testing.T) {
	raw := `{"result":{"code":"CF-00000","message":"ok"},"data":{"connectedId":"cid1"}}`
	encoded := url.QueryEscape(raw)
	if !strings.HasPrefix(encoded, "%7B") {
		t.Fatalf("test setup: encoded body does not start with %%7B: %s", encoded[:8])
	}

	resp, err := decodeResponse([]byte(encoded), 200)
	if err != nil {
		t.Fatalf("decodeResponse() failed on percent-encoded body: %v", err)
	}

	plain, err2 := decodeResponse([]byte(raw), 200)
	if err2 != nil {
		t.Fatalf("decodeResponse() failed on plain body: %v", err2)
	}

	if resp.Code != plain.Code || resp.ConnectedID() != plain.ConnectedID() {
		t.Errorf("percent-encoded body decoded differently: got (%q, %q), want (%q, %q)",
			resp.Code, resp.ConnectedID(), plain.Code, plain.ConnectedID())
	}
}

func TestDecodeResponse_EmbeddedQuoteSequences(t *testing.T) {
	// Some responses are only partially escaped; the %22 heuristic still
	// triggers a decode pass.
	body := `%7B%22result%22%3A%7B%22code%22%3A%2200000%22%7D%7D`

	resp, err := decodeResponse([]byte(body), 200)
	if err != nil {
		t.Fatalf("decodeResponse() failed: %v", err)
	}
	if resp.Code != "00000" {
		t.Errorf("Code = %q, want 00000", resp.Code)
	}
	if !resp.Succeeded() {
		t.Error("Succeeded() = false for bare numeric success code")
	}
}

func TestDecodeResponse_EmptyBody(t *testing.T) {
	_, err := decodeResponse(nil, 502)
	if err == nil {
		t.Fatal("decodeResponse(empty) returned no error")
	}
	if err.Kind != KindEmpty {
		t.Errorf("Kind = %v, want KindEmpty", err.Kind)
	}
	if !strings.Contains(err.Message, "502") {
		t.Errorf("empty-body error should carry the HTTP status, got %q", err.Message)
	}
}

func TestDecodeResponse_MalformedBody(t *testing.T) {
	long := "<html>" + strings.Repeat("x", 500)

	_, err := decodeResponse([]byte(long), 500)
	if err == nil {
		t.Fatal("decodeResponse(malformed) returned no error")
	}
	if err.Kind != KindMalformed {
		t.Errorf("Kind = %v, want KindMalformed", err.Kind)
	}
	if len(err.Message) > rawExcerptLimit+100 {
		t.Errorf("malformed-body error is unbounded: %d chars", len(err.Message))
	}
}

func TestDecodeResponse_TokenStyleError(t *testing.T) {
	body := `{"error":"invalid_client","error_description":"client authentication failed"}`

	resp, err := decodeResponse([]byte(body), 401)
	if err != nil {
		t.Fatalf("decodeResponse() failed: %v", err)
	}
	if resp.Succeeded() {
		t.Error("Succeeded() = true for error body")
	}
	if resp.Message != "client authentication failed" {
		t.Errorf("Message = %q, want error_description fallback", resp.Message)
	}
}

func TestResponse_CodeClassification(t *testing.T) {
	tests := []struct {
		code       string
		succeeded  bool
		twoFactor  bool
		registered bool
	}{
		{"00000", true, false, false},
		{"CF-00000", true, false, false},
		{"CF-00002", false, false, true},
		{"CF-03002", false, true, false},
		{"CF-12100", false, false, false},
	}

	for _, tt := range tests {
		r := &Response{Code: tt.code}
		if r.Succeeded() != tt.succeeded {
			t.Errorf("code %s: Succeeded() = %v, want %v", tt.code, r.Succeeded(), tt.succeeded)
		}
		if r.TwoFactorRequired() != tt.twoFactor {
			t.Errorf("code %s: TwoFactorRequired() = %v, want %v", tt.code, r.TwoFactorRequired(), tt.twoFactor)
		}
		if r.AlreadyRegistered() != tt.registered {
			t.Errorf("code %s: AlreadyRegistered() = %v, want %v", tt.code, r.AlreadyRegistered(), tt.registered)
		}
	}
}

func TestDecodeList_SingleObject(t *testing.T) {
	entries, err := decodeList[CardEntry]([]byte(`{"resCardName":"KB국민 굿데이카드","resCardType":"신용"}`))
	if err != nil {
		t.Fatalf("decodeList() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len = %d, want 1", len(entries))
	}
	if entries[0].CardName != "KB국민 굿데이카드" {
		t.Errorf("CardName = %q", entries[0].CardName)
	}
}

func TestDecodeList_Array(t *testing.T) {
	entries, err := decodeList[CardEntry]([]byte(`[{"resCardName":"a"},{"resCardName":"b"}]`))
	if err != nil {
		t.Fatalf("decodeList() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
}

func TestDecodeList_NullAndEmpty(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("null"), []byte("  ")} {
		entries, err := decodeList[CardEntry](data)
		if err != nil {
			t.Fatalf("decodeList(%q) failed: %v", data, err)
		}
		if len(entries) != 0 {
			t.Errorf("decodeList(%q) = %d entries, want 0", data, len(entries))
		}
	}
}
