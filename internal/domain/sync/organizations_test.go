package sync

import "testing"

func TestCompanyForOrganization(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"0301", "삼성카드"},
		{"0304", "KB국민카드"},
		{"0313", "하나카드"},
		{"0320", "BC카드"},
		{"9999", "9999"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CompanyForOrganization(tt.code); got != tt.want {
			t.Errorf("CompanyForOrganization(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
