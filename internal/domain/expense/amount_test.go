package expense

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  int64
	}{
		{"comma separated string", "12,345", 12345},
		{"plain string", "4500", 4500},
		{"string with spaces", " 12,000 ", 12000},
		{"empty string", "", 0},
		{"non numeric string", "abc", 0},
		{"nil", nil, 0},
		{"int", 7000, 7000},
		{"int64", int64(9900), 9900},
		{"json number as float64", float64(15000), 15000},
		{"bool", true, 0},
		{"negative string", "-3,000", -3000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAmount(tt.input); got != tt.want {
				t.Errorf("ParseAmount(%v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
