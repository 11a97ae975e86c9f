package utils

import "testing"

func TestParseScanPayload(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    uint
	}{
		{"bare integer", "42", 42},
		{"bare integer with whitespace", "  42\n", 42},
		{"json booking_id number", `{"booking_id":7}`, 7},
		{"json plot_id number", `{"plot_id":42}`, 42},
		{"json plot_id string", `{"plot_id":"42"}`, 42},
		{"json id number", `{"id":13}`, 13},
		{"json id string with spaces", `{"id":" 13 "}`, 13},
		{"booking_id wins over id", `{"id":99,"booking_id":7}`, 7},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ParseScanPayload(c.payload)
			if err != nil {
				t.Fatalf("ParseScanPayload(%q) returned error: %v", c.payload, err)
			}
			if got != c.want {
				t.Errorf("ParseScanPayload(%q) = %d, want %d", c.payload, got, c.want)
			}
		})
	}
}

func TestParseScanPayloadRejectsGarbage(t *testing.T) {
	bad := []string{
		"",
		"   ",
		"abc",
		"-5",
		"{",
		`{"foo":1}`,
		`{"plot_id":true}`,
		`{"plot_id":"not-a-number"}`,
		`[42]`,
	}
	for _, payload := range bad {
		if id, err := ParseScanPayload(payload); err == nil {
			t.Errorf("ParseScanPayload(%q) = %d, want error", payload, id)
		}
	}
}
