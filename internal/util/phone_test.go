package util

import "testing"

func TestChatAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"15551234567", "15551234567@c.us"},
		{"15551234567@c.us", "15551234567@c.us"},
		{"group-123@g.us", "group-123@g.us"},
		{"  15551234567 ", "15551234567@c.us"},
	}
	for _, tc := range tests {
		if got := ChatAddress(tc.in); got != tc.want {
			t.Errorf("ChatAddress(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBareNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"15551234567@c.us", "15551234567"},
		{"15551234567", "15551234567"},
		{" 15551234567@c.us ", "15551234567"},
	}
	for _, tc := range tests {
		if got := BareNumber(tc.in); got != tc.want {
			t.Errorf("BareNumber(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
