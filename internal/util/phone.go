package util

import "strings"

// chatSuffix is the domain suffix chat-style gateways expect on phone numbers.
const chatSuffix = "@c.us"

// ChatAddress decorates a bare phone number with the chat domain suffix.
// Numbers already carrying an "@" are passed through unchanged.
func ChatAddress(phone string) string {
	s := strings.TrimSpace(phone)
	if strings.Contains(s, "@") {
		return s
	}
	return s + chatSuffix
}

// BareNumber strips the chat domain suffix; the legacy API wants raw numbers.
func BareNumber(phone string) string {
	return strings.TrimSuffix(strings.TrimSpace(phone), chatSuffix)
}
