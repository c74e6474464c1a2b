package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrContactInfoBlocked is returned when an outgoing message looks like an
// attempt to move the conversation to an external contact channel.
var ErrContactInfoBlocked = errors.New("message appears to contain contact details; sharing external contact info is not allowed")

// The filter is a best-effort heuristic, not airtight: numeric style codes
// can false-positive the phone pattern, and obfuscated handles slip through.
var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:\d[\s\-().]*){10,}`)

	platformDenylist = []string{
		"instagram",
		"whatsapp",
		"telegram",
		"snapchat",
		"facebook",
		"tiktok",
		"twitter",
		"signal",
		"discord",
	}
)

// CheckOutgoingText scans outgoing message text for an email address, a
// phone-number-like digit run, or an external platform name (case
// insensitive). It returns an error wrapping ErrContactInfoBlocked naming the
// first match, or nil when the text passes.
func CheckOutgoingText(text string) error {
	if emailPattern.MatchString(text) {
		return fmt.Errorf("%w: email address detected", ErrContactInfoBlocked)
	}
	if phonePattern.MatchString(text) {
		return fmt.Errorf("%w: phone number detected", ErrContactInfoBlocked)
	}
	lower := strings.ToLower(text)
	for _, platform := range platformDenylist {
		if strings.Contains(lower, platform) {
			return fmt.Errorf("%w: mention of %s detected", ErrContactInfoBlocked, platform)
		}
	}
	return nil
}
