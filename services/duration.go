package services

import (
	"encoding/json"
	"regexp"
	"strconv"
	"time"
)

// RouterOS renders remaining lifetimes as e.g. "29d23h59m58s", with any subset
// of the fields present in that order. This is not time.ParseDuration syntax
// (the "d" unit), so it is scraped by hand.
var routerOSDurationRe = regexp.MustCompile(`^(?:(\d+)d)?(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?$`)

// ParseRouterOSDuration converts a RouterOS duration string to whole seconds.
// ok is true only when the whole string is consumed and at least one field
// matched: an empty or wholly malformed string is a no-match, never zero.
// "Unparsable means expired" was deliberately rejected as a policy — a glitched
// timeout field must not raise an expiry alert.
func ParseRouterOSDuration(s string) (int64, bool) {
	m := routerOSDurationRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	matched := false
	var total int64
	units := []int64{86400, 3600, 60, 1}
	for i, unit := range units {
		g := m[i+1]
		if g == "" {
			continue
		}
		matched = true
		v, err := strconv.ParseInt(g, 10, 64)
		if err != nil {
			return 0, false
		}
		total += v * unit
	}
	if !matched {
		return 0, false
	}
	return total, true
}

// commentPayload is the JSON other panel features embed in RouterOS comment
// fields. Only the due-date keys are of interest here.
type commentPayload struct {
	DueDateTime string `json:"dueDateTime"`
	DueDate     string `json:"dueDate"`
}

// ParseCommentDue extracts a due date from a JSON-encoded comment field.
// Malformed JSON or an absent key yields (zero, false); callers treat that as
// "no actionable data", not an error.
func ParseCommentDue(comment string) (time.Time, bool) {
	var payload commentPayload
	if err := json.Unmarshal([]byte(comment), &payload); err != nil {
		return time.Time{}, false
	}
	if payload.DueDateTime != "" {
		if t, err := time.Parse(time.RFC3339, payload.DueDateTime); err == nil {
			return t, true
		}
	}
	if payload.DueDate != "" {
		if t, err := time.Parse("2006-01-02", payload.DueDate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
