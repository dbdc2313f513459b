package gate

import "strings"

// Level is the rank of a permission level string.
type Level int

const (
	// Unranked is any level string outside the ranked set.
	Unranked Level = iota
	Read
	Write
	Admin
)

// ParseLevel ranks a permission level string, ignoring case and surrounding
// space.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read":
		return Read
	case "write":
		return Write
	case "admin":
		return Admin
	}
	return Unranked
}

func (l Level) String() string {
	switch l {
	case Read:
		return "read"
	case Write:
		return "write"
	case Admin:
		return "admin"
	}
	return "unranked"
}

// Satisfies reports whether a grant at level granted meets required. A nil
// or blank requirement is met by any grant. Ranked levels compare by rank;
// otherwise the two strings must be equal ignoring case.
func Satisfies(granted, required *string) bool {
	if required == nil || strings.TrimSpace(*required) == "" {
		return true
	}
	if granted == nil {
		return false
	}
	g, r := ParseLevel(*granted), ParseLevel(*required)
	if g != Unranked && r != Unranked {
		return g >= r
	}
	return strings.EqualFold(strings.TrimSpace(*granted), strings.TrimSpace(*required))
}
