package domain

import (
	"strconv"
	"strings"
)

// VersionID is the parsed, comparable form of a dotted-integer version string such as "1.2.10".
type VersionID struct {
	raw   string
	parts []uint64
}

// ParseVersion parses a dot-delimited sequence of non-negative integers.
// Each segment must consist of ASCII digits only.
func ParseVersion(s string) (VersionID, error) {
	if s == "" {
		return VersionID{}, tag(ErrInvalidVersion, "version", s)
	}

	segments := strings.Split(s, ".")
	parts := make([]uint64, len(segments))
	for i, seg := range segments {
		if !isDigits(seg) {
			return VersionID{}, tag(ErrInvalidVersion, "version", s)
		}
		n, err := strconv.ParseUint(seg, 10, 64)
		if err != nil {
			return VersionID{}, tag(ErrInvalidVersion, "version", s)
		}
		parts[i] = n
	}

	return VersionID{raw: s, parts: parts}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String returns the literal the version was parsed from.
func (v VersionID) String() string {
	return v.raw
}

// IsZero reports whether v is the zero VersionID.
func (v VersionID) IsZero() bool {
	return v.parts == nil
}

// Compare orders two versions component by component.
// Missing trailing components count as zero, so "1.2" and "1.2.0" are equal.
// It returns -1, 0 or +1.
func Compare(a, b VersionID) int {
	n := max(len(a.parts), len(b.parts))
	for i := range n {
		x, y := component(a.parts, i), component(b.parts, i)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}

func component(parts []uint64, i int) uint64 {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}

// Latest returns the greatest version under Compare.
// On ties the earliest element wins.
func Latest(ids []VersionID) (VersionID, error) {
	if len(ids) == 0 {
		return VersionID{}, ErrNoVersionsAvailable
	}
	best := ids[0]
	for _, id := range ids[1:] {
		if Compare(id, best) > 0 {
			best = id
		}
	}
	return best, nil
}
