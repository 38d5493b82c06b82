// Package codec maps (owner, house index) pairs to region names and back.
//
// A region is a house region iff its name decodes. Decoding splits at the
// last separator so owners containing ':' still round-trip, but an owner
// ending in ":<digits>" is ambiguous with a shorter owner and a different
// index; the rule is kept as-is for compatibility with existing worlds.
package codec

import (
	"strconv"
	"strings"
)

const (
	Prefix    = "*H_"
	Separator = ':'

	// SystemMarker prefixes names of regions reserved by the server.
	SystemMarker = '*'
)

func Encode(owner string, index int) string {
	return Prefix + owner + string(Separator) + strconv.Itoa(index)
}

func Decode(name string) (owner string, index int, ok bool) {
	if !strings.HasPrefix(name, Prefix) {
		return "", 0, false
	}
	sep := strings.LastIndexByte(name, Separator)
	if sep == -1 || sep == len(name)-1 || sep <= len(Prefix) {
		return "", 0, false
	}
	n, err := strconv.Atoi(name[sep+1:])
	if err != nil || n <= 0 {
		return "", 0, false
	}
	return name[len(Prefix):sep], n, true
}

func IsHouseRegion(name string) bool {
	_, _, ok := Decode(name)
	return ok
}

// IsSystemRegion reports whether name carries the reserved system marker.
func IsSystemRegion(name string) bool {
	return name != "" && name[0] == SystemMarker
}
