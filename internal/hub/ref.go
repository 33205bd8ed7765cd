package hub

import (
	"strings"

	"studiod/internal/backend"
)

// Ref identifies a hub repository as "owner/name".
type Ref struct {
	Owner string
	Name  string
}

// ParseRef splits a repository reference. Anything that is not exactly two
// non-empty segments is rejected; local filesystem paths never reach this
// layer.
func ParseRef(s string) (Ref, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Ref{}, backend.ErrNotFound(s)
	}
	return Ref{Owner: parts[0], Name: parts[1]}, nil
}

func (r Ref) String() string { return r.Owner + "/" + r.Name }
