package domain

import "strings"

// UserID is a fully qualified user identifier, "@localpart:server.name".
type UserID string

// Localpart returns the part between "@" and the first ":", or "" for a
// malformed ID.
func (u UserID) Localpart() string {
	local, _ := u.split()
	return local
}

// ServerName returns the homeserver part of the ID, or "" for a malformed
// ID. Callers treat "" as "unknown server", never as a match.
func (u UserID) ServerName() string {
	_, server := u.split()
	return server
}

func (u UserID) split() (localpart, server string) {
	s := string(u)
	if !strings.HasPrefix(s, "@") {
		return "", ""
	}
	local, server, ok := strings.Cut(s[1:], ":")
	if !ok || local == "" || server == "" {
		return "", ""
	}
	return local, server
}
