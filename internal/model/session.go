package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SubSession is one selectable portion of a biennial session. Value is the
// site's path fragment for it, e.g. "/2009/REG" or "/2009/DE8".
type SubSession struct {
	Value string `json:"value" yaml:"value"`
	Name  string `json:"name" yaml:"name"`
}

// Path splits Value into the year directory and bill prefix used in
// history page URLs
func (s SubSession) Path() (year, prefix string) {
	parts := strings.SplitN(strings.TrimPrefix(s.Value, "/"), "/", 2)
	year = parts[0]
	if len(parts) == 2 {
		prefix = parts[1]
	}
	return year, prefix
}

// Session is a biennial legislative session
type Session struct {
	Year        string       `json:"year" yaml:"year"`
	Years       [2]int       `json:"years" yaml:"years"`
	SubSessions []SubSession `json:"sub_sessions" yaml:"sub_sessions"`
}

// SessionRegistry indexes sessions by their starting (odd) year. It is
// built once by session discovery and then handed to whatever needs it.
type SessionRegistry struct {
	sessions map[string]*Session
}

// NewSessionRegistry creates an empty registry
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*Session)}
}

// NormalizeSessionYear maps any year of a biennium to its first (odd) year
func NormalizeSessionYear(year int) int {
	if year%2 == 0 {
		return year - 1
	}
	return year
}

// AddRegular registers the regular session starting in year. The regular
// session is always the first sub-session.
func (r *SessionRegistry) AddRegular(year int, value string) {
	key := strconv.Itoa(year)
	r.sessions[key] = &Session{
		Year:        key,
		Years:       [2]int{year, year + 1},
		SubSessions: []SubSession{{Value: value, Name: key}},
	}
}

// AddSpecial appends a special or extraordinary sub-session to the session
// covering year. The regular session must already be registered.
func (r *SessionRegistry) AddSpecial(year int, value, name string) error {
	key := strconv.Itoa(NormalizeSessionYear(year))
	s, ok := r.sessions[key]
	if !ok {
		return fmt.Errorf("no regular session registered for %s", key)
	}
	s.SubSessions = append(s.SubSessions, SubSession{Value: value, Name: name})
	return nil
}

// Lookup returns the session covering year
func (r *SessionRegistry) Lookup(year int) (*Session, bool) {
	s, ok := r.sessions[strconv.Itoa(NormalizeSessionYear(year))]
	return s, ok
}

// Years returns the registered session years in ascending order
func (r *SessionRegistry) Years() []string {
	years := make([]string, 0, len(r.sessions))
	for y := range r.sessions {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

// Len returns the number of registered sessions
func (r *SessionRegistry) Len() int {
	return len(r.sessions)
}
