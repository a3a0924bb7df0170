package domain

import (
	"slices"
	"strings"
)

type Role string

const (
	// Administrators manage users and their roles.
	RoleAdmin Role = "ADMIN"
	// Candidates apply to job postings.
	RoleCandidate Role = "CANDIDATE"
	// Recruiters publish and manage job postings.
	RoleRecruiter Role = "RECRUITER"
)

// RoleSet is the immutable set of roles the admin surface may assign.
type RoleSet struct {
	names map[string]struct{}
}

// DefaultRoleSet returns {ADMIN, CANDIDATE, RECRUITER}.
func DefaultRoleSet() RoleSet {
	return NewRoleSet(string(RoleAdmin), string(RoleCandidate), string(RoleRecruiter))
}

func NewRoleSet(names ...string) RoleSet {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			m[n] = struct{}{}
		}
	}
	return RoleSet{names: m}
}

func (s RoleSet) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

func (s RoleSet) Len() int { return len(s.names) }

// Names returns the members sorted.
func (s RoleSet) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Filter keeps the members of names, deduplicated and sorted.
func (s RoleSet) Filter(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !s.Contains(n) {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
