package domain

import (
	"reflect"
	"testing"
)

func TestDefaultRoleSet_Contains(t *testing.T) {
	s := DefaultRoleSet()
	cases := []struct {
		role string
		ok   bool
	}{
		{"ADMIN", true},
		{"CANDIDATE", true},
		{"RECRUITER", true},
		{"admin", false},
		{"", false},
		{"offline_access", false},
	}

	for _, c := range cases {
		if s.Contains(c.role) != c.ok {
			t.Fatalf("unexpected Contains(%q)", c.role)
		}
	}
}

func TestRoleSet_NamesSorted(t *testing.T) {
	got := DefaultRoleSet().Names()
	want := []string{"ADMIN", "CANDIDATE", "RECRUITER"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
}

func TestRoleSet_FilterDedupesAndDropsForeign(t *testing.T) {
	got := DefaultRoleSet().Filter([]string{"RECRUITER", "default-roles-recruitment", "CANDIDATE", "RECRUITER"})
	want := []string{"CANDIDATE", "RECRUITER"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Filter() = %v, want %v", got, want)
	}
}

func TestRoleSet_FilterEmpty(t *testing.T) {
	got := DefaultRoleSet().Filter(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
