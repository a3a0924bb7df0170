package admin

import (
	"context"
	"sync"

	"github.com/recrutment/hireai/internal/contracts/audit"
	"github.com/recrutment/hireai/services/gateway/internal/domain"
)

// callLog is shared by the fake directory and publisher so tests can assert ordering.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(c string) {
	l.mu.Lock()
	l.calls = append(l.calls, c)
	l.mu.Unlock()
}

func (l *callLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeDirectory struct {
	log *callLog

	mu        sync.Mutex
	users     map[string]domain.User
	realm     []domain.DirectoryRole
	userRoles map[string][]domain.DirectoryRole
	total     int64

	errListRealm error
	errUserRoles error
	errGetUser   error
	errAdd       error
	errList      error
	errCount     error
	rolesErrFor  map[string]error

	added   [][]domain.DirectoryRole
	removed [][]domain.DirectoryRole
	lastMax int
	lastOff int
}

func newFakeDirectory(log *callLog) *fakeDirectory {
	return &fakeDirectory{
		log:       log,
		users:     map[string]domain.User{},
		userRoles: map[string][]domain.DirectoryRole{},
		realm: []domain.DirectoryRole{
			{ID: "r-admin", Name: "ADMIN"},
			{ID: "r-cand", Name: "CANDIDATE"},
			{ID: "r-rec", Name: "RECRUITER"},
			{ID: "r-off", Name: "offline_access"},
		},
	}
}

func (f *fakeDirectory) realmRole(name string) domain.DirectoryRole {
	for _, r := range f.realm {
		if r.Name == name {
			return r
		}
	}
	return domain.DirectoryRole{Name: name}
}

func (f *fakeDirectory) ListUsers(_ context.Context, first, max int, _ string) ([]domain.User, error) {
	f.log.add("list_users")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastOff, f.lastMax = first, max
	if f.errList != nil {
		return nil, f.errList
	}
	out := make([]domain.User, 0, len(f.users))
	for _, id := range sortedKeys(f.users) {
		out = append(out, f.users[id])
	}
	return out, nil
}

func (f *fakeDirectory) CountUsers(context.Context, string) (int64, error) {
	f.log.add("count_users")
	if f.errCount != nil {
		return 0, f.errCount
	}
	return f.total, nil
}

func (f *fakeDirectory) GetUser(_ context.Context, id string) (domain.User, error) {
	f.log.add("get_user")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errGetUser != nil {
		return domain.User{}, f.errGetUser
	}
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, notFound
	}
	return u, nil
}

func (f *fakeDirectory) GetUserRealmRoles(_ context.Context, id string) ([]domain.DirectoryRole, error) {
	f.log.add("get_user_roles")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errUserRoles != nil {
		return nil, f.errUserRoles
	}
	if err := f.rolesErrFor[id]; err != nil {
		return nil, err
	}
	return append([]domain.DirectoryRole(nil), f.userRoles[id]...), nil
}

func (f *fakeDirectory) ListRealmRoles(context.Context) ([]domain.DirectoryRole, error) {
	f.log.add("list_realm_roles")
	if f.errListRealm != nil {
		return nil, f.errListRealm
	}
	return append([]domain.DirectoryRole(nil), f.realm...), nil
}

func (f *fakeDirectory) AddRealmRoles(_ context.Context, id string, roles []domain.DirectoryRole) error {
	f.log.add("add_roles")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errAdd != nil {
		return f.errAdd
	}
	f.added = append(f.added, roles)
	f.userRoles[id] = append(f.userRoles[id], roles...)
	return nil
}

func (f *fakeDirectory) RemoveRealmRoles(_ context.Context, id string, roles []domain.DirectoryRole) error {
	f.log.add("remove_roles")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, roles)
	kept := f.userRoles[id][:0]
	for _, r := range f.userRoles[id] {
		drop := false
		for _, x := range roles {
			if x.Name == r.Name {
				drop = true
			}
		}
		if !drop {
			kept = append(kept, r)
		}
	}
	f.userRoles[id] = kept
	return nil
}

func (f *fakeDirectory) SetUserEnabled(_ context.Context, id string, enabled bool) error {
	f.log.add("set_enabled")
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[id]
	u.Enabled = enabled
	f.users[id] = u
	return nil
}

func (f *fakeDirectory) DeleteUser(_ context.Context, id string) error {
	f.log.add("delete_user")
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

type publishedEvent struct {
	RoutingKey string
	Event      audit.Event
}

type fakePublisher struct {
	log    *callLog
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(_ context.Context, routingKey string, evt audit.Event) {
	p.log.add("publish")
	p.mu.Lock()
	p.events = append(p.events, publishedEvent{RoutingKey: routingKey, Event: evt})
	p.mu.Unlock()
}

func (p *fakePublisher) all() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

type auditRecorder struct {
	mu      sync.Mutex
	actions []string
	fields  []map[string]string
}

func (a *auditRecorder) record(action string, fields map[string]string) {
	a.mu.Lock()
	a.actions = append(a.actions, action)
	a.fields = append(a.fields, fields)
	a.mu.Unlock()
}

func (a *auditRecorder) last() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.fields) == 0 {
		return nil
	}
	return a.fields[len(a.fields)-1]
}
