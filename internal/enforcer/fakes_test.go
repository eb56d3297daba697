package enforcer_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/rolewarden/rolewarden/internal/enforcer"
)

// fakeGuildAPI is an in-memory GuildAPI backed by a sorted member list.
type fakeGuildAPI struct {
	mu          sync.Mutex
	members     []enforcer.Member
	countErr    error
	memberErr   error
	pageErrs    map[int]error
	removeErrs  map[snowflake.ID]error
	pageFetches int
	memberCalls int
	removed     map[snowflake.ID][]snowflake.ID
	dms         chan string
}

func newFakeGuildAPI(members []enforcer.Member) *fakeGuildAPI {
	return &fakeGuildAPI{
		members:    members,
		pageErrs:   make(map[int]error),
		removeErrs: make(map[snowflake.ID]error),
		removed:    make(map[snowflake.ID][]snowflake.ID),
		dms:        make(chan string, 1),
	}
}

func (f *fakeGuildAPI) MemberCount(_ context.Context, _ snowflake.ID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.countErr != nil {
		return 0, f.countErr
	}

	return len(f.members), nil
}

func (f *fakeGuildAPI) Members(_ context.Context, _ snowflake.ID, limit int, after snowflake.ID) ([]enforcer.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pageFetches++
	if err := f.pageErrs[f.pageFetches]; err != nil {
		return nil, err
	}

	var page []enforcer.Member
	for _, member := range f.members {
		if member.UserID <= after {
			continue
		}

		page = append(page, member)
		if len(page) == limit {
			break
		}
	}

	return page, nil
}

func (f *fakeGuildAPI) Member(_ context.Context, _ snowflake.ID, userID snowflake.ID) (enforcer.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.memberCalls++
	if f.memberErr != nil {
		return enforcer.Member{}, f.memberErr
	}

	for _, member := range f.members {
		if member.UserID == userID {
			return member, nil
		}
	}

	return enforcer.Member{}, fmt.Errorf("unknown member %d", uint64(userID))
}

func (f *fakeGuildAPI) RemoveRoles(_ context.Context, _ snowflake.ID, userID snowflake.ID, roleIDs []snowflake.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.removeErrs[userID]; err != nil {
		return err
	}

	f.removed[userID] = roleIDs

	return nil
}

func (f *fakeGuildAPI) SendDirectMessage(_ context.Context, _ snowflake.ID, content string) error {
	f.dms <- content
	return nil
}

func (f *fakeGuildAPI) removedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.removed)
}

func (f *fakeGuildAPI) removedRoles(userID snowflake.ID) []snowflake.ID {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.removed[userID]
}

func (f *fakeGuildAPI) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.pageFetches
}

// fakeStore is an in-memory ConfigStore with the same row semantics as the
// database-backed one: reads on missing rows return zero values, writes on
// missing rows are silent no-ops.
type fakeStore struct {
	mu   sync.Mutex
	rows map[uint64]*fakeRow
}

type fakeRow struct {
	primaryRole uint64
	autoScan    bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[uint64]*fakeRow)}
}

func (s *fakeStore) Register(_ context.Context, guildID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[guildID]; !ok {
		s.rows[guildID] = &fakeRow{autoScan: true}
	}

	return nil
}

func (s *fakeStore) SetPrimaryRole(_ context.Context, guildID, roleID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row, ok := s.rows[guildID]; ok {
		row.primaryRole = roleID
	}

	return nil
}

func (s *fakeStore) GetPrimaryRole(_ context.Context, guildID uint64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row, ok := s.rows[guildID]; ok {
		return row.primaryRole
	}

	return 0
}

func (s *fakeStore) SetAutoScan(_ context.Context, guildID uint64, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row, ok := s.rows[guildID]; ok {
		row.autoScan = enabled
	}

	return nil
}

func (s *fakeStore) GetAutoScan(_ context.Context, guildID uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row, ok := s.rows[guildID]; ok {
		return row.autoScan
	}

	return false
}

// fakeGuard tracks acquire/release pairs and can be forced to deny.
type fakeGuard struct {
	mu       sync.Mutex
	held     map[snowflake.ID]bool
	acquires int
	releases int
	deny     bool
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{held: make(map[snowflake.ID]bool)}
}

func (g *fakeGuard) TryAcquire(_ context.Context, guildID snowflake.ID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.deny || g.held[guildID] {
		return false
	}

	g.held[guildID] = true
	g.acquires++

	return true
}

func (g *fakeGuard) Release(_ context.Context, guildID snowflake.ID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.held, guildID)
	g.releases++
}

func (g *fakeGuard) counts() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.acquires, g.releases
}
