package poolimport

import (
	"context"
	"strings"
	"sync"
)

// fakeAPI is an in-memory PoolAPI with configurable page splits, error
// injection, and call counting.
type fakeAPI struct {
	mu sync.Mutex

	poolPages [][]PoolSummary
	details   map[string]*Directory
	clients   map[string][]ClientRegistration
	bindings  map[string][]IdentityProviderBinding
	mfa       map[string]*MfaDetail

	describeClientErr map[string]error

	listPoolsCalls   int
	listClientsCalls int
	describeCalls    int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		details:           make(map[string]*Directory),
		clients:           make(map[string][]ClientRegistration),
		bindings:          make(map[string][]IdentityProviderBinding),
		mfa:               make(map[string]*MfaDetail),
		describeClientErr: make(map[string]error),
	}
}

// addPool registers a pool with its clients on a single listing page.
func (f *fakeAPI) addPool(d Directory, clients ...ClientRegistration) {
	if len(f.poolPages) == 0 {
		f.poolPages = [][]PoolSummary{{}}
	}
	last := len(f.poolPages) - 1
	f.poolPages[last] = append(f.poolPages[last], PoolSummary{ID: d.ID, Name: d.Name})
	d2 := d
	f.details[d.ID] = &d2
	f.clients[d.ID] = clients
}

func (f *fakeAPI) ListPoolsPage(ctx context.Context, cursor string) (PoolPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listPoolsCalls++

	idx := 0
	if cursor != "" {
		for i := range f.poolPages {
			if cursor == pageCursor(i) {
				idx = i
			}
		}
	}
	page := PoolPage{}
	if idx < len(f.poolPages) {
		page.Pools = f.poolPages[idx]
	}
	if idx+1 < len(f.poolPages) {
		page.Cursor = pageCursor(idx + 1)
	}
	return page, nil
}

func pageCursor(i int) string {
	return string(rune('a' + i))
}

func (f *fakeAPI) DescribePool(ctx context.Context, poolID string) (*Directory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.details[poolID]
	if !ok {
		return nil, ErrNotFound("user pool", poolID)
	}
	return d, nil
}

func (f *fakeAPI) ListPoolClientsPage(ctx context.Context, poolID, cursor string) (ClientPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listClientsCalls++

	page := ClientPage{}
	for _, c := range f.clients[poolID] {
		page.Clients = append(page.Clients, ClientSummary{ID: c.ID, Name: c.Name})
	}
	return page, nil
}

func (f *fakeAPI) DescribePoolClient(ctx context.Context, poolID, clientID string) (*ClientRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.describeCalls++

	if err, ok := f.describeClientErr[clientID]; ok {
		return nil, err
	}
	for _, c := range f.clients[poolID] {
		if c.ID == clientID {
			c2 := c
			return &c2, nil
		}
	}
	return nil, ErrNotFound("app client", clientID)
}

func (f *fakeAPI) ListIdentityProvidersPage(ctx context.Context, poolID, cursor string) (ProviderPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	page := ProviderPage{}
	for _, b := range f.bindings[poolID] {
		page.Names = append(page.Names, b.Provider)
	}
	return page, nil
}

func (f *fakeAPI) DescribeIdentityProvider(ctx context.Context, poolID, name string) (*IdentityProviderBinding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bindings[poolID] {
		if b.Provider == name {
			b2 := b
			return &b2, nil
		}
	}
	return nil, ErrNotFound("identity provider", name)
}

func (f *fakeAPI) GetMfaConfig(ctx context.Context, poolID string) (*MfaDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.mfa[poolID]; ok {
		return m, nil
	}
	return &MfaDetail{Mode: MfaOff}, nil
}

// scriptPrompter answers questions from a queue. An answer rejected by the
// question's validator consumes the next queued answer, mirroring a re-ask.
type scriptPrompter struct {
	answers []string
	asked   []Question
}

func (p *scriptPrompter) Select(ctx context.Context, q Question) (string, error) {
	p.asked = append(p.asked, q)
	for {
		if len(p.answers) == 0 {
			return "", ErrAborted("script exhausted")
		}
		a := p.answers[0]
		p.answers = p.answers[1:]
		if q.Validate != nil {
			if err := q.Validate(a); err != nil {
				continue
			}
		}
		return a, nil
	}
}

// memSink records emitted diagnostic lines.
type memSink struct {
	lines []string
}

func (s *memSink) Emit(line string) {
	s.lines = append(s.lines, line)
}

func (s *memSink) contains(substr string) bool {
	for _, l := range s.lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}
