package poolimport

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// PoolSummary is one entry of a user pool listing.
type PoolSummary struct {
	ID   string
	Name string
}

// PoolPage is one page of a user pool listing.
type PoolPage struct {
	Pools  []PoolSummary
	Cursor string
}

// ClientSummary is one entry of an app client listing.
type ClientSummary struct {
	ID   string
	Name string
}

// ClientPage is one page of an app client listing.
type ClientPage struct {
	Clients []ClientSummary
	Cursor  string
}

// ProviderPage is one page of an identity provider listing.
type ProviderPage struct {
	Names  []string
	Cursor string
}

// PoolAPI is the capability interface over the identity provider's directory
// API. Listing operations are page-level; PoolService drains them through
// DrainPages. Concrete implementations live under pkg/providers.
type PoolAPI interface {
	ListPoolsPage(ctx context.Context, cursor string) (PoolPage, error)
	DescribePool(ctx context.Context, poolID string) (*Directory, error)

	ListPoolClientsPage(ctx context.Context, poolID, cursor string) (ClientPage, error)
	DescribePoolClient(ctx context.Context, poolID, clientID string) (*ClientRegistration, error)

	ListIdentityProvidersPage(ctx context.Context, poolID, cursor string) (ProviderPage, error)
	DescribeIdentityProvider(ctx context.Context, poolID, name string) (*IdentityProviderBinding, error)

	GetMfaConfig(ctx context.Context, poolID string) (*MfaDetail, error)
}

// PoolService fronts a PoolAPI with session-scoped caching. The pool listing
// and per-pool client lists are memoized for the lifetime of the instance;
// this is an idempotent-read optimization, not a consistency mechanism, so a
// service must never outlive the session it was created for.
type PoolService struct {
	api PoolAPI

	mu      sync.Mutex
	pools   []PoolSummary
	gotPool bool
	clients map[string][]ClientRegistration
}

// ServiceOption configures a PoolService.
type ServiceOption func(*PoolService)

// NewPoolService creates a session-scoped facade over the given API.
func NewPoolService(api PoolAPI, opts ...ServiceOption) *PoolService {
	s := &PoolService{
		api:     api,
		clients: make(map[string][]ClientRegistration),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pools lists every user pool in scope, draining all pages. The result is
// cached after the first call.
func (s *PoolService) Pools(ctx context.Context) ([]PoolSummary, error) {
	s.mu.Lock()
	if s.gotPool {
		cached := s.pools
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	pools, err := DrainPages(ctx,
		func(ctx context.Context, cursor string) (PoolPage, error) {
			return s.api.ListPoolsPage(ctx, cursor)
		},
		func(p PoolPage) []PoolSummary { return p.Pools },
		func(p PoolPage) string { return p.Cursor },
	)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.pools = pools
	s.gotPool = true
	s.mu.Unlock()
	return pools, nil
}

// Pool fetches full detail for one user pool.
func (s *PoolService) Pool(ctx context.Context, poolID string) (*Directory, error) {
	return s.api.DescribePool(ctx, poolID)
}

// PoolClients lists a pool's app clients and describes each one concurrently,
// one API round trip per client. The caller gets either every registration or
// an error; there are no partial results. The result is cached per pool id.
func (s *PoolService) PoolClients(ctx context.Context, poolID string) ([]ClientRegistration, error) {
	s.mu.Lock()
	if cached, ok := s.clients[poolID]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	summaries, err := DrainPages(ctx,
		func(ctx context.Context, cursor string) (ClientPage, error) {
			return s.api.ListPoolClientsPage(ctx, poolID, cursor)
		},
		func(p ClientPage) []ClientSummary { return p.Clients },
		func(p ClientPage) string { return p.Cursor },
	)
	if err != nil {
		return nil, err
	}

	clients := make([]ClientRegistration, len(summaries))
	g, gctx := errgroup.WithContext(ctx)
	for i, sum := range summaries {
		g.Go(func() error {
			c, err := s.api.DescribePoolClient(gctx, poolID, sum.ID)
			if err != nil {
				return err
			}
			clients[i] = *c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.clients[poolID] = clients
	s.mu.Unlock()
	return clients, nil
}

// IdentityProviders lists a pool's configured federation providers and
// describes each one concurrently. Not cached: it is fetched at most once per
// session, only when OAuth is being imported.
func (s *PoolService) IdentityProviders(ctx context.Context, poolID string) ([]IdentityProviderBinding, error) {
	names, err := DrainPages(ctx,
		func(ctx context.Context, cursor string) (ProviderPage, error) {
			return s.api.ListIdentityProvidersPage(ctx, poolID, cursor)
		},
		func(p ProviderPage) []string { return p.Names },
		func(p ProviderPage) string { return p.Cursor },
	)
	if err != nil {
		return nil, err
	}

	bindings := make([]IdentityProviderBinding, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			b, err := s.api.DescribeIdentityProvider(gctx, poolID, name)
			if err != nil {
				return err
			}
			bindings[i] = *b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bindings, nil
}

// MfaConfig fetches the pool's multi-factor configuration.
func (s *PoolService) MfaConfig(ctx context.Context, poolID string) (*MfaDetail, error) {
	return s.api.GetMfaConfig(ctx, poolID)
}
