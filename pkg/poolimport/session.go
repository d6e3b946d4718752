package poolimport

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session drives one interactive import: pool selection, client selection,
// OAuth reconciliation, output building, and registry writes. It owns the
// Answers accumulator exclusively; nothing is persisted before acceptance.
//
// Exactly one session runs at a time against one pool. The facade's caches
// are scoped to the session and discarded with it.
type Session struct {
	id       string
	svc      *PoolService
	prompter Prompter
	sink     MessageSink
	registry Registry
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSink sets the diagnostic message sink.
func WithSink(sink MessageSink) SessionOption {
	return func(s *Session) {
		s.sink = sink
	}
}

// WithRegistry sets the resource registry the accepted outputs are written
// to. Without a registry the session still reconciles but persists nothing.
func WithRegistry(r Registry) SessionOption {
	return func(s *Session) {
		s.registry = r
	}
}

// NewSession creates an import session over the given facade and prompter.
func NewSession(svc *PoolService, prompter Prompter, opts ...SessionOption) *Session {
	s := &Session{
		id:       uuid.New().String()[:8],
		svc:      svc,
		prompter: prompter,
		sink:     discardSink{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier recorded with persisted outputs.
func (s *Session) ID() string {
	return s.id
}

// Run executes the import session to completion.
//
// A scope with zero user pools is reported through the sink and ends the
// session cleanly with a nil result. All other failures return a categorized
// ImportError and leave the registry untouched.
func (s *Session) Run(ctx context.Context) (*ImportResult, error) {
	pools, err := s.svc.Pools(ctx)
	if err != nil {
		return nil, err
	}
	if len(pools) == 0 {
		s.sink.Emit("No user pools found. Create a user pool with a web and a native app client, then run the import again.")
		return nil, nil
	}

	pool, err := s.selectPool(ctx, pools)
	if err != nil {
		return nil, err
	}

	answers := &Answers{}
	detail, err := s.svc.Pool(ctx, pool.ID)
	if err != nil {
		return nil, err
	}
	answers.Pool = detail

	clients, err := s.svc.PoolClients(ctx, pool.ID)
	if err != nil {
		return nil, err
	}

	if err := s.reconcileClients(ctx, clients, answers); err != nil {
		if remediation := GetRemediation(err); remediation != "" {
			s.sink.Emit(remediation)
		}
		return nil, err
	}

	if err := completeAnswers(ctx, s.svc, answers); err != nil {
		return nil, err
	}

	result := &ImportResult{
		SessionID:   s.id,
		Answers:     answers,
		Full:        BuildFull(answers),
		Reduced:     BuildReduced(answers),
		Credentials: BuildCredentials(answers),
		CompletedAt: time.Now(),
	}

	if s.registry != nil {
		if err := WriteResult(ctx, s.registry, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// completeAnswers fills in the non-interactive tail of the answer set: MFA
// detail always, identity provider bindings only when OAuth is configured.
// Shared by the interactive session and the rehydration path.
func completeAnswers(ctx context.Context, svc *PoolService, answers *Answers) error {
	mfa, err := svc.MfaConfig(ctx, answers.Pool.ID)
	if err != nil {
		return err
	}
	answers.Mfa = mfa

	if !answers.OAuthConfigured() {
		return nil
	}

	bindings, err := svc.IdentityProviders(ctx, answers.Pool.ID)
	if err != nil {
		return err
	}
	answers.Bindings = bindings
	return nil
}
