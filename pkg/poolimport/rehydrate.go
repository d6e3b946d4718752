package poolimport

import (
	"context"
	"fmt"
	"time"
)

// Rehydrate rebuilds a full answer set from a previously persisted reduced
// output and current remote state, without operator input. It is the path a
// fresh environment checkout takes to reproduce an earlier import decision.
//
// Failure conditions are distinct and named: the pool itself missing, the
// pool present but ineligible, either recorded client id gone, or the two
// re-fetched clients no longer agreeing on their OAuth settings. A mismatch
// here is a hard failure rather than a retry because no interactive
// correction is possible.
func Rehydrate(ctx context.Context, svc *PoolService, reduced ReducedOutput) (*Answers, error) {
	if reduced.UserPoolID == "" {
		return nil, ErrValidation("reduced output is missing the user pool id")
	}

	pool, err := svc.Pool(ctx, reduced.UserPoolID)
	if err != nil {
		if IsCategory(err, ErrCategoryNotFound) {
			return nil, ErrNotFound("user pool", reduced.UserPoolID).
				WithRemediation("the recorded user pool no longer exists; run an interactive import to select a new one")
		}
		return nil, err
	}

	clients, err := svc.PoolClients(ctx, reduced.UserPoolID)
	if err != nil {
		return nil, err
	}
	summary := PoolSummary{ID: pool.ID, Name: pool.Name}
	if err := checkEligibility(summary, clients); err != nil {
		return nil, err
	}

	answers := &Answers{Pool: pool}
	for i := range clients {
		switch clients[i].ID {
		case reduced.WebClientID:
			answers.WebClient = &clients[i]
		case reduced.NativeClientID:
			answers.NativeClient = &clients[i]
		}
	}
	if answers.WebClient == nil {
		return nil, ErrNotFound("web client", reduced.WebClientID).
			WithResource("user pool", reduced.UserPoolID)
	}
	if answers.NativeClient == nil {
		return nil, ErrNotFound("native client", reduced.NativeClientID).
			WithResource("user pool", reduced.UserPoolID)
	}

	bundle, bad := matchOAuth(answers.WebClient, answers.NativeClient)
	if len(bad) > 0 {
		names := make([]string, 0, len(bad))
		for _, comp := range bad {
			names = append(names, comp.Name)
		}
		return nil, ErrMismatch(fmt.Sprintf("recorded app clients no longer agree on: %v", names)).
			WithResource("user pool", reduced.UserPoolID).
			WithRemediation("align the OAuth configuration of the two app clients or run an interactive import")
	}
	answers.OAuth = bundle

	if err := completeAnswers(ctx, svc, answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// RehydrateResult re-validates a reduced output and rebuilds the persisted
// projections exactly as the interactive session would have.
func RehydrateResult(ctx context.Context, svc *PoolService, reduced ReducedOutput) (*ImportResult, error) {
	answers, err := Rehydrate(ctx, svc, reduced)
	if err != nil {
		return nil, err
	}
	return &ImportResult{
		Answers:     answers,
		Full:        BuildFull(answers),
		Reduced:     BuildReduced(answers),
		Credentials: BuildCredentials(answers),
		CompletedAt: time.Now(),
	}, nil
}
