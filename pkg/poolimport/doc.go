// Package poolimport brings an externally created Cognito user pool and its
// paired app clients under management of a local project configuration.
//
// # Overview
//
// An import session discovers candidate user pools, narrows the pool's app
// clients to exactly one web (public) and one native (confidential) client,
// verifies that the pair's OAuth and federation settings agree, and persists
// the outcome in two projections plus a secret-classified credentials payload.
//
// # Facade
//
// PoolService fronts the directory API with session-scoped caching and drains
// cursor-based listings through DrainPages. Batch describes fan out
// concurrently; a single failure fails the whole call.
//
// # Selection and reconciliation
//
// Selection follows one rule everywhere: a singleton candidate set is
// auto-selected (after eligibility validation), anything else is put to the
// operator through the Prompter capability. Reconciliation compares the
// selected pair's OAuth properties and loops back into client selection on a
// mismatch, unless both clients were auto-selected, in which case retrying
// could never produce a different pair and the session fails instead.
//
// # Outputs
//
// The full output carries everything needed to operate without re-querying
// the pool; the reduced output carries only the identifiers needed to rebuild
// the full output later. Rehydrate consumes a reduced output on a fresh
// environment and re-runs validation and matching without operator input.
//
// # Usage
//
//	svc := poolimport.NewPoolService(api)
//	session := poolimport.NewSession(svc, prompter,
//	    poolimport.WithSink(sink),
//	    poolimport.WithRegistry(registry),
//	)
//
//	result, err := session.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if result == nil {
//	    return // nothing in scope to import
//	}
//
//	fmt.Printf("Imported pool: %s\n", result.Full.UserPoolID)
//
// Later, on another machine:
//
//	result, err := poolimport.RehydrateResult(ctx, poolimport.NewPoolService(api), reduced)
package poolimport
