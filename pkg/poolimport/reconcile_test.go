package poolimport

import (
	"context"
	"testing"
)

func oauthClient(id, name, secret string, providers []string) ClientRegistration {
	return ClientRegistration{
		ID:            id,
		Name:          name,
		Secret:        secret,
		Providers:     providers,
		CallbackURLs:  []string{"https://app.example.com/cb", "myapp://cb"},
		LogoutURLs:    []string{"https://app.example.com/out"},
		AllowedFlows:  []string{"code"},
		AllowedScopes: []string{"email", "openid"},
		FlowsEnabled:  true,
	}
}

func TestMatchOAuth_TrivialAcceptWithoutProviders(t *testing.T) {
	web := webClient("w1", "web")
	native := nativeClient("n1", "native")

	bundle, bad := matchOAuth(&web, &native)
	if len(bad) != 0 {
		t.Fatalf("expected no mismatches, got %v", bad)
	}
	if bundle != nil {
		t.Fatalf("trivial accept must carry no bundle, got %+v", bundle)
	}
}

func TestMatchOAuth_OrderInsensitiveAcceptance(t *testing.T) {
	web := oauthClient("w1", "web", "", []string{"Google", "Facebook", "CustomSAML"})
	native := oauthClient("n1", "native", "secret", []string{"Facebook", "CustomSAML", "Google"})

	// Shuffle every list property on one side.
	native.CallbackURLs = []string{"myapp://cb", "https://app.example.com/cb"}
	native.AllowedScopes = []string{"openid", "email"}

	bundle, bad := matchOAuth(&web, &native)
	if len(bad) != 0 {
		t.Fatalf("expected acceptance, got mismatches: %v", bad)
	}
	if bundle == nil {
		t.Fatalf("expected a bundle")
	}

	// Accepted providers are allowlist-filtered: CustomSAML drops out.
	if len(bundle.Providers) != 2 || bundle.Providers[0] != "Facebook" || bundle.Providers[1] != "Google" {
		t.Fatalf("unexpected accepted providers: %v", bundle.Providers)
	}
	if !bundle.FlowsEnabled {
		t.Fatalf("expected flows enabled carried from the web client")
	}
}

func TestMatchOAuth_DisjointProvidersReportMismatch(t *testing.T) {
	web := oauthClient("w1", "web", "", []string{"Google"})
	native := oauthClient("n1", "native", "secret", []string{"Facebook"})

	bundle, bad := matchOAuth(&web, &native)
	if bundle != nil {
		t.Fatalf("expected no bundle on mismatch")
	}
	if len(bad) != 1 || bad[0].Name != "Identity providers" {
		t.Fatalf("expected a single provider mismatch, got %v", bad)
	}
}

func TestMatchOAuth_ScalarFlagMismatch(t *testing.T) {
	web := oauthClient("w1", "web", "", []string{"Google"})
	native := oauthClient("n1", "native", "secret", []string{"Google"})
	native.FlowsEnabled = false

	_, bad := matchOAuth(&web, &native)
	if len(bad) != 1 || bad[0].Name != "OAuth flows enabled" {
		t.Fatalf("expected flows-enabled mismatch, got %v", bad)
	}
}

func TestReconcile_BothAutoMismatchFailsInsteadOfLooping(t *testing.T) {
	web := oauthClient("w1", "web-1", "", []string{"Google"})
	native := oauthClient("n1", "native-1", "secret", []string{"Facebook"})

	api := newFakeAPI()
	pool := Directory{ID: "D1", Name: "pool"}
	api.addPool(pool, web, native)

	sink := &memSink{}
	s := NewSession(NewPoolService(api), &scriptPrompter{}, WithSink(sink))

	answers := &Answers{Pool: &pool}
	err := s.reconcileClients(context.Background(), []ClientRegistration{web, native}, answers)
	if !IsCategory(err, ErrCategoryMismatch) {
		t.Fatalf("expected mismatch failure, got %v", err)
	}
	if !sink.contains("Identity providers do not match") {
		t.Fatalf("expected comparison table, got %v", sink.lines)
	}
}

func TestReconcile_OperatorChoiceRetriesUntilMatchingPair(t *testing.T) {
	// D2: two web clients, one native. native declares only Google, webA
	// matches it, webB does not. The operator first picks webB (mismatch,
	// retry: native was auto but web was chosen), then webA (accept).
	webA := oauthClient("wa", "web-A", "", []string{"Google"})
	webB := oauthClient("wb", "web-B", "", []string{"Facebook"})
	native := oauthClient("n1", "native-1", "secret", []string{"Google"})
	clients := []ClientRegistration{webA, webB, native}

	api := newFakeAPI()
	pool := Directory{ID: "D2", Name: "pool"}
	api.addPool(pool, clients...)

	sink := &memSink{}
	prompter := &scriptPrompter{answers: []string{"wb", "wa"}}
	s := NewSession(NewPoolService(api), prompter, WithSink(sink))

	answers := &Answers{Pool: &pool}
	err := s.reconcileClients(context.Background(), clients, answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answers.WebClient.ID != "wa" {
		t.Fatalf("expected web-A after retry, got %s", answers.WebClient.ID)
	}
	if len(prompter.answers) != 0 {
		t.Fatalf("expected both scripted answers to be consumed")
	}
	if !sink.contains("Select a matching pair") {
		t.Fatalf("expected retry note, got %v", sink.lines)
	}
	if answers.OAuth == nil || len(answers.OAuth.Providers) != 1 || answers.OAuth.Providers[0] != "Google" {
		t.Fatalf("unexpected accepted bundle: %+v", answers.OAuth)
	}
}

func TestReconcile_TrivialAcceptScenario(t *testing.T) {
	// D1: one secret-bearing and one public client, neither with OAuth.
	web := webClient("web-1", "web-1")
	native := nativeClient("native-1", "native-1")

	api := newFakeAPI()
	pool := Directory{ID: "D1", Name: "pool"}
	api.addPool(pool, web, native)

	s := NewSession(NewPoolService(api), &scriptPrompter{}, WithSink(&memSink{}))
	answers := &Answers{Pool: &pool}
	if err := s.reconcileClients(context.Background(), []ClientRegistration{web, native}, answers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answers.OAuth != nil {
		t.Fatalf("trivial accept must leave OAuth unset")
	}
}

func TestRenderMismatch_PadsColumnsToEqualRows(t *testing.T) {
	sink := &memSink{}
	comp := propertyComparison{
		Name:         "Callback URLs",
		WebValues:    []string{"https://a", "https://b", "https://c"},
		NativeValues: []string{"https://a"},
	}
	renderMismatch(sink, comp, "web-1", "native-1")

	// Title + header + separator + three value rows + trailing blank.
	if len(sink.lines) != 7 {
		t.Fatalf("expected 7 lines, got %d: %v", len(sink.lines), sink.lines)
	}
	if !sink.contains("web-1") || !sink.contains("native-1") {
		t.Fatalf("expected client names as headers: %v", sink.lines)
	}
}
