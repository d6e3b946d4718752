package poolimport

import (
	"context"
	"testing"
)

func TestCheckEligibility_RequiresBothPartitions(t *testing.T) {
	pool := PoolSummary{ID: "p1", Name: "one"}

	cases := []struct {
		name    string
		clients []ClientRegistration
		ok      bool
	}{
		{"both roles", []ClientRegistration{webClient("w1", "web"), nativeClient("n1", "native")}, true},
		{"only secret-bearing", []ClientRegistration{nativeClient("n1", "a"), nativeClient("n2", "b")}, false},
		{"only public", []ClientRegistration{webClient("w1", "a"), webClient("w2", "b"), webClient("w3", "c")}, false},
		{"no clients", nil, false},
	}

	for _, tc := range cases {
		err := checkEligibility(pool, tc.clients)
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if !tc.ok && !IsCategory(err, ErrCategoryIneligible) {
			t.Fatalf("%s: expected ineligible, got %v", tc.name, err)
		}
	}
}

func TestSelectOne_SingletonAutoSelectsWithNote(t *testing.T) {
	sink := &memSink{}
	p := &scriptPrompter{}

	sel, err := selectOne(context.Background(), p, sink, "Pick", []string{"only"},
		func(s string) string { return s },
		func(s string) string { return s },
		nil,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sel.auto || sel.item != "only" {
		t.Fatalf("expected auto selection of 'only', got %+v", sel)
	}
	if len(p.asked) != 0 {
		t.Fatalf("singleton must not prompt")
	}
	if !sink.contains("selected automatically") {
		t.Fatalf("expected auto-selection note, got %v", sink.lines)
	}
}

func TestSelectOne_SingletonValidationFailureAborts(t *testing.T) {
	sink := &memSink{}
	p := &scriptPrompter{answers: []string{"only"}}

	_, err := selectOne(context.Background(), p, sink, "Pick", []string{"only"},
		func(s string) string { return s },
		func(s string) string { return s },
		func(s string) error { return ErrIneligible("no good") },
	)
	if !IsCategory(err, ErrCategoryIneligible) {
		t.Fatalf("expected ineligible, got %v", err)
	}
	if len(p.asked) != 0 {
		t.Fatalf("failed singleton must abort, not fall through to a prompt")
	}
}

func TestSelectOne_MultipleOffersSortedChoices(t *testing.T) {
	sink := &memSink{}
	p := &scriptPrompter{answers: []string{"b"}}

	sel, err := selectOne(context.Background(), p, sink, "Pick", []string{"zeta", "beta", "alpha"},
		func(s string) string { return s },
		func(s string) string { return s[:1] },
		nil,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.auto {
		t.Fatalf("operator choice must not be marked auto")
	}
	if sel.item != "beta" {
		t.Fatalf("expected beta, got %q", sel.item)
	}

	q := p.asked[0]
	labels := []string{q.Choices[0].Label, q.Choices[1].Label, q.Choices[2].Label}
	if labels[0] != "alpha" || labels[1] != "beta" || labels[2] != "zeta" {
		t.Fatalf("choices not sorted: %v", labels)
	}
}

func TestSelectClients_TracksBothAuto(t *testing.T) {
	api := newFakeAPI()
	clients := []ClientRegistration{webClient("w1", "web"), nativeClient("n1", "native")}
	api.addPool(Directory{ID: "p1", Name: "one"}, clients...)

	s := NewSession(NewPoolService(api), &scriptPrompter{}, WithSink(&memSink{}))
	sel, err := s.selectClients(context.Background(), clients)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sel.bothAuto {
		t.Fatalf("two singletons must be reported as both auto-selected")
	}

	// Add a second web client; the web choice now involves the operator.
	clients = append(clients, webClient("w2", "other web"))
	s = NewSession(NewPoolService(api), &scriptPrompter{answers: []string{"w2"}}, WithSink(&memSink{}))
	sel, err = s.selectClients(context.Background(), clients)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.bothAuto {
		t.Fatalf("operator-involved selection must not be both-auto")
	}
	if sel.web.ID != "w2" || sel.native.ID != "n1" {
		t.Fatalf("unexpected selection: %+v", sel)
	}
}
