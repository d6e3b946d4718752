package poolimport

import (
	"context"
	"fmt"
	"sort"
)

// Question describes one interactive choice put to the operator. The core
// never renders UI; it hands a Question to a Prompter and gets a value back.
type Question struct {
	// Message is the prompt text.
	Message string

	// Choices are the selectable options, already sorted for display.
	Choices []Choice

	// Validate, when set, is run against the chosen value inside the
	// question itself: a rejected answer re-asks, it never advances the
	// session.
	Validate func(value string) error
}

// Choice is one selectable option of a Question.
type Choice struct {
	Label string
	Value string
}

// Prompter is the interactive-question capability. Select blocks until the
// operator answers or the prompt is abandoned.
type Prompter interface {
	Select(ctx context.Context, q Question) (string, error)
}

// MessageSink receives human-readable diagnostic lines: auto-selection notes,
// eligibility failures, mismatch tables. The core decides content, the sink
// decides rendering.
type MessageSink interface {
	Emit(line string)
}

// discardSink drops all diagnostics.
type discardSink struct{}

func (discardSink) Emit(string) {}

// selection is the outcome of one auto-select-or-ask step.
type selection[T any] struct {
	item T

	// auto reports that the choice was made without operator input.
	auto bool
}

// selectOne implements the recurring "auto-select when singleton, else ask"
// pattern. A singleton candidate set is still validated before auto-selection;
// validation failure aborts rather than falling through to a prompt. With
// multiple candidates the operator chooses from lexically sorted labels, and
// validation runs as part of the question so an invalid pick is re-asked.
func selectOne[T any](ctx context.Context, p Prompter, sink MessageSink, message string, items []T, label func(T) string, key func(T) string, validate func(T) error) (selection[T], error) {
	var zero selection[T]

	if len(items) == 0 {
		return zero, ErrInternal("selectOne: empty candidate set")
	}

	byKey := make(map[string]T, len(items))
	for _, it := range items {
		byKey[key(it)] = it
	}

	if len(items) == 1 {
		only := items[0]
		if validate != nil {
			if err := validate(only); err != nil {
				return zero, err
			}
		}
		sink.Emit(fmt.Sprintf("%s: %s (only candidate, selected automatically)", message, label(only)))
		return selection[T]{item: only, auto: true}, nil
	}

	choices := make([]Choice, 0, len(items))
	for _, it := range items {
		choices = append(choices, Choice{Label: label(it), Value: key(it)})
	}
	sort.Slice(choices, func(i, j int) bool { return choices[i].Label < choices[j].Label })

	q := Question{
		Message: message,
		Choices: choices,
	}
	if validate != nil {
		q.Validate = func(value string) error {
			it, ok := byKey[value]
			if !ok {
				return ErrValidation("unknown choice: " + value)
			}
			return validate(it)
		}
	}

	value, err := p.Select(ctx, q)
	if err != nil {
		return zero, err
	}
	chosen, ok := byKey[value]
	if !ok {
		return zero, ErrInternal("prompter returned unknown value: " + value)
	}
	return selection[T]{item: chosen}, nil
}

// partitionClients splits a pool's registrations by secret possession.
func partitionClients(clients []ClientRegistration) (web, native []ClientRegistration) {
	for _, c := range clients {
		if c.HasSecret() {
			native = append(native, c)
		} else {
			web = append(web, c)
		}
	}
	return web, native
}

// checkEligibility verifies that a pool carries at least one public (web) and
// one confidential (native) client. Both roles are required for an import.
func checkEligibility(pool PoolSummary, clients []ClientRegistration) error {
	web, native := partitionClients(clients)
	if len(web) == 0 || len(native) == 0 {
		return ErrIneligible(fmt.Sprintf("user pool %s needs at least one app client with a client secret and one without", pool.ID)).
			WithResource("user pool", pool.ID).
			WithRemediation("create the missing app client in the pool, then run the import again")
	}
	return nil
}

// selectPool narrows the pool candidates to one, enforcing eligibility both
// on auto-selection and inside the interactive question.
func (s *Session) selectPool(ctx context.Context, pools []PoolSummary) (PoolSummary, error) {
	validate := func(p PoolSummary) error {
		clients, err := s.svc.PoolClients(ctx, p.ID)
		if err != nil {
			return err
		}
		return checkEligibility(p, clients)
	}

	sel, err := selectOne(ctx, s.prompter, s.sink, "Select the user pool to import", pools,
		func(p PoolSummary) string { return p.Name + " (" + p.ID + ")" },
		func(p PoolSummary) string { return p.ID },
		validate,
	)
	if err != nil {
		return PoolSummary{}, err
	}
	return sel.item, nil
}

// clientSelection is the result of one client-selection attempt.
type clientSelection struct {
	web    ClientRegistration
	native ClientRegistration

	// bothAuto gates the reconciler's retry policy: when neither choice
	// involved the operator, retrying would re-select the same pair.
	bothAuto bool
}

// selectClients picks one client per role, independently, from an eligible
// pool's registrations.
func (s *Session) selectClients(ctx context.Context, clients []ClientRegistration) (clientSelection, error) {
	web, native := partitionClients(clients)

	label := func(c ClientRegistration) string { return c.Label() }
	key := func(c ClientRegistration) string { return c.ID }

	webSel, err := selectOne(ctx, s.prompter, s.sink, "Select the app client for web", web, label, key, nil)
	if err != nil {
		return clientSelection{}, err
	}
	nativeSel, err := selectOne(ctx, s.prompter, s.sink, "Select the app client for native", native, label, key, nil)
	if err != nil {
		return clientSelection{}, err
	}

	return clientSelection{
		web:      webSel.item,
		native:   nativeSel.item,
		bothAuto: webSel.auto && nativeSel.auto,
	}, nil
}
