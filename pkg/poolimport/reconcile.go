package poolimport

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// reconcileState is one state of the client reconciliation loop.
type reconcileState int

const (
	stateSelecting reconcileState = iota
	stateComparing
	stateRetrying
	stateAccepted
	stateFailed
)

// propertyComparison is one pairwise property check between the two selected
// clients. Value lists are kept in sorted order for comparison and rendering.
type propertyComparison struct {
	Name         string
	Equal        bool
	WebValues    []string
	NativeValues []string
}

// sortedCopy returns a sorted copy, never sharing backing storage with the
// snapshot it came from.
func sortedCopy(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}

func equalSorted(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func compareProperty(name string, web, native []string) propertyComparison {
	ws, ns := sortedCopy(web), sortedCopy(native)
	return propertyComparison{
		Name:         name,
		Equal:        equalSorted(ws, ns),
		WebValues:    ws,
		NativeValues: ns,
	}
}

// compareClients computes the six pairwise checks between the selected web
// and native clients, in the fixed reporting order. List checks are
// order-insensitive; the flows-enabled check is a scalar.
func compareClients(web, native *ClientRegistration) []propertyComparison {
	comps := []propertyComparison{
		compareProperty("Identity providers", web.Providers, native.Providers),
		{
			Name:         "OAuth flows enabled",
			Equal:        web.FlowsEnabled == native.FlowsEnabled,
			WebValues:    []string{fmt.Sprintf("%t", web.FlowsEnabled)},
			NativeValues: []string{fmt.Sprintf("%t", native.FlowsEnabled)},
		},
		compareProperty("Callback URLs", web.CallbackURLs, native.CallbackURLs),
		compareProperty("Logout URLs", web.LogoutURLs, native.LogoutURLs),
		compareProperty("Allowed OAuth flows", web.AllowedFlows, native.AllowedFlows),
		compareProperty("Allowed OAuth scopes", web.AllowedScopes, native.AllowedScopes),
	}
	return comps
}

func mismatches(comps []propertyComparison) []propertyComparison {
	var bad []propertyComparison
	for _, c := range comps {
		if !c.Equal {
			bad = append(bad, c)
		}
	}
	return bad
}

// filterSupported restricts a provider list to the fixed allowlist,
// preserving the allowlist's order.
func filterSupported(providers []string) []string {
	have := make(map[string]bool, len(providers))
	for _, p := range providers {
		have[p] = true
	}
	var accepted []string
	for _, p := range SupportedProviders {
		if have[p] {
			accepted = append(accepted, p)
		}
	}
	return accepted
}

// matchOAuth runs the comparison step of reconciliation on an already
// selected client pair. It returns the accepted bundle on full agreement, nil
// with no mismatches when neither client declares federation providers
// (trivial accept), or the failing comparisons otherwise.
func matchOAuth(web, native *ClientRegistration) (*OAuthBundle, []propertyComparison) {
	if len(web.Providers) == 0 && len(native.Providers) == 0 {
		return nil, nil
	}

	comps := compareClients(web, native)
	if bad := mismatches(comps); len(bad) > 0 {
		return nil, bad
	}

	return &OAuthBundle{
		Providers:     filterSupported(web.Providers),
		CallbackURLs:  sortedCopy(web.CallbackURLs),
		LogoutURLs:    sortedCopy(web.LogoutURLs),
		AllowedFlows:  sortedCopy(web.AllowedFlows),
		AllowedScopes: sortedCopy(web.AllowedScopes),
		FlowsEnabled:  web.FlowsEnabled,
	}, nil
}

// renderMismatch emits a side-by-side comparison for one failing property,
// client display names as column headers and sorted values padded with blanks
// to equal row count.
func renderMismatch(sink MessageSink, comp propertyComparison, webName, nativeName string) {
	rows := len(comp.WebValues)
	if len(comp.NativeValues) > rows {
		rows = len(comp.NativeValues)
	}

	width := len(webName)
	for _, v := range comp.WebValues {
		if len(v) > width {
			width = len(v)
		}
	}

	cell := func(values []string, i int) string {
		if i < len(values) {
			return values[i]
		}
		return ""
	}

	sink.Emit(comp.Name + " do not match:")
	sink.Emit(fmt.Sprintf("  %-*s | %s", width, webName, nativeName))
	sink.Emit("  " + strings.Repeat("-", width) + "-+-" + strings.Repeat("-", len(nativeName)))
	for i := 0; i < rows; i++ {
		sink.Emit(fmt.Sprintf("  %-*s | %s", width, cell(comp.WebValues, i), cell(comp.NativeValues, i)))
	}
	sink.Emit("")
}

// reconcileClients drives the bounded retry loop around client selection.
// Exit conditions are exactly: trivial accept, full accept, or forced failure
// when a mismatching pair was uniquely auto-selected (a retry would re-select
// the same pair and never converge). Every other retry requires a genuine new
// operator choice, so no attempt counter is needed.
func (s *Session) reconcileClients(ctx context.Context, clients []ClientRegistration, answers *Answers) error {
	var sel clientSelection

	state := stateSelecting
	for {
		switch state {
		case stateSelecting:
			var err error
			sel, err = s.selectClients(ctx, clients)
			if err != nil {
				return err
			}
			answers.WebClient = &sel.web
			answers.NativeClient = &sel.native
			state = stateComparing

		case stateComparing:
			bundle, bad := matchOAuth(answers.WebClient, answers.NativeClient)
			if len(bad) == 0 {
				answers.OAuth = bundle
				state = stateAccepted
				break
			}

			for _, comp := range bad {
				renderMismatch(s.sink, comp, answers.WebClient.Name, answers.NativeClient.Name)
			}
			if sel.bothAuto {
				state = stateFailed
				break
			}
			answers.WebClient = nil
			answers.NativeClient = nil
			state = stateRetrying

		case stateRetrying:
			s.sink.Emit("The selected app clients have different OAuth settings. Select a matching pair.")
			state = stateSelecting

		case stateAccepted:
			return nil

		case stateFailed:
			return ErrMismatch("the pool's only app client pair has mismatched OAuth settings").
				WithResource("user pool", answers.Pool.ID).
				WithRemediation("align the OAuth configuration of the two app clients, then run the import again")
		}
	}
}
