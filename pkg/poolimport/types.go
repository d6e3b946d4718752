// Package poolimport provides the core types and reconciliation logic for
// bringing an existing Cognito user pool and its paired app clients under
// management of a local project configuration.
package poolimport

import (
	"encoding/json"
	"time"
)

// MfaMode is the pool-level multi-factor authentication setting.
type MfaMode string

const (
	MfaOff      MfaMode = "OFF"
	MfaOn       MfaMode = "ON"
	MfaOptional MfaMode = "OPTIONAL"
)

// SupportedProviders is the fixed allowlist of federation providers the import
// flow knows how to carry into project configuration. Providers configured on
// a client but absent from this list are ignored, not rejected.
var SupportedProviders = []string{
	"Facebook",
	"Google",
	"LoginWithAmazon",
	"SignInWithApple",
}

// Directory is a read-only snapshot of a user pool. It is fetched once per
// session and re-fetched on rehydration; it is never mutated locally.
type Directory struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Domain is the hosted UI domain, empty when none is configured.
	Domain string `json:"domain,omitempty"`

	// LambdaTriggers maps trigger names to function ARNs for pools that
	// customize federation with lambda hooks.
	LambdaTriggers map[string]string `json:"lambda_triggers,omitempty"`

	// MfaMode is the pool-level MFA configuration.
	MfaMode MfaMode `json:"mfa_mode,omitempty"`
}

// Label returns the human-readable label used for interactive selection.
func (d Directory) Label() string {
	return d.Name + " (" + d.ID + ")"
}

// ClientRegistration is a read-only snapshot of one app client of a pool.
// Role is inferred from secret possession: a client holding a confidential
// secret serves native apps, a public client serves browsers.
type ClientRegistration struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Secret string `json:"secret,omitempty"`

	// Providers are the federation provider names enabled on this client.
	Providers []string `json:"providers,omitempty"`

	CallbackURLs  []string `json:"callback_urls,omitempty"`
	LogoutURLs    []string `json:"logout_urls,omitempty"`
	AllowedFlows  []string `json:"allowed_flows,omitempty"`
	AllowedScopes []string `json:"allowed_scopes,omitempty"`

	// FlowsEnabled reports whether OAuth flows are enabled for this client.
	FlowsEnabled bool `json:"flows_enabled"`
}

// HasSecret reports whether this registration carries a confidential secret,
// which marks it as the native-app client.
func (c ClientRegistration) HasSecret() bool {
	return c.Secret != ""
}

// Label returns the human-readable label used for interactive selection.
func (c ClientRegistration) Label() string {
	return c.Name + " (" + c.ID + ")"
}

// IdentityProviderBinding is the credential pair behind one federation
// provider configured on the pool. Fetched only when OAuth is being imported.
type IdentityProviderBinding struct {
	Provider     string `json:"provider"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// MfaDetail is the pool's multi-factor configuration relevant to the import.
type MfaDetail struct {
	Mode MfaMode `json:"mode"`

	// SmsConfigured reports whether SMS second factor is configured.
	SmsConfigured bool `json:"sms_configured"`

	// SnsCallerARN is the role the pool uses to send SMS, when configured.
	SnsCallerARN string `json:"sns_caller_arn,omitempty"`
}

// OAuthBundle is the canonical OAuth property set accepted by reconciliation.
// The list properties are taken from the web client after both clients have
// been verified to agree on them.
type OAuthBundle struct {
	// Providers is the accepted federation provider set: the web client's
	// provider list filtered to SupportedProviders.
	Providers []string `json:"providers"`

	CallbackURLs  []string `json:"callback_urls"`
	LogoutURLs    []string `json:"logout_urls"`
	AllowedFlows  []string `json:"allowed_flows"`
	AllowedScopes []string `json:"allowed_scopes"`
	FlowsEnabled  bool     `json:"flows_enabled"`
}

// Answers is the session-scoped accumulator filled in as the operator (or the
// rehydration path) makes choices. It is owned exclusively by the stage
// driving it and is either discarded on abort or frozen into outputs.
type Answers struct {
	Pool         *Directory
	WebClient    *ClientRegistration
	NativeClient *ClientRegistration

	// OAuth is nil when the pair carries no federation configuration.
	OAuth *OAuthBundle

	Mfa      *MfaDetail
	Bindings []IdentityProviderBinding
}

// OAuthConfigured reports whether the import carries OAuth configuration.
// A bundle whose accepted provider set is empty counts as no OAuth: nothing
// in it could be operated on, so neither federation metadata nor credentials
// are emitted for it.
func (a *Answers) OAuthConfigured() bool {
	return a.OAuth != nil && len(a.OAuth.Providers) > 0
}

// OAuthMetadata is the serialized federation metadata carried in the full
// output when OAuth is configured with complete property lists.
type OAuthMetadata struct {
	AllowedFlows  []string `json:"allowed_flows"`
	AllowedScopes []string `json:"allowed_scopes"`
	CallbackURLs  []string `json:"callback_urls"`
	LogoutURLs    []string `json:"logout_urls"`
}

// FullOutput is the durable record of an accepted import: everything needed
// to operate against the pool without re-querying it.
type FullOutput struct {
	UserPoolID   string `json:"user_pool_id"`
	UserPoolName string `json:"user_pool_name"`

	NativeClientID     string `json:"native_client_id"`
	NativeClientSecret string `json:"native_client_secret"`
	WebClientID        string `json:"web_client_id"`

	HostedUIDomain string `json:"hosted_ui_domain,omitempty"`

	// SnsCallerARN is present when SMS MFA is configured and pool MFA is
	// not OFF.
	SnsCallerARN string `json:"sns_caller_arn,omitempty"`

	OAuthMetadata *OAuthMetadata `json:"oauth_metadata,omitempty"`
}

// ReducedOutput is the environment-portable pointer set: just enough to
// re-derive the full output from current remote state.
type ReducedOutput struct {
	UserPoolID     string `json:"user_pool_id"`
	UserPoolName   string `json:"user_pool_name"`
	NativeClientID string `json:"native_client_id"`
	WebClientID    string `json:"web_client_id"`
}

// ProviderCredential is one federation provider's credential pair.
type ProviderCredential struct {
	Provider     string `json:"provider"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// CredentialsPayload is the secret-classified companion to the full output,
// serialized independently so it can be routed to secrets storage.
type CredentialsPayload struct {
	Providers []ProviderCredential `json:"providers"`
}

// ImportResult is the frozen outcome of one accepted import session.
type ImportResult struct {
	SessionID string
	Answers   *Answers

	Full    FullOutput
	Reduced ReducedOutput

	// Credentials is nil when no OAuth configuration was imported.
	Credentials *CredentialsPayload

	CompletedAt time.Time
}

// String implements fmt.Stringer for ReducedOutput.
func (r ReducedOutput) String() string {
	data, _ := json.Marshal(r)
	return string(data)
}
