package poolimport

import (
	"testing"
)

func sampleAnswers() *Answers {
	web := oauthClient("w1", "web", "", []string{"Google", "Facebook"})
	native := oauthClient("n1", "native", "shh", []string{"Google", "Facebook"})
	bundle, _ := matchOAuth(&web, &native)

	return &Answers{
		Pool:         &Directory{ID: "p1", Name: "pool", Domain: "myapp"},
		WebClient:    &web,
		NativeClient: &native,
		OAuth:        bundle,
		Mfa:          &MfaDetail{Mode: MfaOptional, SmsConfigured: true, SnsCallerARN: "arn:aws:iam::123:role/sns"},
		Bindings: []IdentityProviderBinding{
			{Provider: "Google", ClientID: "gid", ClientSecret: "gsec"},
			{Provider: "Facebook", ClientID: "fid", ClientSecret: "fsec"},
		},
	}
}

func TestBuildFull_CarriesEverything(t *testing.T) {
	full := BuildFull(sampleAnswers())

	if full.UserPoolID != "p1" || full.UserPoolName != "pool" {
		t.Fatalf("unexpected pool fields: %+v", full)
	}
	if full.NativeClientID != "n1" || full.NativeClientSecret != "shh" || full.WebClientID != "w1" {
		t.Fatalf("unexpected client fields: %+v", full)
	}
	if full.HostedUIDomain != "myapp" {
		t.Fatalf("expected hosted UI domain, got %q", full.HostedUIDomain)
	}
	if full.SnsCallerARN != "arn:aws:iam::123:role/sns" {
		t.Fatalf("expected SNS role, got %q", full.SnsCallerARN)
	}
	if full.OAuthMetadata == nil {
		t.Fatalf("expected OAuth metadata")
	}
	if len(full.OAuthMetadata.CallbackURLs) == 0 || len(full.OAuthMetadata.AllowedScopes) == 0 {
		t.Fatalf("incomplete metadata: %+v", full.OAuthMetadata)
	}
}

func TestBuildFull_NoSnsRoleWhenMfaOff(t *testing.T) {
	a := sampleAnswers()
	a.Mfa.Mode = MfaOff

	full := BuildFull(a)
	if full.SnsCallerARN != "" {
		t.Fatalf("MFA off must drop the SNS role, got %q", full.SnsCallerARN)
	}
}

func TestBuildFull_NoMetadataWithoutOAuth(t *testing.T) {
	a := sampleAnswers()
	a.OAuth = nil

	full := BuildFull(a)
	if full.OAuthMetadata != nil {
		t.Fatalf("expected no OAuth metadata, got %+v", full.OAuthMetadata)
	}
}

func TestBuildFull_NoMetadataForIncompleteBundle(t *testing.T) {
	a := sampleAnswers()
	a.OAuth.LogoutURLs = nil

	full := BuildFull(a)
	if full.OAuthMetadata != nil {
		t.Fatalf("bundle with an empty list property must not serialize metadata")
	}
}

func TestBuildReduced_IsSubsetOfFull(t *testing.T) {
	a := sampleAnswers()
	full := BuildFull(a)
	reduced := BuildReduced(a)

	if reduced.UserPoolID != full.UserPoolID ||
		reduced.UserPoolName != full.UserPoolName ||
		reduced.NativeClientID != full.NativeClientID ||
		reduced.WebClientID != full.WebClientID {
		t.Fatalf("reduced fields diverge from full: %+v vs %+v", reduced, full)
	}
}

func TestBuildCredentials_FiltersToAcceptedProviders(t *testing.T) {
	a := sampleAnswers()
	a.Bindings = append(a.Bindings, IdentityProviderBinding{
		Provider: "CustomSAML", ClientID: "x", ClientSecret: "y",
	})

	payload := BuildCredentials(a)
	if payload == nil {
		t.Fatalf("expected a credentials payload")
	}
	if len(payload.Providers) != 2 {
		t.Fatalf("expected 2 accepted credentials, got %v", payload.Providers)
	}
	for _, p := range payload.Providers {
		if p.Provider == "CustomSAML" {
			t.Fatalf("unsupported provider leaked into credentials")
		}
	}
}

func TestBuildCredentials_NilWithoutOAuth(t *testing.T) {
	a := sampleAnswers()
	a.OAuth = nil
	if payload := BuildCredentials(a); payload != nil {
		t.Fatalf("expected nil payload, got %+v", payload)
	}

	// An accepted bundle with zero supported providers counts as no OAuth.
	a = sampleAnswers()
	a.OAuth.Providers = nil
	if payload := BuildCredentials(a); payload != nil {
		t.Fatalf("expected nil payload for empty provider set, got %+v", payload)
	}
}
