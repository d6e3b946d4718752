package poolimport

// BuildFull projects an accepted answer set into the durable full output.
func BuildFull(a *Answers) FullOutput {
	out := FullOutput{
		UserPoolID:         a.Pool.ID,
		UserPoolName:       a.Pool.Name,
		NativeClientID:     a.NativeClient.ID,
		NativeClientSecret: a.NativeClient.Secret,
		WebClientID:        a.WebClient.ID,
		HostedUIDomain:     a.Pool.Domain,
	}

	if a.Mfa != nil && a.Mfa.SmsConfigured && a.Mfa.Mode != MfaOff {
		out.SnsCallerARN = a.Mfa.SnsCallerARN
	}

	if a.OAuthConfigured() && oauthComplete(a.OAuth) {
		out.OAuthMetadata = &OAuthMetadata{
			AllowedFlows:  a.OAuth.AllowedFlows,
			AllowedScopes: a.OAuth.AllowedScopes,
			CallbackURLs:  a.OAuth.CallbackURLs,
			LogoutURLs:    a.OAuth.LogoutURLs,
		}
	}

	return out
}

// oauthComplete reports whether every list property of the bundle has at
// least one value. Federation metadata is only recorded for bundles that
// could actually drive a hosted sign-in flow.
func oauthComplete(b *OAuthBundle) bool {
	return len(b.CallbackURLs) > 0 &&
		len(b.LogoutURLs) > 0 &&
		len(b.AllowedFlows) > 0 &&
		len(b.AllowedScopes) > 0
}

// BuildReduced projects an accepted answer set into the portable pointer set
// that Rehydrate consumes.
func BuildReduced(a *Answers) ReducedOutput {
	return ReducedOutput{
		UserPoolID:     a.Pool.ID,
		UserPoolName:   a.Pool.Name,
		NativeClientID: a.NativeClient.ID,
		WebClientID:    a.WebClient.ID,
	}
}

// BuildCredentials projects the accepted identity provider bindings into the
// secret-classified payload. It returns nil when no OAuth configuration was
// imported: without accepted providers there are no credentials to record.
func BuildCredentials(a *Answers) *CredentialsPayload {
	if !a.OAuthConfigured() {
		return nil
	}

	accepted := make(map[string]bool, len(a.OAuth.Providers))
	for _, p := range a.OAuth.Providers {
		accepted[p] = true
	}

	payload := &CredentialsPayload{}
	for _, b := range a.Bindings {
		if !accepted[b.Provider] {
			continue
		}
		payload.Providers = append(payload.Providers, ProviderCredential{
			Provider:     b.Provider,
			ClientID:     b.ClientID,
			ClientSecret: b.ClientSecret,
		})
	}
	return payload
}
