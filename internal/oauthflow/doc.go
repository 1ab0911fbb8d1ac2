// Package oauthflow implements the OAuth2 Authorization Code flow with PKCE
// and the refresh grant against the Twitter API v2 endpoints.
//
// The flow is a small state machine:
//
//	client := oauthflow.NewClient(oauthflow.ClientCredentials{ID: id, Secret: secret})
//	attempt, err := client.Authorize(redirectURL, oauthflow.DefaultScopes())
//	// send the user to attempt.URL(), then collect the redirected URL
//	resp, err := client.Exchange(ctx, attempt, redirectedURL)
//
// An Attempt carries the PKCE verifier and the CSRF state of one
// authorization. It is consumed by the first Exchange (or ValidateCallback)
// whatever the outcome; reusing it fails with ErrAttemptConsumed.
//
// Refreshing needs no redirect URL:
//
//	resp, err := client.Refresh(ctx, creds.RefreshToken)
//
// # Transport
//
// Token requests go through the narrow FormPoster capability. HTTPPoster
// backs it with net/http; tests and callers may substitute their own:
//
//	client := oauthflow.NewClient(creds, oauthflow.WithPoster(poster))
package oauthflow
