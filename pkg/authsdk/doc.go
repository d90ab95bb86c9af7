/*
Package authsdk provides a client SDK for the Inkwell authentication service.

# SDKClient vs Session

The package is organized around two main types:

  - SDKClient: Provides unauthenticated operations and creates authenticated sessions
  - Session: Provides authenticated operations with automatic token refresh

Create an SDKClient to interact with public endpoints and sign in:

	client := authsdk.NewSDKClient("https://auth.example.com")

	// Check service health
	health, err := client.GetLiveness(ctx)

	// Create an account and get a session for it
	session, err := client.SignupSession(ctx, authsdk.SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Passw0rd",
	})

	// Or sign in with an email or username
	session, err = client.AuthenticateWithPassword(ctx, "alice", "Passw0rd")

Use a Session for the signed-in user's own account:

	user, err := session.Me(ctx)
	user, err = session.UpdateUser(ctx, authsdk.UpdateUserRequest{
		Data: map[string]any{"theme": "dark"},
	})
	err = session.ChangePassword(ctx, "Passw0rd", "N3wPassword")
	err = session.Logout(ctx)

# Email Verification

When the server requires a verified email at signup, exchange a mailed code
for a verification token first:

	err := client.SendVerificationCode(ctx, "alice@example.com", "en")
	token, err := client.VerifyEmailCode(ctx, "alice@example.com", codeFromMail)
	session, err := client.SignupSession(ctx, authsdk.SignupRequest{
		Username:          "alice",
		Email:             "alice@example.com",
		Password:          "Passw0rd",
		VerificationToken: token,
	})

A verification token is consumed by the signup that uses it.

# Automatic Token Refresh

Sessions refresh access tokens shortly before they expire. Refresh tokens are
single use: every refresh returns a replacement and the old value stops
working. A Session serialises its refreshes so concurrent callers never spend
the same refresh token twice.

# Error Handling

Non-2xx answers are returned as *APIError carrying the HTTP status and the
error code from the body:

	_, err := client.Login(ctx, "alice", "wrong")
	if authsdk.IsCode(err, authsdk.ErrorCodeTooManyLoginAttempts) {
		// back off
	}

# Thread Safety

Sessions are safe for concurrent use. Multiple goroutines can share a single
Session and make authenticated requests concurrently.
*/
package authsdk
