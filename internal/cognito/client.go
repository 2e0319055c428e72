// Package cognito is the identity provider behind accounts and access tokens.
package cognito

import "context"

// Client is the subset of Cognito the account endpoints use.
type Client interface {
	SignUp(ctx context.Context, email, password string) (SignUpOutput, error)
	Login(ctx context.Context, email, password string) (Tokens, error)
}

type SignUpOutput struct {
	Subject   string
	Confirmed bool
}

// Tokens are issued on a successful password login.
type Tokens struct {
	IDToken      string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int32
	TokenType    string
}
