package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jaekwang-park/todo-items/internal/cognito"
	"github.com/jaekwang-park/todo-items/internal/model"
	"github.com/jaekwang-park/todo-items/internal/repository"
	"github.com/jaekwang-park/todo-items/internal/store"
	"github.com/jaekwang-park/todo-items/internal/validator"
)

// AccountService registers accounts and issues access tokens through the
// identity provider. A nil provider disables both.
type AccountService struct {
	provider cognito.Client
	repo     repository.AccountRepository
}

func NewAccountService(provider cognito.Client, repo repository.AccountRepository) *AccountService {
	return &AccountService{provider: provider, repo: repo}
}

// Matches reports whether any account matches filter.
func (s *AccountService) Matches(ctx context.Context, filter store.Filter) (bool, error) {
	return validator.Found(s.repo.FindOne)(ctx, filter)
}

func (s *AccountService) Register(ctx context.Context, email, password string) (model.Account, error) {
	if s.provider == nil {
		return model.Account{}, ErrAuthUnavailable
	}

	out, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return model.Account{}, err
	}

	account, err := s.repo.Save(ctx, model.Account{Email: email, Subject: out.Subject})
	if err != nil {
		// The provider user now exists without a local account and needs
		// manual cleanup before the email can register again.
		slog.ErrorContext(ctx, "provider account left without local account",
			"subject", out.Subject,
			"email", email,
			"error", err,
		)
		if errors.Is(err, store.ErrDuplicate) {
			return model.Account{}, validator.NewError(validator.Failure{Field: "email", Message: validator.MsgEmailTaken})
		}
		return model.Account{}, fmt.Errorf("failed to save account: %w", err)
	}
	return account, nil
}

// AccessToken is the public shape of a successful login.
type AccessToken struct {
	AccessToken  string `json:"accessToken"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int32  `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}

func (s *AccountService) IssueToken(ctx context.Context, email, password string) (AccessToken, error) {
	if s.provider == nil {
		return AccessToken{}, ErrAuthUnavailable
	}

	tokens, err := s.provider.Login(ctx, email, password)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{
		AccessToken:  tokens.AccessToken,
		IDToken:      tokens.IDToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		TokenType:    tokens.TokenType,
	}, nil
}

// ResolveAccountID maps an identity-provider subject to an account id.
func (s *AccountService) ResolveAccountID(ctx context.Context, subject string) (string, error) {
	account, err := s.repo.FindOne(ctx, store.ByField(repository.FieldSubject, subject))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("failed to resolve account: %w", err)
	}
	return account.ID, nil
}
