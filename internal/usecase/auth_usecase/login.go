package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"deliverus/internal/domain/model"
	"deliverus/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// ログインの入力
type LoginInput struct {
	Email    string
	Password string
}

// ログインの出力（アクセストークンとユーザー情報）
type LoginOutput struct {
	Token     string
	ExpiresAt time.Time
	User      model.User
}

// ハッシュと平文の照合の約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// アクセストークン発行の約束。実装はmain側（JWT）。
type TokenIssuer interface {
	Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error)
}

type LoginUsecase struct {
	userRepo repository.UserRepository
	verifier PasswordVerifier
	issuer   TokenIssuer
	clock    Clock
}

// DI
func NewLoginUsecase(
	userRepo repository.UserRepository,
	verifier PasswordVerifier,
	issuer TokenIssuer,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo: userRepo,
		verifier: verifier,
		issuer:   issuer,
		clock:    clock,
	}
}

// ログイン実行
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return out, ErrInvalidCredentials
	}

	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return out, err
	}
	//存在しないemailでも同じエラーにする（ユーザー列挙を防ぐ）
	if user == nil {
		return out, ErrInvalidCredentials
	}

	if !u.verifier.Verify(in.Password, user.PasswordHash) {
		return out, ErrInvalidCredentials
	}

	now := u.clock.Now()
	token, expiresAt, err := u.issuer.Issue(user.ID, user.Role, now)
	if err != nil {
		return out, err
	}

	safeUser := *user
	safeUser.PasswordHash = ""

	out.Token = token
	out.ExpiresAt = expiresAt
	out.User = safeUser
	return out, nil
}
