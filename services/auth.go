package services

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"pmdashboard/apperr"
	"pmdashboard/model"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// SelfServiceRoles are the roles open registration may pick.
var SelfServiceRoles = []model.Role{model.RoleTeamMember, model.RoleProjectManager}

// Authenticator checks credentials against the users table.
type Authenticator struct {
	repo      *Repository
	cost      int
	dummyHash []byte
	validate  *validator.Validate
}

func NewAuthenticator(repo *Repository, cost int) *Authenticator {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	// Compared against when the user is unknown so both paths cost one bcrypt run.
	dummy, err := bcrypt.GenerateFromPassword([]byte("pmdashboard-dummy-password"), cost)
	if err != nil {
		panic(err)
	}
	return &Authenticator{repo: repo, cost: cost, dummyHash: dummy, validate: validator.New()}
}

// HashPassword returns the salted bcrypt hash of password.
func (a *Authenticator) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInvalidInput, "hash password", err)
	}
	return string(hash), nil
}

// Authenticate returns the session for valid credentials. Unknown users and
// wrong passwords yield the same ErrRejected.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (model.Session, error) {
	user, err := a.repo.UserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return model.Session{}, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
		return model.Session{}, apperr.ErrRejected
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.Session{}, apperr.ErrRejected
	}
	slog.InfoContext(ctx, "user signed in", "user_id", user.UserID, "role", user.Role)
	return model.Session{UserID: user.UserID, Username: user.Username, Role: user.Role}, nil
}

// Register creates an account through open registration.
func (a *Authenticator) Register(ctx context.Context, username, email, password string, role model.Role) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, invalid("username is required")
	}
	if err := a.validate.Var(email, "required,email"); err != nil {
		return nil, invalid("invalid email %q", email)
	}
	if len(password) < 6 {
		return nil, invalid("password must be at least 6 characters")
	}
	if role == "" {
		role = model.RoleTeamMember
	}
	if !slices.Contains(SelfServiceRoles, role) {
		return nil, invalid("registration is open for %s or %s roles only", model.RoleProjectManager, model.RoleTeamMember)
	}

	hash, err := a.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{Username: username, Email: email, PasswordHash: hash, Role: role}
	if err := a.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "user registered", "user_id", user.UserID, "role", role)
	return user, nil
}

// CheckRole reports whether the session's role is one of allowed.
func CheckRole(s model.Session, allowed ...model.Role) bool {
	return s.HasRole(allowed...)
}
