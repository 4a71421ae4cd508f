package engine

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/cloudvault/internal/audit"
	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/cryptox"
	"github.com/dmitrijs2005/cloudvault/internal/models"
)

const (
	usernameMinLen = 3
	minAge         = 1
	maxAge         = 120
)

type RegisterRequest struct {
	Username        string
	Password        string
	ConfirmPassword string
	FullName        string
	Age             int
	Gender          string
}

// Register creates a Basic account. Checks run in a fixed order and the first
// failure is returned.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (models.Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !validUsername(req.Username) {
		return models.Account{}, common.ErrInvalidUsername
	}
	if e.users.Exists(req.Username) {
		return models.Account{}, common.ErrDuplicateUsername
	}
	if !strongPassword(req.Password) {
		return models.Account{}, common.ErrWeakPassword
	}
	if req.Password != req.ConfirmPassword {
		return models.Account{}, common.ErrPasswordMismatch
	}
	fullName := strings.TrimSpace(req.FullName)
	if !common.ValidText(fullName) {
		return models.Account{}, common.ErrInvalidInput
	}
	if req.Age < minAge || req.Age > maxAge {
		return models.Account{}, common.ErrInvalidAge
	}
	gender := strings.ToUpper(req.Gender)
	if gender != "M" && gender != "F" {
		return models.Account{}, common.ErrInvalidGender
	}

	salt, err := cryptox.DeriveSalt()
	if err != nil {
		return models.Account{}, err
	}

	acc := models.Account{
		Username:       req.Username,
		Salt:           salt,
		PasswordDigest: cryptox.Digest(salt, req.Password),
		FullName:       fullName,
		Age:            req.Age,
		Gender:         gender,
		Role:           models.RoleBasic,
		RegisteredAt:   e.timestamp(),
		Active:         true,
	}

	e.users.Upsert(acc)
	if err := e.users.Persist(ctx); err != nil {
		e.logger.Error(ctx, "persist new account failed", "user", acc.Username, "error", err)
		if rerr := e.users.Reload(ctx); rerr != nil {
			e.logger.Error(ctx, "reload accounts failed", "error", rerr)
		}
		return models.Account{}, err
	}

	e.audit.Record(ctx, audit.KindRegister, "User="+acc.Username)
	e.logger.Info(ctx, "account registered", "user", acc.Username)
	return withoutSecrets(acc), nil
}

// validUsername accepts names usable both as a record field and as a file
// name: no delimiter, control characters or path separators, no surrounding
// blanks and no leading dot.
func validUsername(u string) bool {
	if utf8.RuneCountInString(u) < usernameMinLen {
		return false
	}
	if !common.ValidText(u) || strings.ContainsAny(u, `/\`) {
		return false
	}
	return strings.TrimSpace(u) == u && !strings.HasPrefix(u, ".")
}

func strongPassword(p string) bool {
	if utf8.RuneCountInString(p) < common.PasswordMinLen {
		return false
	}
	var letter, digit bool
	for _, r := range p {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}
