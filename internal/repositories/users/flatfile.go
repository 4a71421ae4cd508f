package users

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/cloudvault/internal/models"
	"github.com/dmitrijs2005/cloudvault/internal/repositories/flatfile"
)

const accountFields = 14

// FlatFileBackend stores the account table as one delimited line per account.
type FlatFileBackend struct {
	path string
}

func NewFlatFileBackend(path string) *FlatFileBackend {
	return &FlatFileBackend{path: path}
}

func (b *FlatFileBackend) Load(ctx context.Context) ([]models.Account, error) {
	lines, err := flatfile.ReadLines(b.path)
	if err != nil {
		return nil, err
	}

	accounts := make([]models.Account, 0, len(lines))
	for i, line := range lines {
		a, err := decodeAccount(line)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", b.path, i+1, err)
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

func (b *FlatFileBackend) Save(ctx context.Context, accounts []models.Account) error {
	lines := make([]string, 0, len(accounts))
	for _, a := range accounts {
		lines = append(lines, encodeAccount(a))
	}
	return flatfile.WriteLines(b.path, lines)
}

func encodeAccount(a models.Account) string {
	return flatfile.Join(
		a.Username,
		a.Salt,
		a.PasswordDigest,
		a.FullName,
		strconv.Itoa(a.Age),
		a.Gender,
		strconv.Itoa(int(a.Role)),
		flatfile.FormatFloat(a.UsedStorageMB),
		flatfile.FormatEpoch(a.RegisteredAt),
		flatfile.FormatBool(a.Active),
		strconv.Itoa(a.FailedLogins),
		flatfile.FormatBool(a.Locked),
		flatfile.FormatEpoch(a.LastLoginAt),
		flatfile.FormatBool(a.MfaEnabled),
	)
}

func decodeAccount(line string) (models.Account, error) {
	f, err := flatfile.Split(line, accountFields)
	if err != nil {
		return models.Account{}, err
	}

	a := models.Account{
		Username:       f[0],
		Salt:           f[1],
		PasswordDigest: f[2],
		FullName:       f[3],
		Gender:         f[5],
	}

	var role int
	if a.Age, err = flatfile.ParseInt(f[4]); err != nil {
		return models.Account{}, err
	}
	if role, err = flatfile.ParseInt(f[6]); err != nil {
		return models.Account{}, err
	}
	a.Role = models.Role(role)
	if a.UsedStorageMB, err = flatfile.ParseFloat(f[7]); err != nil {
		return models.Account{}, err
	}
	if a.RegisteredAt, err = flatfile.ParseEpoch(f[8]); err != nil {
		return models.Account{}, err
	}
	if a.Active, err = flatfile.ParseBool(f[9]); err != nil {
		return models.Account{}, err
	}
	if a.FailedLogins, err = flatfile.ParseInt(f[10]); err != nil {
		return models.Account{}, err
	}
	if a.Locked, err = flatfile.ParseBool(f[11]); err != nil {
		return models.Account{}, err
	}
	if a.LastLoginAt, err = flatfile.ParseEpoch(f[12]); err != nil {
		return models.Account{}, err
	}
	if a.MfaEnabled, err = flatfile.ParseBool(f[13]); err != nil {
		return models.Account{}, err
	}
	return a, nil
}
