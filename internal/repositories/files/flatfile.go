package files

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/filex"
	"github.com/dmitrijs2005/cloudvault/internal/models"
	"github.com/dmitrijs2005/cloudvault/internal/repositories/flatfile"
)

const recordFields = 10

// FlatFileBackend keeps one <username>.dat file per account under dir.
type FlatFileBackend struct {
	dir string
}

func NewFlatFileBackend(dir string) *FlatFileBackend {
	return &FlatFileBackend{dir: dir}
}

func (b *FlatFileBackend) pathFor(username string) (string, error) {
	if username == "" || username == "." || username == ".." || filepath.Base(username) != username {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidUsername, username)
	}
	return filepath.Join(b.dir, username+".dat"), nil
}

func (b *FlatFileBackend) LoadUser(ctx context.Context, username string) ([]models.FileRecord, error) {
	path, err := b.pathFor(username)
	if err != nil {
		return nil, err
	}
	lines, err := flatfile.ReadLines(path)
	if err != nil {
		return nil, err
	}

	records := make([]models.FileRecord, 0, len(lines))
	for i, line := range lines {
		r, err := decodeRecord(line)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+1, err)
		}
		records = append(records, r)
	}
	return records, nil
}

func (b *FlatFileBackend) SaveUser(ctx context.Context, username string, records []models.FileRecord) error {
	path, err := b.pathFor(username)
	if err != nil {
		return err
	}
	if _, err := filex.EnsureDir(b.dir); err != nil {
		return err
	}

	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, encodeRecord(r))
	}
	return flatfile.WriteLines(path, lines)
}

func encodeRecord(r models.FileRecord) string {
	return flatfile.Join(
		r.ID,
		r.Name,
		r.Owner,
		strconv.Itoa(int(r.Region)),
		strconv.Itoa(int(r.Type)),
		flatfile.FormatDate(r.UploadedAt),
		flatfile.FormatFloat(r.SizeMB),
		r.Description,
		flatfile.FormatBool(r.Public),
		flatfile.FormatBool(r.EncryptedAtRest),
	)
}

func decodeRecord(line string) (models.FileRecord, error) {
	f, err := flatfile.Split(line, recordFields)
	if err != nil {
		return models.FileRecord{}, err
	}

	r := models.FileRecord{
		ID:          f[0],
		Name:        f[1],
		Owner:       f[2],
		Description: f[7],
	}

	var region, kind int
	if region, err = flatfile.ParseInt(f[3]); err != nil {
		return models.FileRecord{}, err
	}
	if kind, err = flatfile.ParseInt(f[4]); err != nil {
		return models.FileRecord{}, err
	}
	r.Region, r.Type = models.Region(region), models.FileType(kind)
	if r.UploadedAt, err = flatfile.ParseDate(f[5]); err != nil {
		return models.FileRecord{}, err
	}
	if r.SizeMB, err = flatfile.ParseFloat(f[6]); err != nil {
		return models.FileRecord{}, err
	}
	if r.Public, err = flatfile.ParseBool(f[8]); err != nil {
		return models.FileRecord{}, err
	}
	if r.EncryptedAtRest, err = flatfile.ParseBool(f[9]); err != nil {
		return models.FileRecord{}, err
	}
	return r, nil
}
