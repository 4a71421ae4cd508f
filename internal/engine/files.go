package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dmitrijs2005/cloudvault/internal/audit"
	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/models"
	"github.com/google/uuid"
)

type UploadRequest struct {
	Name            string
	SizeMB          float64
	Region          models.Region
	Description     string
	Public          bool
	EncryptedAtRest bool
}

// Upload records a new file for the session user if it fits the quota.
func (e *Engine) Upload(ctx context.Context, req UploadRequest) (models.FileRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	acc, err := e.currentLocked()
	if err != nil {
		return models.FileRecord{}, err
	}

	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	switch {
	case name == "" || !common.ValidText(name):
		return models.FileRecord{}, fmt.Errorf("%w: file name", common.ErrInvalidInput)
	case !common.ValidText(description):
		return models.FileRecord{}, fmt.Errorf("%w: description", common.ErrInvalidInput)
	case !(req.SizeMB > 0) || math.IsInf(req.SizeMB, 0):
		return models.FileRecord{}, fmt.Errorf("%w: size must be a positive number", common.ErrInvalidInput)
	case !req.Region.Valid():
		return models.FileRecord{}, fmt.Errorf("%w: region", common.ErrInvalidInput)
	}

	if acc.UsedStorageMB+req.SizeMB > acc.StorageLimitMB() {
		return models.FileRecord{}, fmt.Errorf("%w: %g MB available", common.ErrQuotaExceeded, acc.AvailableMB())
	}

	rec := models.FileRecord{
		ID:              "file_" + uuid.NewString(),
		Name:            name,
		Owner:           acc.Username,
		Region:          req.Region,
		Type:            models.DetectFileType(name),
		UploadedAt:      e.timestamp(),
		SizeMB:          req.SizeMB,
		Description:     description,
		Public:          req.Public,
		EncryptedAtRest: req.EncryptedAtRest,
	}

	prevAcc := acc
	prevList := e.files.ListFor(acc.Username)

	e.files.AppendFor(acc.Username, rec)
	acc.UsedStorageMB += req.SizeMB
	e.users.Upsert(acc)

	if err := e.commitFileChange(ctx, prevAcc, prevList); err != nil {
		return models.FileRecord{}, err
	}

	e.audit.Record(ctx, audit.KindUpload, "User="+acc.Username+" File="+rec.Name)
	return rec, nil
}

// Delete removes the record at the 0-based index of the session user's list
// and refunds its size.
func (e *Engine) Delete(ctx context.Context, index int) (models.FileRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	acc, err := e.currentLocked()
	if err != nil {
		return models.FileRecord{}, err
	}

	prevAcc := acc
	prevList := e.files.ListFor(acc.Username)

	removed, err := e.files.RemoveFor(acc.Username, index)
	if err != nil {
		if errors.Is(err, common.ErrIndexOutOfRange) {
			return models.FileRecord{}, fmt.Errorf("%w: %w", common.ErrRecordNotFound, err)
		}
		return models.FileRecord{}, err
	}

	acc.UsedStorageMB -= removed.SizeMB
	if acc.UsedStorageMB < 0 {
		e.logger.Warn(ctx, "used storage below zero, clamped",
			"user", acc.Username, "used_mb", acc.UsedStorageMB, "file", removed.ID)
		acc.UsedStorageMB = 0
	}
	e.users.Upsert(acc)

	if err := e.commitFileChange(ctx, prevAcc, prevList); err != nil {
		return models.FileRecord{}, err
	}

	e.audit.Record(ctx, audit.KindDelete, "User="+acc.Username+" File="+removed.Name)
	return removed, nil
}

// Files returns the session user's records in upload order.
func (e *Engine) Files(ctx context.Context) ([]models.FileRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	acc, err := e.currentLocked()
	if err != nil {
		return nil, err
	}
	return e.files.ListFor(acc.Username), nil
}

// Search matches term case-insensitively against the name and description of
// the session user's records.
func (e *Engine) Search(ctx context.Context, term string) ([]models.FileRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	acc, err := e.currentLocked()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	var found []models.FileRecord
	for _, r := range e.files.ListFor(acc.Username) {
		if strings.Contains(strings.ToLower(r.Name), needle) ||
			strings.Contains(strings.ToLower(r.Description), needle) {
			found = append(found, r)
		}
	}
	return found, nil
}

// PublicFiles lists the public records of every account, ordered by owner.
func (e *Engine) PublicFiles(ctx context.Context) ([]models.FileRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.currentLocked(); err != nil {
		return nil, err
	}

	var public []models.FileRecord
	for _, acc := range e.users.All() {
		list, err := e.files.Snapshot(ctx, acc.Username)
		if err != nil {
			return nil, err
		}
		for _, r := range list {
			if r.Public {
				public = append(public, r)
			}
		}
	}
	return public, nil
}
