package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/engine"
	"github.com/dmitrijs2005/cloudvault/internal/models"
)

func (a *App) Upload(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotLoggedIn
	}

	var req engine.UploadRequest
	var err error

	if req.Name, err = a.ask("File name"); err != nil {
		return err
	}
	sizeText, err := a.ask("Size (MB)")
	if err != nil {
		return err
	}
	if req.SizeMB, err = strconv.ParseFloat(sizeText, 64); err != nil {
		return fmt.Errorf("%w: size %q", common.ErrInvalidInput, sizeText)
	}
	regionText, err := a.ask("Region (" + regionChoices() + ")")
	if err != nil {
		return err
	}
	if req.Region, err = parseRegion(regionText); err != nil {
		return err
	}
	if req.Description, err = a.ask("Description"); err != nil {
		return err
	}
	if req.Public, err = a.askYesNo("Public", false); err != nil {
		return err
	}
	if req.EncryptedAtRest, err = a.askYesNo("Encrypt at rest", true); err != nil {
		return err
	}

	rec, err := a.vault.Upload(ctx, req)
	if errors.Is(err, common.ErrQuotaExceeded) {
		if p, perr := a.vault.Profile(ctx); perr == nil && p.Account.Role == models.RoleBasic {
			a.println(warnText("Consider upgrading to Premium."))
		}
	}
	if err != nil {
		return err
	}
	a.println(okText(fmt.Sprintf("Uploaded %s (%s, %s).", rec.Name, rec.Type, formatSize(rec.SizeMB))))
	return nil
}

func (a *App) List(ctx context.Context) error {
	records, err := a.vault.Files(ctx)
	if err != nil {
		return err
	}
	printFiles(a.out, records, false)
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return common.ErrNotLoggedIn
	}
	term, err := a.argOrAsk(args, "Search term")
	if err != nil {
		return err
	}
	records, err := a.vault.Search(ctx, term)
	if err != nil {
		return err
	}
	printFiles(a.out, records, false)
	return nil
}

func (a *App) Public(ctx context.Context) error {
	records, err := a.vault.PublicFiles(ctx)
	if err != nil {
		return err
	}
	printFiles(a.out, records, true)
	return nil
}

// Delete removes the file at the 1-based position shown by list.
func (a *App) Delete(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return common.ErrNotLoggedIn
	}
	pos, err := a.argOrAsk(args, "File number")
	if err != nil {
		return err
	}
	idx, err := parsePosition(pos)
	if err != nil {
		return err
	}
	rec, err := a.vault.Delete(ctx, idx)
	if err != nil {
		return err
	}
	a.println(okText("Deleted " + rec.Name + "."))
	return nil
}

func regionChoices() string {
	names := make([]string, len(models.Regions))
	for i, r := range models.Regions {
		names[i] = fmt.Sprintf("%d=%s", i+1, r)
	}
	return strings.Join(names, ", ")
}

// parseRegion accepts a region name or its 1-based menu number.
func parseRegion(s string) (models.Region, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		if n >= 1 && n <= len(models.Regions) {
			return models.Regions[n-1], nil
		}
		return 0, fmt.Errorf("%w: region %q", common.ErrInvalidInput, s)
	}
	r, ok := models.ParseRegion(s)
	if !ok {
		return 0, fmt.Errorf("%w: region %q", common.ErrInvalidInput, s)
	}
	return r, nil
}
