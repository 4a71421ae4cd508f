package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/engine"
	"github.com/dmitrijs2005/cloudvault/internal/models"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

var (
	errText  = color.New(color.FgRed).SprintFunc()
	okText   = color.New(color.FgGreen).SprintFunc()
	warnText = color.New(color.FgYellow).SprintFunc()
)

// formatSize renders megabytes in binary units.
func formatSize(mb float64) string {
	if mb <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(mb * 1024 * 1024))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(time.DateTime)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// describeError turns an engine error into a single console line.
func describeError(err error) string {
	switch common.KindOf(err) {
	case common.KindStorage:
		return errText("Storage failure, changes were not saved: ", err.Error())
	case common.KindNotFound:
		return warnText("Not found: ", err.Error())
	}
	if errors.Is(err, common.ErrNotLoggedIn) {
		return warnText("Please log in first.")
	}
	if errors.Is(err, common.ErrPermissionDenied) {
		return errText("Access denied: administrators only.")
	}
	return errText("Error: ", err.Error())
}

func printFiles(w io.Writer, records []models.FileRecord, withOwner bool) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No files.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := "#\tNAME\tTYPE\tSIZE\tREGION\tUPLOADED\tPUBLIC\tENCRYPTED"
	if withOwner {
		header += "\tOWNER"
	}
	fmt.Fprintln(tw, header)
	for i, r := range records {
		line := fmt.Sprintf("%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s",
			i+1, r.Name, r.Type, formatSize(r.SizeMB), r.Region,
			formatTime(r.UploadedAt), yesNo(r.Public), yesNo(r.EncryptedAtRest))
		if withOwner {
			line += "\t" + r.Owner
		}
		fmt.Fprintln(tw, line)
	}
	tw.Flush()
}

func printProfile(w io.Writer, p engine.Profile) {
	a := p.Account
	fmt.Fprintf(w, "Welcome, %s %s\n", p.Salutation, a.FullName)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Username:\t%s\n", a.Username)
	fmt.Fprintf(tw, "Plan:\t%s\n", a.Role)
	fmt.Fprintf(tw, "Age:\t%d\n", a.Age)
	fmt.Fprintf(tw, "Storage:\t%s of %s (%.1f%%)\n", formatSize(a.UsedStorageMB), formatSize(p.LimitMB), p.UsagePercent)
	fmt.Fprintf(tw, "MFA:\t%s\n", onOff(a.MfaEnabled))
	fmt.Fprintf(tw, "Member since:\t%s\n", formatTime(a.RegisteredAt))
	fmt.Fprintf(tw, "Last login:\t%s\n", formatTime(a.LastLoginAt))
	tw.Flush()
}

func printAccounts(w io.Writer, accounts []engine.AccountSummary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tNAME\tROLE\tSTORAGE\tSTATUS\tFAILED\tMFA")
	for _, a := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s / %s\t%s\t%d\t%s\n",
			a.Username, a.FullName, a.Role, formatSize(a.UsedStorageMB), formatSize(a.LimitMB),
			accountStatus(a), a.FailedLogins, onOff(a.MfaEnabled))
	}
	tw.Flush()
}

func printDashboard(w io.Writer, d engine.Dashboard) {
	fmt.Fprintln(w, "=== SECURITY DASHBOARD ===")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Accounts:\t%d\n", d.TotalAccounts)
	fmt.Fprintf(tw, "Locked:\t%d\n", d.LockedAccounts)
	fmt.Fprintf(tw, "Premium:\t%d\n", d.PremiumAccounts)
	fmt.Fprintf(tw, "Storage used:\t%s\n", formatSize(d.TotalUsedMB))
	tw.Flush()
}

func accountStatus(a engine.AccountSummary) string {
	var s []string
	if !a.Active {
		s = append(s, "inactive")
	}
	if a.Locked {
		s = append(s, "locked")
	}
	if len(s) == 0 {
		return "ok"
	}
	return strings.Join(s, ",")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
