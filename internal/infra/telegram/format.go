package telegram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"hr_evaluation_reminder/internal/app"
	"hr_evaluation_reminder/internal/domain/separation"
)

// maxMessageLen stays under Telegram's 4096 character limit.
const maxMessageLen = 4000

func FormatRunSummary(s *app.RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reminder cycle %s (%s)\n", s.Date, shortID(s.RunID))
	fmt.Fprintf(&b, "Sent: %d employees in %d emails\n", s.SentCount, s.BatchesSent)
	if s.SkippedAlreadySent > 0 || s.SkippedInvalidEmail > 0 {
		fmt.Fprintf(&b, "Skipped: %d already sent today, %d invalid leader email\n", s.SkippedAlreadySent, s.SkippedInvalidEmail)
	}
	for _, r := range s.Sent {
		fmt.Fprintf(&b, "- %s (%s) -> %s, due %s\n", r.Employee, r.Type, r.LeaderEmail, r.Deadline)
	}
	if len(s.Failures) > 0 {
		fmt.Fprintf(&b, "Failed: %d emails\n", len(s.Failures))
		for _, f := range s.Failures {
			fmt.Fprintf(&b, "! %s (%s): %s: %s\n", f.LeaderEmail, f.Type, strings.Join(f.Employees, ", "), f.Error)
		}
	}
	if s.NotRecorded > 0 {
		fmt.Fprintf(&b, "Warning: %d sent reminders could not be recorded and may be repeated.\n", s.NotRecorded)
	}
	return clip(b.String())
}

func FormatPreview(p *app.ReminderPreview) string {
	if len(p.Batches) == 0 {
		return fmt.Sprintf("No pending reminders for %s.", p.Date)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Pending reminders for %s: %d employees in %d emails\n", p.Date, p.PendingCount, len(p.Batches))
	for _, batch := range p.Batches {
		fmt.Fprintf(&b, "\n%s | %s | %s\n", batch.Key.LeaderEmail, batch.Key.Kind.Label(), batch.Key.Department)
		for _, e := range batch.Employees {
			fmt.Fprintf(&b, "- %s, due %s (%d days)\n", e.EmployeeName, e.Deadline.Format("2006-01-02"), e.DaysRemaining)
		}
	}
	if p.SkippedAlreadySent > 0 {
		fmt.Fprintf(&b, "\nAlready sent today: %d", p.SkippedAlreadySent)
	}
	return clip(b.String())
}

func FormatSentToday(s *app.SentSummary) string {
	if s.TotalToday == 0 {
		return fmt.Sprintf("No reminders sent on %s.", s.TodayDate)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Reminders sent on %s: %d\n", s.TodayDate, s.TotalToday)
	for _, e := range s.TodayEmails {
		fmt.Fprintf(&b, "- %s %s -> %s (%s)\n", e.SentAt.Format("15:04"), e.EmployeeName, e.LeaderEmail, e.EvaluationType)
	}
	return clip(b.String())
}

func FormatSeparationPlan(filter string, p *separation.Plan) string {
	if len(p.Matched) == 0 {
		return fmt.Sprintf("No separated employees for filter %q.", filter)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Separated employees (%s): %d\n", filter, len(p.Matched))
	for _, batch := range p.Batches {
		fmt.Fprintf(&b, "\n%s <%s>\n", batch.Vendor.Name, batch.Vendor.Email)
		for _, s := range batch.Employees {
			fmt.Fprintf(&b, "- %s, exit %s\n", s.Row.EmployeeName, s.ExitDate.Format("2006-01-02"))
		}
	}
	if len(p.NoAction) > 0 {
		fmt.Fprintf(&b, "\nNo vendor notice needed: %d\n", len(p.NoAction))
	}
	if len(p.Unknown) > 0 {
		fmt.Fprintf(&b, "\nUnknown vendor:\n")
		for _, s := range p.Unknown {
			fmt.Fprintf(&b, "- %s (%s)\n", s.Row.EmployeeName, s.Row.ContractCompany)
		}
	}
	return clip(b.String())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func clip(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	cut := strings.LastIndexByte(s[:maxMessageLen], '\n')
	if cut < 0 {
		cut = maxMessageLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
	}
	return s[:cut] + "\n..."
}
