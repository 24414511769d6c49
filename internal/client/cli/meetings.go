package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/meetscribe/internal/client/models"
)

const timeLayout = "2006-01-02 15:04"

// Analyze submits an audio file: analyze <file> [lang].
func (a *App) Analyze(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		a.println("Usage: analyze <file> [lang]")
		return nil
	}
	var lang string
	if len(args) == 2 {
		lang = args[1]
	}

	a.println("Analyzing", args[0], "...")
	res, err := a.meetings.Analyze(ctx, args[0], lang)
	if err != nil {
		return a.fail(ctx, "analyze", err)
	}

	if res.Duplicate {
		a.println("This meeting is already in your history.")
	}
	a.printMeeting(res.Item)
	a.printUsage(res.Session)
	if !res.Session.CanUse && !res.Session.IsAuthenticated() {
		a.println(fmt.Sprintf("Register for a free account to get %d analyses per day.", models.RegisteredDailyLimit))
	}
	return nil
}

// History lists stored meetings, newest first.
func (a *App) History(ctx context.Context) error {
	items := a.meetings.History(ctx)
	if len(items) == 0 {
		a.println("No meetings yet.")
		return nil
	}
	for _, it := range items {
		a.println(fmt.Sprintf("%s  %s  %s%s", it.ID, it.CreatedAt.Format(timeLayout), it.FileName, exportMarks(it.Exports)))
	}
	return nil
}

func exportMarks(f models.ExportFlags) string {
	var marks []string
	if f.Word {
		marks = append(marks, "docx")
	}
	if f.PDF {
		marks = append(marks, "pdf")
	}
	if len(marks) == 0 {
		return ""
	}
	return " [" + strings.Join(marks, ",") + "]"
}

// Show prints a stored meeting: show <id>.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: show <id>")
		return nil
	}
	it, err := a.meetings.Get(ctx, args[0])
	if err != nil {
		return a.fail(ctx, "show", err)
	}
	a.printMeeting(it)
	if it.TranscriptClean != "" {
		a.println("Transcript:")
		a.println(it.TranscriptClean)
	}
	return nil
}

func (a *App) printMeeting(it models.HistoryItem) {
	a.println(fmt.Sprintf("Meeting %s (%s, %s)", it.ID, it.FileName, it.CreatedAt.Format(timeLayout)))
	if it.Summary != "" {
		a.println("Summary:", it.Summary)
	}
	if len(it.Participants) > 0 {
		a.println("Participants:", strings.Join(it.Participants, ", "))
	}
	for _, d := range it.Decisions {
		a.println("Decision:", d)
	}
	for _, ai := range it.ActionItems {
		if ai.Owner != "" {
			a.println(fmt.Sprintf("Action: %s (%s)", ai.Description, ai.Owner))
		} else {
			a.println("Action:", ai.Description)
		}
	}
}

// Export writes a document for a stored meeting: export <id> docx|pdf.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) != 2 {
		a.println("Usage: export <id> docx|pdf")
		return nil
	}
	format, err := models.ParseExportFormat(args[1])
	if err != nil {
		a.println("Usage: export <id> docx|pdf")
		return err
	}
	loc, err := a.meetings.Export(ctx, args[0], format)
	if err != nil {
		return a.fail(ctx, "export", err)
	}
	a.println("Saved", loc)
	return nil
}

// Delete removes a stored meeting: delete <id>.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: delete <id>")
		return nil
	}
	if err := a.meetings.Delete(ctx, args[0]); err != nil {
		return a.fail(ctx, "delete", err)
	}
	a.println("Deleted", args[0])
	return nil
}

// Clear removes all stored meetings after confirmation.
func (a *App) Clear(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Delete all meetings? (y/N)", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		a.println("Cancelled.")
		return nil
	}
	a.meetings.ClearHistory(ctx)
	a.println("History cleared.")
	return nil
}
