package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/daylog-app/daylog/internal/auth"
	"github.com/daylog-app/daylog/internal/daily"
	"github.com/daylog-app/daylog/internal/models"
	"github.com/daylog-app/daylog/internal/store"
)

// Login reads an access token without echo and verifies it against the
// configured secret. On success the creator id from the token claims becomes
// the current user.
func (a *App) Login(ctx context.Context) error {
	token, err := GetToken(a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	creatorID, err := auth.CreatorFromToken(token, []byte(a.config.AuthSecret))
	if err != nil {
		a.logger.Warn(ctx, "login rejected", "error", err)
		fmt.Fprintln(a.out, "Invalid token.")
		return err
	}

	a.creatorID = creatorID
	fmt.Fprintln(a.out, "Logged in as", creatorID)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.creatorID = ""
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// Add reads a todo item and optional local file paths, then routes the item
// into today's container via the coordinator.
func (a *App) Add(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Login first.")
		return nil
	}

	text, err := GetMultiline(a.reader, "Enter todo text", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	filesLine, err := GetSimpleText(a.reader, "Attach local files (space-separated paths, empty for none)", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	var files []string
	if filesLine != "" {
		files = strings.Fields(filesLine)
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	result, err := a.coordinator.Save(rctx, &daily.SaveRequest{
		Content:    text,
		LocalFiles: files,
		CreatorID:  a.creatorID,
	})
	if err != nil {
		a.logger.Error(ctx, "save failed", "error", err)
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	if result.Created {
		fmt.Fprintln(a.out, "Created container", result.ContainerID)
	} else {
		fmt.Fprintln(a.out, "Added to container", result.ContainerID)
	}
	return nil
}

// List prints the current user's containers grouped by day, newest day
// first, with open/done checklist counts per day. Annotations and archived
// records are not part of the day view.
func (a *App) List(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Login first.")
		return nil
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	records, err := a.store.ListRecords(rctx, &store.ListRecordsRequest{
		CreatorID: a.creatorID,
		Limit:     a.config.PageSize,
	})
	if err != nil {
		a.logger.Error(ctx, "listing records failed", "error", err)
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	var visible []*models.Record
	for _, rec := range records {
		if rec.ParentID != "" || rec.RowStatus == models.RowStatusArchived {
			continue
		}
		visible = append(visible, rec)
	}

	now := time.Now()
	for _, group := range daily.Group(visible, a.zone) {
		fmt.Fprintf(a.out, "%s (%s): %d open, %d done\n",
			group.Label(now, a.zone), group.DayKey, group.IncompleteCount, group.CompleteCount)
		for _, rec := range group.Records {
			marker := ""
			if rec.Pinned {
				marker = " [pinned]"
			}
			fmt.Fprintf(a.out, "  %s%s\n", rec.ID, marker)
			for _, line := range strings.Split(rec.Content, "\n") {
				fmt.Fprintln(a.out, "    "+line)
			}
		}
	}
	return nil
}

// Note attaches a free-text annotation to an existing container.
func (a *App) Note(ctx context.Context, parentID string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Login first.")
		return nil
	}

	text, err := GetMultiline(a.reader, "Enter note text", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	created, err := a.annotations.Add(rctx, parentID, a.creatorID, text)
	if err != nil {
		a.logger.Error(ctx, "adding note failed", "error", err)
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	fmt.Fprintln(a.out, "Created note", created.ID)
	return nil
}

// Notes lists a container's annotations, oldest first.
func (a *App) Notes(ctx context.Context, parentID string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Login first.")
		return nil
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	list, count, err := a.annotations.List(rctx, parentID)
	if err != nil {
		a.logger.Error(ctx, "listing notes failed", "error", err)
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	fmt.Fprintf(a.out, "%d note(s)\n", count)
	for _, note := range list {
		fmt.Fprintf(a.out, "  %s: %s\n", note.ID, note.Content)
	}
	return nil
}

// DelNote deletes an annotation by id.
func (a *App) DelNote(ctx context.Context, annotationID string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Login first.")
		return nil
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	if err := a.annotations.Delete(rctx, annotationID); err != nil {
		a.logger.Error(ctx, "deleting note failed", "error", err)
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	fmt.Fprintln(a.out, "Deleted note", annotationID)
	return nil
}
