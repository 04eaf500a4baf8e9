package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/OwlvinAiDevs/OwlvinAi/config"
	"github.com/OwlvinAiDevs/OwlvinAi/store"
	"github.com/OwlvinAiDevs/OwlvinAi/types"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const summaryPrefix = "Study: "

// PushReport tallies one calendar push. Failed sessions do not stop the batch.
type PushReport struct {
	UserID   int      `json:"user_id"`
	Created  int      `json:"created"`
	Existing int      `json:"existing"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Warnings []string `json:"warnings"`
}

// PushSchedule mirrors the user's stored schedule onto the calendar. Events
// already carrying a session's key are left alone, so repeated pushes never
// duplicate.
func (r *Reconciler) PushSchedule(ctx context.Context, userID int) (PushReport, error) {
	report := PushReport{UserID: userID}
	if r.calendar == nil {
		return report, ErrNoCalendar
	}

	sessions, err := r.local.GetSchedule(ctx, userID)
	if err != nil {
		return report, err
	}
	if len(sessions) == 0 {
		return report, nil
	}

	from, to := sessions[0].StartTime, sessions[0].EndTime
	for _, sess := range sessions[1:] {
		if sess.StartTime.Before(from) {
			from = sess.StartTime
		}
		if sess.EndTime.After(to) {
			to = sess.EndTime
		}
	}
	existing, err := r.calendar.ListEvents(ctx, userID, from, to)
	if err != nil {
		return report, fmt.Errorf("list calendar events: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, ev := range existing {
		if ev.SessionKey != "" {
			seen[ev.SessionKey] = true
		}
	}

	log := config.Logger.WithField("user_id", userID)
	for _, sess := range sessions {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		event, err := r.buildEvent(ctx, userID, sess)
		if err != nil {
			var lw *types.LinkResolutionWarning
			if errors.As(err, &lw) {
				report.Skipped++
			} else {
				report.Failed++
			}
			report.Warnings = append(report.Warnings, err.Error())
			log.WithError(err).Warn("Skipping session for calendar push")
			continue
		}
		if seen[event.SessionKey] {
			report.Existing++
			continue
		}

		id, err := r.calendar.CreateEvent(ctx, userID, event)
		if err != nil {
			report.Failed++
			report.Warnings = append(report.Warnings, fmt.Sprintf("session %d: %v", sess.ID, err))
			log.WithError(err).WithField("session_id", sess.ID).Error("Failed to create calendar event")
			continue
		}
		seen[event.SessionKey] = true
		report.Created++
		log.WithFields(logrus.Fields{"session_id": sess.ID, "event_id": id}).Debug("Calendar event created")
	}

	log.WithFields(logrus.Fields{
		"created":  report.Created,
		"existing": report.Existing,
		"skipped":  report.Skipped,
		"failed":   report.Failed,
	}).Info("Calendar push finished")
	return report, nil
}

func (r *Reconciler) buildEvent(ctx context.Context, userID int, sess types.ScheduledSession) (types.CalendarEvent, error) {
	var task *types.Task
	title := strings.TrimSpace(sess.Title)

	if sess.TaskID != 0 {
		t, err := r.local.GetTask(ctx, userID, sess.TaskID)
		if errors.Is(err, store.ErrNotFound) {
			return types.CalendarEvent{}, &types.LinkResolutionWarning{SessionID: sess.ID, TaskID: sess.TaskID, Title: sess.Title}
		}
		if err != nil {
			return types.CalendarEvent{}, err
		}
		task = &t
		title = t.Title
	} else if title == "" {
		return types.CalendarEvent{}, &types.LinkResolutionWarning{SessionID: sess.ID}
	}

	return types.CalendarEvent{
		Summary:     summaryPrefix + title,
		Description: describeSession(sess, task),
		Start:       sess.StartTime,
		End:         sess.EndTime,
		SessionKey:  SessionKey(userID, sess),
	}, nil
}

// SessionKey identifies a session across pushes. Linked sessions are keyed by
// task so renaming the task does not orphan its events.
func SessionKey(userID int, sess types.ScheduledSession) string {
	name := fmt.Sprintf("owlvin://session/%d/%d/%s/%s", userID, sess.TaskID,
		sess.StartTime.UTC().Format(time.RFC3339), sess.EndTime.UTC().Format(time.RFC3339))
	if sess.TaskID == 0 {
		name += "/" + strings.ToLower(strings.TrimSpace(sess.Title))
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

func describeSession(sess types.ScheduledSession, task *types.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Duration: %d minutes\n", int(sess.Duration().Minutes()))

	category := sess.Category
	if task != nil && task.Category != "" {
		category = task.Category
	}
	if category != "" {
		fmt.Fprintf(&b, "Category: %s\n", category)
	}
	if sess.BreakAfter > 0 {
		fmt.Fprintf(&b, "Break after: %d minutes\n", sess.BreakAfter)
	}
	if task != nil {
		if !task.DueDate.IsZero() {
			fmt.Fprintf(&b, "Due: %s\n", task.DueDate.Format(time.RFC1123))
		}
		if desc := strings.TrimSpace(task.Description); desc != "" {
			b.WriteString("\n")
			b.WriteString(desc)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
