package google

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/OwlvinAiDevs/OwlvinAi/config"
	"github.com/OwlvinAiDevs/OwlvinAi/types"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	propSession = "owlvin_session"
	propUser    = "owlvin_user"
)

// Calendar pushes study sessions to one Google calendar. Owlvin's events are
// tagged with private extended properties so they can be found again.
type Calendar struct {
	srv        *calendar.Service
	calendarID string
}

func NewCalendar(ctx context.Context, client *http.Client, calendarID string, opts ...option.ClientOption) (*Calendar, error) {
	srv, err := calendar.NewService(ctx, append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar client: %w", err)
	}
	if calendarID == "" {
		calendarID = config.DefaultCalendarID
	}
	return &Calendar{srv: srv, calendarID: calendarID}, nil
}

// ListEvents returns the user's Owlvin events overlapping [from, to).
func (c *Calendar) ListEvents(ctx context.Context, userID int, from, to time.Time) ([]types.CalendarEvent, error) {
	call := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%d", propUser, userID)).
		TimeMin(from.UTC().Format(time.RFC3339)).
		TimeMax(to.UTC().Format(time.RFC3339)).
		SingleEvents(true).
		ShowDeleted(false)

	var out []types.CalendarEvent
	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, item := range page.Items {
			ev, err := fromEvent(item)
			if err != nil {
				config.Logger.WithError(err).WithField("event_id", item.Id).Warn("Ignoring unreadable calendar event")
				continue
			}
			out = append(out, ev)
		}
		return nil
	})
	if err != nil {
		return nil, transportError("calendar list", err)
	}
	return out, nil
}

func (c *Calendar) CreateEvent(ctx context.Context, userID int, ev types.CalendarEvent) (string, error) {
	created, err := c.srv.Events.Insert(c.calendarID, toEvent(userID, ev)).Context(ctx).Do()
	if err != nil {
		return "", transportError("calendar insert", err)
	}
	config.Logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"event_id": created.Id,
	}).Debug("Inserted calendar event")
	return created.Id, nil
}

func toEvent(userID int, ev types.CalendarEvent) *calendar.Event {
	return &calendar.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start:       &calendar.EventDateTime{DateTime: ev.Start.UTC().Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: ev.End.UTC().Format(time.RFC3339)},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				propSession: ev.SessionKey,
				propUser:    strconv.Itoa(userID),
			},
		},
	}
}

func fromEvent(item *calendar.Event) (types.CalendarEvent, error) {
	ev := types.CalendarEvent{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
	}
	if item.ExtendedProperties != nil {
		ev.SessionKey = item.ExtendedProperties.Private[propSession]
	}
	var err error
	if item.Start != nil {
		if ev.Start, err = time.Parse(time.RFC3339, item.Start.DateTime); err != nil {
			return ev, fmt.Errorf("parse event start: %w", err)
		}
	}
	if item.End != nil {
		if ev.End, err = time.Parse(time.RFC3339, item.End.DateTime); err != nil {
			return ev, fmt.Errorf("parse event end: %w", err)
		}
	}
	return ev, nil
}
