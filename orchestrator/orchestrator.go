package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/OwlvinAiDevs/OwlvinAi/config"
	"github.com/OwlvinAiDevs/OwlvinAi/llm"
	"github.com/OwlvinAiDevs/OwlvinAi/reconcile"
	"github.com/OwlvinAiDevs/OwlvinAi/types"
)

// Planner is the remote AI service.
type Planner interface {
	GenerateSchedule(ctx context.Context, req types.ScheduleRequest) ([]byte, error)
	Chat(ctx context.Context, req types.ChatRequest) ([]byte, error)
}

type Store interface {
	ListIncompleteTasks(ctx context.Context, userID int) ([]types.Task, error)
	ReplaceSchedule(ctx context.Context, userID int, sessions []types.ScheduledSession) (int, error)
	AppendChatExchange(ctx context.Context, ex types.ChatExchange) (types.ChatExchange, error)
}

// AvailabilitySource supplies the energy and free time sent with a request.
type AvailabilitySource interface {
	Availability(ctx context.Context, userID int, now time.Time) (types.Availability, error)
}

type CalendarPusher interface {
	PushSchedule(ctx context.Context, userID int) (reconcile.PushReport, error)
}

type Option func(*Orchestrator)

func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func WithNormalizer(n llm.Normalizer) Option {
	return func(o *Orchestrator) { o.normalizer = n }
}

func WithClock(clock func() time.Time) Option {
	return func(o *Orchestrator) { o.clock = clock }
}

// WithCalendarPush pushes every persisted schedule to the calendar.
func WithCalendarPush(p CalendarPusher) Option {
	return func(o *Orchestrator) { o.calendar = p }
}

type Orchestrator struct {
	planner      Planner
	store        Store
	availability AvailabilitySource
	calendar     CalendarPusher
	normalizer   llm.Normalizer
	timeout      time.Duration
	clock        func() time.Time
	locks        *userLocks
}

func New(planner Planner, store Store, availability AvailabilitySource, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		planner:      planner,
		store:        store,
		availability: availability,
		timeout:      config.DefaultTimeout,
		clock:        time.Now,
		locks:        newUserLocks(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// GenerateSchedule asks the planner for a schedule covering the user's open
// tasks and stores the result. A failed request leaves stored data untouched.
func (o *Orchestrator) GenerateSchedule(ctx context.Context, userID int) Result {
	r := newRun(userID, "generate")
	if userID <= 0 {
		return r.finish(&types.ValidationError{Index: -1, Field: "user_id", Reason: "must be positive"})
	}

	unlock, err := o.locks.acquire(ctx, userID)
	if err != nil {
		return r.finish(err)
	}
	defer unlock()

	tasks, err := o.store.ListIncompleteTasks(ctx, userID)
	if err != nil {
		return r.finish(err)
	}
	avail, err := o.availability.Availability(ctx, userID, o.clock())
	if err != nil {
		return r.finish(err)
	}
	req := BuildScheduleRequest(userID, tasks, avail)

	r.enter(StateRequesting)
	reqCtx, cancel := context.WithTimeout(ctx, o.timeout)
	body, err := o.planner.GenerateSchedule(reqCtx, req)
	cancel()
	if err != nil {
		r.enter(StateFailure)
		return r.finish(asTransportError("generate_ai_schedule", err))
	}
	r.enter(StateSuccess)

	r.enter(StateNormalizing)
	norm := o.normalizer.NormalizeSchedule(body)
	return o.materialize(ctx, r, tasks, norm, false)
}

// Chat sends free text to the planner. A reply that carries actionable tasks
// replaces the stored schedule; any other reply only updates the chat log.
func (o *Orchestrator) Chat(ctx context.Context, userID int, message string, includeContext bool) Result {
	r := newRun(userID, "chat")
	message = strings.TrimSpace(message)
	if message == "" {
		r.res.Summary = "Please enter a message."
		return r.finish(&types.ValidationError{Index: -1, Field: "message", Reason: "is empty"})
	}
	if userID <= 0 {
		return r.finish(&types.ValidationError{Index: -1, Field: "user_id", Reason: "must be positive"})
	}

	unlock, err := o.locks.acquire(ctx, userID)
	if err != nil {
		return r.finish(err)
	}
	defer unlock()

	tasks, err := o.store.ListIncompleteTasks(ctx, userID)
	if err != nil {
		return r.finish(err)
	}

	sentAt := o.clock()
	r.enter(StateRequesting)
	reqCtx, cancel := context.WithTimeout(ctx, o.timeout)
	body, err := o.planner.Chat(reqCtx, types.ChatRequest{
		UserID:         userID,
		Message:        message,
		IncludeContext: includeContext,
	})
	cancel()
	if err != nil {
		r.enter(StateFailure)
		return r.finish(asTransportError("chat", err))
	}
	r.enter(StateSuccess)

	reply := llm.DecodeChatResponse(body)
	o.logExchange(ctx, r, userID, sentAt, message, reply)

	r.enter(StateNormalizing)
	norm := o.normalizer.NormalizeChat(reply)
	return o.materialize(ctx, r, tasks, norm, true)
}

func (o *Orchestrator) logExchange(ctx context.Context, r *run, userID int, sentAt time.Time, message string, reply types.ChatReply) {
	entries := []types.ChatExchange{{UserID: userID, Timestamp: sentAt, Role: types.RoleUser, Message: message}}
	if text := replyText(reply); text != "" {
		entries = append(entries, types.ChatExchange{UserID: userID, Timestamp: o.clock(), Role: types.RoleAssistant, Message: text})
	}
	for _, ex := range entries {
		if _, err := o.store.AppendChatExchange(ctx, ex); err != nil {
			r.log.WithError(err).Error("Failed to append chat exchange")
			r.warn("chat history was not saved: " + err.Error())
			return
		}
	}
}

func replyText(reply types.ChatReply) string {
	switch reply.Kind {
	case types.ReplyText:
		return strings.TrimSpace(reply.Text)
	case types.ReplyItems:
		b, err := json.Marshal(reply.Items)
		if err != nil {
			return ""
		}
		return string(b)
	}
	return ""
}

// materialize runs the Normalizing and Persisting phases on a normalized
// reply. Chat replies need at least one actionable task to be persisted. A
// batch with any entry rejected for its time range is refused as a whole, and
// a batch whose entries were all dropped never clears the stored schedule.
func (o *Orchestrator) materialize(ctx context.Context, r *run, tasks []types.Task, norm llm.Result, chat bool) Result {
	r.res.Summary = norm.Summary
	r.res.Tasks = norm.Tasks
	r.res.Warnings = append(r.res.Warnings, norm.Warnings...)
	if norm.Warning != nil {
		r.warn(norm.Warning.Error())
	}
	if !norm.Structured {
		return r.finish(nil)
	}

	if len(norm.Invalid) > 0 {
		r.enter(StatePersisting)
		return r.finish(norm.Invalid[0])
	}

	actionable := llm.Actionable(norm.Tasks)
	if len(actionable) == 0 && (chat || norm.Dropped > 0) {
		return r.finish(nil)
	}

	r.enter(StatePersisting)
	sessions := LinkSessions(r.res.UserID, actionable, tasks)
	n, err := o.store.ReplaceSchedule(ctx, r.res.UserID, sessions)
	if err != nil {
		return r.finish(err)
	}
	r.res.Sessions = n
	r.res.Persisted = true

	if !chat {
		for _, w := range UnscheduledWarnings(tasks, actionable, norm.Warnings) {
			r.warn(w)
		}
	}

	if o.calendar != nil {
		report, err := o.calendar.PushSchedule(ctx, r.res.UserID)
		if err != nil {
			r.warn("calendar push failed: " + err.Error())
		}
		for _, w := range report.Warnings {
			r.warn("calendar: " + w)
		}
	}
	return r.finish(nil)
}

func asTransportError(op string, err error) error {
	var te *types.TransportError
	if errors.As(err, &te) {
		return err
	}
	return &types.TransportError{Op: op, Err: err}
}
