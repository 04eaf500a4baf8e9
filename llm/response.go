package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/OwlvinAiDevs/OwlvinAi/config"
	"github.com/OwlvinAiDevs/OwlvinAi/types"
)

// Result is a normalized planner reply.
type Result struct {
	Summary string
	// Tasks holds every parsed entry, filler included, for display.
	Tasks []types.InferredTask
	// Warnings are reported by the planner itself.
	Warnings []string
	Warning  *types.ParseWarning
	// Structured is set when the reply carried a usable task list, which
	// makes it eligible to replace the stored schedule.
	Structured bool
	// Dropped counts entries left out of Tasks. Invalid lists the ones
	// dropped for their time range; any of those blocks persisting.
	Dropped int
	Invalid []*types.ValidationError
}

// NormalizeSchedule reads a /generate_ai_schedule reply. Bodies that are not
// the structured schedule shape go through the free-text path.
func (n Normalizer) NormalizeSchedule(body []byte) Result {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err == nil {
		_, hasSessions := probe["sessions"]
		_, hasSuccess := probe["success"]
		if hasSessions || hasSuccess {
			return n.fromScheduleResponse(body)
		}
	}
	return n.fromText(string(body))
}

func (n Normalizer) fromScheduleResponse(body []byte) Result {
	var resp types.ScheduleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		config.Logger.WithError(err).Warn("Schedule response did not match the expected shape")
		return Result{
			Warning: &types.ParseWarning{Reason: "malformed schedule response", Details: []string{err.Error()}},
		}
	}

	// success:false still carries a usable plan when some tasks did not fit
	// or the planner fell back to its rule-based scheduler.
	warnings := resp.Warnings
	if !resp.Success {
		if msg := strings.TrimSpace(resp.Message); msg != "" && !contains(warnings, msg) {
			warnings = append([]string{msg}, warnings...)
		}
		if len(resp.Sessions) == 0 {
			return Result{Summary: resp.Message, Warnings: warnings}
		}
	}

	tasks := make([]types.InferredTask, 0, len(resp.Sessions))
	var (
		details []string
		drop    dropped
	)
	for i, s := range resp.Sessions {
		item := rawTask{
			Task:     s.Task.Title,
			Start:    s.StartTime,
			End:      s.EndTime,
			Category: s.Task.Category,
		}
		if s.BreakAfter != nil {
			item.BreakAfter = flexInt{value: *s.BreakAfter, set: true}
		}
		task, err := n.infer(i, item)
		if err != nil {
			details = append(details, fmt.Sprintf("session %d: %v", i, err))
			drop.add(err)
			continue
		}
		task.TaskID = s.TaskID
		tasks = append(tasks, task)
	}

	result := Result{
		Summary:    resp.Message,
		Tasks:      tasks,
		Warnings:   warnings,
		Structured: true,
		Dropped:    drop.count,
		Invalid:    drop.invalid,
	}
	if len(details) > 0 {
		result.Warning = &types.ParseWarning{Reason: "skipped malformed sessions", Details: details}
	}
	return result
}

func (n Normalizer) fromText(raw string) Result {
	out := n.normalizeText(raw)
	return Result{
		Summary:    out.summary,
		Tasks:      out.tasks,
		Warning:    out.warn,
		Structured: out.decoded,
		Dropped:    out.dropped.count,
		Invalid:    out.dropped.invalid,
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// NormalizeChat normalizes either variant of a chat reply.
func (n Normalizer) NormalizeChat(reply types.ChatReply) Result {
	switch reply.Kind {
	case types.ReplyText:
		return n.fromText(reply.Text)
	case types.ReplyItems:
		items := make([]rawTask, 0, len(reply.Items))
		for _, it := range reply.Items {
			item := rawTask{Task: it.Task, Start: it.Start, End: it.End, Category: it.Category}
			if it.BreakAfter != nil {
				item.BreakAfter = flexInt{value: *it.BreakAfter, set: true}
			}
			items = append(items, item)
		}
		tasks, warn, drop := n.inferAll(items)
		return Result{Tasks: tasks, Warning: warn, Structured: true, Dropped: drop.count, Invalid: drop.invalid}
	default:
		return Result{}
	}
}

// DecodeChatResponse extracts the reply from a /chat body. A body without a
// "response" member is the legacy plain-text shape and is taken verbatim.
func DecodeChatResponse(body []byte) types.ChatReply {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err == nil {
		if raw, ok := probe["response"]; ok {
			var resp types.ChatResponse
			if err := json.Unmarshal(body, &resp); err == nil {
				return resp.Response
			}
			config.Logger.Warn("Chat reply has an unsupported shape, treating it as text")
			return types.ChatReply{Kind: types.ReplyText, Text: string(raw)}
		}
	}

	var text string
	if err := json.Unmarshal(body, &text); err == nil {
		return types.ChatReply{Kind: types.ReplyText, Text: text}
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return types.ChatReply{Kind: types.ReplyEmpty}
	}
	return types.ChatReply{Kind: types.ReplyText, Text: trimmed}
}
