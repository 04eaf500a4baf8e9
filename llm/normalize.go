package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/OwlvinAiDevs/OwlvinAi/config"
	"github.com/OwlvinAiDevs/OwlvinAi/types"
)

// taskMarker opens the embedded task array in planner text.
const taskMarker = "[{"

var trailingComma = regexp.MustCompile(`,\s*([\]}])`)

var timeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Normalizer turns untrusted planner output into InferredTasks. Location is
// used for timestamps without an offset; nil means time.Local.
type Normalizer struct {
	Location *time.Location
}

// Normalize splits raw planner text into its natural-language summary and the
// tasks of the embedded JSON array. Malformed input never fails: it yields the
// summary, no tasks and a ParseWarning.
func Normalize(raw string) (string, []types.InferredTask, *types.ParseWarning) {
	return Normalizer{}.Normalize(raw)
}

func (n Normalizer) Normalize(raw string) (string, []types.InferredTask, *types.ParseWarning) {
	out := n.normalizeText(raw)
	return out.summary, out.tasks, out.warn
}

// rawTask is one entry of the task array as the planner writes it.
type rawTask struct {
	Task       string  `json:"task"`
	Title      string  `json:"title"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Category   string  `json:"category"`
	BreakAfter flexInt `json:"break_after"`
}

// flexInt accepts 5, 5.0 and "5".
type flexInt struct {
	value int
	set   bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = flexInt{}
		return nil
	}
	text := strings.Trim(string(data), `"`)
	if text == "" {
		*f = flexInt{}
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("break_after %s is not a number", data)
	}
	*f = flexInt{value: int(v), set: true}
	return nil
}

type textResult struct {
	summary string
	tasks   []types.InferredTask
	warn    *types.ParseWarning
	// decoded is set when a task array was found and decoded, even if
	// individual entries were dropped.
	decoded bool
	dropped dropped
}

// dropped describes the entries left out of a decoded task array.
type dropped struct {
	count int
	// invalid holds the entries dropped for their time range.
	invalid []*types.ValidationError
}

func (n Normalizer) normalizeText(raw string) textResult {
	text := CleanText(raw)

	idx := strings.Index(text, taskMarker)
	if idx < 0 {
		return textResult{summary: strings.TrimSpace(text)}
	}

	summary := strings.TrimSpace(text[:idx])
	block := strings.TrimSpace(text[idx:])

	items, err := decodeTaskBlock(block)
	if err != nil {
		config.Logger.WithError(err).Warn("Planner task block is malformed, keeping summary only")
		return textResult{
			summary: summary,
			warn:    &types.ParseWarning{Reason: "malformed task block", Details: []string{err.Error()}},
		}
	}

	tasks, warn, drop := n.inferAll(items)
	return textResult{summary: summary, tasks: tasks, warn: warn, decoded: true, dropped: drop}
}

// decodeTaskBlock reads the first JSON value of block; trailing prose is
// ignored. Trailing commas are repaired on a second attempt.
func decodeTaskBlock(block string) ([]rawTask, error) {
	var items []rawTask
	err := json.NewDecoder(strings.NewReader(block)).Decode(&items)
	if err == nil {
		return items, nil
	}

	repaired := trailingComma.ReplaceAllString(block, "$1")
	if repaired == block {
		return nil, err
	}
	items = nil
	if rerr := json.NewDecoder(strings.NewReader(repaired)).Decode(&items); rerr != nil {
		return nil, err
	}
	return items, nil
}

func (n Normalizer) inferAll(items []rawTask) ([]types.InferredTask, *types.ParseWarning, dropped) {
	tasks := make([]types.InferredTask, 0, len(items))
	var (
		details []string
		drop    dropped
	)
	for i, item := range items {
		task, err := n.infer(i, item)
		if err != nil {
			details = append(details, fmt.Sprintf("entry %d: %v", i, err))
			drop.add(err)
			continue
		}
		tasks = append(tasks, task)
	}

	if len(details) == 0 {
		return tasks, nil, drop
	}
	config.Logger.WithField("skipped", len(details)).Warn("Dropped malformed planner entries")
	return tasks, &types.ParseWarning{Reason: "skipped malformed task entries", Details: details}, drop
}

func (d *dropped) add(err error) {
	d.count++
	var ve *types.ValidationError
	if errors.As(err, &ve) {
		d.invalid = append(d.invalid, ve)
	}
}

// infer validates one entry. Problems with its time range come back as a
// *types.ValidationError carrying index.
func (n Normalizer) infer(index int, item rawTask) (types.InferredTask, error) {
	title := strings.TrimSpace(item.Task)
	if title == "" {
		title = strings.TrimSpace(item.Title)
	}
	if title == "" {
		return types.InferredTask{}, fmt.Errorf("missing task title")
	}

	start, err := n.parseTime(item.Start)
	if err != nil {
		return types.InferredTask{}, &types.ValidationError{Index: index, Field: "start", Reason: err.Error()}
	}
	end, err := n.parseTime(item.End)
	if err != nil {
		return types.InferredTask{}, &types.ValidationError{Index: index, Field: "end", Reason: err.Error()}
	}
	if !end.After(start) {
		return types.InferredTask{}, &types.ValidationError{
			Index:  index,
			Field:  "end",
			Reason: fmt.Sprintf("%s is not after start %s", item.End, item.Start),
		}
	}

	category := strings.TrimSpace(item.Category)
	if category == "" {
		category = types.DefaultCategory
	}

	breakAfter := types.DefaultBreakAfter
	if item.BreakAfter.set && item.BreakAfter.value >= 0 {
		breakAfter = item.BreakAfter.value
	}

	return types.InferredTask{
		Title:      title,
		Start:      start,
		End:        end,
		Category:   category,
		BreakAfter: breakAfter,
	}, nil
}

func (n Normalizer) parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	loc := n.Location
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

// Actionable drops break and rest entries, which are shown to the user but
// never materialized.
func Actionable(tasks []types.InferredTask) []types.InferredTask {
	out := make([]types.InferredTask, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsFiller() {
			out = append(out, t)
		}
	}
	return out
}
