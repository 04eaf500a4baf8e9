package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/OwlvinAiDevs/OwlvinAi/orchestrator"
	"github.com/OwlvinAiDevs/OwlvinAi/types"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printResult(w io.Writer, format string, res orchestrator.Result) error {
	if format == "json" {
		if err := printJSON(w, res); err != nil {
			return err
		}
		return res.Err
	}

	if res.Summary != "" {
		fmt.Fprintln(w, res.Summary)
	}
	for _, t := range res.Tasks {
		marker := "*"
		if t.IsFiller() {
			marker = "-"
		}
		fmt.Fprintf(w, "%s %s  %s-%s  [%s]\n", marker, t.Title,
			t.Start.Local().Format("Mon 15:04"), t.End.Local().Format("15:04"), t.Category)
	}
	if res.Persisted {
		fmt.Fprintf(w, "Saved %d session(s).\n", res.Sessions)
	}
	for _, warn := range res.Warnings {
		fmt.Fprintln(w, "warning:", warn)
	}
	return res.Err
}

func printTasks(w io.Writer, tasks []types.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	for _, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		fmt.Fprintf(w, "[%s] %4d  %-30s  due %s  %dm  %s\n", done, t.ID, t.Title,
			t.DueDate.Local().Format("2006-01-02 15:04"), t.DurationMinutes, strings.TrimSpace(t.Category))
	}
}
