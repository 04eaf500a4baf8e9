package llm

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const essayBlock = `[{"task":"Essay","start":"2024-01-01T09:00:00Z","end":"2024-01-01T10:00:00Z","category":"Writing"}]`

func TestNormalize_PlanWithPreamble(t *testing.T) {
	raw := "Here is your plan.\n\n" + essayBlock

	summary, tasks, warn := Normalize(raw)

	assert.Nil(t, warn)
	assert.Equal(t, "Here is your plan.", summary)
	require.Len(t, tasks, 1)
	task := tasks[0]
	assert.Equal(t, "Essay", task.Title)
	assert.Equal(t, "Writing", task.Category)
	assert.Equal(t, 5, task.BreakAfter)
	assert.True(t, task.Start.Equal(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)))
	assert.True(t, task.End.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)))
	assert.False(t, task.IsFiller())
	assert.Len(t, Actionable(tasks), 1)
}

func TestNormalize_QuoteVariants(t *testing.T) {
	smart := `[{“task”:“Essay”,“start”:“2024-01-01T09:00:00Z”,“end”:“2024-01-01T10:00:00Z”,“category”:“Writing”}]`
	lowOpen := `[{„task”:„Essay”,„start”:„2024-01-01T09:00:00Z”,„end”:„2024-01-01T10:00:00Z”,„category”:„Writing”}]`

	variants := map[string]string{
		"ascii":        essayBlock,
		"curly":        smart,
		"low-9":        lowOpen,
		"windows-1252": mojibake(t, charmap.Windows1252, smart),
		"mac roman":    mojibake(t, charmap.Macintosh, smart),
	}

	for name, block := range variants {
		t.Run(name, func(t *testing.T) {
			summary, tasks, warn := Normalize("Here is your plan.\n" + block)

			assert.Nil(t, warn)
			assert.Equal(t, "Here is your plan.", summary)
			require.Len(t, tasks, 1)
			assert.Equal(t, "Essay", tasks[0].Title)
			assert.Equal(t, "Writing", tasks[0].Category)
		})
	}
}

// mojibake reproduces text whose UTF-8 bytes were read with the wrong charset.
func mojibake(t *testing.T, cm *charmap.Charmap, s string) string {
	t.Helper()
	out, err := cm.NewDecoder().String(s)
	require.NoError(t, err)
	require.NotEqual(t, s, out)
	return out
}

func TestNormalize_NoMarker(t *testing.T) {
	tests := []string{
		"  Take it easy today, nothing urgent is due.  ",
		"Use {braces} and [brackets] freely",
		"",
	}
	for _, raw := range tests {
		summary, tasks, warn := Normalize(raw)
		assert.Equal(t, strings.TrimSpace(raw), summary)
		assert.Empty(t, tasks)
		assert.Nil(t, warn)
	}
}

func TestNormalize_MalformedBlock(t *testing.T) {
	summary, tasks, warn := Normalize("[{not json")
	assert.Equal(t, "", summary)
	assert.Empty(t, tasks)
	require.NotNil(t, warn)
	assert.Equal(t, "malformed task block", warn.Reason)

	summary, tasks, warn = Normalize("Study plan below.\n[{not json")
	assert.Equal(t, "Study plan below.", summary)
	assert.Empty(t, tasks)
	require.NotNil(t, warn)
}

func TestNormalize_StripsFences(t *testing.T) {
	raw := "Plan:\n```json\n" + essayBlock + "\n```"

	summary, tasks, warn := Normalize(raw)
	assert.Nil(t, warn)
	assert.Equal(t, "Plan:", summary)
	require.Len(t, tasks, 1)
}

func TestNormalize_TrailingProseAndCommas(t *testing.T) {
	raw := `Ok. [{"task":"Essay","start":"2024-01-01T09:00:00Z","end":"2024-01-01T10:00:00Z",},] Good luck!`

	summary, tasks, warn := Normalize(raw)
	assert.Nil(t, warn)
	assert.Equal(t, "Ok.", summary)
	require.Len(t, tasks, 1)
	assert.Equal(t, "General", tasks[0].Category)
}

func TestNormalize_FillerEntriesKeptForDisplay(t *testing.T) {
	raw := `[` +
		`{"task":"Essay","start":"2024-01-01T09:00:00Z","end":"2024-01-01T10:00:00Z","category":"Writing"},` +
		`{"task":"Break","start":"2024-01-01T10:00:00Z","end":"2024-01-01T10:15:00Z","category":"rest"},` +
		`{"task":"Stretch","start":"2024-01-01T10:15:00Z","end":"2024-01-01T10:20:00Z","category":"Short BREAK"}` +
		`]`

	_, tasks, warn := Normalize(raw)
	assert.Nil(t, warn)
	require.Len(t, tasks, 3)
	assert.True(t, tasks[1].IsFiller())
	assert.True(t, tasks[2].IsFiller())

	actionable := Actionable(tasks)
	require.Len(t, actionable, 1)
	assert.Equal(t, "Essay", actionable[0].Title)
}

func TestNormalize_BreakAfter(t *testing.T) {
	raw := `[` +
		`{"task":"A","start":"2024-01-01T09:00:00Z","end":"2024-01-01T10:00:00Z","break_after":10},` +
		`{"task":"B","start":"2024-01-01T10:00:00Z","end":"2024-01-01T11:00:00Z","break_after":"15"},` +
		`{"task":"C","start":"2024-01-01T11:00:00Z","end":"2024-01-01T12:00:00Z","break_after":null},` +
		`{"task":"D","start":"2024-01-01T12:00:00Z","end":"2024-01-01T13:00:00Z","break_after":0}` +
		`]`

	_, tasks, warn := Normalize(raw)
	assert.Nil(t, warn)
	require.Len(t, tasks, 4)
	assert.Equal(t, 10, tasks[0].BreakAfter)
	assert.Equal(t, 15, tasks[1].BreakAfter)
	assert.Equal(t, 5, tasks[2].BreakAfter)
	assert.Equal(t, 0, tasks[3].BreakAfter)
}

func TestNormalize_SkipsInvalidEntries(t *testing.T) {
	raw := `[` +
		`{"task":"Essay","start":"2024-01-01T09:00:00Z","end":"2024-01-01T10:00:00Z"},` +
		`{"task":"Backwards","start":"2024-01-01T10:00:00Z","end":"2024-01-01T09:00:00Z"},` +
		`{"task":"","start":"2024-01-01T10:00:00Z","end":"2024-01-01T11:00:00Z"},` +
		`{"task":"Someday","start":"tomorrow","end":"2024-01-01T11:00:00Z"}` +
		`]`

	_, tasks, warn := Normalize(raw)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Essay", tasks[0].Title)
	require.NotNil(t, warn)
	assert.Len(t, warn.Details, 3)
}

func TestNormalizer_NaiveTimesUseLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	n := Normalizer{Location: loc}

	_, tasks, warn := n.Normalize(`[{"title":"Reading","start":"2024-01-01 09:00","end":"2024-01-01T10:30:00"}]`)
	assert.Nil(t, warn)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Reading", tasks[0].Title)
	assert.True(t, tasks[0].Start.Equal(time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)))
	assert.Equal(t, 90*time.Minute, tasks[0].Duration())
}
