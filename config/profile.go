package config

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/OwlvinAiDevs/OwlvinAi/types"
	"gopkg.in/yaml.v3"
)

const clockLayout = "15:04"

// Profile is the study profile: availability and energy inputs attached to
// every schedule request.
type Profile struct {
	PomodoroLength int      `yaml:"pomodoro_length"`
	Energy         []string `yaml:"energy"`
	Windows        []Window `yaml:"availability"`
}

// Window is a daily availability window in local clock time, e.g. 09:00-11:30.
type Window struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

func DefaultProfile() *Profile {
	return &Profile{PomodoroLength: DefaultPomodoroLength}
}

// LoadProfile reads a YAML profile. An empty path yields DefaultProfile.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}
	return ParseProfile(data)
}

func ParseProfile(data []byte) (*Profile, error) {
	p := DefaultProfile()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if p.PomodoroLength <= 0 {
		p.PomodoroLength = DefaultPomodoroLength
	}
	for i, w := range p.Windows {
		start, end, err := w.clock()
		if err != nil {
			return nil, fmt.Errorf("availability[%d]: %w", i, err)
		}
		if !end.After(start) {
			return nil, fmt.Errorf("availability[%d]: end %s is not after start %s", i, w.End, w.Start)
		}
	}
	return p, nil
}

// EnergyLevel maps a textual energy level to the planner's 1-3 scale.
func EnergyLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "low":
		return 1
	case "medium":
		return 2
	case "high":
		return 3
	default:
		return UnknownEnergyLevel
	}
}

func (p *Profile) EnergyLevels() []int {
	if len(p.Energy) == 0 {
		return []int{DefaultEnergyLevel}
	}
	levels := make([]int, 0, len(p.Energy))
	for _, e := range p.Energy {
		levels = append(levels, EnergyLevel(e))
	}
	return levels
}

// Slots resolves the daily windows against now. Windows already over today
// move to tomorrow; a window in progress starts at now.
func (p *Profile) Slots(now time.Time) []types.TimeSlot {
	if len(p.Windows) == 0 {
		return []types.TimeSlot{{
			StartTime: now.Add(DefaultSlotOffset),
			EndTime:   now.Add(DefaultSlotOffset + DefaultSlotLength),
		}}
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	slots := make([]types.TimeSlot, 0, len(p.Windows))
	for _, w := range p.Windows {
		startClock, endClock, err := w.clock()
		if err != nil {
			continue
		}
		start := atClock(midnight, startClock)
		end := atClock(midnight, endClock)
		if !end.After(now) {
			start = start.AddDate(0, 0, 1)
			end = end.AddDate(0, 0, 1)
		} else if start.Before(now) {
			start = now.Truncate(time.Minute)
		}
		slots = append(slots, types.TimeSlot{StartTime: start, EndTime: end})
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].StartTime.Before(slots[j].StartTime) })
	return slots
}

// Availability satisfies the orchestrator's availability source. The same
// profile applies to every user.
func (p *Profile) Availability(_ context.Context, _ int, now time.Time) (types.Availability, error) {
	return types.Availability{
		EnergyLevel:    p.EnergyLevels(),
		PomodoroLength: p.PomodoroLength,
		Slots:          p.Slots(now),
	}, nil
}

func (w Window) clock() (time.Time, time.Time, error) {
	start, err := time.Parse(clockLayout, strings.TrimSpace(w.Start))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start %q: %w", w.Start, err)
	}
	end, err := time.Parse(clockLayout, strings.TrimSpace(w.End))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end %q: %w", w.End, err)
	}
	return start, end, nil
}

func atClock(midnight, clock time.Time) time.Time {
	return time.Date(midnight.Year(), midnight.Month(), midnight.Day(), clock.Hour(), clock.Minute(), 0, 0, midnight.Location())
}
