package agent

import (
	"fmt"
	"strings"

	"github.com/nbenliogludev/go-gui-agent/internal/actions"
)

// StepMemory keeps a sliding window of executed steps for the actor prompt
// and watches for the actor stalling on the same action batch.
type StepMemory struct {
	lines    []string
	maxLines int

	fullLines []string

	lastBatchKey  string
	repeatCount   int
	loopThreshold int
}

func NewStepMemory(maxLines, loopThreshold int) *StepMemory {
	if maxLines <= 0 {
		maxLines = 5
	}
	if loopThreshold <= 1 {
		loopThreshold = 2
	}
	return &StepMemory{
		maxLines:      maxLines,
		loopThreshold: loopThreshold,
	}
}

func batchKey(res actions.Result) string {
	parts := make([]string, 0, len(res.Actions))
	for _, a := range res.Actions {
		part := a.Action
		if a.Coordinate != nil {
			part += fmt.Sprintf("@%d,%d", a.Coordinate.X, a.Coordinate.Y)
		}
		if a.Text != "" {
			part += ":" + a.Text
		}
		if a.ScrollDirection != "" {
			part += fmt.Sprintf(":%s%d", a.ScrollDirection, a.ScrollAmount)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ";")
}

func (m *StepMemory) Add(step int, res actions.Result) {
	line := fmt.Sprintf("step=%d actions=[%s]", step, batchKey(res))
	if res.Stopped {
		line += " stopped"
	}

	m.fullLines = append(m.fullLines, line)

	m.lines = append(m.lines, line)
	if len(m.lines) > m.maxLines {
		m.lines = m.lines[len(m.lines)-m.maxLines:]
	}

	key := batchKey(res)
	if key == m.lastBatchKey {
		m.repeatCount++
	} else {
		m.lastBatchKey = key
		m.repeatCount = 1
	}
}

// ShouldBlock reports whether the proposed batch repeats the last executed
// one often enough that executing it again would just loop.
func (m *StepMemory) ShouldBlock(res actions.Result) (bool, string) {
	key := batchKey(res)
	if key == "" {
		return false, ""
	}

	if key == m.lastBatchKey && m.repeatCount >= m.loopThreshold-1 {
		reason := fmt.Sprintf(
			"SYSTEM NOTE: The same action batch (%s) has already been executed %d times in a row. "+
				"Do NOT repeat it again. Choose a different action or STOP if the goal is already achieved.",
			key, m.repeatCount,
		)
		return true, reason
	}

	return false, ""
}

func (m *StepMemory) AddSystemNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}

	m.fullLines = append(m.fullLines, note)

	m.lines = append(m.lines, note)
	if len(m.lines) > m.maxLines {
		m.lines = m.lines[len(m.lines)-m.maxLines:]
	}
}

func (m *StepMemory) HistoryString() string {
	if len(m.lines) == 0 {
		return ""
	}
	return strings.Join(m.lines, "\n")
}

func (m *StepMemory) FullHistory() []string {
	if len(m.fullLines) == 0 {
		return nil
	}
	out := make([]string, len(m.fullLines))
	copy(out, m.fullLines)
	return out
}
