package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/nbenliogludev/go-gui-agent/internal/actions"
)

type Reporter struct {
	task  string
	trace []string
}

func NewReporter(task string) *Reporter {
	return &Reporter{task: task}
}

func (r *Reporter) StepStart(step int) {
	fmt.Printf("\n--- STEP %d ---\n", step)
}

func (r *Reporter) LogStep(step int, res actions.Result) {
	fmt.Println(strings.Repeat("-", 40))
	for _, a := range res.Actions {
		fmt.Printf("⚡ ACTION: %s\n", formatAction(a))
	}
	if res.Stopped {
		fmt.Println("🏁 STOP signalled")
	}
	fmt.Println(strings.Repeat("-", 40))

	r.trace = append(r.trace, fmt.Sprintf(
		"STEP %d | ACTIONS=[%s] | STOPPED=%t",
		step, batchKey(res), res.Stopped,
	))
}

func (r *Reporter) LoopGuard(reason string) {
	fmt.Printf("⛔ LOOP GUARD: %s\n", reason)
}

func (r *Reporter) StepError(err error) {
	fmt.Printf("⚠️ Step error: %v\n", err)
}

func (r *Reporter) Finished(start time.Time, mem *StepMemory) {
	r.printReport(start, "task finished", mem)
}

func (r *Reporter) Interrupted(start time.Time, mem *StepMemory) {
	r.printReport(start, "interrupted by user (Ctrl+C)", mem)
}

func (r *Reporter) MaxStepsReached(start time.Time, mem *StepMemory) {
	r.printReport(start, "max steps reached", mem)
}

func (r *Reporter) printReport(start time.Time, reason string, mem *StepMemory) {
	duration := time.Since(start).Truncate(time.Millisecond)

	fmt.Println("\n===== EXECUTION REPORT =====")
	fmt.Printf("Task: %s\n", r.task)
	fmt.Printf("Duration: %s\n", duration)
	fmt.Printf("Exit reason: %s\n\n", reason)

	fmt.Println("--- RAW STEP TRACE ---")
	for _, line := range r.trace {
		fmt.Println(line)
	}

	fmt.Println("\n--- FULL HISTORY ---")
	for _, line := range mem.FullHistory() {
		fmt.Println(line)
	}

	fmt.Println("===== END OF REPORT =====")
}

func formatAction(a actions.PrimitiveAction) string {
	var b strings.Builder
	b.WriteString(a.Action)
	if a.Coordinate != nil {
		fmt.Fprintf(&b, " (%d, %d)", a.Coordinate.X, a.Coordinate.Y)
	}
	if a.Text != "" {
		fmt.Fprintf(&b, " %q", a.Text)
	}
	if a.ScrollDirection != "" {
		fmt.Fprintf(&b, " %s x%d", a.ScrollDirection, a.ScrollAmount)
	}
	return b.String()
}
