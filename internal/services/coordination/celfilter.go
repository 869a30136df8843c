package coordination

import (
	"strings"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/Okohedeki/sia/internal/notify"
)

// eventFilter wraps a compiled CEL program evaluated against each published
// change event. When disabled, Eval always returns true.
//
// The variable is named "event" rather than "type" because CEL reserves
// type() as a standard function.
type eventFilter struct {
	prog    cel.Program
	enabled bool
}

func newEventFilter(expr string) (eventFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return eventFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("event", cel.StringType),
		cel.Variable("path", cel.StringType),
		cel.Variable("agent", cel.StringType),
		// True when the event came from a TTL expiry sweep
		cel.Variable("timeout", cel.BoolType),
		cel.Variable("detail", cel.MapType(cel.StringType, cel.StringType)),
		cel.Variable("ts_ms", cel.IntType),
		// Current time in ms for windowed filters
		cel.Variable("now_ms", cel.IntType),
	)
	if err != nil {
		return eventFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return eventFilter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return eventFilter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return eventFilter{}, err
	}
	return eventFilter{prog: prog, enabled: true}, nil
}

// Eval evaluates the compiled expression against an event. When disabled,
// returns true; evaluation errors suppress the event.
func (f eventFilter) Eval(evt notify.Event) bool {
	if !f.enabled {
		return true
	}
	detail := evt.Detail
	if detail == nil {
		detail = map[string]string{}
	}
	out, _, err := f.prog.Eval(map[string]any{
		"event":   evt.Type,
		"path":    evt.Path,
		"agent":   evt.AgentID,
		"timeout": detail["timeout"] == "true",
		"detail":  detail,
		"ts_ms":   evt.Timestamp.UnixMilli(),
		"now_ms":  time.Now().UnixMilli(),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
