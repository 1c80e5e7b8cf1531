package parser

import "fmt"

// Quad is one quadruple of three-address code. Operators are the arithmetic,
// relational and assignment symbols plus the control operators "label",
// "goto" and "ifFalse". The quad list is append-only; only backpatching may
// rewrite a quad's Result (its jump target) in place.
type Quad struct {
	Op     string
	Arg1   string
	Arg2   string
	Result string
}

// ThreeAddress renders the quad in three-address/control-flow form.
func (q Quad) ThreeAddress() string {
	switch q.Op {
	case "label":
		return q.Result + ":"
	case "goto":
		return "goto " + q.Result
	case "ifFalse":
		return fmt.Sprintf("ifFalse %s goto %s", q.Arg1, q.Result)
	case "if":
		return fmt.Sprintf("if %s goto %s", q.Arg1, q.Result)
	case "=":
		return fmt.Sprintf("%s = %s", q.Result, q.Arg1)
	case "+", "-", "*", "/", "<", "<=", ">", ">=", "==", "!=":
		return fmt.Sprintf("%s = %s %s %s", q.Result, q.Arg1, q.Op, q.Arg2)
	}
	return fmt.Sprintf("(%s, %s, %s, %s)", q.Op, q.Arg1, q.Arg2, q.Result)
}

// emitter is the common surface of the main Emitter and any deferred buffer:
// fresh temporaries/labels come from shared counters, emitted quads go to
// whichever quad list the current sink owns.
type emitter interface {
	NewTemp() string
	NewLabel() string
	Emit(op, arg1, arg2, result string)
}

// Emitter accumulates the main quad stream and its human-readable trace. The
// temporary and label counters are shared with any deferred buffers spawned
// from it, so places allocated inside a buffer never collide with the main
// stream.
type Emitter struct {
	quads []Quad
	trace []string

	tempID  int
	labelID int
}

func NewEmitter() *Emitter {
	return &Emitter{}
}

func (e *Emitter) NewTemp() string {
	e.tempID++
	return fmt.Sprintf("t%d", e.tempID)
}

func (e *Emitter) NewLabel() string {
	e.labelID++
	return fmt.Sprintf("L%d", e.labelID)
}

func (e *Emitter) Emit(op, arg1, arg2, result string) {
	q := Quad{Op: op, Arg1: arg1, Arg2: arg2, Result: result}
	e.quads = append(e.quads, q)
	e.trace = append(e.trace, q.ThreeAddress())
}

func (e *Emitter) Label(label string) { e.Emit("label", "", "", label) }
func (e *Emitter) Goto(label string) { e.Emit("goto", "", "", label) }
func (e *Emitter) IfFalse(cond, label string) {
	e.Emit("ifFalse", cond, "", label)
}

// GotoPlaceholder emits a goto with an unknown target and returns its index
// for later backpatching.
func (e *Emitter) GotoPlaceholder() int {
	e.Goto("")
	return len(e.quads) - 1
}

// IfFalsePlaceholder emits an ifFalse with an unknown target and returns its
// index for later backpatching.
func (e *Emitter) IfFalsePlaceholder(cond string) int {
	e.IfFalse(cond, "")
	return len(e.quads) - 1
}

// Backpatch rewrites the jump target of every indexed quad to label. Indexes
// out of range or pointing at non-jump quads are ignored.
func (e *Emitter) Backpatch(indexes []int, label string) {
	for _, idx := range indexes {
		if idx < 0 || idx >= len(e.quads) {
			continue
		}
		q := e.quads[idx]
		if q.Op != "goto" && q.Op != "ifFalse" && q.Op != "if" {
			continue
		}
		q.Result = label
		e.quads[idx] = q
		if idx < len(e.trace) {
			e.trace[idx] = q.ThreeAddress()
		}
	}
}

// Quads returns the emitted quad list. The slice is the emitter's own
// append-only storage; callers treat it as read-only.
func (e *Emitter) Quads() []Quad {
	return e.quads
}

// Trace returns the three-address rendering of every emitted quad, in order.
func (e *Emitter) Trace() []string {
	return e.trace
}
