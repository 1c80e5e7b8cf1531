package parser

// deferredEmitter buffers quads that are parsed before their place in the
// main stream exists, such as a for loop's condition and iteration
// expressions. It draws temporaries and labels from the parent's counters but
// owns its quad and trace lists privately until flush splices them into the
// parent at the current end of the stream.
type deferredEmitter struct {
	parent *Emitter
	quads  []Quad
	trace  []string
}

func newDeferred(parent *Emitter) *deferredEmitter {
	return &deferredEmitter{parent: parent}
}

func (d *deferredEmitter) NewTemp() string  { return d.parent.NewTemp() }
func (d *deferredEmitter) NewLabel() string { return d.parent.NewLabel() }

func (d *deferredEmitter) Emit(op, arg1, arg2, result string) {
	q := Quad{Op: op, Arg1: arg1, Arg2: arg2, Result: result}
	d.quads = append(d.quads, q)
	d.trace = append(d.trace, q.ThreeAddress())
}

// flush appends the buffered quads to the parent stream and empties the
// buffer.
func (d *deferredEmitter) flush() {
	d.parent.quads = append(d.parent.quads, d.quads...)
	d.parent.trace = append(d.parent.trace, d.trace...)
	d.quads = nil
	d.trace = nil
}
