package ir

import "fmt"

// Emitter buffers one function's instruction stream and hoists every
// `alloca` to the entry block.
type Emitter struct {
	allocas []string
	blocks  []block

	valueCounter  int
	labelCounters map[string]int
}

type block struct {
	label string
	lines []string
}

func NewEmitter() *Emitter {
	e := &Emitter{labelCounters: map[string]int{}}
	e.blocks = append(e.blocks, block{label: "entry"})
	return e
}

// NextValue returns a fresh SSA register named "%tN" (N counts up from 0 per
// function); registers are named, not LLVM's sequentially numbered "%N" form.
func (e *Emitter) NextValue() string {
	v := fmt.Sprintf("%%t%d", e.valueCounter)
	e.valueCounter++
	return v
}

// Label returns a fresh block label of the form "prefix.N"; the counter is
// per-prefix so parallel if-chains don't skip numbers unnecessarily.
func (e *Emitter) Label(prefix string) string {
	n := e.labelCounters[prefix]
	e.labelCounters[prefix] = n + 1
	return fmt.Sprintf("%s.%d", prefix, n)
}

// TrampolineLabel returns a fresh conditional-branch trampoline label of the
// form "prefix_N" (underscore-joined, matching jmp_true_N/jmp_false_N in the
// IR format table, as opposed to Label's dot-joined ordinary block names).
func (e *Emitter) TrampolineLabel(prefix string) string {
	n := e.labelCounters[prefix]
	e.labelCounters[prefix] = n + 1
	return fmt.Sprintf("%s_%d", prefix, n)
}

// Alloca hoists an `alloca` instruction for llvmType to the entry block and
// returns the pointer register.
func (e *Emitter) Alloca(llvmType string) string {
	reg := e.NextValue()
	e.allocas = append(e.allocas, fmt.Sprintf("  %s = alloca %s", reg, llvmType))
	return reg
}

// Emit appends a raw instruction line to the current (last-opened) block.
func (e *Emitter) Emit(line string) {
	last := len(e.blocks) - 1
	e.blocks[last].lines = append(e.blocks[last].lines, "  "+line)
}

func (e *Emitter) Emitf(format string, args ...interface{}) {
	e.Emit(fmt.Sprintf(format, args...))
}

// OpenBlock starts a new basic block labeled name; subsequent Emit calls
// land in it. The caller is responsible for terminating the previous block
// (br/ret) before opening the next.
func (e *Emitter) OpenBlock(name string) {
	e.blocks = append(e.blocks, block{label: name})
}

// Render assembles the function body: the bb.entry label, every hoisted
// alloca, entry's own instructions, then each subsequent block in the order
// opened.
func (e *Emitter) Render() string {
	out := "bb.entry:\n"
	for _, a := range e.allocas {
		out += a + "\n"
	}
	for _, l := range e.blocks[0].lines {
		out += l + "\n"
	}
	for _, b := range e.blocks[1:] {
		out += b.label + ":\n"
		for _, l := range b.lines {
			out += l + "\n"
		}
	}
	return out
}
