package jit

/*
 * R3000 - Threaded-code assembler backend
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// The host "assembler" for translated code. A block is emitted as
// threaded code: a finalized sequence of host steps run in order with
// the engine state threaded to each one. One State is acquired per
// block at recompile start, appended with steps, finalized with Emit,
// and destroyed with its block.

import "errors"

// Insn is a single emitted host step. The engine-state pointer is the
// only argument threaded through translated code.
type Insn[E any] func(*E)

// Func is a finalized host entry point.
type Func[E any] func(*E)

// State is the per-block assembler context.
type State[E any] struct {
	name    string
	insns   []Insn[E]
	frame   int
	emitted bool
}

var active int

// Init brings up the assembler subsystem. Paired with Finish.
func Init(_ string) {
	active++
}

// Finish tears the assembler subsystem down.
func Finish() {
	if active > 0 {
		active--
	}
}

// NewState acquires an assembler context for one block.
func NewState[E any]() (*State[E], error) {
	if active == 0 {
		return nil, errors.New("jit subsystem not initialized")
	}
	return &State[E]{}, nil
}

// SetName attaches a debug name to the code under construction.
func (j *State[E]) SetName(name string) {
	j.name = name
}

func (j *State[E]) Name() string {
	return j.name
}

// Frame reserves scratch frame space for the emitted function. Host
// stack frames need no explicit sizing here; the reservation is kept
// as part of the wrapper ABI description.
func (j *State[E]) Frame(size int) {
	j.frame = size
}

// Append adds one host step to the code under construction.
func (j *State[E]) Append(in Insn[E]) {
	j.insns = append(j.insns, in)
}

// Len returns the number of emitted steps.
func (j *State[E]) Len() int {
	return len(j.insns)
}

// Emit finalizes the code and returns its entry point. The entry runs
// every appended step in order on the caller's frame.
func (j *State[E]) Emit() Func[E] {
	insns := j.insns
	j.emitted = true
	if len(insns) == 1 {
		return Func[E](insns[0])
	}
	return func(e *E) {
		for _, in := range insns {
			in(e)
		}
	}
}

// ClearState drops build-only data once the entry point has been
// emitted. The emitted function stays valid.
func (j *State[E]) ClearState() {
	j.name = ""
	j.frame = 0
}

// Destroy releases the context. The block owning it is going away.
func (j *State[E]) Destroy() {
	j.insns = nil
	j.emitted = false
}
