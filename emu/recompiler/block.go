package recompiler

/*
 * R3000 - Translated block
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

import (
	dis "github.com/rcornwell/R3000/emu/disassemble"
	"github.com/rcornwell/R3000/emu/jit"
)

// Block is a translated straight-line sequence of guest instructions,
// callable as a native function. Its Function stays valid for as long
// as the block is registered in the block cache.
type Block struct {
	PC         uint32 // Guest pc of the first instruction.
	KunsegPC   uint32
	Code       []byte // Host view of the source instruction words.
	OpcodeList []dis.Opcode // nil for trampolines.
	Function   jit.Func[State]
	Cycles     uint32 // Total guest cycles of the sequence.
	Hash       uint32

	state    *State
	jitState *jit.State[State]
}

// freeBlock releases a block's opcode list, assembler state and
// record. Only unregistered blocks may be freed.
func freeBlock(b *Block) {
	if b == nil {
		return
	}
	b.OpcodeList = nil
	if b.jitState != nil {
		b.jitState.Destroy()
		b.jitState = nil
	}
	b.Function = nil
	b.state = nil
}
