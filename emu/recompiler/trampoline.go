package recompiler

/*
 * R3000 - Wrapper and address-lookup trampolines
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

// ABI between the wrapper and translated code: the engine-state
// pointer is the single argument threaded to every emitted step (the
// REG_STATE convention), blocks execute on the wrapper's frame, and a
// block's last emitted step transfers to the landing published in
// State.endOfBlock instead of returning on its own.

import "github.com/rcornwell/R3000/emu/jit"

// Frame reserved by the wrapper, large enough for the worst-case
// block.
const wrapperFrameSize = 256

// generateWrapperBlock builds the native function that bridges into
// translated code. It reads its argument (the block entry) from the
// enter slot, installs the state pointer and jumps to the entry; the
// end-of-block landing follows the jump.
func generateWrapperBlock(s *State) (*Block, error) {
	j, err := jit.NewState[State]()
	if err != nil {
		return nil, err
	}

	j.SetName("wrapper")
	j.Frame(wrapperFrameSize)

	j.Append(func(st *State) {
		entry := st.enter
		st.enter = nil
		entry(st)
	})

	block := &Block{state: s, jitState: j}
	block.Function = j.Emit()

	// When exiting, recompiled code transfers to this landing.
	s.endOfBlock = func(st *State) {
		st.current = nil
	}

	j.ClearState()
	return block, nil
}

// generateAddressLookupBlock builds the native subroutine that
// resolves a guest address to host bytes, specialized for the number
// of map entries: one emitted test per entry, last to first. Argument
// and result travel in the lookup slots of the state. A miss invokes
// the segfault handling; an MMIO match yields nil without a fault.
func generateAddressLookupBlock(s *State, nbMaps int) (*Block, error) {
	j, err := jit.NewState[State]()
	if err != nil {
		return nil, err
	}

	j.SetName("address_lookup")

	for i := nbMaps - 1; i >= 0; i-- {
		entry := i
		j.Append(func(st *State) {
			if st.lookupDone {
				return
			}
			m := &st.memMap[entry]
			if st.lookupAddr >= m.PC && st.lookupAddr-m.PC < m.Length {
				if m.Address != nil {
					st.lookupResult = m.Address[st.lookupAddr-m.PC:]
				}
				st.lookupDone = true
			}
		})
	}

	// No entry matched: report the fault. The result stays nil and
	// the caller must not dereference it.
	j.Append(func(st *State) {
		if !st.lookupDone {
			st.lookupResult = nil
			st.segfault(st.lookupAddr)
		}
		st.lookupDone = false
	})

	block := &Block{state: s, jitState: j}
	block.Function = j.Emit()
	j.ClearState()
	return block, nil
}
