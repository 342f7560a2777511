package regcache

/*
 * R3000 - Recompile-time register value tracking
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

// The register cache tracks, during a single block's recompile, which
// guest registers hold a value known at translation time (r0, and the
// results of LUI/ORI/ADDIU style immediate chains). The emitter uses
// known values to fold effective addresses and pre-resolve direct
// memory references. State is valid only within one straight-line
// block and is reset at each recompile start.

type Cache struct {
	known uint32 // Bitmask of registers with a known value.
	value [32]uint32
}

func New() *Cache {
	c := &Cache{}
	c.Reset()
	return c
}

// Reset discards all tracked values. r0 is always known zero.
func (c *Cache) Reset() {
	c.known = 1
	c.value = [32]uint32{}
}

// Known returns the compile-time value of a register, if any.
func (c *Cache) Known(reg uint8) (uint32, bool) {
	if reg > 31 || c.known&(1<<reg) == 0 {
		return 0, false
	}
	return c.value[reg], true
}

// SetKnown records that a register now holds a translation-time
// constant. Writes to r0 are discarded.
func (c *Cache) SetKnown(reg uint8, val uint32) {
	if reg == 0 || reg > 31 {
		return
	}
	c.known |= 1 << reg
	c.value[reg] = val
}

// Invalidate marks a register as holding a runtime-only value.
func (c *Cache) Invalidate(reg uint8) {
	if reg == 0 || reg > 31 {
		return
	}
	c.known &^= 1 << reg
}
