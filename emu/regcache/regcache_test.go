package regcache

/*
 * R3000 - Register cache tests
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

import "testing"

func TestZeroRegister(t *testing.T) {
	c := New()

	value, ok := c.Known(0)
	if !ok || value != 0 {
		t.Error("r0 not known zero after New")
	}

	c.SetKnown(0, 55)
	value, ok = c.Known(0)
	if !ok || value != 0 {
		t.Error("write to r0 was tracked")
	}

	c.Invalidate(0)
	if _, ok := c.Known(0); !ok {
		t.Error("r0 invalidated")
	}
}

func TestTracking(t *testing.T) {
	c := New()

	if _, ok := c.Known(5); ok {
		t.Error("fresh register reported known")
	}

	c.SetKnown(5, 0x1f801050)
	value, ok := c.Known(5)
	if !ok || value != 0x1f801050 {
		t.Errorf("known value got %08x,%v expected 1f801050,true", value, ok)
	}

	c.Invalidate(5)
	if _, ok := c.Known(5); ok {
		t.Error("invalidated register still known")
	}

	c.SetKnown(31, 7)
	c.Reset()
	if _, ok := c.Known(31); ok {
		t.Error("Reset kept a tracked value")
	}
	if _, ok := c.Known(0); !ok {
		t.Error("Reset lost r0")
	}
}

func TestOutOfRange(t *testing.T) {
	c := New()
	c.SetKnown(40, 1)
	if _, ok := c.Known(40); ok {
		t.Error("out of range register tracked")
	}
	c.Invalidate(40)
}
