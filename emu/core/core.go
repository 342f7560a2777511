package core

/*
 * R3000 - Execution driver
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

// The driver around the recompiler: runs blocks, routes SYSCALL and
// BREAK exits through coprocessor 0, and retires block cycles into the
// event scheduler.

import (
	"github.com/rcornwell/R3000/emu/cop0"
	"github.com/rcornwell/R3000/emu/event"
	"github.com/rcornwell/R3000/emu/recompiler"
)

type Core struct {
	State *recompiler.State
	Cop   *cop0.Cop0
	PC    uint32

	Cycles uint64 // Total retired guest cycles.
}

// New builds an engine over the given memory map with a standard
// coprocessor 0.
func New(argv0 string, maps []recompiler.MemMap, entry uint32) (*Core, error) {
	cop := cop0.New()
	state, err := recompiler.Init(argv0, maps, cop.Ops())
	if err != nil {
		return nil, err
	}
	return &Core{State: state, Cop: cop, PC: entry}, nil
}

// Destroy tears the engine down.
func (c *Core) Destroy() {
	c.State.Destroy()
}

// Step executes one block and handles its exit.
func (c *Core) Step() {
	next := c.State.Execute(c.PC)

	switch c.State.BlockExitFlags {
	case recompiler.ExitSyscall:
		next = c.Cop.Exception(cop0.ExcSyscall, c.State.NextPC)
	case recompiler.ExitBreak:
		next = c.Cop.Exception(cop0.ExcBreak, c.State.NextPC)
	}

	cycles := c.State.BlockExitCycles
	c.Cycles += uint64(cycles)
	event.Advance(cycles)
	c.PC = next
}

// Run executes blocks until the stop flag is raised or the block
// budget runs out. Returns the number of blocks executed.
func (c *Core) Run(maxBlocks int) int {
	n := 0
	for !c.State.Stop && n < maxBlocks {
		c.Step()
		n++
	}
	return n
}

// Stopped reports whether execution has been stopped.
func (c *Core) Stopped() bool {
	return c.State.Stop
}

// Resume clears the stop flag.
func (c *Core) Resume() {
	c.State.Stop = false
}
