/*
 * R3000 - Monitor commands
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

package parser

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strings"

	core "github.com/rcornwell/R3000/emu/core"
	dis "github.com/rcornwell/R3000/emu/disassemble"
	"github.com/rcornwell/R3000/emu/recompiler"
	hex "github.com/rcornwell/R3000/util/hex"
)

const runBudget = 1000000 // Blocks per go command.

// Execute a number of blocks, default one.
func step(line *cmdLine, c *core.Core) (bool, error) {
	count := uint32(1)
	if !line.isEOL() {
		var err error
		if count, err = line.getNumber(); err != nil {
			return false, err
		}
	}
	for i := uint32(0); i < count; i++ {
		c.Step()
		if c.Stopped() {
			break
		}
	}
	fmt.Printf("pc=%08x cycles=%d\n", c.PC, c.Cycles)
	return false, nil
}

// Run until the stop flag or the block budget.
func cont(_ *cmdLine, c *core.Core) (bool, error) {
	c.Resume()
	n := c.Run(runBudget)
	fmt.Printf("executed %d blocks, pc=%08x cycles=%d\n", n, c.PC, c.Cycles)
	return false, nil
}

// Display registers.
func regs(_ *cmdLine, c *core.Core) (bool, error) {
	for i := 0; i < 32; i += 4 {
		fmt.Printf("r%-2d %08x  r%-2d %08x  r%-2d %08x  r%-2d %08x\n",
			i, c.State.Regs[i], i+1, c.State.Regs[i+1],
			i+2, c.State.Regs[i+2], i+3, c.State.Regs[i+3])
	}
	fmt.Printf("pc  %08x  hi  %08x  lo  %08x  exit %d\n",
		c.PC, c.State.HI, c.State.LO, c.State.BlockExitFlags)
	return false, nil
}

// Set a register: set r5 0x100, set pc 0xbfc00000.
func set(line *cmdLine, c *core.Core) (bool, error) {
	name := strings.ToLower(line.getWord())
	value, err := line.getNumber()
	if err != nil {
		return false, err
	}

	switch name {
	case "pc":
		c.PC = value
	case "hi":
		c.State.HI = value
	case "lo":
		c.State.LO = value
	default:
		var reg int
		if _, err := fmt.Sscanf(name, "r%d", &reg); err != nil || reg < 0 || reg > 31 {
			return false, errors.New("unknown register: " + name)
		}
		if reg != 0 {
			c.State.Regs[reg] = value
		}
	}
	return false, nil
}

// Dump memory words.
func mem(line *cmdLine, c *core.Core) (bool, error) {
	addr, err := line.getNumber()
	if err != nil {
		return false, err
	}
	count := uint32(4)
	if !line.isEOL() {
		if count, err = line.getNumber(); err != nil {
			return false, err
		}
	}

	for count > 0 {
		row := min(count, 4)
		bytes := c.State.FindCodeAddress(addr)
		if bytes == nil || uint32(len(bytes)) < 4*row {
			fmt.Printf("%08x: unmapped\n", addr)
			return false, nil
		}
		words := make([]uint32, row)
		for i := range words {
			words[i] = binary.LittleEndian.Uint32(bytes[4*i:])
		}
		var text strings.Builder
		hex.FormatWord(&text, words)
		fmt.Printf("%08x: %s\n", addr, text.String())
		addr += 4 * row
		count -= row
	}
	return false, nil
}

// Disassemble guest instructions.
func disasm(line *cmdLine, c *core.Core) (bool, error) {
	addr := c.PC
	if !line.isEOL() {
		var err error
		if addr, err = line.getNumber(); err != nil {
			return false, err
		}
	}
	count := uint32(8)
	if !line.isEOL() {
		var err error
		if count, err = line.getNumber(); err != nil {
			return false, err
		}
	}

	bytes := c.State.FindCodeAddress(addr)
	if bytes == nil || uint32(len(bytes)) < 4*count {
		return false, fmt.Errorf("no code at 0x%08x", addr)
	}
	for i := uint32(0); i < count; i++ {
		decoded := dis.DecodeWord(binary.LittleEndian.Uint32(bytes[4*i:]))
		fmt.Println(dis.String(&decoded, addr+4*i))
	}
	return false, nil
}

// Load a flat binary into guest memory.
func load(line *cmdLine, c *core.Core) (bool, error) {
	fileName := line.getWord()
	if fileName == "" {
		return false, errors.New("file name expected")
	}
	addr, err := line.getNumber()
	if err != nil {
		return false, err
	}

	image, err := os.ReadFile(fileName)
	if err != nil {
		return false, err
	}
	bytes := c.State.FindCodeAddress(addr)
	if bytes == nil || len(bytes) < len(image) {
		return false, fmt.Errorf("program does not fit at 0x%08x", addr)
	}
	copy(bytes, image)
	fmt.Printf("loaded %d bytes at %08x\n", len(image), addr)
	return false, nil
}

// Clear registers and restart at the given pc.
func reset(line *cmdLine, c *core.Core) (bool, error) {
	pc := recompiler.Kunseg(c.PC)
	if !line.isEOL() {
		var err error
		if pc, err = line.getNumber(); err != nil {
			return false, err
		}
	}
	c.State.Regs = [32]uint32{}
	c.State.HI = 0
	c.State.LO = 0
	c.State.Stop = false
	c.PC = pc
	return false, nil
}

func quit(_ *cmdLine, _ *core.Core) (bool, error) {
	return true, nil
}
