package recompiler

/*
 * R3000 - Per-opcode emitter, jumps and branches
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

// Branches fold their delay slot into their own emission and return
// skipDelaySlot. Per MIPS semantics the branch condition and a jump
// register target are latched before the delay slot executes; link
// registers are written before it as well, so the slot observes the
// updated value.

import (
	"errors"

	dis "github.com/rcornwell/R3000/emu/disassemble"
	"github.com/rcornwell/R3000/emu/jit"
	op "github.com/rcornwell/R3000/emu/opcodemap"
)

// recDelaySlot emits the instruction in a branch's delay slot.
func recDelaySlot(blk *Block, next *dis.Opcode, pc uint32) (jit.Insn[State], error) {
	if next == nil || next.Raw == 0 {
		return nil, nil
	}
	if dis.IsBranch(next) || dis.IsExit(next) {
		return nil, errors.New("control transfer in delay slot")
	}
	insn, _, err := recOpcode(blk, next, nil, pc)
	return insn, err
}

// branchCond builds the condition of a conditional branch.
func branchCond(o *dis.Opcode) (func(s *State) bool, error) {
	rs, rt := o.Rs, o.Rt

	switch o.Op {
	case op.OpBEQ:
		return func(s *State) bool { return s.Regs[rs] == s.Regs[rt] }, nil
	case op.OpBNE:
		return func(s *State) bool { return s.Regs[rs] != s.Regs[rt] }, nil
	case op.OpBLEZ:
		return func(s *State) bool { return int32(s.Regs[rs]) <= 0 }, nil
	case op.OpBGTZ:
		return func(s *State) bool { return int32(s.Regs[rs]) > 0 }, nil
	case op.OpRegimm:
		switch o.Rt {
		case op.RiBLTZ, op.RiBLTZAL:
			return func(s *State) bool { return int32(s.Regs[rs]) < 0 }, nil
		case op.RiBGEZ, op.RiBGEZAL:
			return func(s *State) bool { return int32(s.Regs[rs]) >= 0 }, nil
		}
	}
	return nil, errors.New("unhandled branch condition")
}

func recBranch(blk *Block, o *dis.Opcode, next *dis.Opcode, pc uint32) (jit.Insn[State], int, error) {
	rc := blk.state.regCache

	// The link write precedes the delay slot at runtime, so drop any
	// tracked value before the slot is emitted.
	switch {
	case o.Op == op.OpJAL:
		rc.Invalidate(op.RegRA)
	case o.Op == op.OpSpecial && o.Fn == op.FnJALR:
		rc.Invalidate(o.Rd)
	case o.Op == op.OpRegimm && (o.Rt == op.RiBLTZAL || o.Rt == op.RiBGEZAL):
		rc.Invalidate(op.RegRA)
	}

	delay, err := recDelaySlot(blk, next, pc+4)
	if err != nil {
		return nil, 0, err
	}

	notTaken := pc + 8
	link := pc + 8

	switch {
	case o.Op == op.OpJ:
		target := dis.JumpTarget(o, pc)
		return func(s *State) {
			if delay != nil {
				delay(s)
			}
			s.NextPC = target
			s.BlockExitCycles = blk.Cycles
			s.exitDone = true
		}, skipDelaySlot, nil

	case o.Op == op.OpJAL:
		target := dis.JumpTarget(o, pc)
		return func(s *State) {
			setReg(s, op.RegRA, link)
			if delay != nil {
				delay(s)
			}
			s.NextPC = target
			s.BlockExitCycles = blk.Cycles
			s.exitDone = true
		}, skipDelaySlot, nil

	case o.Op == op.OpSpecial && o.Fn == op.FnJR:
		rs := o.Rs
		return func(s *State) {
			target := s.Regs[rs]
			if delay != nil {
				delay(s)
			}
			s.NextPC = target
			s.BlockExitCycles = blk.Cycles
			s.exitDone = true
		}, skipDelaySlot, nil

	case o.Op == op.OpSpecial && o.Fn == op.FnJALR:
		rs, rd := o.Rs, o.Rd
		return func(s *State) {
			target := s.Regs[rs]
			setReg(s, rd, link)
			if delay != nil {
				delay(s)
			}
			s.NextPC = target
			s.BlockExitCycles = blk.Cycles
			s.exitDone = true
		}, skipDelaySlot, nil
	}

	cond, err := branchCond(o)
	if err != nil {
		return nil, 0, err
	}
	target := dis.BranchTarget(o, pc)

	// The and-link conditions write r31 whether or not the branch is
	// taken.
	andLink := o.Op == op.OpRegimm && (o.Rt == op.RiBLTZAL || o.Rt == op.RiBGEZAL)

	return func(s *State) {
		taken := cond(s)
		if andLink {
			setReg(s, op.RegRA, link)
		}
		if delay != nil {
			delay(s)
		}
		if taken {
			s.NextPC = target
		} else {
			s.NextPC = notTaken
		}
		s.BlockExitCycles = blk.Cycles
		s.exitDone = true
	}, skipDelaySlot, nil
}
