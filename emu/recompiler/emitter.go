package recompiler

/*
 * R3000 - Per-opcode emitter, arithmetic and logic
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
	"fmt"

	dis "github.com/rcornwell/R3000/emu/disassemble"
	"github.com/rcornwell/R3000/emu/jit"
	op "github.com/rcornwell/R3000/emu/opcodemap"
)

// Returned by a branch emitter that folded its delay slot into its own
// emission.
const skipDelaySlot = 1

// setReg writes a guest register, discarding writes to r0.
func setReg(s *State, r uint8, v uint32) {
	if r != 0 {
		s.Regs[r] = v
	}
}

// recOpcode emits the host step for one decoded instruction at pc.
// next is the following opcode, consumed by branches as their delay
// slot.
func recOpcode(blk *Block, o *dis.Opcode, next *dis.Opcode, pc uint32) (jit.Insn[State], int, error) {
	switch o.Op {
	case op.OpSpecial:
		return recSpecial(blk, o, next, pc)
	case op.OpRegimm, op.OpJ, op.OpJAL, op.OpBEQ, op.OpBNE, op.OpBLEZ, op.OpBGTZ:
		return recBranch(blk, o, next, pc)
	case op.OpADDI, op.OpADDIU, op.OpSLTI, op.OpSLTIU, op.OpANDI, op.OpORI, op.OpXORI, op.OpLUI:
		insn, err := recALUImm(blk, o)
		return insn, 0, err
	case op.OpCP0, op.OpCP2:
		insn, err := recCop(blk, o)
		return insn, 0, err
	case op.OpLB, op.OpLBU, op.OpLH, op.OpLHU, op.OpLW, op.OpLWL, op.OpLWR,
		op.OpSB, op.OpSH, op.OpSW, op.OpSWL, op.OpSWR, op.OpLWC2, op.OpSWC2:
		insn, err := recMem(blk, o)
		return insn, 0, err
	}
	return nil, 0, fmt.Errorf("unhandled opcode 0x%02x", o.Op)
}

// aluImmFn gives the operation of an immediate-form ALU opcode.
// Overflow traps of ADDI are not implemented; it behaves as ADDIU, as
// on the shipped console titles this translator targets.
func aluImmFn(opcode uint8, imm uint16) func(a uint32) uint32 {
	simm := op.SignExt16(imm)
	zimm := uint32(imm)
	switch opcode {
	case op.OpADDI, op.OpADDIU:
		return func(a uint32) uint32 { return a + simm }
	case op.OpSLTI:
		return func(a uint32) uint32 {
			if int32(a) < int32(simm) {
				return 1
			}
			return 0
		}
	case op.OpSLTIU:
		return func(a uint32) uint32 {
			if a < simm {
				return 1
			}
			return 0
		}
	case op.OpANDI:
		return func(a uint32) uint32 { return a & zimm }
	case op.OpORI:
		return func(a uint32) uint32 { return a | zimm }
	case op.OpXORI:
		return func(a uint32) uint32 { return a ^ zimm }
	default: // OpLUI
		return func(uint32) uint32 { return zimm << 16 }
	}
}

func recALUImm(blk *Block, o *dis.Opcode) (jit.Insn[State], error) {
	rc := blk.state.regCache
	fn := aluImmFn(o.Op, o.Imm)
	rs := o.Rs
	rt := o.Rt

	if a, ok := rc.Known(rs); ok {
		rc.SetKnown(rt, fn(a))
	} else {
		rc.Invalidate(rt)
	}

	return func(s *State) {
		setReg(s, rt, fn(s.Regs[rs]))
	}, nil
}

// aluRegFn gives the operation of a three-register ALU opcode. ADD and
// SUB behave as their unsigned forms; overflow traps are not
// implemented.
func aluRegFn(fn uint8) func(a, b uint32) uint32 {
	switch fn {
	case op.FnADD, op.FnADDU:
		return func(a, b uint32) uint32 { return a + b }
	case op.FnSUB, op.FnSUBU:
		return func(a, b uint32) uint32 { return a - b }
	case op.FnAND:
		return func(a, b uint32) uint32 { return a & b }
	case op.FnOR:
		return func(a, b uint32) uint32 { return a | b }
	case op.FnXOR:
		return func(a, b uint32) uint32 { return a ^ b }
	case op.FnNOR:
		return func(a, b uint32) uint32 { return ^(a | b) }
	case op.FnSLT:
		return func(a, b uint32) uint32 {
			if int32(a) < int32(b) {
				return 1
			}
			return 0
		}
	case op.FnSLTU:
		return func(a, b uint32) uint32 {
			if a < b {
				return 1
			}
			return 0
		}
	}
	return nil
}

func recSpecial(blk *Block, o *dis.Opcode, next *dis.Opcode, pc uint32) (jit.Insn[State], int, error) {
	rc := blk.state.regCache

	switch o.Fn {
	case op.FnJR, op.FnJALR:
		return recBranch(blk, o, next, pc)

	case op.FnSLL, op.FnSRL, op.FnSRA:
		insn := recShiftImm(blk, o)
		return insn, 0, nil

	case op.FnSLLV, op.FnSRLV, op.FnSRAV:
		insn := recShiftReg(blk, o)
		return insn, 0, nil

	case op.FnMULT, op.FnMULTU, op.FnDIV, op.FnDIVU:
		insn := recMulDiv(o)
		return insn, 0, nil

	case op.FnMFHI:
		rd := o.Rd
		rc.Invalidate(rd)
		return func(s *State) { setReg(s, rd, s.HI) }, 0, nil
	case op.FnMFLO:
		rd := o.Rd
		rc.Invalidate(rd)
		return func(s *State) { setReg(s, rd, s.LO) }, 0, nil
	case op.FnMTHI:
		rs := o.Rs
		return func(s *State) { s.HI = s.Regs[rs] }, 0, nil
	case op.FnMTLO:
		rs := o.Rs
		return func(s *State) { s.LO = s.Regs[rs] }, 0, nil

	case op.FnSYSCALL, op.FnBREAK:
		flags := ExitSyscall
		if o.Fn == op.FnBREAK {
			flags = ExitBreak
		}
		at := pc
		return func(s *State) {
			s.NextPC = at
			s.BlockExitFlags = flags
			s.BlockExitCycles = blk.Cycles
			s.exitDone = true
		}, 0, nil
	}

	fn := aluRegFn(o.Fn)
	if fn == nil {
		return nil, 0, fmt.Errorf("unhandled special function 0x%02x", o.Fn)
	}

	rs, rt, rd := o.Rs, o.Rt, o.Rd
	a, aok := rc.Known(rs)
	b, bok := rc.Known(rt)
	if aok && bok {
		rc.SetKnown(rd, fn(a, b))
	} else {
		rc.Invalidate(rd)
	}

	return func(s *State) {
		setReg(s, rd, fn(s.Regs[rs], s.Regs[rt]))
	}, 0, nil
}

func recShiftImm(blk *Block, o *dis.Opcode) jit.Insn[State] {
	rc := blk.state.regCache
	rt, rd, sa := o.Rt, o.Rd, o.Shamt

	var fn func(v uint32) uint32
	switch o.Fn {
	case op.FnSLL:
		fn = func(v uint32) uint32 { return v << sa }
	case op.FnSRL:
		fn = func(v uint32) uint32 { return v >> sa }
	default: // FnSRA
		fn = func(v uint32) uint32 { return uint32(int32(v) >> sa) }
	}

	if v, ok := rc.Known(rt); ok {
		rc.SetKnown(rd, fn(v))
	} else {
		rc.Invalidate(rd)
	}

	return func(s *State) {
		setReg(s, rd, fn(s.Regs[rt]))
	}
}

func recShiftReg(blk *Block, o *dis.Opcode) jit.Insn[State] {
	rc := blk.state.regCache
	rs, rt, rd := o.Rs, o.Rt, o.Rd

	var fn func(v, sa uint32) uint32
	switch o.Fn {
	case op.FnSLLV:
		fn = func(v, sa uint32) uint32 { return v << (sa & 31) }
	case op.FnSRLV:
		fn = func(v, sa uint32) uint32 { return v >> (sa & 31) }
	default: // FnSRAV
		fn = func(v, sa uint32) uint32 { return uint32(int32(v) >> (sa & 31)) }
	}

	v, vok := rc.Known(rt)
	sa, saok := rc.Known(rs)
	if vok && saok {
		rc.SetKnown(rd, fn(v, sa))
	} else {
		rc.Invalidate(rd)
	}

	return func(s *State) {
		setReg(s, rd, fn(s.Regs[rt], s.Regs[rs]))
	}
}

func recMulDiv(o *dis.Opcode) jit.Insn[State] {
	rs, rt := o.Rs, o.Rt

	switch o.Fn {
	case op.FnMULT:
		return func(s *State) {
			prod := int64(int32(s.Regs[rs])) * int64(int32(s.Regs[rt]))
			s.LO = uint32(prod)
			s.HI = uint32(prod >> 32)
		}
	case op.FnMULTU:
		return func(s *State) {
			prod := uint64(s.Regs[rs]) * uint64(s.Regs[rt])
			s.LO = uint32(prod)
			s.HI = uint32(prod >> 32)
		}
	case op.FnDIV:
		return func(s *State) {
			num := int32(s.Regs[rs])
			den := int32(s.Regs[rt])
			switch {
			case den == 0:
				// Hardware leaves a defined garbage pattern.
				if num >= 0 {
					s.LO = 0xffffffff
				} else {
					s.LO = 1
				}
				s.HI = uint32(num)
			case num == -0x80000000 && den == -1:
				s.LO = 0x80000000
				s.HI = 0
			default:
				s.LO = uint32(num / den)
				s.HI = uint32(num % den)
			}
		}
	default: // FnDIVU
		return func(s *State) {
			num := s.Regs[rs]
			den := s.Regs[rt]
			if den == 0 {
				s.LO = 0xffffffff
				s.HI = num
			} else {
				s.LO = num / den
				s.HI = num % den
			}
		}
	}
}
