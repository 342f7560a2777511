package recompiler

/*
 * R3000 - Per-opcode emitter, loads, stores and coprocessor moves
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
	"encoding/binary"
	"errors"
	"fmt"

	dis "github.com/rcornwell/R3000/emu/disassemble"
	"github.com/rcornwell/R3000/emu/jit"
	op "github.com/rcornwell/R3000/emu/opcodemap"
)

func isLoad(opcode uint8) bool {
	switch opcode {
	case op.OpLB, op.OpLBU, op.OpLH, op.OpLHU, op.OpLW, op.OpLWL, op.OpLWR:
		return true
	}
	return false
}

// directWidth returns the access width of the opcodes eligible for the
// pre-resolved fast path. The merging unaligned forms always take the
// interpreter.
func directWidth(opcode uint8) int {
	switch opcode {
	case op.OpLB, op.OpLBU, op.OpSB:
		return 1
	case op.OpLH, op.OpLHU, op.OpSH:
		return 2
	case op.OpLW, op.OpSW:
		return 4
	}
	return 0
}

// directMatch scans the map the way the interpreter does and returns
// the backing region when the access resolves to plain host memory.
func directMatch(s *State, addr, kaddr uint32) *MemMap {
	for i := range s.memMap {
		m := &s.memMap[i]
		if m.Ops != nil {
			if addr >= m.PC && addr-m.PC < m.Length {
				return nil
			}
			continue
		}
		if kaddr >= m.PC && kaddr-m.PC < m.Length {
			return m
		}
	}
	return nil
}

// recMem emits one load or store. When the base register holds a value
// known at translation time and the access resolves to plain host
// memory, the host pointer is pre-resolved through the address-lookup
// trampoline and the access is emitted inline; everything else goes
// through the rw callback.
func recMem(blk *Block, o *dis.Opcode) (jit.Insn[State], error) {
	st := blk.state
	rc := st.regCache
	rs, rt := o.Rs, o.Rt
	load := isLoad(o.Op)

	if o.Op == op.OpLWC2 || o.Op == op.OpSWC2 {
		return recMemCop2(blk, o)
	}

	if load {
		defer rc.Invalidate(rt)
	}

	width := directWidth(o.Op)
	if base, ok := rc.Known(rs); ok && width != 0 {
		addr := base + op.SignExt16(o.Imm)
		kaddr := Kunseg(addr)
		if m := directMatch(st, addr, kaddr); m != nil && m.Length-(kaddr-m.PC) >= uint32(width) {
			mem := st.AddrLookup(kaddr)
			return recMemDirect(o, mem)
		}
	}

	return func(s *State) {
		v := s.rwOp(s, o, s.Regs[rs], s.Regs[rt])
		if load {
			setReg(s, rt, v)
		}
	}, nil
}

// recMemDirect emits an access against pre-resolved host bytes.
func recMemDirect(o *dis.Opcode, mem []byte) (jit.Insn[State], error) {
	rt := o.Rt

	switch o.Op {
	case op.OpSB:
		return func(s *State) { mem[0] = uint8(s.Regs[rt]) }, nil
	case op.OpSH:
		return func(s *State) { binary.LittleEndian.PutUint16(mem, uint16(s.Regs[rt])) }, nil
	case op.OpSW:
		return func(s *State) { binary.LittleEndian.PutUint32(mem, s.Regs[rt]) }, nil
	case op.OpLB:
		return func(s *State) { setReg(s, rt, uint32(int32(int8(mem[0])))) }, nil
	case op.OpLBU:
		return func(s *State) { setReg(s, rt, uint32(mem[0])) }, nil
	case op.OpLH:
		return func(s *State) {
			setReg(s, rt, uint32(int32(int16(binary.LittleEndian.Uint16(mem)))))
		}, nil
	case op.OpLHU:
		return func(s *State) { setReg(s, rt, uint32(binary.LittleEndian.Uint16(mem))) }, nil
	case op.OpLW:
		return func(s *State) { setReg(s, rt, binary.LittleEndian.Uint32(mem)) }, nil
	}
	return nil, fmt.Errorf("opcode 0x%02x has no direct form", o.Op)
}

// recMemCop2 routes the GTE load and store words through the
// coprocessor table, with the memory side done by the rw callback as a
// plain word access.
func recMemCop2(blk *Block, o *dis.Opcode) (jit.Insn[State], error) {
	if blk.state.copOps == nil {
		return nil, errors.New("no coprocessor ops installed")
	}
	rs, rt := o.Rs, o.Rt

	word := *o
	if o.Op == op.OpLWC2 {
		word.Op = op.OpLW
		return func(s *State) {
			v := s.rwOp(s, &word, s.Regs[rs], 0)
			s.copOps.Mtc(s, &word, 2, rt, v)
		}, nil
	}

	word.Op = op.OpSW
	return func(s *State) {
		v := s.copOps.Mfc(s, &word, 2, rt)
		s.rwOp(s, &word, s.Regs[rs], v)
	}, nil
}

// recCop emits the coprocessor move and command forms.
func recCop(blk *Block, o *dis.Opcode) (jit.Insn[State], error) {
	if blk.state.copOps == nil {
		return nil, errors.New("no coprocessor ops installed")
	}
	rc := blk.state.regCache
	cop := uint8(0)
	if o.Op == op.OpCP2 {
		cop = 2
	}
	rt, rd := o.Rt, o.Rd

	switch o.Rs {
	case op.CopMFC:
		rc.Invalidate(rt)
		return func(s *State) { setReg(s, rt, s.copOps.Mfc(s, o, cop, rd)) }, nil
	case op.CopCFC:
		rc.Invalidate(rt)
		return func(s *State) { setReg(s, rt, s.copOps.Cfc(s, o, cop, rd)) }, nil
	case op.CopMTC:
		return func(s *State) { s.copOps.Mtc(s, o, cop, rd, s.Regs[rt]) }, nil
	case op.CopCTC:
		return func(s *State) { s.copOps.Ctc(s, o, cop, rd, s.Regs[rt]) }, nil
	}

	if o.Rs >= op.CopOp {
		return func(s *State) { s.copOps.Op(s, o, cop) }, nil
	}
	return nil, fmt.Errorf("unhandled coprocessor sub-op 0x%02x", o.Rs)
}
