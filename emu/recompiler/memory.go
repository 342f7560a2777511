package recompiler

/*
 * R3000 - Guest memory map and access interpreter
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
	"fmt"
	"log/slog"

	dis "github.com/rcornwell/R3000/emu/disassemble"
	op "github.com/rcornwell/R3000/emu/opcodemap"
)

// MapOps is the callback table of an MMIO region. Loads return the raw
// bytes in the low bits; the interpreter applies sign extension for LB
// and LH after the callback.
type MapOps struct {
	Sb func(s *State, o *dis.Opcode, addr uint32, data uint8)
	Sh func(s *State, o *dis.Opcode, addr uint32, data uint16)
	Sw func(s *State, o *dis.Opcode, addr uint32, data uint32)
	Lb func(s *State, o *dis.Opcode, addr uint32) uint32
	Lh func(s *State, o *dis.Opcode, addr uint32) uint32
	Lw func(s *State, o *dis.Opcode, addr uint32) uint32
}

// MemMap is one guest memory region. Regions must be disjoint in their
// guest address ranges. A region with Ops set is MMIO: accesses invoke
// the callbacks instead of touching Address.
type MemMap struct {
	PC      uint32 // Guest base address.
	Length  uint32
	Address []byte // Backing bytes, nil for MMIO.
	Ops     *MapOps
}

// RWFunc executes one guest load or store.
type RWFunc func(s *State, o *dis.Opcode, addr uint32, data uint32) uint32

// Kunseg strips the PSX segment bits. kseg0 and kseg1 alias physical
// memory identically here; cache hints are ignored.
func Kunseg(addr uint32) uint32 {
	switch {
	case addr >= 0xa0000000:
		return addr - 0xa0000000
	case addr >= 0x80000000:
		return addr - 0x80000000
	default:
		return addr
	}
}

// genmask builds the bit mask with bits h down to l set. Computed at
// 64 bits so l > 31 collapses to zero, matching the word-store cases
// of the unaligned accesses.
func genmask(h, l uint32) uint32 {
	return uint32((^uint64(0) << l) & (^uint64(0) >> (63 - h)))
}

// segfault reports an invalid guest access and arms the stop flag. The
// block keeps running until it reaches the end-of-block landing.
func (s *State) segfault(addr uint32) {
	s.Stop = true
	s.BlockExitFlags = ExitSegfault
	slog.Error(fmt.Sprintf("segmentation fault in recompiled code: invalid load/store at address 0x%08x", addr))
	if s.segfaultHook != nil {
		s.segfaultHook(s, addr)
	}
}

// rwOps dispatches one access to an MMIO callback table.
func rwOps(s *State, o *dis.Opcode, ops *MapOps, addr uint32, data uint32) uint32 {
	switch o.Op {
	case op.OpSB:
		ops.Sb(s, o, addr, uint8(data))
		return 0
	case op.OpSH:
		ops.Sh(s, o, addr, uint16(data))
		return 0
	case op.OpSWL, op.OpSWR, op.OpSW:
		ops.Sw(s, o, addr, data)
		return 0
	case op.OpLB:
		return uint32(int32(int8(ops.Lb(s, o, addr))))
	case op.OpLBU:
		return ops.Lb(s, o, addr)
	case op.OpLH:
		return uint32(int32(int16(ops.Lh(s, o, addr))))
	case op.OpLHU:
		return ops.Lh(s, o, addr)
	default: // OpLW
		return ops.Lw(s, o, addr)
	}
}

// rw is the builtin memory-access interpreter. It executes one guest
// load or store against the memory map: addr is the base register
// value, data the store source (or the merge register for LWL/LWR).
func rw(s *State, o *dis.Opcode, addr uint32, data uint32) uint32 {
	addr += op.SignExt16(o.Imm)
	kaddr := Kunseg(addr)

	for i := range s.memMap {
		m := &s.memMap[i]

		if m.Ops != nil {
			// MMIO ranges match the raw address: PSX I/O regions are
			// declared at their kseg1 virtual addresses.
			if addr < m.PC || addr-m.PC >= m.Length {
				continue
			}
			return rwOps(s, o, m.Ops, addr, data)
		}

		if kaddr < m.PC || kaddr-m.PC >= m.Length {
			continue
		}

		mem := m.Address
		off := kaddr - m.PC
		aoff := off &^ 3

		switch o.Op {
		case op.OpSB:
			mem[off] = uint8(data)
			return 0
		case op.OpSH:
			binary.LittleEndian.PutUint16(mem[off:], uint16(data))
			return 0
		case op.OpSWL:
			shift := kaddr & 3
			memData := binary.LittleEndian.Uint32(mem[aoff:])
			mask := genmask(31, shift*8+9)
			binary.LittleEndian.PutUint32(mem[aoff:],
				(data>>((3-shift)*8))|(memData&mask))
			return 0
		case op.OpSWR:
			shift := kaddr & 3
			memData := binary.LittleEndian.Uint32(mem[aoff:])
			mask := (uint32(1) << (shift * 8)) - 1
			binary.LittleEndian.PutUint32(mem[aoff:],
				(data<<(shift*8))|(memData&mask))
			return 0
		case op.OpSW:
			binary.LittleEndian.PutUint32(mem[off:], data)
			return 0
		case op.OpLB:
			return uint32(int32(int8(mem[off])))
		case op.OpLBU:
			return uint32(mem[off])
		case op.OpLH:
			return uint32(int32(int16(binary.LittleEndian.Uint16(mem[off:]))))
		case op.OpLHU:
			return uint32(binary.LittleEndian.Uint16(mem[off:]))
		case op.OpLWL:
			shift := kaddr & 3
			memData := binary.LittleEndian.Uint32(mem[aoff:])
			mask := (uint32(1) << (24 - shift*8)) - 1
			return (data & mask) | (memData << (24 - shift*8))
		case op.OpLWR:
			shift := kaddr & 3
			memData := binary.LittleEndian.Uint32(mem[aoff:])
			mask := genmask(31, 32-shift*8)
			return (data & mask) | (memData >> (shift * 8))
		default: // OpLW
			return binary.LittleEndian.Uint32(mem[off:])
		}
	}

	s.segfault(addr)
	return 0
}

// FindCodeAddress resolves a guest pc to the host bytes backing it,
// or nil when no region contains the address.
func (s *State) FindCodeAddress(pc uint32) []byte {
	addr := Kunseg(pc)
	for i := range s.memMap {
		m := &s.memMap[i]
		if addr >= m.PC && addr-m.PC < m.Length && m.Address != nil {
			return m.Address[addr-m.PC:]
		}
	}
	return nil
}
