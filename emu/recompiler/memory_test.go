package recompiler

/*
 * R3000 - Memory interpreter tests
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
	"testing"

	asm "github.com/rcornwell/R3000/emu/assemble"
	dis "github.com/rcornwell/R3000/emu/disassemble"
)

const testRAMSize = 0x10000

// newTestState builds a state with one RAM region at guest zero.
func newTestState(t *testing.T) (*State, []byte) {
	t.Helper()
	ram := make([]byte, testRAMSize)
	maps := []MemMap{
		{PC: 0, Length: testRAMSize, Address: ram},
	}
	s, err := Init("test", maps, nil)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(s.Destroy)
	return s, ram
}

func rwOf(s *State, word uint32, addr uint32, data uint32) uint32 {
	decoded := dis.DecodeWord(word)
	return rw(s, &decoded, addr, data)
}

func TestKunseg(t *testing.T) {
	tests := []struct {
		addr uint32
		want uint32
	}{
		{0x00000000, 0x00000000},
		{0x00001234, 0x00001234},
		{0x7fffffff, 0x7fffffff},
		{0x80000000, 0x00000000},
		{0x80001234, 0x00001234},
		{0x9fc00000, 0x1fc00000},
		{0xa0000000, 0x00000000},
		{0xa0000100, 0x00000100},
		{0xbfc00180, 0x1fc00180},
	}
	for _, test := range tests {
		if got := Kunseg(test.addr); got != test.want {
			t.Errorf("Kunseg(%08x) got %08x expected %08x", test.addr, got, test.want)
		}
	}
}

func TestRWWidths(t *testing.T) {
	s, ram := newTestState(t)

	rwOf(s, asm.Sw(1, 2, 0), 0x100, 0xdeadbeef)
	want := []byte{0xef, 0xbe, 0xad, 0xde}
	for i, by := range want {
		if ram[0x100+i] != by {
			t.Errorf("SW byte %d got %02x expected %02x", i, ram[0x100+i], by)
		}
	}

	rwOf(s, asm.Sh(1, 2, 4), 0x100, 0x1234cafe)
	if binary.LittleEndian.Uint16(ram[0x104:]) != 0xcafe {
		t.Errorf("SH got %04x expected cafe", binary.LittleEndian.Uint16(ram[0x104:]))
	}

	rwOf(s, asm.Sb(1, 2, 6), 0x100, 0xab)
	if ram[0x106] != 0xab {
		t.Errorf("SB got %02x expected ab", ram[0x106])
	}

	if got := rwOf(s, asm.Lw(1, 2, 0), 0x100, 0); got != 0xdeadbeef {
		t.Errorf("LW got %08x expected deadbeef", got)
	}
	if got := rwOf(s, asm.Lhu(1, 2, 4), 0x100, 0); got != 0xcafe {
		t.Errorf("LHU got %08x expected 0000cafe", got)
	}
	if got := rwOf(s, asm.Lh(1, 2, 4), 0x100, 0); got != 0xffffcafe {
		t.Errorf("LH got %08x expected ffffcafe", got)
	}
	if got := rwOf(s, asm.Lbu(1, 2, 6), 0x100, 0); got != 0xab {
		t.Errorf("LBU got %08x expected 000000ab", got)
	}
	if got := rwOf(s, asm.Lb(1, 2, 6), 0x100, 0); got != 0xffffffab {
		t.Errorf("LB got %08x expected ffffffab", got)
	}
}

func TestRWNegativeOffset(t *testing.T) {
	s, ram := newTestState(t)

	rwOf(s, asm.Sw(1, 2, -8), 0x200, 0x01020304)
	if binary.LittleEndian.Uint32(ram[0x1f8:]) != 0x01020304 {
		t.Error("SW with negative offset missed")
	}
	if got := rwOf(s, asm.Lw(1, 2, -8), 0x200, 0); got != 0x01020304 {
		t.Errorf("LW with negative offset got %08x", got)
	}
}

func TestRWStoreLeft(t *testing.T) {
	s, ram := newTestState(t)
	data := uint32(0x11223344)

	// Merge results of SWL at each byte offset of a zeroed word.
	want := []uint32{0x00000011, 0x00001122, 0x00112233, 0x11223344}
	for shift := uint32(0); shift < 4; shift++ {
		binary.LittleEndian.PutUint32(ram[0x100:], 0)
		rwOf(s, asm.Swl(1, 2, 0), 0x100+shift, data)
		got := binary.LittleEndian.Uint32(ram[0x100:])
		if got != want[shift] {
			t.Errorf("SWL offset %d got %08x expected %08x", shift, got, want[shift])
		}
	}
}

func TestRWStoreRight(t *testing.T) {
	s, ram := newTestState(t)
	data := uint32(0x11223344)

	want := []uint32{0x11223344, 0x22334400, 0x33440000, 0x44000000}
	for shift := uint32(0); shift < 4; shift++ {
		binary.LittleEndian.PutUint32(ram[0x100:], 0)
		rwOf(s, asm.Swr(1, 2, 0), 0x100+shift, data)
		got := binary.LittleEndian.Uint32(ram[0x100:])
		if got != want[shift] {
			t.Errorf("SWR offset %d got %08x expected %08x", shift, got, want[shift])
		}
	}
}

// The little-endian unaligned store pair: SWR at the low end, SWL at
// the high end, recovers the word at any byte offset.
func TestRWUnalignedStorePair(t *testing.T) {
	s, ram := newTestState(t)
	data := uint32(0x11223344)

	for shift := uint32(0); shift < 4; shift++ {
		for i := 0; i < 8; i++ {
			ram[0x100+i] = 0
		}
		base := uint32(0x100) + shift
		rwOf(s, asm.Swr(1, 2, 0), base, data)
		rwOf(s, asm.Swl(1, 2, 3), base, data)

		got := binary.LittleEndian.Uint32(ram[base:])
		if got != data {
			t.Errorf("SWR/SWL pair offset %d got %08x expected %08x", shift, got, data)
		}
	}
}

func TestRWLoadLeft(t *testing.T) {
	s, ram := newTestState(t)
	binary.LittleEndian.PutUint32(ram[0x100:], 0x11223344)

	want := []uint32{0x44000000, 0x33440000, 0x22334400, 0x11223344}
	for shift := uint32(0); shift < 4; shift++ {
		got := rwOf(s, asm.Lwl(1, 2, 0), 0x100+shift, 0)
		if got != want[shift] {
			t.Errorf("LWL offset %d got %08x expected %08x", shift, got, want[shift])
		}
	}

	// The untouched low bytes come from the merge register.
	got := rwOf(s, asm.Lwl(1, 2, 0), 0x101, 0xaabbccdd)
	if got != 0x3344ccdd {
		t.Errorf("LWL merge got %08x expected 3344ccdd", got)
	}
}

func TestRWLoadRight(t *testing.T) {
	s, ram := newTestState(t)
	binary.LittleEndian.PutUint32(ram[0x100:], 0x11223344)

	want := []uint32{0x11223344, 0x00112233, 0x00001122, 0x00000011}
	for shift := uint32(0); shift < 4; shift++ {
		got := rwOf(s, asm.Lwr(1, 2, 0), 0x100+shift, 0)
		if got != want[shift] {
			t.Errorf("LWR offset %d got %08x expected %08x", shift, got, want[shift])
		}
	}

	got := rwOf(s, asm.Lwr(1, 2, 0), 0x103, 0xaabbccdd)
	if got != 0xaabbcc11 {
		t.Errorf("LWR merge got %08x expected aabbcc11", got)
	}
}

// LWR low, LWL high recovers an unaligned word into a zeroed register.
func TestRWUnalignedLoadPair(t *testing.T) {
	s, ram := newTestState(t)
	copy(ram[0x100:], []byte{0xaa, 0xbb, 0xcc, 0xdd, 0x11, 0x22, 0x33, 0x44})

	for shift := uint32(0); shift < 4; shift++ {
		base := uint32(0x100) + shift
		want := binary.LittleEndian.Uint32(ram[base:])

		reg := rwOf(s, asm.Lwr(1, 2, 0), base, 0)
		reg = rwOf(s, asm.Lwl(1, 2, 3), base, reg)
		if reg != want {
			t.Errorf("LWR/LWL pair offset %d got %08x expected %08x", shift, reg, want)
		}
	}
}

func TestRWKsegAlias(t *testing.T) {
	s, ram := newTestState(t)

	rwOf(s, asm.Sw(1, 2, 0), 0xa0000100, 0x55667788)
	if binary.LittleEndian.Uint32(ram[0x100:]) != 0x55667788 {
		t.Error("store through kseg1 missed physical memory")
	}
	if got := rwOf(s, asm.Lw(1, 2, 0), 0x80000100, 0); got != 0x55667788 {
		t.Errorf("load through kseg0 got %08x expected 55667788", got)
	}
	if got := rwOf(s, asm.Lbu(1, 2, 0), 0xa0000100, 0); got != 0x88 {
		t.Errorf("byte load through kseg1 got %08x expected 88", got)
	}
}

func TestRWSegfault(t *testing.T) {
	s, _ := newTestState(t)

	var faultAddr uint32
	s.SetSegfaultHook(func(_ *State, addr uint32) {
		faultAddr = addr
	})

	got := rwOf(s, asm.Lw(1, 2, 0), 0xffff0000, 0)
	if got != 0 {
		t.Errorf("faulting load got %08x expected 0", got)
	}
	if !s.Stop {
		t.Error("segfault did not raise stop")
	}
	if s.BlockExitFlags != ExitSegfault {
		t.Errorf("exit flags got %d expected %d", s.BlockExitFlags, ExitSegfault)
	}
	if faultAddr != 0xffff0000 {
		t.Errorf("segfault callback got %08x expected ffff0000", faultAddr)
	}
}

// MMIO regions dispatch on the raw address and the interpreter applies
// sign extension on the callback result.
func TestRWMMIO(t *testing.T) {
	var wrote []uint32
	readValue := uint32(0x80)

	ops := &MapOps{
		Sb: func(_ *State, _ *dis.Opcode, addr uint32, data uint8) {
			wrote = append(wrote, addr, uint32(data))
		},
		Sh: func(_ *State, _ *dis.Opcode, addr uint32, data uint16) {
			wrote = append(wrote, addr, uint32(data))
		},
		Sw: func(_ *State, _ *dis.Opcode, addr uint32, data uint32) {
			wrote = append(wrote, addr, data)
		},
		Lb: func(_ *State, _ *dis.Opcode, _ uint32) uint32 { return readValue },
		Lh: func(_ *State, _ *dis.Opcode, _ uint32) uint32 { return readValue },
		Lw: func(_ *State, _ *dis.Opcode, _ uint32) uint32 { return readValue },
	}

	ram := make([]byte, testRAMSize)
	maps := []MemMap{
		{PC: 0, Length: testRAMSize, Address: ram},
		{PC: 0x1f801000, Length: 0x100, Ops: ops},
	}
	s, err := Init("test", maps, nil)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer s.Destroy()

	rwOf(s, asm.Sb(1, 2, 0x10), 0x1f801000, 0x41)
	if len(wrote) != 2 || wrote[0] != 0x1f801010 || wrote[1] != 0x41 {
		t.Errorf("MMIO SB got %v", wrote)
	}

	if got := rwOf(s, asm.Lb(1, 2, 0), 0x1f801000, 0); got != 0xffffff80 {
		t.Errorf("MMIO LB got %08x expected ffffff80", got)
	}
	if got := rwOf(s, asm.Lbu(1, 2, 0), 0x1f801000, 0); got != 0x80 {
		t.Errorf("MMIO LBU got %08x expected 00000080", got)
	}
	// 0x0080 is positive as a halfword: LH extends bit 15, not bit 7.
	if got := rwOf(s, asm.Lh(1, 2, 0), 0x1f801000, 0); got != 0x00000080 {
		t.Errorf("MMIO LH got %08x expected 00000080", got)
	}
	if got := rwOf(s, asm.Lw(1, 2, 0), 0x1f801000, 0); got != 0x80 {
		t.Errorf("MMIO LW got %08x expected 00000080", got)
	}

	// The MMIO range matches the raw address, not the stripped one:
	// the same access through kseg1 bypasses the region and faults.
	rwOf(s, asm.Sb(1, 2, 0x10), 0xbf801000, 0x42)
	if !s.Stop || s.BlockExitFlags != ExitSegfault {
		t.Error("kseg1 alias of raw MMIO range should fault")
	}
}

// The lookup trampoline and FindCodeAddress agree on every mapped
// offset.
func TestAddressLookupAgreement(t *testing.T) {
	ram := make([]byte, 0x1000)
	bios := make([]byte, 0x200)
	maps := []MemMap{
		{PC: 0, Length: 0x1000, Address: ram},
		{PC: 0x1fc00000, Length: 0x200, Address: bios},
	}
	s, err := Init("test", maps, nil)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer s.Destroy()

	pcs := []uint32{0, 4, 0xffc, 0x1fc00000, 0x1fc001fc, 0x80000010, 0xa0000020, 0xbfc00004}
	for _, pc := range pcs {
		direct := s.FindCodeAddress(pc)
		tramp := s.AddrLookup(Kunseg(pc))
		if direct == nil || tramp == nil {
			t.Errorf("pc %08x: lookup returned nil", pc)
			continue
		}
		if &direct[0] != &tramp[0] {
			t.Errorf("pc %08x: trampoline and direct lookup disagree", pc)
		}
	}

	if s.FindCodeAddress(0x2000) != nil {
		t.Error("unmapped pc resolved")
	}

	// A trampoline miss reports the fault.
	var faultAddr uint32
	s.SetSegfaultHook(func(_ *State, addr uint32) { faultAddr = addr })
	if s.AddrLookup(0x2000) != nil {
		t.Error("trampoline resolved unmapped address")
	}
	if !s.Stop || faultAddr != 0x2000 {
		t.Error("trampoline miss did not report segfault")
	}
}

func TestGenmask(t *testing.T) {
	tests := []struct {
		h, l uint32
		want uint32
	}{
		{31, 0, 0xffffffff},
		{31, 9, 0xfffffe00},
		{31, 17, 0xfffe0000},
		{31, 25, 0xfe000000},
		{31, 32, 0x00000000},
		{31, 33, 0x00000000},
		{31, 24, 0xff000000},
		{7, 0, 0x000000ff},
	}
	for _, test := range tests {
		if got := genmask(test.h, test.l); got != test.want {
			t.Errorf("genmask(%d,%d) got %08x expected %08x", test.h, test.l, got, test.want)
		}
	}
}
