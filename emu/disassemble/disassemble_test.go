package disassemble

/*
 * R3000 - Disassembler tests
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
	"strings"
	"testing"

	asm "github.com/rcornwell/R3000/emu/assemble"
	op "github.com/rcornwell/R3000/emu/opcodemap"
)

func TestDecodeWord(t *testing.T) {
	decoded := DecodeWord(asm.Addiu(5, 3, 0x1234))
	if decoded.Op != op.OpADDIU || decoded.Rt != 5 || decoded.Rs != 3 || decoded.Imm != 0x1234 {
		t.Errorf("ADDIU decode got op=%02x rt=%d rs=%d imm=%04x",
			decoded.Op, decoded.Rt, decoded.Rs, decoded.Imm)
	}

	decoded = DecodeWord(asm.Sra(2, 7, 12))
	if decoded.Op != op.OpSpecial || decoded.Fn != op.FnSRA ||
		decoded.Rd != 2 || decoded.Rt != 7 || decoded.Shamt != 12 {
		t.Errorf("SRA decode got fn=%02x rd=%d rt=%d sa=%d",
			decoded.Fn, decoded.Rd, decoded.Rt, decoded.Shamt)
	}

	decoded = DecodeWord(asm.J(0x1010))
	if decoded.Op != op.OpJ || decoded.Target != 0x1010>>2 {
		t.Errorf("J decode got op=%02x target=%x", decoded.Op, decoded.Target)
	}
}

func TestDecodeStopsAfterBranch(t *testing.T) {
	code := asm.Program(
		asm.Addiu(1, 0, 1),
		asm.Jr(31),
		asm.Addiu(2, 0, 2), // delay slot
		asm.Addiu(3, 0, 3), // unreachable
	)
	list, err := Decode(code)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("list length got %d expected 3", len(list))
	}
	if !IsBranch(&list[1]) {
		t.Error("JR not classified as branch")
	}
	if IsBranch(&list[0]) || IsBranch(&list[2]) {
		t.Error("non branches classified as branch")
	}
}

func TestDecodeStopsAtSyscall(t *testing.T) {
	code := asm.Program(
		asm.Addiu(1, 0, 1),
		asm.Syscall(),
		asm.Addiu(2, 0, 2),
	)
	list, err := Decode(code)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list length got %d expected 2", len(list))
	}
	if !IsExit(&list[1]) {
		t.Error("SYSCALL not classified as exit")
	}

	code = asm.Program(asm.Break(), asm.Nop())
	list, _ = Decode(code)
	if len(list) != 1 || !IsExit(&list[0]) {
		t.Error("BREAK did not end the block")
	}
}

func TestDecodeLengthCap(t *testing.T) {
	words := make([]uint32, MaxBlockLength+32)
	for i := range words {
		words[i] = asm.Addiu(1, 1, 1)
	}
	list, err := Decode(asm.Program(words...))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(list) != MaxBlockLength {
		t.Errorf("list length got %d expected %d", len(list), MaxBlockLength)
	}

	if _, err := Decode(nil); err == nil {
		t.Error("empty stream did not return error")
	}
}

func TestCyclesOf(t *testing.T) {
	tests := []struct {
		word uint32
		want uint32
	}{
		{asm.Addiu(1, 0, 1), 1},
		{asm.Lw(1, 2, 0), 1},
		{asm.Mult(1, 2), 9},
		{asm.Multu(1, 2), 9},
		{asm.Div(1, 2), 36},
		{asm.Divu(1, 2), 36},
	}
	for _, test := range tests {
		decoded := DecodeWord(test.word)
		if got := CyclesOf(&decoded); got != test.want {
			t.Errorf("cycles of %08x got %d expected %d", test.word, got, test.want)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		word uint32
		want string
	}{
		{asm.Nop(), "00001000: NOP"},
		{asm.Addiu(1, 0, 1), "00001000: ADDIU r1, r0, 0x0001"},
		{asm.Jr(31), "00001000: JR r31"},
		{asm.Lw(2, 29, -4), "00001000: LW r2, -4(r29)"},
		{asm.Lui(8, 0x1f80), "00001000: LUI r8, 0x1f80"},
		{asm.Beq(1, 2, 3), "00001000: BEQ r1, r2, 0x00001010"},
		{asm.J(0x2000), "00001000: J 0x00002000"},
		{asm.Syscall(), "00001000: SYSCALL"},
	}
	for _, test := range tests {
		decoded := DecodeWord(test.word)
		if got := String(&decoded, 0x1000); got != test.want {
			t.Errorf("String got %q expected %q", got, test.want)
		}
	}

	decoded := DecodeWord(asm.Mfc0(3, 12))
	if !strings.HasPrefix(String(&decoded, 0), "00000000: COP0") {
		t.Errorf("COP0 formatting got %q", String(&decoded, 0))
	}
}

func TestBranchTargets(t *testing.T) {
	decoded := DecodeWord(asm.Bne(1, 0, -3))
	if got := BranchTarget(&decoded, 0x2008); got != 0x2000 {
		t.Errorf("backward branch target got %08x expected 00002000", got)
	}

	decoded = DecodeWord(asm.Jal(0x3000))
	if got := JumpTarget(&decoded, 0x80001000); got != 0x80003000 {
		t.Errorf("jump target got %08x expected 80003000", got)
	}
}
