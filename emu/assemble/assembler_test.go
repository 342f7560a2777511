package assemble

/*
 * R3000 - Instruction builder tests
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

// Encodings checked against an independent assembler.
func TestEncodings(t *testing.T) {
	tests := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"NOP", Nop(), 0x00000000},
		{"ADDIU r1,r0,1", Addiu(1, 0, 1), 0x24010001},
		{"ADDI r2,r3,-1", Addi(2, 3, 0xffff), 0x2062ffff},
		{"ORI r8,r8,0x1050", Ori(8, 8, 0x1050), 0x35081050},
		{"LUI r8,0x1f80", Lui(8, 0x1f80), 0x3c081f80},
		{"ADDU r1,r2,r3", Addu(1, 2, 3), 0x00430821},
		{"SLT r4,r5,r6", Slt(4, 5, 6), 0x00a6202a},
		{"SLL r1,r2,4", Sll(1, 2, 4), 0x00020900},
		{"JR r31", Jr(31), 0x03e00008},
		{"JALR r31,r2", Jalr(31, 2), 0x0040f809},
		{"J 0x1010", J(0x1010), 0x08000404},
		{"JAL 0x1010", Jal(0x1010), 0x0c000404},
		{"BEQ r1,r2,3", Beq(1, 2, 3), 0x10220003},
		{"BNE r0,r0,-3", Bne(0, 0, -3), 0x1400fffd},
		{"BLTZ r1,1", Bltz(1, 1), 0x04200001},
		{"BGEZAL r1,1", Bgezal(1, 1), 0x04310001},
		{"LW r2,4(r3)", Lw(2, 3, 4), 0x8c620004},
		{"SW r1,8(r2)", Sw(1, 2, 8), 0xac410008},
		{"LB r1,0(r2)", Lb(1, 2, 0), 0x80410000},
		{"LWL r1,3(r2)", Lwl(1, 2, 3), 0x88410003},
		{"SWR r1,0(r2)", Swr(1, 2, 0), 0xb8410000},
		{"MULT r1,r2", Mult(1, 2), 0x00220018},
		{"MFHI r3", Mfhi(3), 0x00001810},
		{"SYSCALL", Syscall(), 0x0000000c},
		{"BREAK", Break(), 0x0000000d},
		{"MFC0 r3,SR", Mfc0(3, 12), 0x40036000},
		{"MTC0 r3,SR", Mtc0(3, 12), 0x40836000},
		{"RFE", Rfe(), 0x42000010},
	}
	for _, test := range tests {
		if test.got != test.want {
			t.Errorf("%s got %08x expected %08x", test.name, test.got, test.want)
		}
	}
}

func TestProgram(t *testing.T) {
	buf := Program(Addiu(1, 0, 1), Jr(31))
	want := []byte{0x01, 0x00, 0x01, 0x24, 0x08, 0x00, 0xe0, 0x03}
	if len(buf) != len(want) {
		t.Fatalf("program length got %d expected %d", len(buf), len(want))
	}
	for i, by := range want {
		if buf[i] != by {
			t.Errorf("byte %d got %02x expected %02x", i, buf[i], by)
		}
	}
}
