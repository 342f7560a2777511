package assemble

/*
 * R3000 - MIPS-I instruction builders
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

// Builders for guest instruction words. Used by tests and the monitor
// to construct small programs without an external assembler.

import (
	"encoding/binary"

	op "github.com/rcornwell/R3000/emu/opcodemap"
)

func iType(opcode, rs, rt uint8, imm uint16) uint32 {
	return uint32(opcode)<<26 | uint32(rs&0x1f)<<21 | uint32(rt&0x1f)<<16 | uint32(imm)
}

func rType(rd, rs, rt, shamt, fn uint8) uint32 {
	return uint32(rs&0x1f)<<21 | uint32(rt&0x1f)<<16 | uint32(rd&0x1f)<<11 |
		uint32(shamt&0x1f)<<6 | uint32(fn&0x3f)
}

func jType(opcode uint8, target uint32) uint32 {
	return uint32(opcode)<<26 | (target>>2)&0x03ffffff
}

// Immediate forms.

func Addi(rt, rs uint8, imm uint16) uint32  { return iType(op.OpADDI, rs, rt, imm) }
func Addiu(rt, rs uint8, imm uint16) uint32 { return iType(op.OpADDIU, rs, rt, imm) }
func Slti(rt, rs uint8, imm uint16) uint32  { return iType(op.OpSLTI, rs, rt, imm) }
func Sltiu(rt, rs uint8, imm uint16) uint32 { return iType(op.OpSLTIU, rs, rt, imm) }
func Andi(rt, rs uint8, imm uint16) uint32  { return iType(op.OpANDI, rs, rt, imm) }
func Ori(rt, rs uint8, imm uint16) uint32   { return iType(op.OpORI, rs, rt, imm) }
func Xori(rt, rs uint8, imm uint16) uint32  { return iType(op.OpXORI, rs, rt, imm) }
func Lui(rt uint8, imm uint16) uint32       { return iType(op.OpLUI, 0, rt, imm) }

// Register forms.

func Add(rd, rs, rt uint8) uint32  { return rType(rd, rs, rt, 0, op.FnADD) }
func Addu(rd, rs, rt uint8) uint32 { return rType(rd, rs, rt, 0, op.FnADDU) }
func Sub(rd, rs, rt uint8) uint32  { return rType(rd, rs, rt, 0, op.FnSUB) }
func Subu(rd, rs, rt uint8) uint32 { return rType(rd, rs, rt, 0, op.FnSUBU) }
func And(rd, rs, rt uint8) uint32  { return rType(rd, rs, rt, 0, op.FnAND) }
func Or(rd, rs, rt uint8) uint32   { return rType(rd, rs, rt, 0, op.FnOR) }
func Xor(rd, rs, rt uint8) uint32  { return rType(rd, rs, rt, 0, op.FnXOR) }
func Nor(rd, rs, rt uint8) uint32  { return rType(rd, rs, rt, 0, op.FnNOR) }
func Slt(rd, rs, rt uint8) uint32  { return rType(rd, rs, rt, 0, op.FnSLT) }
func Sltu(rd, rs, rt uint8) uint32 { return rType(rd, rs, rt, 0, op.FnSLTU) }

// Shifts.

func Sll(rd, rt, sa uint8) uint32  { return rType(rd, 0, rt, sa, op.FnSLL) }
func Srl(rd, rt, sa uint8) uint32  { return rType(rd, 0, rt, sa, op.FnSRL) }
func Sra(rd, rt, sa uint8) uint32  { return rType(rd, 0, rt, sa, op.FnSRA) }
func Sllv(rd, rt, rs uint8) uint32 { return rType(rd, rs, rt, 0, op.FnSLLV) }
func Srlv(rd, rt, rs uint8) uint32 { return rType(rd, rs, rt, 0, op.FnSRLV) }
func Srav(rd, rt, rs uint8) uint32 { return rType(rd, rs, rt, 0, op.FnSRAV) }

// Multiply and divide.

func Mult(rs, rt uint8) uint32  { return rType(0, rs, rt, 0, op.FnMULT) }
func Multu(rs, rt uint8) uint32 { return rType(0, rs, rt, 0, op.FnMULTU) }
func Div(rs, rt uint8) uint32   { return rType(0, rs, rt, 0, op.FnDIV) }
func Divu(rs, rt uint8) uint32  { return rType(0, rs, rt, 0, op.FnDIVU) }
func Mfhi(rd uint8) uint32      { return rType(rd, 0, 0, 0, op.FnMFHI) }
func Mflo(rd uint8) uint32      { return rType(rd, 0, 0, 0, op.FnMFLO) }
func Mthi(rs uint8) uint32      { return rType(0, rs, 0, 0, op.FnMTHI) }
func Mtlo(rs uint8) uint32      { return rType(0, rs, 0, 0, op.FnMTLO) }

// Jumps and branches. Branch displacements are in instruction words
// relative to the delay slot.

func J(target uint32) uint32   { return jType(op.OpJ, target) }
func Jal(target uint32) uint32 { return jType(op.OpJAL, target) }
func Jr(rs uint8) uint32       { return rType(0, rs, 0, 0, op.FnJR) }
func Jalr(rd, rs uint8) uint32 { return rType(rd, rs, 0, 0, op.FnJALR) }

func Beq(rs, rt uint8, disp int16) uint32 { return iType(op.OpBEQ, rs, rt, uint16(disp)) }
func Bne(rs, rt uint8, disp int16) uint32 { return iType(op.OpBNE, rs, rt, uint16(disp)) }
func Blez(rs uint8, disp int16) uint32    { return iType(op.OpBLEZ, rs, 0, uint16(disp)) }
func Bgtz(rs uint8, disp int16) uint32    { return iType(op.OpBGTZ, rs, 0, uint16(disp)) }
func Bltz(rs uint8, disp int16) uint32    { return iType(op.OpRegimm, rs, op.RiBLTZ, uint16(disp)) }
func Bgez(rs uint8, disp int16) uint32    { return iType(op.OpRegimm, rs, op.RiBGEZ, uint16(disp)) }
func Bltzal(rs uint8, disp int16) uint32  { return iType(op.OpRegimm, rs, op.RiBLTZAL, uint16(disp)) }
func Bgezal(rs uint8, disp int16) uint32  { return iType(op.OpRegimm, rs, op.RiBGEZAL, uint16(disp)) }

// Loads and stores.

func Lb(rt, rs uint8, off int16) uint32  { return iType(op.OpLB, rs, rt, uint16(off)) }
func Lbu(rt, rs uint8, off int16) uint32 { return iType(op.OpLBU, rs, rt, uint16(off)) }
func Lh(rt, rs uint8, off int16) uint32  { return iType(op.OpLH, rs, rt, uint16(off)) }
func Lhu(rt, rs uint8, off int16) uint32 { return iType(op.OpLHU, rs, rt, uint16(off)) }
func Lw(rt, rs uint8, off int16) uint32  { return iType(op.OpLW, rs, rt, uint16(off)) }
func Lwl(rt, rs uint8, off int16) uint32 { return iType(op.OpLWL, rs, rt, uint16(off)) }
func Lwr(rt, rs uint8, off int16) uint32 { return iType(op.OpLWR, rs, rt, uint16(off)) }
func Sb(rt, rs uint8, off int16) uint32  { return iType(op.OpSB, rs, rt, uint16(off)) }
func Sh(rt, rs uint8, off int16) uint32  { return iType(op.OpSH, rs, rt, uint16(off)) }
func Sw(rt, rs uint8, off int16) uint32  { return iType(op.OpSW, rs, rt, uint16(off)) }
func Swl(rt, rs uint8, off int16) uint32 { return iType(op.OpSWL, rs, rt, uint16(off)) }
func Swr(rt, rs uint8, off int16) uint32 { return iType(op.OpSWR, rs, rt, uint16(off)) }

// System.

func Syscall() uint32 { return rType(0, 0, 0, 0, op.FnSYSCALL) }
func Break() uint32   { return rType(0, 0, 0, 0, op.FnBREAK) }
func Nop() uint32     { return 0 }

func Mfc0(rt, rd uint8) uint32 { return uint32(op.OpCP0)<<26 | uint32(rt&0x1f)<<16 | uint32(rd&0x1f)<<11 }
func Mtc0(rt, rd uint8) uint32 {
	return uint32(op.OpCP0)<<26 | uint32(op.CopMTC)<<21 | uint32(rt&0x1f)<<16 | uint32(rd&0x1f)<<11
}
func Rfe() uint32 { return uint32(op.OpCP0)<<26 | uint32(op.CopOp)<<21 | 0x10 }

// Program lays a sequence of instruction words into a byte slice in
// guest byte order.
func Program(words ...uint32) []byte {
	buf := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[4*i:], w)
	}
	return buf
}
