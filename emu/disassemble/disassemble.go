package disassemble

/*
 * R3000 - MIPS-I instruction decoder
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

	op "github.com/rcornwell/R3000/emu/opcodemap"
)

// Opcode is one decoded MIPS instruction.
type Opcode struct {
	Raw    uint32 // Instruction word.
	Op     uint8  // Primary opcode.
	Rs     uint8
	Rt     uint8
	Rd     uint8
	Shamt  uint8
	Fn     uint8  // SPECIAL minor opcode.
	Imm    uint16 // Immediate field.
	Target uint32 // 26-bit jump field.
}

// Longest instruction sequence placed in a single block. A branch in
// the last place still brings its delay slot, one word past the cap.
const MaxBlockLength = 128

// DecodeWord fills in the fields of a single instruction word.
func DecodeWord(word uint32) Opcode {
	return Opcode{
		Raw:    word,
		Op:     op.Primary(word),
		Rs:     op.Rs(word),
		Rt:     op.Rt(word),
		Rd:     op.Rd(word),
		Shamt:  op.Shamt(word),
		Fn:     op.Funct(word),
		Imm:    op.Imm(word),
		Target: op.Target(word),
	}
}

// Decode disassembles an instruction stream into an opcode list. The
// list ends after the delay slot of the first control transfer, at a
// SYSCALL or BREAK, or at MaxBlockLength words.
func Decode(code []byte) ([]Opcode, error) {
	if len(code) < 4 {
		return nil, errors.New("instruction stream too short")
	}

	var list []Opcode
	for i := 0; i+4 <= len(code) && len(list) < MaxBlockLength; i += 4 {
		decoded := DecodeWord(binary.LittleEndian.Uint32(code[i:]))
		list = append(list, decoded)

		if IsExit(&decoded) {
			break
		}

		if IsBranch(&decoded) {
			// Include the delay slot, then end the block.
			if i+8 <= len(code) {
				list = append(list, DecodeWord(binary.LittleEndian.Uint32(code[i+4:])))
			}
			break
		}
	}
	return list, nil
}

// IsBranch reports whether the instruction has a delay slot.
func IsBranch(o *Opcode) bool {
	switch o.Op {
	case op.OpJ, op.OpJAL, op.OpBEQ, op.OpBNE, op.OpBLEZ, op.OpBGTZ, op.OpRegimm:
		return true
	case op.OpSpecial:
		return o.Fn == op.FnJR || o.Fn == op.FnJALR
	}
	return false
}

// IsExit reports whether the instruction ends a block without a delay slot.
func IsExit(o *Opcode) bool {
	return o.Op == op.OpSpecial && (o.Fn == op.FnSYSCALL || o.Fn == op.FnBREAK)
}

// CyclesOf returns the guest cycle cost of one instruction.
func CyclesOf(o *Opcode) uint32 {
	if o.Op == op.OpSpecial {
		switch o.Fn {
		case op.FnMULT, op.FnMULTU:
			return 9
		case op.FnDIV, op.FnDIVU:
			return 36
		}
	}
	return 1
}

var specialNames = map[uint8]string{
	op.FnSLL: "SLL", op.FnSRL: "SRL", op.FnSRA: "SRA",
	op.FnSLLV: "SLLV", op.FnSRLV: "SRLV", op.FnSRAV: "SRAV",
	op.FnJR: "JR", op.FnJALR: "JALR",
	op.FnSYSCALL: "SYSCALL", op.FnBREAK: "BREAK",
	op.FnMFHI: "MFHI", op.FnMTHI: "MTHI", op.FnMFLO: "MFLO", op.FnMTLO: "MTLO",
	op.FnMULT: "MULT", op.FnMULTU: "MULTU", op.FnDIV: "DIV", op.FnDIVU: "DIVU",
	op.FnADD: "ADD", op.FnADDU: "ADDU", op.FnSUB: "SUB", op.FnSUBU: "SUBU",
	op.FnAND: "AND", op.FnOR: "OR", op.FnXOR: "XOR", op.FnNOR: "NOR",
	op.FnSLT: "SLT", op.FnSLTU: "SLTU",
}

var regimmNames = map[uint8]string{
	op.RiBLTZ: "BLTZ", op.RiBGEZ: "BGEZ",
	op.RiBLTZAL: "BLTZAL", op.RiBGEZAL: "BGEZAL",
}

var immNames = map[uint8]string{
	op.OpADDI: "ADDI", op.OpADDIU: "ADDIU", op.OpSLTI: "SLTI",
	op.OpSLTIU: "SLTIU", op.OpANDI: "ANDI", op.OpORI: "ORI",
	op.OpXORI: "XORI",
}

var memNames = map[uint8]string{
	op.OpLB: "LB", op.OpLH: "LH", op.OpLWL: "LWL", op.OpLW: "LW",
	op.OpLBU: "LBU", op.OpLHU: "LHU", op.OpLWR: "LWR",
	op.OpSB: "SB", op.OpSH: "SH", op.OpSWL: "SWL", op.OpSW: "SW",
	op.OpSWR: "SWR", op.OpLWC2: "LWC2", op.OpSWC2: "SWC2",
}

// String formats one instruction at the given pc for debug output.
func String(o *Opcode, pc uint32) string {
	if o.Raw == 0 {
		return fmt.Sprintf("%08x: NOP", pc)
	}

	switch o.Op {
	case op.OpSpecial:
		name, ok := specialNames[o.Fn]
		if !ok {
			return fmt.Sprintf("%08x: .word %08x", pc, o.Raw)
		}
		switch o.Fn {
		case op.FnSLL, op.FnSRL, op.FnSRA:
			return fmt.Sprintf("%08x: %s r%d, r%d, %d", pc, name, o.Rd, o.Rt, o.Shamt)
		case op.FnJR:
			return fmt.Sprintf("%08x: JR r%d", pc, o.Rs)
		case op.FnJALR:
			return fmt.Sprintf("%08x: JALR r%d, r%d", pc, o.Rd, o.Rs)
		case op.FnSYSCALL, op.FnBREAK:
			return fmt.Sprintf("%08x: %s", pc, name)
		case op.FnMFHI, op.FnMFLO:
			return fmt.Sprintf("%08x: %s r%d", pc, name, o.Rd)
		case op.FnMTHI, op.FnMTLO:
			return fmt.Sprintf("%08x: %s r%d", pc, name, o.Rs)
		case op.FnMULT, op.FnMULTU, op.FnDIV, op.FnDIVU:
			return fmt.Sprintf("%08x: %s r%d, r%d", pc, name, o.Rs, o.Rt)
		default:
			return fmt.Sprintf("%08x: %s r%d, r%d, r%d", pc, name, o.Rd, o.Rs, o.Rt)
		}
	case op.OpRegimm:
		name, ok := regimmNames[o.Rt]
		if !ok {
			return fmt.Sprintf("%08x: .word %08x", pc, o.Raw)
		}
		return fmt.Sprintf("%08x: %s r%d, 0x%08x", pc, name, o.Rs, BranchTarget(o, pc))
	case op.OpJ, op.OpJAL:
		name := "J"
		if o.Op == op.OpJAL {
			name = "JAL"
		}
		return fmt.Sprintf("%08x: %s 0x%08x", pc, name, JumpTarget(o, pc))
	case op.OpBEQ, op.OpBNE:
		name := "BEQ"
		if o.Op == op.OpBNE {
			name = "BNE"
		}
		return fmt.Sprintf("%08x: %s r%d, r%d, 0x%08x", pc, name, o.Rs, o.Rt, BranchTarget(o, pc))
	case op.OpBLEZ, op.OpBGTZ:
		name := "BLEZ"
		if o.Op == op.OpBGTZ {
			name = "BGTZ"
		}
		return fmt.Sprintf("%08x: %s r%d, 0x%08x", pc, name, o.Rs, BranchTarget(o, pc))
	case op.OpLUI:
		return fmt.Sprintf("%08x: LUI r%d, 0x%04x", pc, o.Rt, o.Imm)
	case op.OpCP0, op.OpCP2:
		cop := (o.Op >> 1) & 1
		return fmt.Sprintf("%08x: COP%d 0x%07x", pc, cop*2, o.Raw&0x03ffffff)
	}

	if name, ok := immNames[o.Op]; ok {
		return fmt.Sprintf("%08x: %s r%d, r%d, 0x%04x", pc, name, o.Rt, o.Rs, o.Imm)
	}
	if name, ok := memNames[o.Op]; ok {
		return fmt.Sprintf("%08x: %s r%d, %d(r%d)", pc, name, o.Rt, int16(o.Imm), o.Rs)
	}
	return fmt.Sprintf("%08x: .word %08x", pc, o.Raw)
}

// BranchTarget computes the destination of a relative branch at pc.
func BranchTarget(o *Opcode, pc uint32) uint32 {
	return pc + 4 + (op.SignExt16(o.Imm) << 2)
}

// JumpTarget computes the destination of a J or JAL at pc.
func JumpTarget(o *Opcode, pc uint32) uint32 {
	return ((pc + 4) & 0xf0000000) | (o.Target << 2)
}
