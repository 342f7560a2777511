package opcodemap

/*
 * R3000 - MIPS-I instruction encodings
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

// Primary opcodes, bits 31-26 of the instruction word.
const (
	OpSpecial uint8 = 0x00
	OpRegimm  uint8 = 0x01
	OpJ       uint8 = 0x02
	OpJAL     uint8 = 0x03
	OpBEQ     uint8 = 0x04
	OpBNE     uint8 = 0x05
	OpBLEZ    uint8 = 0x06
	OpBGTZ    uint8 = 0x07
	OpADDI    uint8 = 0x08
	OpADDIU   uint8 = 0x09
	OpSLTI    uint8 = 0x0a
	OpSLTIU   uint8 = 0x0b
	OpANDI    uint8 = 0x0c
	OpORI     uint8 = 0x0d
	OpXORI    uint8 = 0x0e
	OpLUI     uint8 = 0x0f
	OpCP0     uint8 = 0x10
	OpCP2     uint8 = 0x12
	OpLB      uint8 = 0x20
	OpLH      uint8 = 0x21
	OpLWL     uint8 = 0x22
	OpLW      uint8 = 0x23
	OpLBU     uint8 = 0x24
	OpLHU     uint8 = 0x25
	OpLWR     uint8 = 0x26
	OpSB      uint8 = 0x28
	OpSH      uint8 = 0x29
	OpSWL     uint8 = 0x2a
	OpSW      uint8 = 0x2b
	OpSWR     uint8 = 0x2e
	OpLWC2    uint8 = 0x32
	OpSWC2    uint8 = 0x3a
)

// SPECIAL minor opcodes, bits 5-0 when the primary opcode is zero.
const (
	FnSLL     uint8 = 0x00
	FnSRL     uint8 = 0x02
	FnSRA     uint8 = 0x03
	FnSLLV    uint8 = 0x04
	FnSRLV    uint8 = 0x06
	FnSRAV    uint8 = 0x07
	FnJR      uint8 = 0x08
	FnJALR    uint8 = 0x09
	FnSYSCALL uint8 = 0x0c
	FnBREAK   uint8 = 0x0d
	FnMFHI    uint8 = 0x10
	FnMTHI    uint8 = 0x11
	FnMFLO    uint8 = 0x12
	FnMTLO    uint8 = 0x13
	FnMULT    uint8 = 0x18
	FnMULTU   uint8 = 0x19
	FnDIV     uint8 = 0x1a
	FnDIVU    uint8 = 0x1b
	FnADD     uint8 = 0x20
	FnADDU    uint8 = 0x21
	FnSUB     uint8 = 0x22
	FnSUBU    uint8 = 0x23
	FnAND     uint8 = 0x24
	FnOR      uint8 = 0x25
	FnXOR     uint8 = 0x26
	FnNOR     uint8 = 0x27
	FnSLT     uint8 = 0x2a
	FnSLTU    uint8 = 0x2b
)

// REGIMM condition codes, rt field when the primary opcode is one.
const (
	RiBLTZ   uint8 = 0x00
	RiBGEZ   uint8 = 0x01
	RiBLTZAL uint8 = 0x10
	RiBGEZAL uint8 = 0x11
)

// Coprocessor sub-operations, rs field of COPz instructions.
const (
	CopMFC uint8 = 0x00
	CopCFC uint8 = 0x02
	CopMTC uint8 = 0x04
	CopCTC uint8 = 0x06
	CopOp  uint8 = 0x10 // rs >= CopOp is a coprocessor command
)

// Register conventions used by the emitter.
const (
	RegZero uint8 = 0  // Hardwired zero
	RegRA   uint8 = 31 // Link register
)

// Field extractors.

func Primary(word uint32) uint8 {
	return uint8(word >> 26)
}

func Rs(word uint32) uint8 {
	return uint8(word>>21) & 0x1f
}

func Rt(word uint32) uint8 {
	return uint8(word>>16) & 0x1f
}

func Rd(word uint32) uint8 {
	return uint8(word>>11) & 0x1f
}

func Shamt(word uint32) uint8 {
	return uint8(word>>6) & 0x1f
}

func Funct(word uint32) uint8 {
	return uint8(word) & 0x3f
}

func Imm(word uint32) uint16 {
	return uint16(word)
}

// Target returns the 26-bit jump field.
func Target(word uint32) uint32 {
	return word & 0x03ffffff
}

// SignExt16 sign extends a 16-bit immediate to 32 bits.
func SignExt16(imm uint16) uint32 {
	return uint32(int32(int16(imm)))
}
