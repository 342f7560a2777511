package recompiler

/*
 * R3000 - Dynamic recompiler core
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

// The engine translates short sequences of guest MIPS-I instructions
// into host threaded code at runtime and jumps into that code. The
// engine is single threaded and non-reentrant: no operation may be
// called concurrently with another on the same State.

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	dis "github.com/rcornwell/R3000/emu/disassemble"
	"github.com/rcornwell/R3000/emu/jit"
	"github.com/rcornwell/R3000/emu/regcache"
	"github.com/rcornwell/R3000/util/debug"
)

// Block exit flags.
const (
	ExitNormal uint32 = iota
	ExitSegfault
	ExitSyscall
	ExitBreak
)

// CopOps is the coprocessor operation table invoked by emitted code.
// The core treats it opaquely.
type CopOps struct {
	Mfc func(s *State, o *dis.Opcode, cop uint8, reg uint8) uint32
	Cfc func(s *State, o *dis.Opcode, cop uint8, reg uint8) uint32
	Mtc func(s *State, o *dis.Opcode, cop uint8, reg uint8, data uint32)
	Ctc func(s *State, o *dis.Opcode, cop uint8, reg uint8, data uint32)
	Op  func(s *State, o *dis.Opcode, cop uint8)
}

// State is one engine instance.
type State struct {
	Regs [32]uint32 // Guest general registers.
	HI   uint32
	LO   uint32

	NextPC          uint32 // Guest pc after the current block.
	Stop            bool
	BlockExitFlags  uint32
	BlockExitCycles uint32

	memMap     []MemMap
	blockCache *BlockCache
	regCache   *regcache.Cache
	copOps     *CopOps
	rwOp       RWFunc

	wrapper         *Block
	addrLookupBlock *Block
	addrLookup      jit.Func[State] // Hot copy of addrLookupBlock.Function.
	endOfBlock      jit.Func[State] // Landing translated code transfers to.

	current *Block

	// Calling convention slots for emitted code: the wrapper reads its
	// block entry from enter; the address-lookup trampoline takes its
	// argument and leaves its result here.
	enter        jit.Func[State]
	lookupAddr   uint32
	lookupResult []byte
	lookupDone   bool
	exitDone     bool

	segfaultHook func(s *State, addr uint32)
}

// Debug masks.
const (
	dbgBlock = 1 << iota // Trace block recompiles.
	dbgDisasm            // Dump disassembly of recompiled blocks.
	dbgExec              // Trace execute calls.
)

var debugOption = map[string]int{
	"BLOCKS": dbgBlock,
	"DISASM": dbgDisasm,
	"EXEC":   dbgExec,
}

var debugMsk int

// Enable debug option.
func Debug(opt string) error {
	mask, ok := debugOption[opt]
	if !ok {
		return errors.New("recompiler debug option invalid: " + opt)
	}
	debugMsk |= mask
	return nil
}

// Init creates an engine instance over the given memory map. The map
// is copied and immutable afterwards; the two trampolines are built
// here and live for the lifetime of the state.
func Init(argv0 string, maps []MemMap, copOps *CopOps) (*State, error) {
	jit.Init(argv0)

	s := &State{
		memMap:   append([]MemMap(nil), maps...),
		regCache: regcache.New(),
		copOps:   copOps,
	}
	s.blockCache = newBlockCache()
	s.rwOp = rw

	var err error
	s.wrapper, err = generateWrapperBlock(s)
	if err != nil {
		jit.Finish()
		return nil, fmt.Errorf("unable to compile wrapper: %w", err)
	}

	s.addrLookupBlock, err = generateAddressLookupBlock(s, len(s.memMap))
	if err != nil {
		freeBlock(s.wrapper)
		jit.Finish()
		return nil, fmt.Errorf("unable to compile address lookup block: %w", err)
	}
	s.addrLookup = s.addrLookupBlock.Function
	return s, nil
}

// Destroy releases everything the state owns: the register cache, the
// block cache with its blocks, the wrapper, the address-lookup block,
// then the assembler subsystem.
func (s *State) Destroy() {
	s.regCache = nil
	s.blockCache.FreeAll()
	freeBlock(s.wrapper)
	freeBlock(s.addrLookupBlock)
	jit.Finish()
}

// SetRWOp replaces the memory-access callback used by emitted slow
// paths. The default is the builtin interpreter.
func (s *State) SetRWOp(fn RWFunc) {
	s.rwOp = fn
}

// SetSegfaultHook installs an observer called after the builtin
// segfault handling has armed the stop flag.
func (s *State) SetSegfaultHook(fn func(s *State, addr uint32)) {
	s.segfaultHook = fn
}

// AddrLookup resolves a guest address to host bytes through the
// address-lookup trampoline. A miss reports a segfault and returns
// nil; an MMIO match returns nil without a fault.
func (s *State) AddrLookup(addr uint32) []byte {
	s.lookupAddr = addr
	s.addrLookup(s)
	res := s.lookupResult
	s.lookupResult = nil
	return res
}

// BlockCache exposes the engine's block cache.
func (s *State) BlockCache() *BlockCache {
	return s.blockCache
}

// Current returns the block presently executing, nil outside Execute.
func (s *State) Current() *Block {
	return s.current
}

// recompileBlock translates the instruction sequence at pc into a new
// block.
func (s *State) recompileBlock(pc uint32) (*Block, error) {
	code := s.FindCodeAddress(pc)
	if code == nil {
		return nil, fmt.Errorf("no code at pc 0x%08x", pc)
	}

	list, err := dis.Decode(code)
	if err != nil {
		return nil, err
	}

	j, err := jit.NewState[State]()
	if err != nil {
		return nil, err
	}

	s.regCache.Reset()

	block := &Block{
		PC:         pc,
		KunsegPC:   Kunseg(pc),
		state:      s,
		jitState:   j,
		OpcodeList: list,
		Code:       code,
	}

	// Translated code runs on the wrapper's frame; blocks emit no
	// prologue of their own.
	j.Frame(wrapperFrameSize)

	skipNext := false
	for i := range list {
		elm := &list[i]
		var next *dis.Opcode
		if i+1 < len(list) {
			next = &list[i+1]
		}

		// Cycles accumulate for a swallowed delay slot too: the guest
		// still executes the instruction.
		block.Cycles += dis.CyclesOf(elm)

		if skipNext {
			skipNext = false
			pc += 4
			continue
		}

		// Don't recompile NOPs.
		if elm.Raw == 0 {
			pc += 4
			continue
		}

		insn, flags, err := recOpcode(block, elm, next, pc)
		if err != nil {
			freeBlock(block)
			return nil, fmt.Errorf("pc 0x%08x: %w", pc, err)
		}
		if insn != nil {
			j.Append(insn)
		}
		skipNext = flags == skipDelaySlot
		pc += 4
	}

	// Epilogue: a block that fell through without a control transfer
	// continues at the next pc; every path then lands on end_of_block.
	endPC := pc
	j.Append(func(st *State) {
		if !st.exitDone {
			st.NextPC = endPC
			st.BlockExitCycles = block.Cycles
		}
		st.exitDone = false
		st.endOfBlock(st)
	})

	block.Function = j.Emit()
	j.ClearState()

	if debugMsk&dbgBlock != 0 {
		debug.Debugf("RECOMP", debugMsk, dbgBlock, "recompiled block at pc 0x%08x: %d ops, %d cycles",
			block.PC, len(block.OpcodeList), block.Cycles)
	}
	if debugMsk&dbgDisasm != 0 {
		debug.Debugf("RECOMP", debugMsk, dbgDisasm, "%s", disassembly(block))
	}
	return block, nil
}

// disassembly formats the source instructions of a block.
func disassembly(b *Block) string {
	var text strings.Builder
	pc := b.PC
	for i := range b.OpcodeList {
		text.WriteString(dis.String(&b.OpcodeList[i], pc))
		text.WriteByte('\n')
		pc += 4
	}
	return text.String()
}

// Execute runs guest code at pc until the entered block transfers out,
// returning the next guest pc. A missing block is recompiled and
// registered unconditionally; the single-thread contract means a
// duplicate recompile of the same pc cannot race. Recompile failures
// are logged and return pc unchanged.
func (s *State) Execute(pc uint32) uint32 {
	block := s.blockCache.Find(pc)
	if block == nil {
		var err error
		block, err = s.recompileBlock(pc)
		if err != nil {
			slog.Error("unable to recompile block: " + err.Error())
			return pc
		}
		s.blockCache.Register(block)
	}

	if debugMsk&dbgExec != 0 {
		debug.Debugf("RECOMP", debugMsk, dbgExec, "execute pc 0x%08x", pc)
	}

	s.BlockExitFlags = ExitNormal
	s.BlockExitCycles = 0
	s.current = block

	s.enter = block.Function
	s.wrapper.Function(s)
	return s.NextPC
}
