package platform

/*
 * R3000 - Console memory map construction
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

// Builds the guest memory map from the configuration file. Region
// models register themselves with the config parser; loading the file
// fills in the current platform.

import (
	"errors"
	"fmt"
	"io"
	"os"

	config "github.com/rcornwell/R3000/config/configparser"
	"github.com/rcornwell/R3000/emu/device"
	"github.com/rcornwell/R3000/emu/recompiler"
)

// Default region layout of the stock console.
const (
	DefRAMBase     uint32 = 0x00000000
	DefRAMSize     uint32 = 0x200000
	DefScratchBase uint32 = 0x1f800000
	DefScratchSize uint32 = 0x400
	DefBIOSBase    uint32 = 0x1fc00000
	DefConsoleBase uint32 = 0x1f801050
	consoleSize    uint32 = 0x10

	ResetVector uint32 = 0xbfc00000
)

type Platform struct {
	RAM     []byte
	Scratch []byte
	BIOS    []byte

	Entry   uint32 // Program entry point, reset vector by default.
	Devices []device.Device
	ConOut  io.Writer // Console output, stdout by default.

	maps []recompiler.MemMap
}

var current = &Platform{Entry: ResetVector}

// Current returns the platform under construction.
func Current() *Platform {
	return current
}

// Reset discards the platform built so far.
func Reset() {
	current = &Platform{Entry: ResetVector}
}

// Maps returns the memory map in configuration order.
func (p *Platform) Maps() []recompiler.MemMap {
	return p.maps
}

// Shutdown closes every configured device.
func (p *Platform) Shutdown() {
	for _, d := range p.Devices {
		d.Shutdown()
	}
}

func addrAndSize(options []config.Option, addr, size uint32) (uint32, uint32, error) {
	for _, opt := range options {
		switch opt.Name {
		case "ADDR":
			value, err := config.Number(opt)
			if err != nil {
				return 0, 0, err
			}
			addr = value
		case "SIZE":
			value, err := config.Number(opt)
			if err != nil {
				return 0, 0, err
			}
			size = value
		default:
			return 0, 0, errors.New("unknown option: " + opt.Name)
		}
	}
	return addr, size, nil
}

// Create main memory.
func createRAM(_ string, options []config.Option) error {
	if current.RAM != nil {
		return errors.New("RAM already configured")
	}
	addr, size, err := addrAndSize(options, DefRAMBase, DefRAMSize)
	if err != nil {
		return err
	}
	current.RAM = make([]byte, size)
	current.maps = append(current.maps, recompiler.MemMap{
		PC: addr, Length: size, Address: current.RAM,
	})
	return nil
}

// Create the scratchpad.
func createScratch(_ string, options []config.Option) error {
	if current.Scratch != nil {
		return errors.New("SCRATCH already configured")
	}
	addr, size, err := addrAndSize(options, DefScratchBase, DefScratchSize)
	if err != nil {
		return err
	}
	current.Scratch = make([]byte, size)
	current.maps = append(current.maps, recompiler.MemMap{
		PC: addr, Length: size, Address: current.Scratch,
	})
	return nil
}

// Create the serial console MMIO region.
func createConsole(_ string, options []config.Option) error {
	addr, _, err := addrAndSize(options, DefConsoleBase, consoleSize)
	if err != nil {
		return err
	}
	out := current.ConOut
	if out == nil {
		out = os.Stdout
	}
	con := device.NewConsole(addr, out)
	current.Devices = append(current.Devices, con)
	current.maps = append(current.maps, recompiler.MemMap{
		PC: addr, Length: consoleSize, Ops: device.Ops(con),
	})
	return nil
}

// Load the BIOS image as a backed region. Guest stores to it are not
// blocked.
func loadBIOS(fileName string, options []config.Option) error {
	if current.BIOS != nil {
		return errors.New("BIOS already configured")
	}
	image, err := os.ReadFile(fileName)
	if err != nil {
		return fmt.Errorf("unable to read BIOS image: %w", err)
	}
	addr, _, err := addrAndSize(options, DefBIOSBase, 0)
	if err != nil {
		return err
	}
	current.BIOS = image
	current.maps = append(current.maps, recompiler.MemMap{
		PC: addr, Length: uint32(len(image)), Address: current.BIOS,
	})
	return nil
}

// Load a flat program image into an already configured region.
func loadProgram(fileName string, options []config.Option) error {
	image, err := os.ReadFile(fileName)
	if err != nil {
		return fmt.Errorf("unable to read program: %w", err)
	}

	addr := DefRAMBase
	entrySet := false
	for _, opt := range options {
		switch opt.Name {
		case "ADDR":
			if addr, err = config.Number(opt); err != nil {
				return err
			}
		case "ENTRY":
			if current.Entry, err = config.Number(opt); err != nil {
				return err
			}
			entrySet = true
		default:
			return errors.New("unknown option: " + opt.Name)
		}
	}

	kaddr := recompiler.Kunseg(addr)
	for i := range current.maps {
		m := &current.maps[i]
		if m.Address == nil || kaddr < m.PC || kaddr-m.PC >= m.Length {
			continue
		}
		if uint32(len(image)) > m.Length-(kaddr-m.PC) {
			return errors.New("program does not fit in region")
		}
		copy(m.Address[kaddr-m.PC:], image)
		if !entrySet {
			current.Entry = addr
		}
		return nil
	}
	return fmt.Errorf("no region for program at 0x%08x", addr)
}

// register the region models on initialize.
func init() {
	config.RegisterModel("RAM", createRAM)
	config.RegisterModel("SCRATCH", createScratch)
	config.RegisterModel("CONSOLE", createConsole)
	config.RegisterFile("BIOS", loadBIOS)
	config.RegisterFile("PROGRAM", loadProgram)
}

// Register re-adds the region models after a registry reset. Used by
// tests.
func Register() {
	config.RegisterModel("RAM", createRAM)
	config.RegisterModel("SCRATCH", createScratch)
	config.RegisterModel("CONSOLE", createConsole)
	config.RegisterFile("BIOS", loadBIOS)
	config.RegisterFile("PROGRAM", loadProgram)
}
