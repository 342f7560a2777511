package platform

/*
 * R3000 - Platform configuration tests
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
	"os"
	"path/filepath"
	"testing"

	config "github.com/rcornwell/R3000/config/configparser"
	asm "github.com/rcornwell/R3000/emu/assemble"
)

func loadConfig(t *testing.T, dir, text string) error {
	t.Helper()
	name := filepath.Join(dir, "r3000.cfg")
	if err := os.WriteFile(name, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return config.LoadConfigFile(name)
}

func TestConfigureMap(t *testing.T) {
	Reset()
	dir := t.TempDir()

	program := filepath.Join(dir, "boot.bin")
	if err := os.WriteFile(program, asm.Program(asm.Jr(31), asm.Nop()), 0o644); err != nil {
		t.Fatal(err)
	}

	err := loadConfig(t, dir, `
RAM ADDR=0x00000000 SIZE=0x10000
SCRATCH
CONSOLE ADDR=0x1f801050
PROGRAM `+program+` ADDR=0x80001000
`)
	if err != nil {
		t.Fatalf("config load failed: %v", err)
	}

	p := Current()
	maps := p.Maps()
	if len(maps) != 3 {
		t.Fatalf("map count got %d expected 3", len(maps))
	}
	if maps[0].PC != 0 || maps[0].Length != 0x10000 || maps[0].Address == nil {
		t.Errorf("RAM map got %+v", maps[0])
	}
	if maps[1].PC != DefScratchBase || maps[1].Length != DefScratchSize {
		t.Errorf("scratch map got %+v", maps[1])
	}
	if maps[2].Ops == nil || maps[2].Address != nil {
		t.Error("console map is not MMIO")
	}
	if len(p.Devices) != 1 {
		t.Errorf("devices got %d expected 1", len(p.Devices))
	}

	// The program landed at the stripped address and set the entry.
	if p.RAM[0x1000] != 0x08 || p.RAM[0x1003] != 0x03 {
		t.Errorf("program bytes got %02x %02x", p.RAM[0x1000], p.RAM[0x1003])
	}
	if p.Entry != 0x80001000 {
		t.Errorf("entry got %08x expected 80001000", p.Entry)
	}
}

func TestConfigureErrors(t *testing.T) {
	Reset()
	dir := t.TempDir()

	if err := loadConfig(t, dir, "RAM\nRAM\n"); err == nil {
		t.Error("duplicate RAM did not fail")
	}

	Reset()
	if err := loadConfig(t, dir, "RAM SIZE=huge\n"); err == nil {
		t.Error("bad size did not fail")
	}

	Reset()
	program := filepath.Join(dir, "none.bin")
	if err := loadConfig(t, dir, "PROGRAM "+program+"\n"); err == nil {
		t.Error("missing program file did not fail")
	}

	Reset()
	other := filepath.Join(dir, "some.bin")
	os.WriteFile(other, []byte{1, 2, 3, 4}, 0o644)
	if err := loadConfig(t, dir, "PROGRAM "+other+" ADDR=0x1000\n"); err == nil {
		t.Error("program without a region did not fail")
	}
}
