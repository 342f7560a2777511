/*
 * R3000 - Monitor command parser
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

package parser

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	core "github.com/rcornwell/R3000/emu/core"
)

type cmd struct {
	name    string // Command name.
	min     int    // Minimum match size.
	process func(*cmdLine, *core.Core) (bool, error)
}

type cmdLine struct {
	line string // Current command.
	pos  int    // Position in line.
}

var cmdList = []cmd{
	{name: "step", min: 2, process: step},
	{name: "go", min: 1, process: cont},
	{name: "regs", min: 1, process: regs},
	{name: "set", min: 3, process: set},
	{name: "mem", min: 1, process: mem},
	{name: "dis", min: 1, process: disasm},
	{name: "load", min: 1, process: load},
	{name: "reset", min: 2, process: reset},
	{name: "quit", min: 1, process: quit},
}

// Execute the command line given.
func ProcessCommand(commandLine string, core *core.Core) (bool, error) {
	line := cmdLine{line: commandLine}
	command := line.getWord()
	if command == "" {
		return false, nil
	}

	match := matchList(command)
	if len(match) == 0 {
		return false, errors.New("command not found: " + command)
	}
	if len(match) > 1 {
		return false, errors.New("unique command not found: " + command)
	}

	return match[0].process(&line, core)
}

// Called to complete a command line, during line editing.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	var out []string
	for _, c := range cmdList {
		if strings.HasPrefix(c.name, strings.ToLower(name)) {
			out = append(out, c.name+" ")
		}
	}
	return out
}

// matchList finds the commands a possibly abbreviated name matches.
func matchList(name string) []cmd {
	name = strings.ToLower(name)
	var match []cmd
	for _, c := range cmdList {
		if len(name) < c.min || len(name) > len(c.name) {
			continue
		}
		if strings.HasPrefix(c.name, name) {
			match = append(match, c)
		}
	}
	return match
}

func (line *cmdLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

func (line *cmdLine) isEOL() bool {
	line.skipSpace()
	return line.pos >= len(line.line)
}

// getWord collects the next blank-delimited word.
func (line *cmdLine) getWord() string {
	line.skipSpace()
	start := line.pos
	for line.pos < len(line.line) && !unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
	return line.line[start:line.pos]
}

// getNumber collects a decimal or 0x-prefixed number.
func (line *cmdLine) getNumber() (uint32, error) {
	word := line.getWord()
	if word == "" {
		return 0, errors.New("number expected")
	}
	value, err := strconv.ParseUint(word, 0, 32)
	if err != nil {
		return 0, errors.New("not a number: " + word)
	}
	return uint32(value), nil
}
