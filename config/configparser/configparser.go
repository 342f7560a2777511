package configparser

/*
 * R3000 - Configuration file parser
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

// Each line names a registered model followed by its options. Options
// are bare words or NAME=VALUE pairs; file models take a file name as
// their first word. Blank lines and # comments are ignored.
//
//	RAM ADDR=0x00000000 SIZE=0x200000
//	BIOS bios.bin ADDR=0x1fc00000
//	DEBUG RECOMPILER BLOCKS DISASM
//	DEBUGFILE debug.log

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// One parsed option of a config line.
type Option struct {
	Name     string // Name of option.
	EqualOpt string // Value of string after =.
}

type createFunc func(model string, options []Option) error
type fileFunc func(fileName string, options []Option) error

var modelList = map[string]createFunc{}
var fileList = map[string]fileFunc{}

// RegisterModel attaches a creation handler to a model name.
func RegisterModel(model string, fn createFunc) {
	modelList[strings.ToUpper(model)] = fn
}

// RegisterFile attaches a handler to a model that takes a file name.
func RegisterFile(model string, fn fileFunc) {
	fileList[strings.ToUpper(model)] = fn
}

// ResetRegistry drops all registered models. Used by tests.
func ResetRegistry() {
	modelList = map[string]createFunc{}
	fileList = map[string]fileFunc{}
}

type optionLine struct {
	line string // Current line.
	pos  int    // Position in line.
}

func (line *optionLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

func (line *optionLine) isEOL() bool {
	line.skipSpace()
	return line.pos >= len(line.line) || line.line[line.pos] == '#'
}

// getWord collects the next blank- or =-delimited word, honoring
// double quotes.
func (line *optionLine) getWord() (string, error) {
	line.skipSpace()
	var word strings.Builder

	if line.pos < len(line.line) && line.line[line.pos] == '"' {
		line.pos++
		for {
			if line.pos >= len(line.line) {
				return "", errors.New("unterminated quoted string")
			}
			by := line.line[line.pos]
			line.pos++
			if by == '"' {
				return word.String(), nil
			}
			word.WriteByte(by)
		}
	}

	for line.pos < len(line.line) {
		by := line.line[line.pos]
		if unicode.IsSpace(rune(by)) || by == '=' || by == '#' {
			break
		}
		word.WriteByte(by)
		line.pos++
	}
	return word.String(), nil
}

// parseOptions collects the remaining NAME or NAME=VALUE words.
func (line *optionLine) parseOptions() ([]Option, error) {
	var options []Option
	for !line.isEOL() {
		name, err := line.getWord()
		if err != nil {
			return nil, err
		}
		if name == "" {
			return nil, errors.New("empty option name")
		}
		opt := Option{Name: name}
		if line.pos < len(line.line) && line.line[line.pos] == '=' {
			line.pos++
			opt.EqualOpt, err = line.getWord()
			if err != nil {
				return nil, err
			}
		}
		options = append(options, opt)
	}
	return options, nil
}

func (line *optionLine) parseLine() error {
	if line.isEOL() {
		return nil
	}

	model, err := line.getWord()
	if err != nil {
		return err
	}
	model = strings.ToUpper(model)

	if fn, ok := fileList[model]; ok {
		fileName, err := line.getWord()
		if err != nil {
			return err
		}
		if fileName == "" {
			return errors.New(model + " requires a file name")
		}
		options, err := line.parseOptions()
		if err != nil {
			return err
		}
		return fn(fileName, options)
	}

	fn, ok := modelList[model]
	if !ok {
		return errors.New("unknown model: " + model)
	}
	options, err := line.parseOptions()
	if err != nil {
		return err
	}
	return fn(model, options)
}

// LoadConfigFile reads a configuration file, handing each line to its
// registered model.
func LoadConfigFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := optionLine{line: scanner.Text()}
		if err := line.parseLine(); err != nil {
			return fmt.Errorf("%s line %d: %w", name, lineNum, err)
		}
	}
	return scanner.Err()
}

// Number parses a decimal or 0x-prefixed option value.
func Number(opt Option) (uint32, error) {
	value, err := strconv.ParseUint(opt.EqualOpt, 0, 32)
	if err != nil {
		return 0, errors.New(opt.Name + " must be a number: " + opt.EqualOpt)
	}
	return uint32(value), nil
}
