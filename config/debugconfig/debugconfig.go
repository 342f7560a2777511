/*
 * R3000 - Debug option configuration
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

package debugconfig

import (
	"errors"
	"strings"

	config "github.com/rcornwell/R3000/config/configparser"
	"github.com/rcornwell/R3000/emu/recompiler"
)

// register the debug model on initialize.
func init() {
	config.RegisterModel("DEBUG", setDebug)
}

// Route per-module debug options:
//
//	DEBUG RECOMPILER BLOCKS DISASM
func setDebug(_ string, options []config.Option) error {
	if len(options) < 1 {
		return errors.New("debug requires a module name first")
	}

	module := strings.ToUpper(options[0].Name)
	if module != "RECOMPILER" {
		return errors.New("unknown debug module: " + options[0].Name)
	}

	for _, opt := range options[1:] {
		if err := recompiler.Debug(strings.ToUpper(opt.Name)); err != nil {
			return err
		}
	}
	return nil
}
