/*
 * R3000 - Monitor console reader
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

package reader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/rcornwell/R3000/command/parser"
	core "github.com/rcornwell/R3000/emu/core"
)

// Command history kept across monitor sessions.
const historyFile = ".r3000_history"

// historyPath locates the history file in the user's home directory.
func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

// ConsoleReader runs the interactive monitor until quit, ctrl-C or
// end of input.
func ConsoleReader(cpu *core.Core) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(parser.CompleteCmd)

	histPath := historyPath()
	if histPath != "" {
		if file, err := os.Open(histPath); err == nil {
			line.ReadHistory(file)
			file.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		file, err := os.Create(histPath)
		if err != nil {
			slog.Error("monitor: can't save history: " + err.Error())
			return
		}
		line.WriteHistory(file)
		file.Close()
	}()

	for {
		input, err := line.Prompt("R3000> ")
		switch {
		case err == nil:
		case errors.Is(err, liner.ErrPromptAborted), errors.Is(err, io.EOF):
			return
		default:
			slog.Error("monitor: " + err.Error())
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		done, err := parser.ProcessCommand(input, cpu)
		if err != nil {
			fmt.Println("Error: " + err.Error())
		}
		if done {
			return
		}
	}
}
