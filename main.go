/*
 * R3000 - PlayStation CPU dynamic recompiler
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

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	getopt "github.com/pborman/getopt/v2"
	reader "github.com/rcornwell/R3000/command/reader"
	config "github.com/rcornwell/R3000/config/configparser"
	core "github.com/rcornwell/R3000/emu/core"
	platform "github.com/rcornwell/R3000/emu/platform"
	logger "github.com/rcornwell/R3000/util/logger"

	_ "github.com/rcornwell/R3000/config/debugconfig"
)

var Logger *slog.Logger

const runSlice = 10000 // Blocks per scheduling slice when free running.

func main() {
	optConfig := getopt.StringLong("config", 'c', "r3000.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optMonitor := getopt.BoolLong("monitor", 'm', "Interactive monitor")
	optVerbose := getopt.BoolLong("verbose", 'v', "Mirror all log records to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logOut io.Writer
	if *optLogFile != "" {
		file, err := os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Can't create log file: "+err.Error())
			os.Exit(1)
		}
		logOut = file
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger = slog.New(logger.NewHandler(logOut, &slog.HandlerOptions{Level: programLevel}, *optVerbose))
	slog.SetDefault(Logger)

	Logger.Info("R3000 Started")

	_, err := os.Stat(*optConfig)
	if os.IsNotExist(err) {
		Logger.Error("Configuration file " + *optConfig + " can't be found")
		os.Exit(0)
	}

	if err := config.LoadConfigFile(*optConfig); err != nil {
		Logger.Error(err.Error())
		os.Exit(0)
	}

	plat := platform.Current()
	if len(plat.Maps()) == 0 {
		Logger.Error("Configuration defines no memory regions")
		os.Exit(0)
	}

	cpu, err := core.New(os.Args[0], plat.Maps(), plat.Entry)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}
	defer cpu.Destroy()
	defer plat.Shutdown()

	if *optMonitor {
		reader.ConsoleReader(cpu)
		Logger.Info("Shutting down")
		return
	}

	// Wait for a SIGINT or SIGTERM signal to gracefully shut down.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for !cpu.Stopped() {
		cpu.Run(runSlice)
		select {
		case <-sigChan:
			fmt.Println("Got quit signal")
			cpu.State.Stop = true
		default:
		}
	}

	Logger.Info(fmt.Sprintf("Stopped at pc 0x%08x after %d cycles, exit flags %d",
		cpu.PC, cpu.Cycles, cpu.State.BlockExitFlags))
}
