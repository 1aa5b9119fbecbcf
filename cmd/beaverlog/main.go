// Command beaverlog logs lines from standard input, or a single --message,
// through the destinations of a config file.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gourdian25/beaverlog"
	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
)

func main() {
	var (
		configPath = flag.StringP("config", "c", "", "YAML or JSON config file (default: colored console)")
		levelName  = flag.StringP("level", "l", "info", "level of every logged line")
		message    = flag.StringP("message", "m", "", "log this message instead of reading stdin")
		source     = flag.String("source", "stdin", "file name reported to filters and templates")
		timeout    = flag.Duration("flush-timeout", 5*time.Second, "time allowed to deliver pending lines on exit")
		verbose    = flag.BoolP("verbose", "v", false, "print the logger's own diagnostics")
	)
	flag.Parse()

	if *verbose {
		beaverlog.SetInternalLevel(beaverlog.DEBUG)
	}

	if err := run(*configPath, *levelName, *message, *source, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "beaverlog: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, levelName, message, source string, timeout time.Duration) error {
	level, err := beaverlog.ParseLevel(levelName)
	if err != nil {
		return err
	}

	cfg := beaverlog.DefaultConfig()
	if configPath != "" {
		if cfg, err = beaverlog.LoadConfig(configPath); err != nil {
			return err
		}
	}
	cfg.ApplyEnvOverrides()

	log, err := beaverlog.NewFromConfig(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to build logger")
	}
	defer log.Close()

	if message != "" {
		log.Log(level, func() string { return message }, source, "main", 1, nil)
	} else if err := logLines(log, os.Stdin, level, source); err != nil {
		return err
	}

	if !log.Flush(timeout) {
		return errors.New("timed out delivering log lines")
	}
	return nil
}

// logLines logs every line of r, using the line number as the caller line.
func logLines(log *beaverlog.Logger, r io.Reader, level beaverlog.Level, source string) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for n := 1; scanner.Scan(); n++ {
		text := scanner.Text()
		log.Log(level, func() string { return text }, source, "main", n, nil)
	}
	return errors.Wrap(scanner.Err(), "failed to read input")
}
