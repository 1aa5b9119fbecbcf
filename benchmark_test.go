package beaverlog

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func discardConsole() *ConsoleDestination {
	c := NewConsoleDestination()
	c.SetOutput(io.Discard)
	return c
}

func BenchmarkLogging(b *testing.B) {
	log := New(discardConsole())
	defer log.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.Info("benchmark log message")
	}
}

func BenchmarkLoggingFiltered(b *testing.B) {
	c := discardConsole()
	c.AddFilter(PathFilter(Contains("/vendor/"), Required(true)))
	c.AddFilter(MessageFilter(Excludes("secret")))
	log := New(c)
	defer log.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.Infof("benchmark log message %d", i)
	}
}

func BenchmarkLoggingBelowLevel(b *testing.B) {
	c := discardConsole()
	c.SetMinLevel(ERROR)
	log := New(c)
	defer log.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.Debugf("dropped %d", i)
	}
}

func BenchmarkAsyncLogging(b *testing.B) {
	c := discardConsole()
	c.SetAsync(true)
	log := New(c)
	defer log.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.Info("async benchmark log message")
	}
	b.StopTimer()
	log.Flush(10 * time.Second)
}

func BenchmarkJSONLogging(b *testing.B) {
	c := discardConsole()
	c.SetFormat(JSONFormat)
	log := New(c)
	defer log.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.Warning("json benchmark log message")
	}
}

func BenchmarkRotatingFile(b *testing.B) {
	r := NewRotatingFileDestination(filepath.Join(b.TempDir(), "bench"), FileNameTemplate{Name: "bench", Extension: "log"})
	log := New(r)
	defer log.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.Info("rotating benchmark log message")
	}
}
