// Package beaverlog provides leveled logging fanned out to multiple
// destinations, each with its own level gate, filters and line format.
//
// Overview:
// A Logger holds an ordered set of destinations. Every log call captures the
// caller's file, function and line, asks each destination whether it wants
// the call and hands the accepted ones a shared Entry. The message is built
// lazily: a Fn variant's closure (or the fmt formatting of the plain and f
// variants) runs at most once, and not at all when no destination needs it.
//
// Key Features:
// - Seven levels: VERBOSE, DEBUG, INFO, WARNING, ERROR, CRITICAL, FAULT
// - Console, file, daily or hourly rotating file and HTTP destinations
// - Path, function and message filters with required, optional and
//   excluding semantics
// - $-directive line templates with dates, colors and caller info
// - JSON output with "$J"
// - Per-destination synchronous or asynchronous delivery, in call order
// - Rate limiting per destination
// - YAML and JSON configuration with environment overrides
//
// Getting Started:
//
//	package main
//
//	import "github.com/gourdian25/beaverlog"
//
//	func main() {
//	    console := beaverlog.NewConsoleDestination()
//	    console.SetMinLevel(beaverlog.INFO)
//
//	    log := beaverlog.New(console)
//	    defer log.Close()
//
//	    log.Info("Application starting")
//	    log.DebugFn(func() string { return expensive() }) // below INFO, never called
//	}
//
// The package-level functions (Info, Warningf, ErrorFn, ...) log through the
// process-wide logger returned by Default.
//
// Line Format:
//
// A template is split at "$"; the first character after each "$" selects
// a directive and the rest of the phrase is copied verbatim:
//
//	$L  level name           $M  message
//	$T  thread               $X  context value
//	$N  file without ext     $n  file with ext
//	$F  function             $l  line
//	$C  color start          $c  color reset
//	$D<layout>$d  local date $Z<layout>$z  UTC date
//
// Date layouts accept Go reference layouts and the tokens yyyy, MM, dd, HH,
// mm, ss and SSS. DefaultFormat is
//
//	$DHH:mm:ss.SSS$d $C$L$c $N.$F:$l - $M
//
// Filters:
//
// Exclusion filters veto a call when any of their values matches. If any
// required filters apply, they must all match; otherwise, if optional
// filters apply, at least one must match. Only when no inclusive filter
// applies does the destination's minimum level decide. A filter with its
// own minimum level is ignored for calls below it.
//
//	file := beaverlog.NewFileDestination("logs/app.log")
//	file.AddFilter(beaverlog.PathFilter(beaverlog.Contains("/billing/"), beaverlog.Required(true)))
//	file.AddFilter(beaverlog.MessageFilter(beaverlog.Excludes("password")))
//
// Rotation:
//
//	rotating := beaverlog.NewRotatingFileDestination("logs",
//	    beaverlog.FileNameTemplate{Name: "app", Extension: "log"},
//	    beaverlog.WithRotation(beaverlog.RotateDaily),
//	    beaverlog.WithDeletion(beaverlog.KeepQuantity(7)),
//	)
//
// writes app-2024-05-17.log today, switches files at midnight and keeps the
// seven most recent files.
//
// Configuration:
//
//	destinations:
//	  - type: console
//	    min_level: info
//	    colors: terminal
//	  - type: rotating
//	    directory: /var/log/app
//	    name: app
//	    extension: log
//	    keep: 14
//	    async: true
//	    filters:
//	      - target: function
//	        comparison: excludes
//	        values: [healthCheck]
//
// Load it with LoadConfig and build a logger with NewFromConfig. LOG_LEVEL,
// LOG_FORMAT and LOG_DIR override the file after ApplyEnvOverrides.
//
// Failures inside destinations never reach the caller. They go to the
// destination's error handler, or to the internal diagnostics logger on
// standard error (see SetInternalOutput).
package beaverlog
