// Command comview drives handles over an in-process foreign host, either
// from a script or through an interactive inspector.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/comsafe/async"
	"github.com/wippyai/comsafe/com"
	"github.com/wippyai/comsafe/foreign"
)

const defaultScript = "adopt,clone,query,upcast,drop-signed,release,start-task,poll,wait,stats"

func main() {
	var (
		script      = flag.String("script", "", "Comma-separated steps to run (default: "+defaultScript+")")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Log handle activity to stderr")
		taskDur     = flag.Duration("task-duration", 50*time.Millisecond, "How long started tasks run")
		waitFor     = flag.Duration("wait", time.Second, "Wait budget for the wait step")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = logger.Sync() }()
		com.SetLogger(logger)
		async.SetLogger(logger)
		foreign.SetLogger(logger)
	}

	s := newSession(*taskDur, *waitFor)

	if *interactive || (*script == "" && term.IsTerminal(int(os.Stdout.Fd()))) {
		if err := runInteractive(s); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *script == "" {
		*script = defaultScript
	}
	if err := run(s, *script); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(s *session, script string) error {
	lines, err := s.run(script)
	for _, line := range lines {
		fmt.Println(line)
	}

	fmt.Printf("\nHandles held: %d\n", len(s.handles()))
	for _, h := range s.handles() {
		fmt.Printf("  %s\n", h)
	}

	if cerr := s.close(); cerr != nil && err == nil {
		err = cerr
	}
	fmt.Printf("\nAfter release: %s\n", s.stats())
	for _, v := range s.host.Violations() {
		fmt.Printf("  violation: %s on %s during %s\n", v.Kind, v.Object, v.Op)
	}
	return err
}
