// xytu-function is a chat plugin that answers "<wake word> <status word>"
// with a host status report and "<wake word> <like word>" with ten OneBot
// profile likes. This command hosts the plugin on the console.
//
// Usage:
//
//	xytu-function [flags]
//
// Flags:
//
//	-config string       Path to configuration file (default: ~/.config/xytu-function/config.yaml)
//	-message string      Dispatch one message and print the replies
//	-sender string       Sender user id for -message and -repl
//	-sender-name string  Sender display name for -message and -repl
//	-platform string     Platform id for -message and -repl (default: aiocqhttp)
//	-repl                Read messages from stdin, one per line
//	-status              Print the host status
//	-watch               Launch the live status view
//	-interval duration   Refresh interval for -watch
//	-init-config         Write a default configuration file and exit
//	-verbose             Enable debug logging
//	-version             Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gitlab.com/tinyland/lab/xytu-function/config"
	"gitlab.com/tinyland/lab/xytu-function/display/color"
	"gitlab.com/tinyland/lab/xytu-function/display/preview"
	"gitlab.com/tinyland/lab/xytu-function/display/watch"
	"gitlab.com/tinyland/lab/xytu-function/internal/format"
	"gitlab.com/tinyland/lab/xytu-function/like"
	"gitlab.com/tinyland/lab/xytu-function/plugin"
	"gitlab.com/tinyland/lab/xytu-function/sysinfo"
	"gitlab.com/tinyland/lab/xytu-function/xytu"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// openLogger is replaced in tests to observe the log file being closed.
var openLogger = newLogger

// run executes the command and returns the process exit code. Deferred
// cleanup always runs before it returns.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("xytu-function", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath  = fs.String("config", "", "Path to configuration file (default: ~/.config/xytu-function/config.yaml)")
		message     = fs.String("message", "", "Dispatch one message and print the replies")
		senderID    = fs.String("sender", "", "Sender user id for -message and -repl")
		senderName  = fs.String("sender-name", "", "Sender display name for -message and -repl")
		platform    = fs.String("platform", "aiocqhttp", "Platform id for -message and -repl")
		runREPL     = fs.Bool("repl", false, "Read messages from stdin, one per line")
		showStatus  = fs.Bool("status", false, "Print the host status")
		runWatch    = fs.Bool("watch", false, "Launch the live status view")
		interval    = fs.Duration("interval", 0, "Refresh interval for -watch (0 = collector default)")
		initConfig  = fs.Bool("init-config", false, "Write a default configuration file and exit")
		verbose     = fs.Bool("verbose", false, "Enable debug logging")
		showVersion = fs.Bool("version", false, "Print version and exit")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Fprintf(stdout, "xytu-function %s (%s) built %s\n", version, commit, date)
		return 0
	}

	path := *configPath
	if path == "" {
		path = defaultConfigPath()
	}

	if *initConfig {
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(stderr, "config already exists: %s\n", path)
			return 1
		}
		if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
			fmt.Fprintf(stderr, "failed to write config: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "wrote %s\n", path)
		return 0
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 1
	}

	logger, closeLog, err := openLogger(cfg.Log, *verbose)
	if err != nil {
		fmt.Fprintf(stderr, "failed to open log: %v\n", err)
		return 1
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resolver := sysinfo.New(sysinfo.OptionsFromConfig(cfg.SysInfo), logger)

	switch {
	case *showStatus:
		snap := resolver.Snapshot(ctx)
		if f, ok := stdout.(*os.File); ok && color.Apply(f) {
			fmt.Fprintln(stdout, preview.Render(snap, preview.Options{Width: preview.TerminalWidth(f)}))
		} else {
			greeting := format.Greeting(time.Now().Hour())
			fmt.Fprintln(stdout, xytu.RenderStatus(greeting, consoleName(*senderName, *senderID), snap))
		}
		return 0

	case *runWatch:
		color.Apply(os.Stdout)
		if err := watch.Run(ctx, resolver, *interval, logger); err != nil {
			fmt.Fprintf(stderr, "watch error: %v\n", err)
			return 1
		}
		return 0

	case *message != "" || *runREPL:
		client, err := newClient(cfg.OneBot, logger)
		if err != nil {
			fmt.Fprintf(stderr, "onebot: %v\n", err)
			return 1
		}
		if client != nil {
			defer client.Close()
		}

		liker := like.New(caller(client), cfg.LikePlatforms(), logger)
		p := xytu.New(resolver, liker, logger)
		defer p.Close()

		reg := plugin.NewRegistry(logger)
		p.Register(reg)

		tmpl := plugin.Message{
			SenderID:   *senderID,
			SenderName: consoleName(*senderName, *senderID),
			Platform:   *platform,
		}

		if *runREPL {
			if err := serveREPL(ctx, reg, cfg, tmpl, stdin, stdout); err != nil {
				fmt.Fprintf(stderr, "repl error: %v\n", err)
				return 1
			}
			return 0
		}

		tmpl.Text = *message
		if n := dispatch(ctx, reg, cfg, tmpl, stdout); n == 0 {
			logger.Debug("no handler replied", "text", *message)
		}
		return 0
	}

	fmt.Fprintf(stdout, "xytu-function %s (%s) built %s\n", version, commit, date)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage: xytu-function [flags]")
	fmt.Fprintln(stdout)
	fs.SetOutput(stdout)
	fs.PrintDefaults()
	return 0
}

// defaultConfigPath returns ~/.config/xytu-function/config.yaml, or a
// relative config.yaml when the home directory is unknown.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "xytu-function", "config.yaml")
}

func consoleName(name, id string) string {
	if name != "" {
		return name
	}
	if id != "" {
		return id
	}
	return "console"
}
