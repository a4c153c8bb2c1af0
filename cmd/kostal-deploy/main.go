// The kostal-deploy command builds, installs and audits kostal-restapi.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/axeluhl/kostal/internal/message"
)

var (
	errSuccess = errors.New("success")
	// errFailed is returned by a command that already reported its failure.
	errFailed = errors.New("failed")
)

// usageError is returned for invalid command lines.
type usageError string

func (e usageError) Error() string   { return string(e) }
func (e usageError) Message() string { return string(e) + ", see kostal-deploy --help" }

const usage = `Usage: kostal-deploy [-v] COMMAND [FLAGS] [ARGS]

Build, install and audit kostal-restapi, the launcher running the inverter
REST API script with a base URL and password embedded at build time.

Commands:
  build    compile the launcher with the base URL, password and target embedded
  install  copy a built launcher into place, owned by the given user, mode 04711
           or 04710 when restricted to a group
  check    audit an installed launcher, its target script and the mount table

Global flags:
`

func main() {
	log.SetFlags(0)
	log.SetPrefix("kostal-deploy: ")
	msg := message.New(log.Default())

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := run(ctx, msg, os.Stdout, os.Args[1:])
	stop()
	switch {
	case err == nil, errors.Is(err, errSuccess):
		os.Exit(0)
	case errors.Is(err, errFailed):
		os.Exit(1)
	default:
		msg.PrintError(err, "error:")
		os.Exit(1)
	}
}

func run(ctx context.Context, msg message.Msg, out io.Writer, args []string) error {
	set := pflag.NewFlagSet("kostal-deploy", pflag.ContinueOnError)
	set.SetOutput(out)
	set.SetInterspersed(false)
	verbose := set.BoolP("verbose", "v", false, "print verbose messages")
	set.Usage = func() {
		_, _ = fmt.Fprint(out, usage)
		set.PrintDefaults()
	}

	if err := set.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return errSuccess
		}
		return usageError(err.Error())
	}
	msg.SwapVerbose(*verbose)

	if set.NArg() == 0 {
		set.Usage()
		return usageError("no command specified")
	}

	command, args := set.Arg(0), set.Args()[1:]
	msg.Verbosef("running command %q", command)
	switch command {
	case "build":
		return runBuild(ctx, msg, out, args)
	case "install":
		return runInstall(msg, out, args)
	case "check":
		return runCheck(msg, out, args)
	case "help":
		set.Usage()
		return errSuccess
	default:
		return usageError(fmt.Sprintf("unknown command %q", command))
	}
}

// parseFlags parses args with set, handling help and the verbose flag the same way for every command.
func parseFlags(set *pflag.FlagSet, msg message.Msg, out io.Writer, synopsis string, args []string) error {
	verbose := set.BoolP("verbose", "v", msg.IsVerbose(), "print verbose messages")
	set.SetOutput(out)
	set.Usage = func() {
		_, _ = fmt.Fprintln(out, "Usage: kostal-deploy "+synopsis)
		_, _ = fmt.Fprintln(out)
		set.PrintDefaults()
	}
	err := set.Parse(args)
	msg.SwapVerbose(*verbose)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return errSuccess
		}
		return usageError(err.Error())
	}
	return nil
}
