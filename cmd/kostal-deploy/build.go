package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/axeluhl/kostal/internal/deploy"
	"github.com/axeluhl/kostal/internal/message"
)

func runBuild(ctx context.Context, msg message.Msg, out io.Writer, args []string) error {
	var (
		v            deploy.Values
		passwordFile string
		output       string
		opts         deploy.BuildOptions
	)

	set := pflag.NewFlagSet("build", pflag.ContinueOnError)
	set.StringVar(&v.BaseURL, "baseurl", "", "base URL of the inverter REST API")
	set.StringVar(&v.Target, "target", "", "absolute path of the REST API script")
	set.StringVar(&passwordFile, "password-file", "", `read the password from this file, "-" for standard input (default: prompt)`)
	set.StringVarP(&output, "output", "o", "kostal-restapi", "write the launcher to this file")
	set.StringVar(&opts.Dir, "dir", "", "module root (default: current directory)")
	set.StringVar(&opts.Go, "go", "", "go command (default: go in PATH)")
	if err := parseFlags(set, msg, out, "build --baseurl URL --target PATH [--password-file FILE] [-o OUTPUT]", args); err != nil {
		return err
	}
	if set.NArg() != 0 {
		return usageError(fmt.Sprintf("unexpected argument %q", set.Arg(0)))
	}

	password, err := readPassword(passwordFile, os.Stdin)
	if err != nil {
		return err
	}
	v.Password = password

	if err = v.Validate(); err != nil {
		return err
	}

	opts.Stdout, opts.Stderr = os.Stderr, os.Stderr
	msg.Verbosef("building %s for target %s", output, v.Target)
	if err = deploy.Build(ctx, output, v, opts); err != nil {
		return fmt.Errorf("cannot build launcher: %w", err)
	}
	msg.Verbose("build complete, install with kostal-deploy install")
	return nil
}

// readPassword reads the password from name, from stdin for "-",
// or interactively from the terminal for the empty string.
func readPassword(name string, stdin *os.File) (string, error) {
	var (
		data []byte
		err  error
	)
	switch name {
	case "":
		fd := int(stdin.Fd())
		if !term.IsTerminal(fd) {
			return "", usageError("no terminal available for interactive password prompt (use --password-file)")
		}
		_, _ = fmt.Fprint(os.Stderr, "Password: ")
		data, err = term.ReadPassword(fd)
		_, _ = fmt.Fprintln(os.Stderr)

	case "-":
		data, err = io.ReadAll(stdin)

	default:
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("cannot read password: %w", err)
	}

	password := strings.TrimRight(string(data), "\r\n")
	clear(data)
	if password == "" {
		return "", usageError("password is empty")
	}
	return password, nil
}
