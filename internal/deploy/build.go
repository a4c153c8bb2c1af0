package deploy

import (
	"context"
	"io"
	"os"
	"os/exec"
)

const (
	// LauncherPackage is the import path of the launcher command relative to the module root.
	LauncherPackage = "./cmd/kostal-restapi"
)

// BuildOptions configures [Build].
type BuildOptions struct {
	// Dir is the module root. The current directory is used if empty.
	Dir string
	// Go is the go command. "go" is looked up in PATH if empty.
	Go string
	// Stdout and Stderr receive the output of the go command.
	Stdout, Stderr io.Writer
}

// Build compiles the launcher to out with v embedded.
func Build(ctx context.Context, out string, v Values, opts BuildOptions) error {
	cmd, err := buildCommand(ctx, out, v, opts)
	if err != nil {
		return err
	}
	return cmd.Run()
}

func buildCommand(ctx context.Context, out string, v Values, opts BuildOptions) (*exec.Cmd, error) {
	ldflags, err := LinkerFlags("main", v)
	if err != nil {
		return nil, err
	}

	goBin := opts.Go
	if goBin == "" {
		goBin = "go"
	}

	// -trimpath also keeps -ldflags out of the embedded build information
	cmd := exec.CommandContext(ctx, goBin, "build",
		"-trimpath",
		"-ldflags", ldflags,
		"-o", out,
		LauncherPackage)
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	cmd.Stdout, cmd.Stderr = opts.Stdout, opts.Stderr
	return cmd, nil
}
