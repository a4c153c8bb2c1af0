package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/axeluhl/kostal/internal/deploy"
	"github.com/axeluhl/kostal/internal/message"
	"github.com/axeluhl/kostal/internal/vfs"
)

var severityColor = map[deploy.Severity]*color.Color{
	deploy.OK:   color.New(color.FgGreen),
	deploy.Warn: color.New(color.FgYellow),
	deploy.Fail: color.New(color.FgRed, color.Bold),
}

func runCheck(msg message.Msg, out io.Writer, args []string) error {
	var (
		ownerName string
		groupName string
		p         deploy.CheckParams
	)

	set := pflag.NewFlagSet("check", pflag.ContinueOnError)
	set.StringVar(&ownerName, "owner", "", "user the launcher is expected to run as (default: root)")
	set.StringVar(&groupName, "group", "", "group execution is expected to be restricted to")
	set.StringVar(&p.Target, "target", "", "absolute path of the REST API script")
	if err := parseFlags(set, msg, out, "check [--owner USER] [--group GROUP] [--target PATH] ARTIFACT", args); err != nil {
		return err
	}
	if set.NArg() != 1 {
		return usageError("check takes exactly one argument")
	}
	p.Artifact = set.Arg(0)

	if ownerName != "" {
		owner, err := deploy.LookupOwner(ownerName)
		if err != nil {
			return err
		}
		p.Owner = owner.UID
	}
	if groupName != "" {
		gid, err := deploy.LookupGroup(groupName)
		if err != nil {
			return err
		}
		p.Restricted, p.Group = true, gid
	}

	if f, err := os.Open(vfs.MountInfoPath); err != nil {
		msg.Verbosef("skipping mount checks: %v", err)
	} else {
		p.Mounts, err = vfs.Load(f)
		_ = f.Close()
		if err != nil {
			return err
		}
	}

	r := deploy.Check(p)
	printReport(out, r)
	if r.Failed() {
		return errFailed
	}
	return nil
}

func printReport(out io.Writer, r deploy.Report) {
	for _, f := range r {
		if c, ok := severityColor[f.Severity]; ok {
			_, _ = c.Fprintln(out, f)
		} else {
			_, _ = fmt.Fprintln(out, f)
		}
	}
}
