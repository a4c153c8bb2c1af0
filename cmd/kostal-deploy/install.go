package main

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/axeluhl/kostal/internal/deploy"
	"github.com/axeluhl/kostal/internal/message"
)

func runInstall(msg message.Msg, out io.Writer, args []string) error {
	var ownerName, groupName string

	set := pflag.NewFlagSet("install", pflag.ContinueOnError)
	set.StringVar(&ownerName, "owner", "", "user the launcher runs as, by name or uid")
	set.StringVar(&groupName, "group", "", "restrict execution to members of this group, by name or gid")
	if err := parseFlags(set, msg, out, "install --owner USER [--group GROUP] SRC DST", args); err != nil {
		return err
	}
	if ownerName == "" {
		return usageError("--owner is required")
	}
	if set.NArg() != 2 {
		return usageError("install takes exactly two arguments")
	}

	owner, err := deploy.LookupOwner(ownerName)
	if err != nil {
		return err
	}
	if groupName != "" {
		var gid int
		if gid, err = deploy.LookupGroup(groupName); err != nil {
			return err
		}
		owner = owner.Restrict(gid)
	}

	src, dst := set.Arg(0), set.Arg(1)
	msg.Verbosef("installing %s to %s as uid %d gid %d mode %v", src, dst, owner.UID, owner.GID, owner.Mode())
	if err = deploy.Install(src, dst, owner); err != nil {
		return fmt.Errorf("cannot install launcher: %w", err)
	}
	return nil
}
