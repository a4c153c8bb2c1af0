package launcher

import (
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

// syscallDispatcher provides methods that make state-dependent system calls as part of their behaviour.
type syscallDispatcher interface {
	// lockOSThread provides [runtime.LockOSThread].
	lockOSThread()

	// getuid provides [os.Getuid].
	getuid() int
	// geteuid provides [os.Geteuid].
	geteuid() int
	// getgid provides [os.Getgid].
	getgid() int
	// getegid provides [os.Getegid].
	getegid() int
	// environ provides [os.Environ].
	environ() []string

	// setDumpable provides PR_SET_DUMPABLE.
	setDumpable(dumpable uintptr) error
	// setresgid provides [unix.Setresgid].
	setresgid(rgid, egid, sgid int) error
	// setgroups provides [unix.Setgroups].
	setgroups(gids []int) error
	// setresuid provides [unix.Setresuid].
	setresuid(ruid, euid, suid int) error
	// setNoNewPrivs provides PR_SET_NO_NEW_PRIVS on the calling thread.
	setNoNewPrivs() error
	// exec provides [unix.Exec].
	exec(argv0 string, argv, envv []string) error
}

// direct implements syscallDispatcher on the current kernel.
type direct struct{}

func (direct) lockOSThread() { runtime.LockOSThread() }

func (direct) getuid() int       { return os.Getuid() }
func (direct) geteuid() int      { return os.Geteuid() }
func (direct) getgid() int       { return os.Getgid() }
func (direct) getegid() int      { return os.Getegid() }
func (direct) environ() []string { return os.Environ() }

func (direct) setDumpable(dumpable uintptr) error {
	return unix.Prctl(unix.PR_SET_DUMPABLE, dumpable, 0, 0, 0)
}

func (direct) setresgid(rgid, egid, sgid int) error { return unix.Setresgid(rgid, egid, sgid) }
func (direct) setgroups(gids []int) error { return unix.Setgroups(gids) }
func (direct) setresuid(ruid, euid, suid int) error { return unix.Setresuid(ruid, euid, suid) }

// setNoNewPrivs only affects the calling thread, which is locked and later calls execve.
func (direct) setNoNewPrivs() error { return unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0) }

func (direct) exec(argv0 string, argv, envv []string) error { return unix.Exec(argv0, argv, envv) }
