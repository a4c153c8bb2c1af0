package launcher

const (
	// SUID_DUMP_DISABLE is the PR_SET_DUMPABLE value that disables core dumps and ptrace attach.
	SUID_DUMP_DISABLE = 0
)

// Launcher replaces the current process with Target.
type Launcher struct {
	// Target is the absolute path of the program receiving the credentials.
	Target string
	Credentials

	k syscallDispatcher
}

// New returns a [Launcher] operating on the current process.
func New(target string, c Credentials) *Launcher {
	return &Launcher{Target: target, Credentials: c, k: direct{}}
}

// Exec replaces the current process image with Target, preserving the
// effective identity of the process. It only returns on failure.
func (l *Launcher) Exec(args []string) error {
	l.k.lockOSThread()

	if err := l.k.setDumpable(SUID_DUMP_DISABLE); err != nil {
		return &Error{Step: "set dumpable", Err: err}
	}

	// interpreters discard an effective identity differing from the real one
	gid, egid := l.k.getgid(), l.k.getegid()
	if gid != egid {
		if err := l.k.setresgid(egid, egid, egid); err != nil {
			return &Error{Step: "set gid", Err: err}
		}
	}
	if uid, euid := l.k.getuid(), l.k.geteuid(); uid != euid {
		// supplementary groups of the caller can only be dropped with CAP_SETGID
		if euid == 0 {
			if err := l.k.setgroups([]int{egid}); err != nil {
				return &Error{Step: "set supplementary groups", Err: err}
			}
		}
		if err := l.k.setresuid(euid, euid, euid); err != nil {
			return &Error{Step: "set uid", Err: err}
		}
	}

	if err := l.k.setNoNewPrivs(); err != nil {
		return &Error{Step: "set no_new_privs flag", Err: err}
	}

	if err := l.k.exec(l.Target,
		Argv(l.Target, l.Credentials, args),
		Environ(l.k.environ()),
	); err != nil {
		return &Error{Step: "execute", Path: l.Target, Err: err}
	}
	return nil
}
