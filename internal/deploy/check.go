package deploy

import (
	"path/filepath"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/axeluhl/kostal/internal/launcher"
	"github.com/axeluhl/kostal/internal/vfs"
)

// CheckParams describes an installation to audit.
type CheckParams struct {
	// Artifact is the path of the installed launcher.
	Artifact string
	// Owner is the uid the launcher is expected to run as.
	Owner int
	// Restricted requires execution to be limited to members of Group.
	Restricted bool
	Group      int
	// Target is the program the launcher was built for. Target checks are skipped if empty.
	Target string
	// Mounts is the mount table of the host. Mount checks are skipped if nil.
	Mounts []*vfs.MountInfoEntry
}

// Check audits an installation against the deployment contract.
func Check(p CheckParams) Report {
	var r Report
	checkArtifact(&r, p)
	if p.Target != "" {
		checkTarget(&r, p)
	}
	if p.Mounts != nil {
		checkMounts(&r, p)
	}
	return r
}

func checkArtifact(r *Report, p CheckParams) {
	var st unix.Stat_t
	if err := unix.Stat(p.Artifact, &st); err != nil {
		r.add("artifact-stat", Fail, p.Artifact, err.Error())
		return
	}
	if st.Mode&unix.S_IFMT != unix.S_IFREG {
		r.add("artifact-regular", Fail, p.Artifact, "not a regular file")
		return
	}

	if int(st.Uid) != p.Owner {
		r.add("artifact-owner", Fail, p.Artifact, "owned by uid "+strconv.Itoa(int(st.Uid))+", want "+strconv.Itoa(p.Owner))
	} else {
		r.add("artifact-owner", OK, p.Artifact, "owned by uid "+strconv.Itoa(p.Owner))
	}

	if st.Mode&unix.S_ISUID == 0 {
		r.add("artifact-setuid", Fail, p.Artifact, "setuid bit is not set")
	} else {
		r.add("artifact-setuid", OK, p.Artifact, "setuid bit is set")
	}

	if st.Mode&(unix.S_IRGRP|unix.S_IROTH) != 0 {
		r.add("artifact-unreadable", Fail, p.Artifact, "readable by group or others, the password can be extracted")
	} else {
		r.add("artifact-unreadable", OK, p.Artifact, "not readable by group or others")
	}

	if st.Mode&(unix.S_IWGRP|unix.S_IWOTH) != 0 {
		r.add("artifact-writable", Fail, p.Artifact, "writable by group or others")
	} else {
		r.add("artifact-writable", OK, p.Artifact, "not writable by group or others")
	}

	if p.Restricted {
		checkArtifactGroup(r, p, &st)
		return
	}
	if st.Mode&unix.S_IXOTH == 0 {
		r.add("artifact-exec", Warn, p.Artifact, "not executable by others")
	} else {
		r.add("artifact-exec", OK, p.Artifact, "executable by others")
	}
}

// checkArtifactGroup checks that only members of p.Group can run the artifact.
func checkArtifactGroup(r *Report, p CheckParams, st *unix.Stat_t) {
	gid := strconv.Itoa(p.Group)
	if int(st.Gid) != p.Group {
		r.add("artifact-group", Fail, p.Artifact, "group is gid "+strconv.Itoa(int(st.Gid))+", want "+gid)
	} else {
		r.add("artifact-group", OK, p.Artifact, "group is gid "+gid)
	}

	if st.Mode&unix.S_IXGRP == 0 {
		r.add("artifact-exec", Fail, p.Artifact, "not executable by gid "+gid)
	} else {
		r.add("artifact-exec", OK, p.Artifact, "executable by gid "+gid)
	}

	if st.Mode&unix.S_IRWXO != 0 {
		r.add("artifact-other", Fail, p.Artifact, "accessible by users outside gid "+gid)
	} else {
		r.add("artifact-other", OK, p.Artifact, "not accessible by others")
	}
}

func checkTarget(r *Report, p CheckParams) {
	if err := launcher.CheckTarget(p.Target); err != nil {
		r.add("target-path", Fail, p.Target, err.Error())
		return
	}

	var st unix.Stat_t
	if err := unix.Stat(p.Target, &st); err != nil {
		r.add("target-stat", Fail, p.Target, err.Error())
		return
	}
	if st.Mode&unix.S_IFMT != unix.S_IFREG {
		r.add("target-regular", Fail, p.Target, "not a regular file")
		return
	}

	if st.Mode&(unix.S_IXUSR|unix.S_IXGRP|unix.S_IXOTH) == 0 {
		r.add("target-exec", Fail, p.Target, "not executable")
	} else {
		r.add("target-exec", OK, p.Target, "executable")
	}

	checkOwnedSafely(r, "target", p.Target, &st, p.Owner)

	// a writable ancestor allows replacing the target with a program printing its arguments
	for dir := filepath.Dir(p.Target); ; dir = filepath.Dir(dir) {
		var dst unix.Stat_t
		if err := unix.Stat(dir, &dst); err != nil {
			r.add("target-parent-stat", Fail, dir, err.Error())
			return
		}
		checkOwnedSafely(r, "target-parent", dir, &dst, p.Owner)
		if dir == "/" {
			break
		}
	}
}

// checkOwnedSafely reports whether only root or owner can modify the file described by st.
func checkOwnedSafely(r *Report, check, name string, st *unix.Stat_t, owner int) {
	if st.Uid != 0 && int(st.Uid) != owner {
		r.add(check+"-owner", Fail, name, "owned by uid "+strconv.Itoa(int(st.Uid)))
		return
	}

	writable := st.Mode&(unix.S_IWGRP|unix.S_IWOTH) != 0
	sticky := st.Mode&unix.S_IFMT == unix.S_IFDIR && st.Mode&unix.S_ISVTX != 0
	switch {
	case writable && !sticky:
		r.add(check+"-writable", Fail, name, "writable by group or others")
	case writable:
		r.add(check+"-writable", Warn, name, "writable by group or others with sticky bit set")
	default:
		r.add(check+"-writable", OK, name, "only modifiable by root or uid "+strconv.Itoa(owner))
	}
}

func checkMounts(r *Report, p CheckParams) {
	name := p.Artifact
	if resolved, err := filepath.EvalSymlinks(name); err == nil {
		name = resolved
	}
	if abs, err := filepath.Abs(name); err == nil {
		name = abs
	}

	if ent := vfs.Covering(p.Mounts, name); ent == nil {
		r.add("mount-nosuid", Warn, name, "no mount covers the artifact")
	} else if flags, _ := ent.Flags(); flags&unix.MS_NOSUID != 0 {
		r.add("mount-nosuid", Fail, ent.Target, "mounted nosuid, the setuid bit is ignored")
	} else {
		r.add("mount-nosuid", OK, ent.Target, "honours the setuid bit")
	}

	var proc *vfs.MountInfoEntry
	for _, ent := range p.Mounts {
		if ent.Target == "/proc" && ent.FsType == "proc" {
			proc = ent
		}
	}
	if proc == nil {
		r.add("proc-hidepid", Warn, "/proc", "procfs is not mounted")
		return
	}
	switch v, _ := proc.FsOption("hidepid"); v {
	case "1", "2", "4", "noaccess", "invisible", "ptraceable":
		r.add("proc-hidepid", OK, "/proc", "mounted with hidepid="+v)
	default:
		r.add("proc-hidepid", Warn, "/proc", "mounted without hidepid, the target command line including the password is visible to other users")
	}
}
