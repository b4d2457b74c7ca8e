package args

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"
)

type flagName struct {
	name string
	val  int
}

// flagNames lists the open(2) flags that can be set or reported. oDirect
// is 0 on platforms without O_DIRECT and is skipped there.
var flagNames = []flagName{
	{"wronly", os.O_WRONLY},
	{"rdwr", os.O_RDWR},
	{"nonblock", syscall.O_NONBLOCK},
	{"append", os.O_APPEND},
	{"excl", os.O_EXCL},
	{"creat", os.O_CREATE},
	{"trunc", os.O_TRUNC},
	{"sync", os.O_SYNC},
	{"direct", oDirect},
}

// parseFlags applies a comma separated iflag/oflag list to *flag.
func parseFlags(flag *int, list string) error {
	v := *flag
	for _, s := range strings.Split(list, ",") {
		s = strings.ToLower(strings.TrimSpace(s))
		switch s {
		case "":
		case "excl":
			v |= os.O_EXCL
		case "trunc":
			v |= os.O_TRUNC
		case "sync":
			v |= os.O_SYNC
		case "nonblock":
			v |= syscall.O_NONBLOCK
		case "notrunc":
			v &^= os.O_TRUNC
		case "nocreat", "nocreate":
			v &^= os.O_CREATE
		case "direct":
			if oDirect == 0 {
				return fmt.Errorf("flag %q is not supported on this platform", s)
			}
			v |= oDirect
		default:
			return fmt.Errorf("unknown flag %q", s)
		}
	}

	if v&os.O_EXCL != 0 && v&os.O_CREATE == 0 {
		slog.Warn("excl without creat is meaningless; ignoring excl")
		v &^= os.O_EXCL
	}
	*flag = v
	return nil
}

// FlagString renders open(2) flags as a comma separated list.
func FlagString(flag int) string {
	var names []string
	for _, f := range flagNames {
		if f.val != 0 && flag&f.val == f.val {
			names = append(names, f.name)
		}
	}
	if len(names) == 0 {
		return "rdonly"
	}
	return strings.Join(names, ",")
}
