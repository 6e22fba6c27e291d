//go:build !windows

package source

import (
	"fmt"
	"os"
	"syscall"
)

// identityFor renders a file's (device, inode) as the "{dev:x}g{ino:x}"
// identity string, matching original_source/logreader.py's
// get_device_and_inode_string exactly (including the literal 'g'
// separator), per the design note to keep the sincedb format stable.
func identityFor(info os.FileInfo) (string, error) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return "", fmt.Errorf("identity: unsupported stat_t for %T", info.Sys())
	}
	return fmt.Sprintf("%xg%x", uint64(st.Dev), st.Ino), nil
}
