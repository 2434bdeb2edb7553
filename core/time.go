package core

import "strconv"

// formatUnix renders a Unix-seconds timestamp the way it's echoed to and
// from reporters: a bare base-10 integer string.
func formatUnix(sec int64) string {
	return strconv.FormatInt(sec, 10)
}
