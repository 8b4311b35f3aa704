// Package stacktrace trims goroutine dumps down to this module's frames.
package stacktrace

import (
	"bufio"
	"bytes"
	"strings"
)

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" for each frame of
// stack that lives under an internal/ directory.
func InternalPaths(stack []byte) []string {
	var paths []string

	sc := bufio.NewScanner(bytes.NewReader(stack))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())

		idx := strings.Index(line, "/internal/")
		if idx == -1 || !strings.Contains(line, ".go:") {
			continue
		}

		frame := line[idx+1:]
		if sp := strings.IndexByte(frame, ' '); sp != -1 {
			frame = frame[:sp]
		}
		paths = append(paths, frame)
	}

	return paths
}
