package processor

import (
	"os"
	"path/filepath"
	"strings"
)

// Runtime-support archives live in runtime-lib/ next to the binary's install
// directory. Only the record-codec bundle is needed so worker-side
// deserialization can rebuild host record shapes.
const (
	runtimeLibDir        = "runtime-lib"
	runtimeArchivePrefix = "prism-runtime-"
)

// findRuntimeArchives locates the runtime-support archives. If the process's
// own location cannot be determined, it reports an issue and the session runs
// with zero auxiliary archives; a missing runtime-lib directory is not an
// error at all.
func (p *Processor) findRuntimeArchives(issues *[]ConfigIssue) []string {
	if len(*issues) != 0 {
		return nil
	}
	exe, err := p.execPath()
	if err != nil {
		p.log.Error("cannot locate installation directory", "err", err)
		*issues = append(*issues, newIssue(fieldAppName, CodeRuntimeDirNotFound))
		return nil
	}
	dir := filepath.Join(filepath.Dir(exe), "..", runtimeLibDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		p.log.Debug("no runtime archive directory", "dir", dir, "err", err)
		return nil
	}
	var archives []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), runtimeArchivePrefix) {
			continue
		}
		archives = append(archives, filepath.Join(dir, e.Name()))
	}
	return archives
}
