package processor

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindRuntimeArchives_MatchesPrefixedFiles(t *testing.T) {
	root := t.TempDir()
	binDir := filepath.Join(root, "bin")
	libDir := filepath.Join(root, "runtime-lib")
	for _, d := range []string{binDir, libDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
	for _, name := range []string{"prism-runtime-1.2.0.so", "prism-runtime-codec.so", "unrelated.so"} {
		if err := os.WriteFile(filepath.Join(libDir, name), nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	rig := newRig(t, Config{})
	rig.proc.execPath = func() (string, error) { return filepath.Join(binDir, "prism"), nil }

	var issues []ConfigIssue
	archives := rig.proc.findRuntimeArchives(&issues)
	if len(issues) != 0 {
		t.Fatalf("issues = %v", issues)
	}
	if len(archives) != 2 {
		t.Fatalf("archives = %v", archives)
	}
	for _, a := range archives {
		if filepath.Dir(a) != libDir {
			t.Fatalf("archive outside runtime-lib: %s", a)
		}
	}
}

func TestFindRuntimeArchives_MissingDirIsNotAnIssue(t *testing.T) {
	rig := newRig(t, Config{})
	rig.proc.execPath = func() (string, error) {
		return filepath.Join(t.TempDir(), "bin", "prism"), nil
	}

	var issues []ConfigIssue
	archives := rig.proc.findRuntimeArchives(&issues)
	if len(issues) != 0 || len(archives) != 0 {
		t.Fatalf("issues = %v, archives = %v", issues, archives)
	}
}

func TestFindRuntimeArchives_SkippedWhenIssuesExist(t *testing.T) {
	rig := newRig(t, Config{})
	called := false
	rig.proc.execPath = func() (string, error) {
		called = true
		return "", nil
	}

	issues := []ConfigIssue{newIssue(fieldTransformer, CodeUnknownTransformer, "x")}
	if archives := rig.proc.findRuntimeArchives(&issues); archives != nil {
		t.Fatalf("archives = %v", archives)
	}
	if called {
		t.Fatal("discovery must not run once issues exist")
	}
}
