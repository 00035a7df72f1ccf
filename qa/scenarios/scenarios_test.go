package scenarios

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScenario(t *testing.T) {
	files, err := filepath.Glob("*.yaml")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no scenario files")
	}
	for _, f := range files {
		sc, err := Load(f)
		if err != nil {
			t.Fatalf("load %s: %v", f, err)
		}
		for _, name := range sc.Solvers {
			t.Run(sc.Name+"/"+name, func(t *testing.T) {
				RunScenario(t, sc, name)
			})
		}
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := Load("no-file.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
	tmp, err := os.CreateTemp(t.TempDir(), "bad*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmp.WriteString(":"); err != nil {
		t.Fatal(err)
	}
	if err := tmp.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(tmp.Name()); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

func TestLoadDefaultsSolvers(t *testing.T) {
	sc, err := Load("a_self_cover.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Solvers) != 3 {
		t.Fatalf("expected every solver, got %v", sc.Solvers)
	}
}

func TestEqualInts(t *testing.T) {
	if !equalInts([]int{1, 2}, []int{1, 2}) {
		t.Fatal("expected equal")
	}
	if equalInts([]int{1}, []int{1, 2}) || equalInts([]int{2, 1}, []int{1, 2}) {
		t.Fatal("expected different")
	}
}
