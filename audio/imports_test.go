package audio

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// The frame loop and headless runs must build without the PortAudio C library; only
// audio/mic may import it.
func TestCorePackagesAvoidPortAudio(t *testing.T) {
	for _, dir := range []string{".", filepath.Join("..", "game")} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
				continue
			}
			path := filepath.Join(dir, name)
			f, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.ImportsOnly)
			if err != nil {
				t.Fatal(err)
			}
			for _, imp := range f.Imports {
				p, _ := strconv.Unquote(imp.Path.Value)
				if strings.Contains(p, "portaudio") || p == "github.com/pthm-cable/reimyaku/audio/mic" {
					t.Errorf("%s imports %s", path, p)
				}
			}
		}
	}
}
