package parser

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/tamarin/internal/filetest"
	"github.com/mna/tamarin/lang/ast"
)

var testUpdateParserGoldenTests = flag.Bool("test.update-parser-golden-tests", false, "If set, replace expected parser golden test results with actual results.")

// TestParserGolden parses each testdata/in/*.tam file and diffs its printed
// AST against the matching testdata/out/*.want golden file, following the
// same filetest golden-diff convention as the teacher's parser_test.go.
func TestParserGolden(t *testing.T) {
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")
	for _, fi := range filetest.SourceFiles(t, srcDir, ".tam") {
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(srcDir, fi.Name()))
			if err != nil {
				t.Fatal(err)
			}
			chunk, err := ParseString(fi.Name(), string(src))
			if err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			printer := ast.Printer{Output: &buf}
			if err := printer.Print(chunk); err != nil {
				t.Fatal(err)
			}
			filetest.DiffCustom(t, fi, "output", ".want", buf.String(), resultDir, testUpdateParserGoldenTests)
		})
	}
}
