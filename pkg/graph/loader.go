package graph

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// LoadTSV populates the graph from a tab-separated triples file, one
// "subject<TAB>predicate<TAB>object" triple per line. Blank lines and lines
// starting with '#' are skipped. Duplicate triples in the file are harmless
// since insertion is idempotent.
func (g *KG) LoadTSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening triples file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	added := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		parts := strings.Split(text, "\t")
		if len(parts) != 3 {
			return fmt.Errorf("malformed triple at %s:%d: expected 3 tab-separated fields, got %d", path, line, len(parts))
		}
		g.AddTriple(parts[0], parts[1], parts[2])
		added++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading triples file: %w", err)
	}

	slog.Info("graph loaded", "path", path, "triples", added, "vertices", g.Len())
	return nil
}
