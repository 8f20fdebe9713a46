package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/msanta/kgwalk/internal/config"
	"github.com/msanta/kgwalk/pkg/extract"
	"github.com/msanta/kgwalk/pkg/metrics"
)

func main() {
	cfgPath := flag.String("config", "kgwalk.yaml", "Path to the YAML configuration file")
	rootsPath := flag.String("roots", "", "File with one root entity IRI per line")
	outPath := flag.String("out", "", "Corpus output file (overrides extraction.output)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if *rootsPath == "" {
		log.Fatal("a roots file is required (-roots)")
	}

	roots, err := readRoots(*rootsPath)
	if err != nil {
		log.Fatalf("cannot read roots: %v", err)
	}

	// Expose metrics while the extraction runs, if requested.
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				slog.Error("metrics server stopped", "error", err)
			}
		}()
	}

	kg, err := cfg.BuildGraph()
	if err != nil {
		log.Fatalf("cannot build graph: %v", err)
	}
	metrics.GraphVertices.Set(float64(kg.Len()))

	// Endpoint-backed graphs discover vertices lazily, so roots are seeded
	// up front to satisfy the driver's presence check.
	if cfg.Graph.Endpoint != "" {
		for _, root := range roots {
			kg.AddVertex(root)
		}
	}

	walkers, err := cfg.BuildWalkers()
	if err != nil {
		log.Fatalf("cannot build walkers: %v", err)
	}

	transformer, err := extract.New(walkers, extract.Options{Workers: cfg.Extraction.Workers})
	if err != nil {
		log.Fatalf("cannot build transformer: %v", err)
	}

	corpus, err := transformer.Extract(kg, roots)
	if err != nil {
		log.Fatalf("extraction failed: %v", err)
	}

	output := cfg.Extraction.Output
	if *outPath != "" {
		output = *outPath
	}
	if err := writeCorpus(output, corpus); err != nil {
		log.Fatalf("cannot write corpus: %v", err)
	}

	slog.Info("extraction complete",
		"run", transformer.RunID(),
		"roots", len(roots),
		"walks", len(corpus),
		"output", output)
}

// readRoots loads one entity IRI per line, skipping blanks and '#' comments.
func readRoots(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var roots []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		roots = append(roots, line)
	}
	return roots, scanner.Err()
}

// writeCorpus emits one JSON array of tokens per line. "-" or empty writes
// to stdout.
func writeCorpus(path string, corpus extract.Corpus) error {
	out := os.Stdout
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	w := bufio.NewWriter(out)
	enc := json.NewEncoder(w)
	for _, walk := range corpus {
		if err := enc.Encode(walk); err != nil {
			return err
		}
	}
	return w.Flush()
}
