package ontology

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knakk/rdf"
)

// Loader discovers and merges Turtle files into a Store.
type Loader struct {
	dir    string
	logger *slog.Logger
}

// NewLoader creates a loader rooted at dir. A nil logger falls back to
// slog.Default().
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{dir: dir, logger: logger}
}

// Load parses every *.ttl file under the loader's directory and merges
// the triples into a single store. A file that fails to parse is logged
// and skipped; loading continues with the remaining files. An error is
// returned only when the directory is unusable or no file loaded.
func (l *Loader) Load() (*Store, error) {
	info, err := os.Stat(l.dir)
	if err != nil {
		return nil, fmt.Errorf("ontology directory %s: %w", l.dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("ontology path %s is not a directory", l.dir)
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(l.dir, "**", "*.ttl"))
	if err != nil {
		return nil, fmt.Errorf("glob ontology files: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no .ttl files found in %s", l.dir)
	}

	store := NewStore()
	loaded := 0
	for _, path := range matches {
		n, err := l.loadFile(store, path)
		if err != nil {
			l.logger.Error("skipping ontology file",
				slog.String("file", path),
				slog.String("error", err.Error()))
			continue
		}
		l.logger.Info("loaded ontology file",
			slog.String("file", filepath.Base(path)),
			slog.Int("triples", n))
		loaded++
	}
	if loaded == 0 {
		return nil, fmt.Errorf("no ontology files could be parsed in %s", l.dir)
	}
	return store, nil
}

// loadFile decodes one Turtle file into store, returning the triple count.
func (l *Loader) loadFile(store *Store, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	dec := rdf.NewTripleDecoder(f, rdf.Turtle)
	n := 0
	for {
		tr, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, fmt.Errorf("parse turtle: %w", err)
		}
		store.Add(convertTriple(tr))
		n++
	}
	return n, nil
}

// convertTriple flattens a knakk/rdf triple into the store representation.
func convertTriple(t rdf.Triple) Triple {
	return Triple{
		Subject:   t.Subj.String(),
		Predicate: t.Pred.String(),
		Object:    convertTerm(t.Obj),
	}
}

func convertTerm(term rdf.Term) Term {
	switch term.Type() {
	case rdf.TermLiteral:
		return Term{Value: term.String(), Kind: KindLiteral}
	case rdf.TermBlank:
		return Term{Value: term.String(), Kind: KindBlank}
	default:
		return Term{Value: term.String(), Kind: KindIRI}
	}
}
