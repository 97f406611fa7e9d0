package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"sync"
	"unicode"
)

// BM25Embedder is a pure-Go lexical embedder used when no encoder
// service is configured. It hashes BM25-weighted terms into a fixed
// number of dimensions and L2-normalizes the result, so the vectors are
// directly comparable with CosineSimilarity.
//
// Document statistics (IDF, average length) accumulate across calls, so
// the embedder should see the whole corpus before queries are encoded.
type BM25Embedder struct {
	dimensions int
	k1         float64 // term-frequency saturation
	b          float64 // length normalization

	mu           sync.RWMutex
	docCount     int
	totalLength  int
	avgDocLength float64
	termDocCount map[string]int
}

// BM25Config configures the lexical embedder.
type BM25Config struct {
	// Dimensions of the output vector (default 384, matching common
	// neural encoder models so configs are interchangeable).
	Dimensions int

	// K1 is the term-frequency saturation parameter (default 1.5).
	K1 float64

	// B is the length-normalization parameter (default 0.75).
	B float64
}

// NewBM25Embedder applies defaults and builds the embedder.
func NewBM25Embedder(cfg BM25Config) *BM25Embedder {
	if cfg.Dimensions == 0 {
		cfg.Dimensions = 384
	}
	if cfg.K1 == 0 {
		cfg.K1 = 1.5
	}
	if cfg.B == 0 {
		cfg.B = 0.75
	}
	return &BM25Embedder{
		dimensions:   cfg.Dimensions,
		k1:           cfg.K1,
		b:            cfg.B,
		termDocCount: make(map[string]int),
	}
}

// Generate encodes texts and folds their statistics into the corpus model.
func (e *BM25Embedder) Generate(ctx context.Context, texts []string) ([][]float32, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		tokens := tokenize(text)
		if len(tokens) == 0 {
			vectors[i] = make([]float32, e.dimensions)
			continue
		}
		freqs := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			freqs[tok]++
		}
		vectors[i] = e.score(freqs, len(tokens))
		e.updateStats(tokens)
	}
	return vectors, nil
}

// Dimensions returns the configured vector length.
func (e *BM25Embedder) Dimensions() int { return e.dimensions }

// Model returns an identifier encoding the BM25 parameters, so an
// index built under different parameters is never reused.
func (e *BM25Embedder) Model() string {
	return fmt.Sprintf("bm25-go-d%d-k%.1f-b%.2f", e.dimensions, e.k1, e.b)
}

// Close is a no-op.
func (e *BM25Embedder) Close() error { return nil }

// tokenize lowercases and splits on non-alphanumeric runes, dropping
// single-rune tokens.
func tokenize(text string) []string {
	text = strings.ToLower(text)
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() >= 2 {
			tokens = append(tokens, cur.String())
		}
		cur.Reset()
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

func (e *BM25Embedder) updateStats(tokens []string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.docCount++
	e.totalLength += len(tokens)
	e.avgDocLength = float64(e.totalLength) / float64(e.docCount)

	seen := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		if !seen[tok] {
			e.termDocCount[tok]++
			seen[tok] = true
		}
	}
}

// score computes the BM25 weight of each term and accumulates it into the
// term's hashed dimension, then L2-normalizes.
func (e *BM25Embedder) score(freqs map[string]int, docLength int) []float32 {
	vector := make([]float32, e.dimensions)

	e.mu.RLock()
	defer e.mu.RUnlock()

	avgLen := e.avgDocLength
	if avgLen == 0 {
		avgLen = float64(docLength)
	}

	for term, tf := range freqs {
		var idf float64
		if e.docCount == 0 {
			idf = 1.0
		} else {
			df := e.termDocCount[term]
			if df == 0 {
				df = 1
			}
			idf = math.Log((float64(e.docCount-df) + 0.5) / (float64(df) + 0.5))
			if idf < 0.01 {
				idf = 0.01
			}
		}

		num := float64(tf) * (e.k1 + 1)
		den := float64(tf) + e.k1*(1-e.b+e.b*(float64(docLength)/avgLen))
		vector[e.hashTerm(term)] += float32(idf * num / den)
	}

	l2Normalize(vector)
	return vector
}

func (e *BM25Embedder) hashTerm(term string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(term))
	return int(h.Sum32() % uint32(e.dimensions))
}

func l2Normalize(vector []float32) {
	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vector {
		vector[i] /= float32(norm)
	}
}
