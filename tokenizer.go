package gomorphtokenizer

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/masamichhhhi/go-morph-tokenizer/morphology"
)

// MorphologicalTokenizer adapts a dictionary-backed morphological
// analyzer to the TokenStream contract. Construction is the only
// fallible step; after that the tokenizer is immutable and serves any
// number of documents, one stream per document.
type MorphologicalTokenizer struct {
	pool   *workerPool
	logger *slog.Logger
}

var (
	_ Tokenizer        = (*MorphologicalTokenizer)(nil)
	_ OffsetTranslator = (*MorphologicalTokenizer)(nil)
)

type TokenizerOption func(*tokenizerConfig)

type tokenizerConfig struct {
	poolSize int
	logger   *slog.Logger
}

// WithPoolSize caps how many idle analyzer workers the tokenizer keeps
// for reuse. Streams beyond the cap still get a worker of their own.
func WithPoolSize(n int) TokenizerOption {
	return func(c *tokenizerConfig) {
		c.poolSize = n
	}
}

func WithLogger(logger *slog.Logger) TokenizerOption {
	return func(c *tokenizerConfig) {
		c.logger = logger
	}
}

// NewMorphologicalTokenizer wraps an already constructed analyzer. Any
// segmenter satisfying morphology.Morphology can back a tokenizer; if
// it also satisfies morphology.WorkerProvider, concurrent documents
// each get their own worker, otherwise they serialize on the one
// analyzer instance.
func NewMorphologicalTokenizer(m morphology.Morphology, options ...TokenizerOption) *MorphologicalTokenizer {
	c := tokenizerConfig{
		poolSize: runtime.NumCPU(),
		logger:   slog.Default(),
	}
	for _, option := range options {
		option(&c)
	}
	return &MorphologicalTokenizer{
		pool:   newWorkerPool(m, c.poolSize),
		logger: c.logger,
	}
}

// NewKagomeTokenizer は指定パスのシステム辞書からトークナイザを作る。
// 失敗は全てここで表面化する。
func NewKagomeTokenizer(dictPath string, options ...TokenizerOption) (*MorphologicalTokenizer, error) {
	k, err := morphology.NewKagome(dictPath)
	if err != nil {
		return nil, &DictionaryLoadError{Path: dictPath, Err: err}
	}
	return NewMorphologicalTokenizer(k, options...), nil
}

// NewEmbeddedKagomeTokenizer uses the compiled-in IPA-NEologd
// dictionary, so no dictionary file is needed on disk.
func NewEmbeddedKagomeTokenizer(options ...TokenizerOption) (*MorphologicalTokenizer, error) {
	k, err := morphology.NewKagomeEmbedded()
	if err != nil {
		return nil, &DictionaryLoadError{Path: "(embedded)", Err: err}
	}
	return NewMorphologicalTokenizer(k, options...), nil
}

func (t *MorphologicalTokenizer) TokenStream(text string) (TokenStream, error) {
	return t.TranslatedTokenStream(text, IdentityMapping)
}

// TranslatedTokenStream segments text and reports token offsets through
// mapping. Segmentation runs eagerly here so that an analyzer failure
// surfaces from this call instead of masquerading as an exhausted
// stream later.
func (t *MorphologicalTokenizer) TranslatedTokenStream(text string, mapping OffsetMapping) (TokenStream, error) {
	w, err := t.pool.checkout()
	if err != nil {
		return nil, &SegmentationError{Err: err}
	}
	morphemes, err := w.Analyze(text)
	if err != nil {
		t.pool.checkin(w)
		return nil, &SegmentationError{Err: err}
	}
	tokens, err := buildTokens(text, mapping, morphemes)
	if err != nil {
		t.pool.checkin(w)
		t.logger.Error("segmenter broke its offset contract", "error", err)
		return nil, &SegmentationError{Err: err}
	}
	return newCursor(tokens, func() { t.pool.checkin(w) }), nil
}

// buildTokens validates each morpheme against the text the segmenter
// actually saw, then translates its span into the original string.
// Zero-width morphemes are dropped and do not consume a position.
func buildTokens(text string, mapping OffsetMapping, morphemes []morphology.Morpheme) ([]Token, error) {
	tokens := make([]Token, 0, len(morphemes))
	var position uint64
	for _, m := range morphemes {
		if m.Start < 0 || m.Start > m.End || m.End > len(text) {
			return nil, fmt.Errorf("morpheme %q spans [%d, %d) outside input of %d bytes", m.Surface, m.Start, m.End, len(text))
		}
		if m.Surface != text[m.Start:m.End] {
			return nil, fmt.Errorf("morpheme surface %q does not match input span %q", m.Surface, text[m.Start:m.End])
		}
		if m.Start == m.End {
			continue
		}
		from := mapping.ToOriginal(m.Start)
		to := mapping.ToOriginal(m.End)
		if from < 0 || from > to {
			return nil, fmt.Errorf("offset mapping produced invalid span [%d, %d) for morpheme %q", from, to, m.Surface)
		}
		tokens = append(tokens, Token{
			Term:           m.Surface,
			Kana:           m.Reading,
			StartByte:      from,
			EndByte:        to,
			Position:       position,
			PositionLength: 1,
		})
		position++
	}
	return tokens, nil
}
