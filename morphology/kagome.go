package morphology

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/edsrzf/mmap-go"
	ipaneologd "github.com/ikawaha/kagome-dict-ipa-neologd"
	"github.com/ikawaha/kagome-dict/dict"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// SplitMode は形態素の分割粒度。
type SplitMode int

const (
	SplitNormal SplitMode = iota
	SplitSearch
	SplitExtended
)

func (m SplitMode) kagomeMode() tokenizer.TokenizeMode {
	switch m {
	case SplitSearch:
		return tokenizer.Search
	case SplitExtended:
		return tokenizer.Extended
	default:
		return tokenizer.Normal
	}
}

// github.com/ikawaha/kagomeに直接依存しないようにラップする
type Kagome struct {
	dict   *dict.Dict
	kagome *tokenizer.Tokenizer
	mode   SplitMode
}

var (
	_ Morphology     = (*Kagome)(nil)
	_ WorkerProvider = (*Kagome)(nil)
)

type KagomeOption func(*Kagome)

func WithSplitMode(mode SplitMode) KagomeOption {
	return func(k *Kagome) {
		k.mode = mode
	}
}

// NewKagome は指定パスのシステム辞書を読み込んで解析器を作る。
// 辞書の読み込みが唯一の失敗点: パスが存在しない、読めない、
// kagome辞書として不正、のいずれも即座にエラーを返す。
func NewKagome(dictPath string, options ...KagomeOption) (*Kagome, error) {
	d, err := loadDict(dictPath)
	if err != nil {
		return nil, err
	}
	return newKagome(d, options...)
}

// NewKagomeEmbedded は組み込みのIPA-NEologd辞書で解析器を作る。
func NewKagomeEmbedded(options ...KagomeOption) (*Kagome, error) {
	return newKagome(ipaneologd.Dict(), options...)
}

func newKagome(d *dict.Dict, options ...KagomeOption) (*Kagome, error) {
	k := &Kagome{
		dict: d,
		mode: SplitSearch,
	}
	for _, option := range options {
		option(k)
	}
	t, err := tokenizer.New(d, tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	k.kagome = t
	return k, nil
}

// 辞書ファイルをmmapしてzipとして展開する。ヒープへのコピーを介さない。
func loadDict(path string) (*dict.Dict, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("map dictionary %s: %w", path, err)
	}
	defer m.Unmap()

	zr, err := zip.NewReader(bytes.NewReader(m), int64(len(m)))
	if err != nil {
		return nil, fmt.Errorf("%s is not a kagome dictionary: %w", path, err)
	}
	d, err := dict.Load(zr, true)
	if err != nil {
		return nil, fmt.Errorf("%s is not a kagome dictionary: %w", path, err)
	}
	return d, nil
}

// NewWorker は同じ辞書を共有する独立したワーカーを作る。
// 辞書は読み取り専用で共有され、格子構築用の状態はワーカーごとに持つ。
func (k *Kagome) NewWorker() (Morphology, error) {
	t, err := tokenizer.New(k.dict, tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Kagome{
		dict:   k.dict,
		kagome: t,
		mode:   k.mode,
	}, nil
}

func (k *Kagome) Analyze(text string) ([]Morpheme, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("input is not valid UTF-8")
	}
	if text == "" {
		return nil, nil
	}
	tokens := k.kagome.Analyze(text, k.mode.kagomeMode())
	// kagomeのStart/Endは文字単位なのでバイトオフセットに引き直す
	byteOffset := runeToByteOffsets(text)
	morphemes := make([]Morpheme, 0, len(tokens))
	for _, t := range tokens {
		if t.Class == tokenizer.DUMMY {
			continue
		}
		morphemes = append(morphemes, Morpheme{
			Surface: t.Surface,
			Start:   byteOffset[t.Start],
			End:     byteOffset[t.End],
			Reading: reading(t),
		})
	}
	return morphemes, nil
}

// runeToByteOffsets returns a table mapping each rune index of text
// (plus one past the end) to its byte offset.
func runeToByteOffsets(text string) []int {
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}

// IPA品詞体系では8番目の素性が読み。未知語は表層形にフォールバック。
func reading(t tokenizer.Token) string {
	features := t.Features()
	if len(features) >= 8 {
		return features[7]
	}
	return t.Surface
}
