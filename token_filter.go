package gomorphtokenizer

import (
	"strings"

	"github.com/kotaroooo0/gojaconv/jaconv"
)

// TokenFilter decorates a token stream. Filters may rewrite or drop
// tokens but consume them strictly in emission order.
type TokenFilter interface {
	Filter(TokenStream) TokenStream
}

// mapStream rewrites each token as it passes through.
type mapStream struct {
	TokenStream
	apply func(Token) Token
}

func (s mapStream) Token() Token {
	return s.apply(s.TokenStream.Token())
}

// dropStream skips tokens the predicate rejects. Positions of the
// surviving tokens are kept as emitted, so dropping introduces
// position gaps the way stop-word removal is expected to.
type dropStream struct {
	TokenStream
	keep func(Token) bool
}

func (s dropStream) Advance() bool {
	for s.TokenStream.Advance() {
		if s.keep(s.TokenStream.Token()) {
			return true
		}
	}
	return false
}

type LowerCaseFilter struct{}

func (f LowerCaseFilter) Filter(stream TokenStream) TokenStream {
	return mapStream{
		TokenStream: stream,
		apply: func(t Token) Token {
			t.Term = strings.ToLower(t.Term)
			return t
		},
	}
}

type StopWordFilter struct {
	stopWords map[string]struct{}
}

func NewStopWordFilter(stopWords []string) StopWordFilter {
	set := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		set[w] = struct{}{}
	}
	return StopWordFilter{stopWords: set}
}

func (f StopWordFilter) Filter(stream TokenStream) TokenStream {
	return dropStream{
		TokenStream: stream,
		keep: func(t Token) bool {
			_, ok := f.stopWords[t.Term]
			return !ok
		},
	}
}

// RomajiReadingFilter は読み(カタカナ)をヘボン式ローマ字に変換してTermに置く。
type RomajiReadingFilter struct{}

func (f RomajiReadingFilter) Filter(stream TokenStream) TokenStream {
	return mapStream{
		TokenStream: stream,
		apply: func(t Token) Token {
			t.Term = jaconv.ToHebon(jaconv.KatakanaToHiragana(t.Kana))
			return t
		},
	}
}
