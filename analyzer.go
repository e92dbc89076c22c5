package gomorphtokenizer

import "fmt"

// Analyzer runs the full analysis chain for one field: char filters
// rewrite the text, the tokenizer segments it, token filters decorate
// the resulting stream. Offsets of emitted tokens always index the
// string given to Analyze, not the rewritten intermediate.
type Analyzer struct {
	CharFilters  []CharFilter
	Tokenizer    Tokenizer
	TokenFilters []TokenFilter
}

func NewAnalyzer(tokenizer Tokenizer, charFilters []CharFilter, tokenFilters []TokenFilter) Analyzer {
	return Analyzer{
		CharFilters:  charFilters,
		Tokenizer:    tokenizer,
		TokenFilters: tokenFilters,
	}
}

func (a Analyzer) Analyze(s string) (TokenStream, error) {
	text := s
	mapping := IdentityMapping
	for _, c := range a.CharFilters {
		var m OffsetMapping
		text, m = c.Filter(text)
		mapping = composeMapping(mapping, m)
	}

	var stream TokenStream
	var err error
	if translator, ok := a.Tokenizer.(OffsetTranslator); ok {
		stream, err = translator.TranslatedTokenStream(text, mapping)
	} else if len(a.CharFilters) == 0 {
		stream, err = a.Tokenizer.TokenStream(text)
	} else {
		// 書き換えたテキストのオフセットを元に戻せないならエラー
		return nil, fmt.Errorf("tokenizer %T cannot translate offsets of rewritten text", a.Tokenizer)
	}
	if err != nil {
		return nil, err
	}

	for _, f := range a.TokenFilters {
		stream = f.Filter(stream)
	}
	return stream, nil
}
