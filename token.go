package gomorphtokenizer

// Token は解析パイプラインに渡す1トークン。
// StartByte/EndByte は呼び出し元が渡した元の文字列へのバイトオフセットで、
// 正規化を挟まない限り Term == input[StartByte:EndByte] が成り立つ。
type Token struct {
	Term           string
	Kana           string
	StartByte      int
	EndByte        int
	Position       uint64
	PositionLength uint64
}

// TokenStream delivers tokens one at a time: call Advance, and while it
// returns true read the current token with Token. Once Advance returns
// false it keeps returning false. Token is only valid after an Advance
// that returned true. Close releases the underlying analyzer worker and
// must be called when the stream is abandoned before exhaustion; it is
// safe to call at any point and more than once.
type TokenStream interface {
	Advance() bool
	Token() Token
	Close() error
}

// Tokenizer turns one document's text into a token stream. A tokenizer
// is an immutable factory: one instance serves any number of documents,
// concurrently or not, with one stream per document.
type Tokenizer interface {
	TokenStream(text string) (TokenStream, error)
}

// OffsetTranslator is implemented by tokenizers that can segment
// rewritten text while reporting offsets into the caller's original
// string through an explicit mapping.
type OffsetTranslator interface {
	TranslatedTokenStream(text string, mapping OffsetMapping) (TokenStream, error)
}
