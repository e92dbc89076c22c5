package morphology

// Morpheme は形態素解析器が出力する1形態素。
// Start/End はこの解析呼び出しに渡した文字列に対するバイトオフセット。
type Morpheme struct {
	Surface string
	Start   int
	End     int
	Reading string
}

// Morphology は形態素解析器のインターフェース。
// 返される形態素列は入力を隙間・重なりなく覆う昇順の列であること。
type Morphology interface {
	Analyze(text string) ([]Morpheme, error)
}

// WorkerProvider is implemented by analyzers that can mint additional
// independent workers over the same shared dictionary. Workers from the
// same provider must be safe to use from different goroutines as long
// as each worker is used by one goroutine at a time.
type WorkerProvider interface {
	NewWorker() (Morphology, error)
}
