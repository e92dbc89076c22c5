package gomorphtokenizer

import "github.com/masamichhhhi/go-morph-tokenizer/morphology"

// workerPool owns the mutable analyzer workers on behalf of a
// tokenizer. A worker is checked out for exactly one live stream at a
// time and checked back in when the stream is exhausted or closed.
// Checkout never hands out a worker that is already in use: it either
// takes a free one, mints a new one, or blocks until one is returned.
type workerPool struct {
	free chan morphology.Morphology
	mint func() (morphology.Morphology, error)
}

func newWorkerPool(base morphology.Morphology, size int) *workerPool {
	if size < 1 {
		size = 1
	}
	p := &workerPool{
		free: make(chan morphology.Morphology, size),
	}
	if provider, ok := base.(morphology.WorkerProvider); ok {
		p.mint = provider.NewWorker
	}
	p.free <- base
	return p
}

func (p *workerPool) checkout() (morphology.Morphology, error) {
	select {
	case w := <-p.free:
		return w, nil
	default:
	}
	if p.mint != nil {
		return p.mint()
	}
	// 増やせない場合は返却を待つ
	return <-p.free, nil
}

func (p *workerPool) checkin(w morphology.Morphology) {
	select {
	case p.free <- w:
	default:
		// プールが満杯なら捨てる
	}
}
