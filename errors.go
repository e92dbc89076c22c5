package gomorphtokenizer

import "fmt"

// DictionaryLoadError は辞書読み込みの失敗。構築時にのみ発生する。
type DictionaryLoadError struct {
	Path string
	Err  error
}

func (e *DictionaryLoadError) Error() string {
	return fmt.Sprintf("load dictionary %s: %v", e.Path, e.Err)
}

func (e *DictionaryLoadError) Unwrap() error {
	return e.Err
}

// SegmentationError は形態素解析器が解析呼び出し中に返した失敗。
// 空のトークン列に化けさせず、そのまま呼び出し元へ伝播させる。
type SegmentationError struct {
	Err error
}

func (e *SegmentationError) Error() string {
	return fmt.Sprintf("segmentation failed: %v", e.Err)
}

func (e *SegmentationError) Unwrap() error {
	return e.Err
}
