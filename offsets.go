package gomorphtokenizer

// OffsetMapping translates byte offsets in the text actually handed to
// the segmenter into byte offsets in the caller's original string. The
// two coincide only when nothing rewrote the text on the way in, and
// that case goes through IdentityMapping rather than being assumed.
type OffsetMapping interface {
	ToOriginal(offset int) int
}

type identityMapping struct{}

func (identityMapping) ToOriginal(offset int) int {
	return offset
}

// IdentityMapping maps every offset to itself.
var IdentityMapping OffsetMapping = identityMapping{}

// offsetEdit records that filtered offsets at or after Filtered shift
// by Delta bytes to reach the original text.
type offsetEdit struct {
	filtered int
	delta    int
}

// editMapping は文字列書き換えの編集履歴から作るオフセット対応表。
// editsはfiltered昇順、deltaは累積。
type editMapping struct {
	edits []offsetEdit
}

func (m editMapping) ToOriginal(offset int) int {
	delta := 0
	for _, e := range m.edits {
		if offset < e.filtered {
			break
		}
		delta = e.delta
	}
	return offset + delta
}

// composeMapping chains two translation steps: inner maps offsets of
// the newest text into the previous one, outer maps the previous text
// into the original.
func composeMapping(outer, inner OffsetMapping) OffsetMapping {
	if outer == IdentityMapping {
		return inner
	}
	if inner == IdentityMapping {
		return outer
	}
	return composedMapping{outer: outer, inner: inner}
}

type composedMapping struct {
	outer OffsetMapping
	inner OffsetMapping
}

func (c composedMapping) ToOriginal(offset int) int {
	return c.outer.ToOriginal(c.inner.ToOriginal(offset))
}
