package gomorphtokenizer

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// CharFilter rewrites text before segmentation. The returned mapping
// translates byte offsets of the rewritten text back into the input so
// token offsets survive the rewrite.
type CharFilter interface {
	Filter(string) (string, OffsetMapping)
}

// 特定の単語から特定の単語への変換マップ(ex. ":(" → "sad")
type MappingCharFilter struct {
	mapper map[string]string
	keys   []string
}

func NewMappingCharFilter(mapper map[string]string) MappingCharFilter {
	keys := make([]string, 0, len(mapper))
	for k := range mapper {
		if k != "" {
			keys = append(keys, k)
		}
	}
	// 最長一致を優先、同じ長さなら辞書順で決定的に
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return MappingCharFilter{
		mapper: mapper,
		keys:   keys,
	}
}

func (c MappingCharFilter) Filter(s string) (string, OffsetMapping) {
	var b strings.Builder
	var edits []offsetEdit
	delta := 0
	i := 0
	for i < len(s) {
		key := c.match(s[i:])
		if key == "" {
			_, size := utf8.DecodeRuneInString(s[i:])
			b.WriteString(s[i : i+size])
			i += size
			continue
		}
		replacement := c.mapper[key]
		b.WriteString(replacement)
		i += len(key)
		if len(key) != len(replacement) {
			delta += len(key) - len(replacement)
			edits = append(edits, offsetEdit{filtered: b.Len(), delta: delta})
		}
	}
	if len(edits) == 0 {
		return b.String(), IdentityMapping
	}
	return b.String(), editMapping{edits: edits}
}

func (c MappingCharFilter) match(s string) string {
	for _, k := range c.keys {
		if strings.HasPrefix(s, k) {
			return k
		}
	}
	return ""
}
