package gomorphtokenizer

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/masamichhhhi/go-morph-tokenizer/morphology"
)

// MockMorphology implements the morphology.Morphology interface for testing.
type MockMorphology struct {
	mock.Mock
}

func (m *MockMorphology) Analyze(text string) ([]morphology.Morpheme, error) {
	args := m.Called(text)
	morphemes := args.Get(0)
	if morphemes == nil {
		return nil, args.Error(1)
	}
	return morphemes.([]morphology.Morpheme), args.Error(1)
}

func collect(t *testing.T, stream TokenStream) []Token {
	t.Helper()
	defer stream.Close()
	var tokens []Token
	for stream.Advance() {
		tokens = append(tokens, stream.Token())
	}
	return tokens
}

func TestTokenStream_EmitsSegmenterMorphemes(t *testing.T) {
	input := "東京都に住む"
	m := &MockMorphology{}
	m.On("Analyze", input).Return([]morphology.Morpheme{
		{Surface: "東京都", Start: 0, End: 9, Reading: "トウキョウト"},
		{Surface: "に", Start: 9, End: 12, Reading: "ニ"},
		{Surface: "住む", Start: 12, End: 18, Reading: "スム"},
	}, nil)

	tokenizer := NewMorphologicalTokenizer(m)
	stream, err := tokenizer.TokenStream(input)
	require.NoError(t, err)
	defer stream.Close()

	var got []Token
	for stream.Advance() {
		got = append(got, stream.Token())
	}

	want := []Token{
		{Term: "東京都", Kana: "トウキョウト", StartByte: 0, EndByte: 9, Position: 0, PositionLength: 1},
		{Term: "に", Kana: "ニ", StartByte: 9, EndByte: 12, Position: 1, PositionLength: 1},
		{Term: "住む", Kana: "スム", StartByte: 12, EndByte: 18, Position: 2, PositionLength: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("token mismatch (-want +got):\n%s", diff)
	}

	// 尽きた後のAdvanceはfalseを返し続ける
	assert.False(t, stream.Advance())
	assert.False(t, stream.Advance())
	m.AssertExpectations(t)
}

func TestTokenStream_EmptyInput(t *testing.T) {
	m := &MockMorphology{}
	m.On("Analyze", "").Return([]morphology.Morpheme{}, nil)

	tokenizer := NewMorphologicalTokenizer(m)
	stream, err := tokenizer.TokenStream("")
	require.NoError(t, err)
	defer stream.Close()

	assert.False(t, stream.Advance())
	assert.False(t, stream.Advance())
}

func TestTokenStream_TokenBeforeAdvancePanics(t *testing.T) {
	m := &MockMorphology{}
	m.On("Analyze", "x").Return([]morphology.Morpheme{
		{Surface: "x", Start: 0, End: 1},
	}, nil)

	tokenizer := NewMorphologicalTokenizer(m)
	stream, err := tokenizer.TokenStream("x")
	require.NoError(t, err)
	defer stream.Close()

	assert.Panics(t, func() { stream.Token() })
}

func TestTokenStream_SkipsZeroWidthMorphemes(t *testing.T) {
	input := "東京"
	m := &MockMorphology{}
	m.On("Analyze", input).Return([]morphology.Morpheme{
		{Surface: "東", Start: 0, End: 3},
		{Surface: "", Start: 3, End: 3},
		{Surface: "京", Start: 3, End: 6},
	}, nil)

	tokenizer := NewMorphologicalTokenizer(m)
	stream, err := tokenizer.TokenStream(input)
	require.NoError(t, err)

	got := collect(t, stream)
	want := []Token{
		{Term: "東", StartByte: 0, EndByte: 3, Position: 0, PositionLength: 1},
		{Term: "京", StartByte: 3, EndByte: 6, Position: 1, PositionLength: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("zero-width morpheme not skipped cleanly (-want +got):\n%s", diff)
	}
}

func TestTokenStream_PropagatesSegmentationError(t *testing.T) {
	m := &MockMorphology{}
	m.On("Analyze", "\xff").Return(nil, errors.New("input is not valid UTF-8"))

	tokenizer := NewMorphologicalTokenizer(m)
	stream, err := tokenizer.TokenStream("\xff")
	require.Error(t, err)
	assert.Nil(t, stream)

	var segErr *SegmentationError
	assert.True(t, errors.As(err, &segErr))
}

func TestTokenStream_RejectsOffsetContractViolation(t *testing.T) {
	for name, morphemes := range map[string][]morphology.Morpheme{
		"span past end of input": {
			{Surface: "住むか", Start: 0, End: 9},
		},
		"negative start": {
			{Surface: "住", Start: -3, End: 3},
		},
		"surface differs from span": {
			{Surface: "東", Start: 0, End: 3},
		},
	} {
		t.Run(name, func(t *testing.T) {
			m := &MockMorphology{}
			m.On("Analyze", "住む").Return(morphemes, nil)

			tokenizer := NewMorphologicalTokenizer(m)
			_, err := tokenizer.TokenStream("住む")
			var segErr *SegmentationError
			require.True(t, errors.As(err, &segErr), "want SegmentationError, got %v", err)
		})
	}
}

// spaceSegmenter splits on single ASCII spaces, emitting the spaces as
// morphemes of their own so the output tiles the input. busy trips if
// two goroutines drive the same worker at once.
type spaceSegmenter struct {
	busy       atomic.Int32
	violations *atomic.Int32
}

func (s *spaceSegmenter) Analyze(text string) ([]morphology.Morpheme, error) {
	if s.busy.Add(1) != 1 {
		s.violations.Add(1)
	}
	defer s.busy.Add(-1)
	time.Sleep(time.Millisecond) // 共有違反を顕在化させる

	var morphemes []morphology.Morpheme
	start := 0
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == ' ' {
			if i > start {
				morphemes = append(morphemes, morphology.Morpheme{Surface: text[start:i], Start: start, End: i})
			}
			if i < len(text) {
				morphemes = append(morphemes, morphology.Morpheme{Surface: " ", Start: i, End: i + 1})
			}
			start = i + 1
		}
	}
	return morphemes, nil
}

func (s *spaceSegmenter) NewWorker() (morphology.Morphology, error) {
	return &spaceSegmenter{violations: s.violations}, nil
}

func verifyStreamInvariants(t *testing.T, input string, tokens []Token) {
	t.Helper()
	covered := 0
	for i, token := range tokens {
		assert.Equal(t, input[token.StartByte:token.EndByte], token.Term, "text fidelity at token %d", i)
		assert.Equal(t, covered, token.StartByte, "gap or overlap before token %d", i)
		assert.Equal(t, uint64(i), token.Position, "position density at token %d", i)
		covered = token.EndByte
	}
	assert.Equal(t, len(input), covered, "tokens must tile the whole input")
}

func TestTokenStream_SpanInvariants(t *testing.T) {
	var violations atomic.Int32
	tokenizer := NewMorphologicalTokenizer(&spaceSegmenter{violations: &violations})

	input := "turn on 東京 tower lights"
	stream, err := tokenizer.TokenStream(input)
	require.NoError(t, err)

	verifyStreamInvariants(t, input, collect(t, stream))
}

func TestTokenStream_ParallelDocuments(t *testing.T) {
	var violations atomic.Int32
	tokenizer := NewMorphologicalTokenizer(&spaceSegmenter{violations: &violations}, WithPoolSize(2))

	docs := make([]string, 32)
	for i := range docs {
		docs[i] = fmt.Sprintf("doc %d の body with words %d %d", i, i*2, i*3)
	}

	sequential := make([][]Token, len(docs))
	for i, doc := range docs {
		stream, err := tokenizer.TokenStream(doc)
		require.NoError(t, err)
		sequential[i] = collect(t, stream)
	}

	parallel := make([][]Token, len(docs))
	var wg sync.WaitGroup
	for i, doc := range docs {
		i, doc := i, doc
		wg.Add(1)
		go func() {
			defer wg.Done()
			stream, err := tokenizer.TokenStream(doc)
			if err != nil {
				t.Error(err)
				return
			}
			defer stream.Close()
			var tokens []Token
			for stream.Advance() {
				tokens = append(tokens, stream.Token())
			}
			parallel[i] = tokens
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(0), violations.Load(), "a worker was shared between live streams")
	for i := range docs {
		if diff := cmp.Diff(sequential[i], parallel[i]); diff != "" {
			t.Errorf("doc %d differs between sequential and parallel runs (-seq +par):\n%s", i, diff)
		}
		verifyStreamInvariants(t, docs[i], parallel[i])
	}
}

// 途中で放棄されたストリームがワーカーを返さないと、増設できない
// プールでは次のストリームが永久に待つことになる。
func TestTokenStream_WorkerReleasedOnEarlyClose(t *testing.T) {
	m := &MockMorphology{}
	m.On("Analyze", mock.Anything).Return([]morphology.Morpheme{
		{Surface: "a", Start: 0, End: 1},
		{Surface: "b", Start: 1, End: 2},
	}, nil)

	// MockMorphologyはWorkerProviderではないのでワーカーは1つだけ
	tokenizer := NewMorphologicalTokenizer(m, WithPoolSize(1))

	first, err := tokenizer.TokenStream("ab")
	require.NoError(t, err)
	require.True(t, first.Advance())
	require.NoError(t, first.Close()) // 最後まで読まずに放棄

	done := make(chan struct{})
	go func() {
		defer close(done)
		second, err := tokenizer.TokenStream("ab")
		if err != nil {
			t.Error(err)
			return
		}
		second.Close()
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker was not released by Close; checkout blocked forever")
	}
}

func TestTokenStream_CloseIsIdempotent(t *testing.T) {
	m := &MockMorphology{}
	m.On("Analyze", "a").Return([]morphology.Morpheme{
		{Surface: "a", Start: 0, End: 1},
	}, nil)

	tokenizer := NewMorphologicalTokenizer(m, WithPoolSize(1))
	stream, err := tokenizer.TokenStream("a")
	require.NoError(t, err)

	for stream.Advance() {
	}
	require.NoError(t, stream.Close())
	require.NoError(t, stream.Close())

	// 消費完了とCloseの両方を経てもワーカーの返却は1回だけ:
	// 2重返却されていればプール(容量1)に2つ入ろうとして片方が捨てられ
	// 気づけないので、続けて2本のストリームを順に作れることを確認する。
	for i := 0; i < 2; i++ {
		next, err := tokenizer.TokenStream("a")
		require.NoError(t, err)
		require.NoError(t, next.Close())
	}
}
