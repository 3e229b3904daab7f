package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eniola-bakare/notemark/internal/core"
	"github.com/eniola-bakare/notemark/internal/core/faults"
)

func TestNewRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name          string
		size, overlap int
	}{
		{"zero size", 0, 0},
		{"negative size", -1, 0},
		{"negative overlap", 100, -1},
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 150},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.size, tc.overlap)
			require.Error(t, err)
			var cfgErr *faults.InvalidConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestSplitEmptyInput(t *testing.T) {
	s, err := New(1000, 200)
	require.NoError(t, err)
	assert.Empty(t, s.Split(""))
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	s, err := New(1000, 200)
	require.NoError(t, err)

	chunks := s.Split("a short document")
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short document", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Index)
}

// 1200 'A's with size=1000/overlap=200: no separators exist, so the cut is
// hard at 1000 and the second chunk restarts 200 back.
func TestSplitHardCutWithOverlap(t *testing.T) {
	s, err := New(1000, 200)
	require.NoError(t, err)

	chunks := s.Split(strings.Repeat("A", 1200))
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0].Text, 1000)
	assert.Len(t, chunks[1].Text, 400)
	assert.Equal(t, chunks[0].Text[800:], chunks[1].Text[:200])
}

func TestSplitInvariants(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 200)

	configs := []struct{ size, overlap int }{
		{1000, 200},
		{500, 0},
		{300, 120},
		{64, 16},
	}
	for _, cfg := range configs {
		s, err := New(cfg.size, cfg.overlap)
		require.NoError(t, err)

		chunks := s.Split(text)
		require.NotEmpty(t, chunks)

		for i, ch := range chunks {
			assert.LessOrEqual(t, len([]rune(ch.Text)), cfg.size, "chunk %d exceeds size for %+v", i, cfg)
			assert.Equal(t, i, ch.Index)
		}
		if cfg.overlap == 0 {
			continue
		}
		for i := 1; i < len(chunks); i++ {
			prev, cur := []rune(chunks[i-1].Text), []rune(chunks[i].Text)
			n := min(cfg.overlap, len(prev))
			tail := string(prev[len(prev)-n:])
			assert.True(t, strings.HasPrefix(string(cur), tail),
				"chunk %d does not re-include the previous tail for %+v", i, cfg)
		}
	}
}

func TestSplitPrefersSeparatorBoundaries(t *testing.T) {
	// One paragraph break sits inside the window's second half; the cut
	// should land there instead of mid-word.
	para1 := strings.Repeat("x", 700)
	para2 := strings.Repeat("y", 600)
	s, err := New(1000, 0)
	require.NoError(t, err)

	chunks := s.Split(para1 + "\n\n" + para2)
	require.GreaterOrEqual(t, len(chunks), 2)
	assert.True(t, strings.HasSuffix(chunks[0].Text, "\n\n"))
	assert.Equal(t, para1+"\n\n", chunks[0].Text)
}

func TestSplitPagesTagsDominantPage(t *testing.T) {
	pages := []core.PageText{
		{Page: 1, Text: strings.Repeat("alpha ", 120)}, // 720 chars
		{Page: 2, Text: strings.Repeat("beta ", 120)},  // 600 chars
	}
	s, err := New(500, 50)
	require.NoError(t, err)

	chunks := s.SplitPages(pages)
	require.NotEmpty(t, chunks)

	assert.Equal(t, 1, chunks[0].Page)
	assert.Equal(t, 2, chunks[len(chunks)-1].Page)
	for i, ch := range chunks {
		assert.Equal(t, i, ch.Index)
		assert.NotZero(t, ch.Page)
	}
}

func TestSplitPagesEmpty(t *testing.T) {
	s, err := New(1000, 200)
	require.NoError(t, err)
	assert.Empty(t, s.SplitPages(nil))
	assert.Empty(t, s.SplitPages([]core.PageText{{Page: 1, Text: "   \n "}}))
}
