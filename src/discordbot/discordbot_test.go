package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkMessageShortTextSingleChunk(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"hello"}, chunkMessage("hello", 2000))
	assert.Nil(t, chunkMessage("", 2000))
}

func TestChunkMessagePrefersNewlines(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("line one\n", 3) + "tail"
	chunks := chunkMessage(text, 20)
	require.Greater(t, len(chunks), 1)
	assert.Equal(t, text, strings.Join(chunks, ""))
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 20)
	}
}

func TestChunkMessageKeepsRunesIntact(t *testing.T) {
	t.Parallel()

	// Three-byte runes with a limit that is not a multiple of three forces
	// every naive byte cut to land mid-rune.
	text := strings.Repeat("€", 50) // euro sign, 3 bytes each
	chunks := chunkMessage(text, 10)
	require.Greater(t, len(chunks), 1)
	assert.Equal(t, text, strings.Join(chunks, ""))
	for i, c := range chunks {
		assert.True(t, utf8.ValidString(c), "chunk %d is not valid UTF-8", i)
		assert.LessOrEqual(t, len(c), 10)
	}
}

func TestChunkMessageMixedContent(t *testing.T) {
	t.Parallel()

	text := "proposal summary: éééééééé end"
	chunks := chunkMessage(text, 21)
	assert.Equal(t, text, strings.Join(chunks, ""))
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c))
	}
}
