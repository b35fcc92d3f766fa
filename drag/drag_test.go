package drag

import (
	"strings"
	"testing"

	"github.com/grovetools/tabs/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

var noopSource = SourceFunc(func(*Session) error { return nil })

func TestNewToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		tok, err := NewToken()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(tok, TokenPrefix))
		assert.Len(t, tok, len(TokenPrefix)+tokenLength)
		assert.False(t, seen[tok], "duplicate token %s", tok)
		seen[tok] = true
	}
}

func TestNewSession(t *testing.T) {
	src := &item{Title: "Y", Tags: []string{"a"}}

	s, err := NewSession("c", 1, src, noopSource)
	require.NoError(t, err)
	assert.Equal(t, "c", s.Category)
	assert.Equal(t, 1, s.SourceIndex)
	assert.Equal(t, Dragging, s.State())
	assert.NotEmpty(t, s.Token)

	// The payload is a copy: mutating the source afterwards does not leak in.
	src.Title = "changed"
	src.Tags[0] = "b"
	var got item
	require.NoError(t, s.Decode(&got))
	assert.Equal(t, "Y", got.Title)
	assert.Equal(t, []string{"a"}, got.Tags)
}

func TestNewSessionErrors(t *testing.T) {
	_, err := NewSession("", 0, item{}, noopSource)
	assert.True(t, errors.Is(err, errors.ErrCodeCategoryMissing))

	_, err = NewSession("c", 0, item{}, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeNoCollection))

	_, err = NewSession("c", -1, item{}, noopSource)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = NewSession("c", 0, make(chan int), noopSource)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestSessionFinish(t *testing.T) {
	s, err := NewSession("c", 0, item{}, noopSource)
	require.NoError(t, err)

	s.Finish(true)
	assert.Equal(t, Accepted, s.State())
	s.Finish(false)
	assert.Equal(t, Accepted, s.State(), "outcome is recorded once")
	assert.Equal(t, "accepted", s.State().String())
}

func TestTransfer(t *testing.T) {
	s, err := NewSession("c", 3, item{Title: "Z"}, noopSource)
	require.NoError(t, err)

	tr := s.Transfer()
	require.NoError(t, tr.Validate())
	assert.Equal(t, s.Token, tr.Token())
	assert.Equal(t, "c", tr.Category())
	idx, ok := tr.Index()
	assert.True(t, ok)
	assert.Equal(t, 3, idx)

	raw, err := tr.Encode()
	require.NoError(t, err)
	decoded, err := DecodeTransfer(raw)
	require.NoError(t, err)
	assert.Equal(t, tr, decoded)
}

func TestTransferValidate(t *testing.T) {
	full := Transfer{
		KeyIndex:    "0",
		KeyCategory: "c",
		KeyJSON:     `{"title":"X"}`,
		KeyToken:    "drag-abc",
	}

	tests := []struct {
		name   string
		mutate func(Transfer)
		field  string
	}{
		{"missing token", func(t Transfer) { delete(t, KeyToken) }, KeyToken},
		{"missing category", func(t Transfer) { delete(t, KeyCategory) }, KeyCategory},
		{"bad index", func(t Transfer) { t[KeyIndex] = "x" }, KeyIndex},
		{"bad json", func(t Transfer) { t[KeyJSON] = "{" }, KeyJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := Transfer{}
			for k, v := range full {
				tr[k] = v
			}
			tt.mutate(tr)

			err := tr.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidTransfer))
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	var nilTransfer Transfer
	assert.Equal(t, "", nilTransfer.Token())
	assert.Error(t, nilTransfer.Validate())

	_, err := DecodeTransfer("nope")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidTransfer))
}
