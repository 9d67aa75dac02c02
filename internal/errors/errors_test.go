package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryString(t *testing.T) {
	tests := map[string]struct {
		category Category
		want     string
	}{
		"resolution": {Resolution, "Resolution Error"},
		"traversal":  {Traversal, "Traversal Error"},
		"fetch":      {Fetch, "Fetch Error"},
		"config":     {Config, "Configuration Error"},
		"unknown":    {Category(99), "Error"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.category.String())
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := map[string]struct {
		err          *Error
		wantCategory Category
	}{
		"resolution": {NewResolutionError("no tag"), Resolution},
		"traversal":  {NewTraversalError("empty range"), Traversal},
		"fetch":      {NewFetchError("502 from provider"), Fetch},
		"config":     {NewConfigError("bad format"), Config},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			require.NotNil(t, tc.err)
			assert.Equal(t, tc.wantCategory, tc.err.Category)
			assert.True(t, IsCategory(tc.err, tc.wantCategory))
		})
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, Fetch, "fetching page 3")

	require.NotNil(t, err)
	assert.Equal(t, Fetch, err.Category)
	assert.Contains(t, err.Error(), "fetching page 3")
	assert.Contains(t, err.Error(), "connection refused")
	assert.True(t, stderrors.Is(err, cause))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, Fetch, "ignored"))
}

func TestAs(t *testing.T) {
	err := NewTraversalError("empty")
	assert.Equal(t, err, As(err))
	assert.Nil(t, As(fmt.Errorf("plain")))
	assert.Nil(t, As(nil))
}

func TestFormatPlain(t *testing.T) {
	err := NewResolutionError("no tag reachable", "Create a tag first")
	out := FormatPlain(err)

	assert.Contains(t, out, "Error [Resolution Error]: no tag reachable")
	assert.Contains(t, out, "To fix this:")
	assert.Contains(t, out, "- Create a tag first")
}

func TestFormatNil(t *testing.T) {
	assert.Empty(t, Format(nil))
	assert.Empty(t, FormatPlain(nil))
}
