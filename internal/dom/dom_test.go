package dom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/dom"
	"github.com/Makepad-fr/tada/internal/surface"
)

func TestParse_Rows(t *testing.T) {
	markup := `<li><span><input type="text" id="listid7" value="Tom &amp; Jerry" readonly></span>` +
		`<button class="btn--edit" data-id="7"><svg></svg></button>` +
		`<button class="btn--delete" data-id="7"></button></li>` +
		`<li><input id="listid8" value="B"><button class="btn--delete" data-id="8"></button></li>`

	f, err := dom.Parse(markup)
	require.NoError(t, err)
	require.Len(t, f.Rows, 2)
	assert.Empty(t, f.Text)

	first := f.Rows[0]
	assert.Equal(t, dom.Element{Tag: "INPUT", ID: "listid7", Value: "Tom & Jerry", ReadOnly: true}, first.Input)
	edit, ok := first.Control(surface.ClassEdit)
	require.True(t, ok)
	assert.Equal(t, surface.Target{Tag: surface.TagButton, Class: surface.ClassEdit, Ref: "7"}, edit.Target())

	second := f.Rows[1]
	assert.False(t, second.Input.ReadOnly)
	_, ok = second.Control(surface.ClassEdit)
	assert.False(t, ok)

	el, ok := f.Element("listid8")
	require.True(t, ok)
	assert.Equal(t, "B", el.Value)
	_, ok = f.Element("listid9")
	assert.False(t, ok)
}

func TestParse_LooseText(t *testing.T) {
	f, err := dom.Parse("  no active tasks ")
	require.NoError(t, err)
	assert.Empty(t, f.Rows)
	assert.Equal(t, "no active tasks", f.Text)

	f, err = dom.Parse("")
	require.NoError(t, err)
	assert.Empty(t, f.Rows)
	assert.Empty(t, f.Text)
}
