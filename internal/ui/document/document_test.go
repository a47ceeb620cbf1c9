package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentQueries(t *testing.T) {
	d := New()
	d.Add("hero-title", KindHeading, "\x1b[1m深海圈\x1b[0m")
	d.Add("faq-item", KindItem, "Q1")
	d.Add("faq-item", KindItem, "Q2")
	d.Add("course-card-a", KindCard, "A")
	d.Add("course-card-b", KindCard, "B")

	assert.True(t, d.Has("hero-title"))
	assert.False(t, d.Has("missing"))
	assert.Equal(t, 2, d.Count("faq-item"))
	assert.Equal(t, 2, d.CountPrefix("course-card-"))
	assert.Equal(t, 0, d.FormControls())
	assert.Equal(t, "深海圈\nQ1\nQ2\nA\nB", d.Text())
	assert.Len(t, d.Nodes(), 5)
}

func TestDocumentBodyWins(t *testing.T) {
	d := New()
	d.Add("x", KindItem, "node text")
	d.SetBody("\x1b[31mframe\x1b[0m")
	assert.Equal(t, "frame", d.Text())
}

func TestFormControls(t *testing.T) {
	d := New()
	d.Add("", KindInput, "")
	d.Add("", KindForm, "")
	assert.Equal(t, 2, d.FormControls())
}
