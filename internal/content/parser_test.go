package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrontmatter(t *testing.T) {
	raw := []byte("---\ntitle: Churn Model\ntags:\n  - ml\n  - python\n---\n\n# Hello\n\nBody text.\n")

	doc, err := Parse("projects/churn.md", raw)
	require.NoError(t, err)

	assert.Equal(t, "Churn Model", doc.Frontmatter["title"])
	assert.Equal(t, []any{"ml", "python"}, doc.Frontmatter["tags"])
	assert.Equal(t, "# Hello\n\nBody text.\n", doc.Body)
	assert.Len(t, doc.Hash, 64)
}

func TestParseCRLF(t *testing.T) {
	raw := []byte("---\r\ntitle: Windows Authored\r\n---\r\nBody\r\n")

	doc, err := Parse("blog/win.md", raw)
	require.NoError(t, err)

	assert.Equal(t, "Windows Authored", doc.Frontmatter["title"])
	assert.Equal(t, "Body\r\n", doc.Body)
}

func TestParseNoFrontmatter(t *testing.T) {
	doc, err := Parse("about.md", []byte("just a body\n"))
	require.NoError(t, err)

	assert.Nil(t, doc.Frontmatter)
	assert.Equal(t, "just a body\n", doc.Body)
}

func TestParseUnclosedFence(t *testing.T) {
	_, err := Parse("blog/broken.md", []byte("---\ntitle: Oops\n\nno closing fence"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blog/broken.md")
	assert.Contains(t, err.Error(), "no closing frontmatter delimiter")
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse("blog/bad.md", []byte("---\ntitle: [unbalanced\n---\nbody"))
	require.Error(t, err)
}

func TestParseEmptyBody(t *testing.T) {
	doc, err := Parse("blog/stub.md", []byte("---\ntitle: Stub\n---\n"))
	require.NoError(t, err)

	assert.Equal(t, "Stub", doc.Frontmatter["title"])
	assert.Equal(t, "", doc.Body)
}
