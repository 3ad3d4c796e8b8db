package claude

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstituteFileReferences(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/repo/main.go", []byte("package main"), 0o644))

	prompt := "Review these:\n" +
		"<document path=\"/repo/main.go\">package main\n\nfunc main() {}\n</document>\n" +
		"<document path=\"/repo/missing.go\">inline body</document>"

	got := substituteFileReferences(fsys, prompt)

	assert.Contains(t, got, fileReferenceNotice("/repo/main.go"))
	assert.NotContains(t, got, "func main() {}")
	assert.Contains(t, got, `<document path="/repo/missing.go">inline body</document>`)
	assert.Contains(t, got, "Review these:")
}

func TestSubstituteFileReferences_NoDocuments(t *testing.T) {
	prompt := "Human: hello\n\nAssistant:"
	assert.Equal(t, prompt, substituteFileReferences(afero.NewMemMapFs(), prompt))
}
