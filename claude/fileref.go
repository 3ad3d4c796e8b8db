package claude

import (
	"fmt"
	"regexp"

	"github.com/spf13/afero"
)

// documentPattern matches an inlined document block. The path is captured.
var documentPattern = regexp.MustCompile(`(?s)<document path="([^"]+)">.*?</document>`)

// substituteFileReferences replaces inlined documents whose file exists with a
// short notice pointing at the file. Other blocks are left untouched.
func substituteFileReferences(fsys afero.Fs, prompt string) string {
	return documentPattern.ReplaceAllStringFunc(prompt, func(block string) string {
		m := documentPattern.FindStringSubmatch(block)
		if m == nil {
			return block
		}
		path := m[1]
		if exists, err := afero.Exists(fsys, path); err != nil || !exists {
			return block
		}
		return fileReferenceNotice(path)
	})
}

func fileReferenceNotice(path string) string {
	return fmt.Sprintf("[Document omitted: read the file at %s]", path)
}
