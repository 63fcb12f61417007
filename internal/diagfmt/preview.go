package diagfmt

import (
	"bytes"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"convlint/internal/source"
)

// preview holds the lines a text edit changes. Fix edits usually replace a
// whole declaration, so identical leading and trailing lines of the block are
// dropped. line is the 1-based number of the first changed original line.
type preview struct {
	line   uint32
	before []string
	after  []string
}

func buildPreview(fs *source.FileSet, edit TextEdit) (preview, error) {
	if fs == nil {
		return preview{}, fmt.Errorf("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return preview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return preview{}, fmt.Errorf("len file content overflow: %w", err)
	}
	if edit.Span.Start > edit.Span.End || edit.Span.End > size {
		return preview{}, fmt.Errorf("edit span %d..%d out of range for %d bytes", edit.Span.Start, edit.Span.End, size)
	}

	content := file.Content
	// блок расширяется до целых строк
	blockStart := bytes.LastIndexByte(content[:edit.Span.Start], '\n') + 1
	blockEnd := len(content)
	if i := bytes.IndexByte(content[edit.Span.End:], '\n'); i >= 0 {
		blockEnd = int(edit.Span.End) + i + 1
	}

	var after bytes.Buffer
	after.Write(content[blockStart:edit.Span.Start])
	after.WriteString(edit.NewText)
	after.Write(content[edit.Span.End:blockEnd])

	before := splitPreviewLines(content[blockStart:blockEnd])
	changed := splitPreviewLines(after.Bytes())
	head, tail := commonLines(before, changed)

	line, err := safecast.Conv[uint32](bytes.Count(content[:blockStart], []byte{'\n'}) + head + 1)
	if err != nil {
		return preview{}, fmt.Errorf("preview line overflow: %w", err)
	}
	return preview{
		line:   line,
		before: before[head : len(before)-tail],
		after:  changed[head : len(changed)-tail],
	}, nil
}

// commonLines counts equal lines at the start and at the end of a and b.
// The two runs never overlap.
func commonLines(a, b []string) (head, tail int) {
	limit := min(len(a), len(b))
	for head < limit && a[head] == b[head] {
		head++
	}
	for tail < limit-head && a[len(a)-1-tail] == b[len(b)-1-tail] {
		tail++
	}
	return head, tail
}

func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	// последний перевод строки не даёт пустого хвоста
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}
