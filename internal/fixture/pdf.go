package fixture

import (
	"bytes"
	"fmt"

	"easel/internal/fileutil"
)

// sampleLines is the page content of the generated document. The pipeline
// only needs parseable text, so a short explainer doubles as a usable demo
// input.
var sampleLines = []string{
	"The Doodle Video Pipeline",
	"",
	"This sample document exists so the PDF-to-shorts pipeline has valid",
	"input on a fresh machine. Point the pipeline at any real PDF to",
	"generate a short: the content extractor pulls the text, the script",
	"writer turns it into scenes, the visuals maker draws each scene,",
	"the narrator records the voiceover, and the composer assembles the",
	"final vertical video.",
	"",
	"Replace example.pdf with your own document when you are ready.",
}

// Sample renders the built-in single-page PDF. The output is byte-for-byte
// deterministic: no timestamps, no IDs, fixed object ordering.
func Sample() []byte {
	content := contentStream()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(content), content),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, offset := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefOffset)

	return buf.Bytes()
}

// contentStream lays the sample lines out top-down with a larger first line
// acting as the title.
func contentStream() string {
	var buf bytes.Buffer
	buf.WriteString("BT\n/F1 18 Tf\n72 720 Td\n")
	for i, line := range sampleLines {
		if i == 1 {
			buf.WriteString("/F1 11 Tf\n")
		}
		fmt.Fprintf(&buf, "(%s) Tj\n0 -18 Td\n", escapeText(line))
	}
	buf.WriteString("ET\n")
	return buf.String()
}

func escapeText(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '(', ')', '\\':
			buf.WriteByte('\\')
		}
		buf.WriteRune(r)
	}
	return buf.String()
}

// EnsureSample writes the sample document to path unless a file already
// exists there. Existing files are never touched, whatever their content.
// Returns true when the fixture was created.
func EnsureSample(path string) (bool, error) {
	return fileutil.WriteFileIfAbsent(path, Sample(), 0o644)
}
