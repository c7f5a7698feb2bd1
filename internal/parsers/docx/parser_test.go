package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parchment-labs/docuchat/internal/core/domain"
)

// createTestDOCX creates a minimal valid DOCX file in memory.
func createTestDOCX(documentXML, coreXML string) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	contentTypes, _ := w.Create("[Content_Types].xml")
	contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))

	if documentXML != "" {
		doc, _ := w.Create("word/document.xml")
		doc.Write([]byte(documentXML))
	}

	if coreXML != "" {
		core, _ := w.Create("docProps/core.xml")
		core.Write([]byte(coreXML))
	}

	w.Close()
	return buf.Bytes()
}

func TestSupportedMIMETypes(t *testing.T) {
	parser := New()
	mimeTypes := parser.SupportedMIMETypes()

	require.Len(t, mimeTypes, 1)
	assert.Contains(t, mimeTypes, "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
}

func TestParse_Success(t *testing.T) {
	parser := New()
	ctx := context.Background()

	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Hello World</w:t></w:r></w:p>
<w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>
</w:body>
</w:document>`

	coreXML := `<?xml version="1.0" encoding="UTF-8"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
xmlns:dc="http://purl.org/dc/elements/1.1/">
<dc:title>Test Document</dc:title>
</cp:coreProperties>`

	raw := &domain.RawDocument{
		SessionID: "sess-1",
		Filename:  "report.docx",
		MIMEType:  "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Content:   createTestDOCX(docXML, coreXML),
	}

	result, err := parser.Parse(ctx, raw)
	require.NoError(t, err)
	require.NotNil(t, result)

	doc := result.Document
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "sess-1", doc.SessionID)
	assert.Equal(t, "report.docx", doc.Filename)
	assert.Equal(t, domain.FormatDOCX, doc.Format)
	assert.Equal(t, "Test Document", doc.Title)
	assert.Equal(t, "Hello World\nSecond paragraph", doc.Content)
}

func TestParse_TitleFallsBackToFilename(t *testing.T) {
	parser := New()

	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>text</w:t></w:r></w:p></w:body>
</w:document>`

	raw := &domain.RawDocument{
		Filename: "quarterly_report.docx",
		MIMEType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Content:  createTestDOCX(docXML, ""),
	}

	result, err := parser.Parse(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "quarterly report", result.Document.Title)
}

func TestParse_NotAZip(t *testing.T) {
	parser := New()

	raw := &domain.RawDocument{
		Filename: "bad.docx",
		Content:  []byte("this is not a zip archive"),
	}

	_, err := parser.Parse(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParse_NilInput(t *testing.T) {
	parser := New()

	_, err := parser.Parse(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
