package domain

import (
	"path/filepath"
	"strings"
)

// Supported document format tags.
const (
	FormatPDF      = "pdf"
	FormatDOCX     = "docx"
	FormatPPTX     = "pptx"
	FormatText     = "txt"
	FormatMarkdown = "md"
	FormatCSV      = "csv"
	FormatHTML     = "html"
)

// mimeByExtension maps file extensions to MIME types for upload handling.
var mimeByExtension = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".html": "text/html",
	".htm":  "text/html",
}

// MIMETypeForFilename returns the MIME type implied by a file name's
// extension, or empty string if the extension is unknown.
func MIMETypeForFilename(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	return mimeByExtension[ext]
}
