// Package parsers provides text extraction for the supported document
// formats. Each sub-package implements driven.Parser for one format; the
// Registry in this package selects between them by MIME type and priority.
package parsers
