package commonModels

import (
	"path/filepath"
	"strings"
)

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var ERR DocType = "ERROR"

// DocTypeOf classifies a filename by its suffix, ignoring case. Anything the
// QA service cannot ingest is ERR.
func DocTypeOf(filename string) DocType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF
	case ".docx":
		return DOCX
	case ".txt":
		return TXT
	default:
		return ERR
	}
}

func IsAllowedFile(filename string) bool {
	return DocTypeOf(filename) != ERR
}
