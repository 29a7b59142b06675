// Package classifier maps a file name and declared content type to a document kind.
package classifier

import (
	"path/filepath"
	"strings"

	"github.com/viant/docvault/document"
)

var planSetMarkers = []string{"plan", "plans", "rcp", "mech", "elect"}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true,
	".tif": true, ".tiff": true, ".webp": true, ".heic": true, ".heif": true,
}

var spreadsheetExtensions = map[string]bool{
	".xlsx": true, ".xlsm": true, ".xls": true, ".csv": true,
}

var spreadsheetContentTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-excel.sheet.macroenabled.12":                    true,
	"application/vnd.ms-excel":                                          true,
	"text/csv":                                                          true,
	"application/csv":                                                   true,
	"text/comma-separated-values":                                       true,
}

// Classify returns the document kind for filename and contentType.
// It never fails: anything unrecognised is document.KindUnknown.
func Classify(filename, contentType string) document.Kind {
	ct := mediaType(contentType)
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case ct == "application/pdf" || ext == ".pdf":
		if IsPlanSetName(filename) {
			return document.KindPDFPlanSet
		}
		return document.KindPDF
	case strings.HasPrefix(ct, "image/") || imageExtensions[ext]:
		return document.KindPhoto
	case spreadsheetContentTypes[ct] || spreadsheetExtensions[ext]:
		return document.KindSpreadsheet
	}
	return document.KindUnknown
}

// IsPlanSetName reports whether filename carries a plan set marker.
func IsPlanSetName(filename string) bool {
	name := strings.ToLower(filename)
	for _, marker := range planSetMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// IsCSV reports whether a spreadsheet should be read as CSV rather than a workbook.
func IsCSV(filename, contentType string) bool {
	if strings.ToLower(filepath.Ext(filename)) == ".csv" {
		return true
	}
	switch mediaType(contentType) {
	case "text/csv", "application/csv", "text/comma-separated-values":
		return true
	}
	return false
}

// IsLegacyExcel reports whether a spreadsheet is a BIFF (.xls) workbook.
func IsLegacyExcel(filename, contentType string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".xls" {
		return true
	}
	return ext == "" && mediaType(contentType) == "application/vnd.ms-excel"
}

// mediaType lowercases contentType and strips parameters. Generic binary
// types carry no signal and resolve to "".
func mediaType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i != -1 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case "application/octet-stream", "binary/octet-stream":
		return ""
	}
	return ct
}
