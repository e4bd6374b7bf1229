package security

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool   // Whether the file passed all validation checks
	Extension    string // Lower-cased extension including the dot
	DetectedMIME string // MIME type sniffed from the content
	ContentType  string // Content type to store the file with
	Error        string // Error message if validation failed
}

type resumeType struct {
	magic       [][]byte
	mimeRoot    string // sniffed type or one of its ancestors must match
	contentType string
}

// Only PDF and Word documents are accepted as resumes.
var resumeTypes = map[string]resumeType{
	".pdf": {
		magic:       [][]byte{{0x25, 0x50, 0x44, 0x46}}, // %PDF
		mimeRoot:    "application/pdf",
		contentType: "application/pdf",
	},
	".doc": {
		magic:       [][]byte{{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}}, // OLE compound document
		mimeRoot:    "application/x-ole-storage",
		contentType: "application/msword",
	},
	".docx": {
		magic:       [][]byte{{0x50, 0x4B, 0x03, 0x04}}, // ZIP (PK..)
		mimeRoot:    "application/zip",
		contentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	},
}

// ValidateResume checks, in order: extension whitelist, size limit, magic bytes
// and the sniffed MIME type. maxBytes <= 0 disables the size check.
func ValidateResume(filename string, data []byte, maxBytes int64) FileValidationResult {
	var result FileValidationResult

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	rt, ok := resumeTypes[ext]
	if !ok {
		result.Error = "file extension not allowed: " + ext
		return result
	}

	if len(data) == 0 {
		result.Error = "file is empty"
		return result
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		result.Error = fmt.Sprintf("file exceeds the %d byte limit", maxBytes)
		return result
	}

	if !hasMagic(rt.magic, data) {
		result.Error = "file content does not match extension"
		return result
	}

	detected := mimetype.Detect(data)
	result.DetectedMIME = detected.String()
	if !descendsFrom(detected, rt.mimeRoot) {
		result.Error = "MIME type not allowed: " + result.DetectedMIME
		return result
	}

	result.ContentType = rt.contentType
	result.Valid = true
	return result
}

// ValidateResumeExtension checks only the extension (for quick pre-validation)
func ValidateResumeExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return fmt.Errorf("file has no extension")
	}
	if _, ok := resumeTypes[ext]; !ok {
		return fmt.Errorf("file extension not allowed: %s", ext)
	}
	return nil
}

func hasMagic(signatures [][]byte, data []byte) bool {
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

func descendsFrom(m *mimetype.MIME, root string) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is(root) {
			return true
		}
	}
	return false
}
