package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var (
	pdfBytes  = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")
	docBytes  = append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 512)...)
	docxBytes = append([]byte("PK\x03\x04"), make([]byte, 64)...)
	pngBytes  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
)

func TestValidateResume_Accepts(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		data        []byte
		contentType string
	}{
		{"pdf", "cv.pdf", pdfBytes, "application/pdf"},
		{"upper-case extension", "CV.PDF", pdfBytes, "application/pdf"},
		{"doc", "cv.doc", docBytes, "application/msword"},
		{"docx", "cv.docx", docxBytes, "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateResume(tt.filename, tt.data, 1<<20)
			assert.True(t, res.Valid, res.Error)
			assert.Equal(t, tt.contentType, res.ContentType)
		})
	}
}

func TestValidateResume_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		max      int64
	}{
		{"no extension", "resume", pdfBytes, 0},
		{"image extension", "resume.png", pngBytes, 0},
		{"text extension", "resume.txt", []byte("hello world"), 0},
		{"empty", "resume.pdf", nil, 0},
		{"too large", "resume.pdf", pdfBytes, 8},
		{"spoofed pdf", "resume.pdf", pngBytes, 0},
		{"docx that is a pdf", "resume.docx", pdfBytes, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateResume(tt.filename, tt.data, tt.max)
			assert.False(t, res.Valid)
			assert.NotEmpty(t, res.Error)
		})
	}
}

func TestValidateResumeExtension(t *testing.T) {
	assert.NoError(t, ValidateResumeExtension("a.docx"))
	assert.Error(t, ValidateResumeExtension("a.exe"))
	assert.Error(t, ValidateResumeExtension("noext"))
}

func TestMasking(t *testing.T) {
	assert.Equal(t, "j***@example.com", MaskEmail("jane@example.com"))
	assert.Equal(t, "***@x.io", MaskEmail("j@x.io"))
	assert.Equal(t, "***", MaskEmail("not-an-email"))
	assert.Equal(t, "a***", MaskUsername("alice"))
	assert.Equal(t, "***", MaskUsername(" "))
	assert.Len(t, HashValue("42"), 16)
}

func TestSecurityLogger_AccessDenied(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "job-board", "test")

	ctx := WithRequestID(context.Background(), "req-1")
	sl.LogAccessDenied(ctx, 7, "apply", "only job seekers can perform this action")

	entries := logs.FilterMessage(string(EventAccessDenied)).All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "7", fields["subject_value"])
		assert.Equal(t, "req-1", fields["request_id"])
	}
}

func TestSecurityLogger_LoginSuccessIsInfo(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "job-board", "test")

	sl.LogLoginSuccess(context.Background(), 3, "127.0.0.1", "")
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.InfoLevel).Len())
}

func TestDefaultLogger_NeverNil(t *testing.T) {
	assert.NotNil(t, DefaultLogger())
}
