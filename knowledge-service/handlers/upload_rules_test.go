package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMaxFileSize(t *testing.T) {
	assert.Equal(t, int64(100<<20), parseMaxFileSize("100MB"))
	assert.Equal(t, int64(512<<10), parseMaxFileSize("512KB"))
	assert.Equal(t, int64(1<<30), parseMaxFileSize("1GB"))
	assert.Equal(t, int64(2048), parseMaxFileSize("2048"))
	assert.Equal(t, int64(5<<20), parseMaxFileSize(" 5 mb "))

	// Garbage and non-positive values fall back to 100MB.
	assert.Equal(t, int64(100<<20), parseMaxFileSize(""))
	assert.Equal(t, int64(100<<20), parseMaxFileSize("lots"))
	assert.Equal(t, int64(100<<20), parseMaxFileSize("-1MB"))
	assert.Equal(t, int64(100<<20), parseMaxFileSize("0"))
}

func TestAllowedExtensions(t *testing.T) {
	allowed := allowedExtensions("pdf, .TXT ,md,,docx")

	assert.True(t, allowed[".pdf"])
	assert.True(t, allowed[".txt"])
	assert.True(t, allowed[".md"])
	assert.True(t, allowed[".docx"])
	assert.False(t, allowed[".exe"])
	assert.False(t, allowed[""])
	assert.Len(t, allowed, 4)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "report.pdf", sanitizeFileName("report.pdf"))
	assert.Equal(t, "report.pdf", sanitizeFileName("/tmp/uploads/report.pdf"))
	assert.Equal(t, "passwd", sanitizeFileName("../../etc/passwd"))
	assert.Equal(t, "upload", sanitizeFileName(""))
	assert.Equal(t, "upload", sanitizeFileName("."))
	assert.Equal(t, "upload", sanitizeFileName("   "))
}
