package handlers

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"tenanthub-backend/shared/config"
)

// parseMaxFileSize turns the configured limit ("100MB", "512KB", plain
// bytes) into a byte count. Unparseable values fall back to 100MB.
func parseMaxFileSize(raw string) int64 {
	const fallback = 100 << 20

	value := strings.TrimSpace(strings.ToUpper(raw))
	multiplier := int64(1)
	switch {
	case strings.HasSuffix(value, "GB"):
		multiplier = 1 << 30
		value = strings.TrimSuffix(value, "GB")
	case strings.HasSuffix(value, "MB"):
		multiplier = 1 << 20
		value = strings.TrimSuffix(value, "MB")
	case strings.HasSuffix(value, "KB"):
		multiplier = 1 << 10
		value = strings.TrimSuffix(value, "KB")
	}

	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n * multiplier
}

// allowedExtensions parses the configured extension list into a lookup set.
func allowedExtensions(raw string) map[string]bool {
	out := make(map[string]bool)
	for _, ext := range strings.Split(raw, ",") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out[ext] = true
	}
	return out
}

// validateUpload enforces the configured size and extension limits.
func validateUpload(header *multipart.FileHeader) error {
	cfg := config.GetConfig()

	maxSize := parseMaxFileSize(cfg.KnowledgeMaxFileSize)
	if header.Size > maxSize {
		return fmt.Errorf("file exceeds the maximum allowed size of %s", cfg.KnowledgeMaxFileSize)
	}

	allowed := allowedExtensions(cfg.KnowledgeAllowedTypes)
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowed[ext] {
		return fmt.Errorf("file type %q is not allowed (allowed: %s)", ext, cfg.KnowledgeAllowedTypes)
	}

	return nil
}

// sanitizeFileName keeps object keys flat: path separators and parent
// references are stripped from the client-supplied name.
func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" {
		return "upload"
	}
	return name
}
