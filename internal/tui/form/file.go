package form

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/playpals/studio/internal/apply"
)

// resolveFile stats path and describes it. The MIME type comes from the
// extension, falling back to sniffing the first 512 bytes. Contents are
// never kept.
func resolveFile(path string) (apply.FileRef, error) {
	path = expandHome(path)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apply.FileRef{}, fmt.Errorf("file not found: %s", path)
		}
		return apply.FileRef{}, fmt.Errorf("reading file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return apply.FileRef{}, fmt.Errorf("not a regular file: %s", path)
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		if mimeType, err = sniff(path); err != nil {
			return apply.FileRef{}, err
		}
	}
	return apply.FileRef{
		Name:     filepath.Base(path),
		Size:     info.Size(),
		MIMEType: mimeType,
	}, nil
}

func sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading file: %w", err)
	}
	return http.DetectContentType(buf[:n]), nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
