package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/JonMunkholm/LeadImport/internal/core"
)

// multipartOverhead leaves room for form fields and part headers on top of
// the file itself.
const multipartOverhead = 1 << 20

// readUpload parses a multipart request with a "file" part and an optional
// "mapping" JSON object of field name to column index.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (core.Upload, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return core.Upload{}, errFileTooLarge
		}
		return core.Upload{}, fmt.Errorf("%w: %v", errInvalidForm, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return core.Upload{}, errNoFile
	}
	defer file.Close()

	if header.Size > maxSize {
		return core.Upload{}, errFileTooLarge
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return core.Upload{}, fmt.Errorf("%w: %v", errInvalidForm, err)
	}

	u := core.Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}

	if raw := r.FormValue("mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &u.Mapping); err != nil {
			return core.Upload{}, fmt.Errorf("%w: mapping must be a JSON object of field to column index", core.ErrInvalidMapping)
		}
	}
	return u, nil
}
