package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/docgrid"
)

// MaxUploadSize caps uploaded documents at 50MB.
const MaxUploadSize = 50 << 20

// extractResponse is the extraction contract plus the session handle the
// mutation endpoints address.
type extractResponse struct {
	SessionID string `json:"sessionId"`
	*docgrid.Extraction
}

// handleExtract accepts a multipart upload with a "file" part and optional
// "robust", "namer", and "validate" flags, runs the pipeline, and registers
// the resulting session.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		Error(w, r, docgrid.Errorf(docgrid.EINVALID, "expected multipart/form-data: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		Error(w, r, docgrid.Errorf(docgrid.EINVALID, "no file uploaded"))
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".docx") {
		Error(w, r, docgrid.Errorf(docgrid.EINVALID,
			"only .docx files are supported; convert .doc files to .docx format"))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize))
	if err != nil {
		Error(w, r, docgrid.Errorf(docgrid.EINTERNAL, "reading upload: %v", err))
		return
	}

	cfg := docgrid.DefaultConfig()
	cfg.RobustParsing = formBool(r, "robust")
	if v := r.FormValue("namer"); v != "" {
		cfg.EnableAutoNamer = v == "true"
	}
	if v := r.FormValue("validate"); v != "" {
		cfg.EnableValidator = v == "true"
	}

	sess, err := s.ExtractService.Extract(r.Context(), data, cfg)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if c, ok := statusCodes[docgrid.ErrorCode(err)]; ok {
			status = c
		}
		writeJSON(w, status, extractResponse{Extraction: docgrid.FailedExtraction(err)})
		return
	}

	id := s.registerSession(sess)
	writeJSON(w, http.StatusOK, extractResponse{SessionID: id, Extraction: sess.Result()})
}

func formBool(r *http.Request, name string) bool {
	return strings.EqualFold(r.FormValue(name), "true")
}
