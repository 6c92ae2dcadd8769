package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fwojciec/docgrid"
)

// mutationRequest carries the body of every table mutation endpoint. Only
// the fields a given operation reads are required.
type mutationRequest struct {
	Name  string `json:"name"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Value string `json:"value"`
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return docgrid.Errorf(docgrid.EINVALID, "invalid request body: %v", err)
	}
	return nil
}

// tableIndex parses the {index} route parameter.
func tableIndex(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, docgrid.Errorf(docgrid.EINVALID, "invalid table index %q", raw)
	}
	return n, nil
}

// respondResult writes the refreshed extraction contract with an ETag
// derived from the session's table fingerprints.
func (s *Server) respondResult(w http.ResponseWriter, sess *docgrid.Session) {
	w.Header().Set("ETag", sessionETag(sess))
	writeJSON(w, http.StatusOK, sess.Result())
}

func (s *Server) handleSessionResult(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		Error(w, r, err)
		return
	}
	if etag := sessionETag(sess); r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	s.respondResult(w, sess)
}

func (s *Server) handleSessionClose(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session(r); err != nil {
		Error(w, r, err)
		return
	}
	s.dropSession(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

// mutate runs fn against the addressed table and responds with the
// refreshed contract. Mutations on unknown or deleted indexes are silent
// no-ops, matching the session semantics.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(sess *docgrid.Session, index int, req mutationRequest)) {
	sess, err := s.session(r)
	if err != nil {
		Error(w, r, err)
		return
	}
	index, err := tableIndex(r)
	if err != nil {
		Error(w, r, err)
		return
	}
	var req mutationRequest
	if err := decodeBody(r, &req); err != nil {
		Error(w, r, err)
		return
	}
	fn(sess, index, req)
	s.respondResult(w, sess)
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *docgrid.Session, index int, req mutationRequest) {
		sess.Rename(index, req.Name)
	})
}

func (s *Server) handleUpdateHeader(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *docgrid.Session, index int, req mutationRequest) {
		sess.UpdateHeader(index, req.Col, req.Value)
	})
}

func (s *Server) handleDemoteHeader(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *docgrid.Session, index int, _ mutationRequest) {
		sess.DemoteHeader(index)
	})
}

func (s *Server) handlePromoteRow(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *docgrid.Session, index int, req mutationRequest) {
		sess.PromoteRow(index, req.Row)
	})
}

func (s *Server) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *docgrid.Session, index int, req mutationRequest) {
		sess.DeleteRow(index, req.Row)
	})
}

func (s *Server) handleFillDown(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *docgrid.Session, index int, req mutationRequest) {
		sess.FillDown(index, req.Col)
	})
}

func (s *Server) handleAddNameColumn(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *docgrid.Session, index int, _ mutationRequest) {
		sess.AddNameColumn(index)
	})
}

func (s *Server) handleSplitRow(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *docgrid.Session, index int, req mutationRequest) {
		sess.SplitRow(index, req.Row)
	})
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *docgrid.Session, index int, _ mutationRequest) {
		sess.Approve(index)
	})
}

func (s *Server) handleDeleteTable(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *docgrid.Session, index int, _ mutationRequest) {
		sess.DeleteTable(index)
	})
}

func (s *Server) handleRestoreTable(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *docgrid.Session, index int, _ mutationRequest) {
		sess.RestoreTable(index)
	})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *docgrid.Session, index int, _ mutationRequest) {
		sess.Select(index)
	})
}

func (s *Server) handleDeselect(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *docgrid.Session, index int, _ mutationRequest) {
		sess.Deselect(index)
	})
}

type mergeRequest struct {
	// Indices merges an explicit set; empty merges the current selection.
	Indices []int `json:"indices"`
}

type mergeResponse struct {
	MergedIndex int                 `json:"mergedIndex"`
	Result      *docgrid.Extraction `json:"result"`
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		Error(w, r, err)
		return
	}
	var req mergeRequest
	if err := decodeBody(r, &req); err != nil {
		Error(w, r, err)
		return
	}

	var index int
	if len(req.Indices) > 0 {
		index, err = sess.MergeTables(req.Indices)
	} else {
		index, err = sess.MergeSelected()
	}
	if err != nil {
		Error(w, r, err)
		return
	}

	w.Header().Set("ETag", sessionETag(sess))
	writeJSON(w, http.StatusOK, mergeResponse{MergedIndex: index, Result: sess.Result()})
}
