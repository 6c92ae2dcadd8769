package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fwojciec/docgrid"
)

func (s *Server) handleRecordStart(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		Error(w, r, err)
		return
	}
	sess.StartRecording()
	writeJSON(w, http.StatusOK, map[string]bool{"recording": true})
}

func (s *Server) handleRecordStop(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		Error(w, r, err)
		return
	}
	sess.StopRecording()
	writeJSON(w, http.StatusOK, map[string]any{
		"recording": false,
		"events":    sess.Events(),
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"recording": sess.Recording(),
		"events":    sess.Events(),
	})
}

type replayRequest struct {
	// Macro names a persisted macro to replay; Events replays an inline
	// log instead. Macro wins when both are set.
	Macro  string               `json:"macro"`
	Events []docgrid.MacroEvent `json:"events"`

	// SettleMs is the pause between steps in milliseconds.
	SettleMs int `json:"settleMs"`
}

type replayResponse struct {
	Replay *docgrid.ReplayResult `json:"replay"`
	Result *docgrid.Extraction   `json:"result"`
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		Error(w, r, err)
		return
	}
	var req replayRequest
	if err := decodeBody(r, &req); err != nil {
		Error(w, r, err)
		return
	}

	events := req.Events
	if req.Macro != "" {
		if s.MacroService == nil {
			Error(w, r, docgrid.Errorf(docgrid.EINVALID, "macro persistence is not configured"))
			return
		}
		m, err := s.MacroService.FindMacroByName(r.Context(), req.Macro)
		if err != nil {
			Error(w, r, err)
			return
		}
		events = m.Events
	}

	res := sess.Replay(r.Context(), events, time.Duration(req.SettleMs)*time.Millisecond)
	writeJSON(w, http.StatusOK, replayResponse{Replay: res, Result: sess.Result()})
}

// handleSaveMacro persists the session's recorded event log under the
// given name.
func (s *Server) handleSaveMacro(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		Error(w, r, err)
		return
	}
	if s.MacroService == nil {
		Error(w, r, docgrid.Errorf(docgrid.EINVALID, "macro persistence is not configured"))
		return
	}
	name := chi.URLParam(r, "name")
	events := sess.Events()
	if len(events) == 0 {
		Error(w, r, docgrid.Errorf(docgrid.EINVALID, "no recorded events to save"))
		return
	}

	m := &docgrid.Macro{Name: name, Events: events}
	if err := s.MacroService.SaveMacro(r.Context(), m); err != nil {
		Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleListMacros(w http.ResponseWriter, r *http.Request) {
	if s.MacroService == nil {
		writeJSON(w, http.StatusOK, []*docgrid.Macro{})
		return
	}
	macros, err := s.MacroService.ListMacros(r.Context())
	if err != nil {
		Error(w, r, err)
		return
	}
	if macros == nil {
		macros = []*docgrid.Macro{}
	}
	writeJSON(w, http.StatusOK, macros)
}

func (s *Server) handleGetMacro(w http.ResponseWriter, r *http.Request) {
	if s.MacroService == nil {
		Error(w, r, docgrid.Errorf(docgrid.ENOTFOUND, "macro persistence is not configured"))
		return
	}
	m, err := s.MacroService.FindMacroByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMacro(w http.ResponseWriter, r *http.Request) {
	if s.MacroService == nil {
		Error(w, r, docgrid.Errorf(docgrid.ENOTFOUND, "macro persistence is not configured"))
		return
	}
	if err := s.MacroService.DeleteMacro(r.Context(), chi.URLParam(r, "name")); err != nil {
		Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
