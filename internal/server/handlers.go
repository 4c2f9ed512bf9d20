package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/abhisek/teachback/internal/catalog"
	"github.com/abhisek/teachback/internal/dialogue"
	"github.com/abhisek/teachback/internal/qa"
	"github.com/abhisek/teachback/internal/session"
	"github.com/abhisek/teachback/internal/store"
)

// sessionView is the JSON shape of a learner's session.
type sessionView struct {
	Learner    string           `json:"learner"`
	Phase      string           `json:"phase"`
	Processing bool             `json:"processing"`
	State      session.State    `json:"state"`
	Notices    []session.Notice `json:"notices"`
}

type textRequest struct {
	Text string `json:"text"`
}

type topicRequest struct {
	TopicID string `json:"topicId"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail maps domain errors onto HTTP statuses.
func fail(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, catalog.ErrUnknownTopic), errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrEmptyAnswer):
		status = http.StatusBadRequest
	case errors.Is(err, session.ErrBusy),
		errors.Is(err, session.ErrStale),
		errors.Is(err, session.ErrWrongPhase),
		errors.Is(err, session.ErrNoTopic),
		errors.Is(err, session.ErrRoundComplete):
		status = http.StatusConflict
	case session.IsContentError(err):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}
	writeError(w, status, err.Error())
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) view(r *http.Request, ctrl *session.Controller) sessionView {
	st := ctrl.State()
	notices := ctrl.Notices().Drain()
	if notices == nil {
		notices = []session.Notice{}
	}
	return sessionView{
		Learner:    s.app.Learner(r.Header.Get(LearnerHeader)),
		Phase:      st.Phase.String(),
		Processing: ctrl.Processing(),
		State:      st,
		Notices:    notices,
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"lessons": s.app.LessonSource(),
	})
}

// === Topics ===

func (s *Server) listTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := s.app.Topics(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, topics)
}

func (s *Server) starTopic(w http.ResponseWriter, r *http.Request) {
	s.setStar(w, r, true)
}

func (s *Server) unstarTopic(w http.ResponseWriter, r *http.Request) {
	s.setStar(w, r, false)
}

func (s *Server) setStar(w http.ResponseWriter, r *http.Request, starred bool) {
	id := mux.Vars(r)["id"]
	if err := s.app.Store().StarRepo().SetStarred(r.Context(), id, starred); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// === Session ===

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	ctrl := s.controller(r)
	writeJSON(w, http.StatusOK, s.view(r, ctrl))
}

func (s *Server) selectTopic(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if !decode(w, r, &req) {
		return
	}
	ctrl := s.controller(r)
	if err := ctrl.SelectTopic(r.Context(), req.TopicID); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.view(r, ctrl))
}

// step adapts a controller operation with no payload into a handler that
// answers with the resulting session.
func (s *Server) step(op func(*session.Controller, context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl := s.controller(r)
		if err := op(ctrl, r.Context()); err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.view(r, ctrl))
	}
}

func (s *Server) teach(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decode(w, r, &req) {
		return
	}
	ctrl := s.controller(r)
	reply, err := ctrl.Teach(r.Context(), req.Text)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Reply   dialogue.Reply `json:"reply"`
		Session sessionView    `json:"session"`
	}{reply, s.view(r, ctrl)})
}

func (s *Server) answer(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decode(w, r, &req) {
		return
	}
	ctrl := s.controller(r)
	res, err := ctrl.Answer(r.Context(), req.Text)
	if err != nil && !session.IsContentError(err) {
		fail(w, err)
		return
	}
	// A failed load of the next question leaves the answer recorded; the
	// notice tells the client to refresh.
	writeJSON(w, http.StatusOK, struct {
		Result  qa.Result   `json:"result"`
		Session sessionView `json:"session"`
	}{res, s.view(r, ctrl)})
}

func (s *Server) hint(w http.ResponseWriter, r *http.Request) {
	ctrl := s.controller(r)
	h, err := ctrl.Hint(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"hint": h})
}

// === History ===

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	recs, err := s.app.Store().RecordRepo().List(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	rec, err := s.app.Store().RecordRepo().Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) deleteHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Store().RecordRepo().Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Store().RecordRepo().DeleteAll(r.Context()); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
