package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/idilsaglam/liste/internal/event"
	"github.com/idilsaglam/liste/internal/model"
)

var validate = validator.New()

type listPayload struct {
	Name string `json:"name" validate:"required,max=255"`
}

type itemCreatePayload struct {
	ListID  model.ID `json:"list_id" validate:"required,gt=0"`
	Content string   `json:"content" validate:"max=4096"`
}

type itemEditPayload struct {
	Content string `json:"content" validate:"max=4096"`
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.metrics.Requests.WithLabelValues(route, r.Method, strconv.Itoa(m.Code)).Inc()
		s.metrics.Duration.WithLabelValues(route).Observe(m.Duration.Seconds())
		s.log.Info("handled", "method", r.Method, "url", r.URL, "duration", m.Duration, "status", m.Code)
	})
}

func (s *Server) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(s.cfg.Username)) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(s.cfg.Password)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="liste"`)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) timeout(next http.Handler) http.Handler {
	return http.TimeoutHandler(next, s.cfg.RequestTimeout, `{"error":"request timed out"}`)
}

func (s *Server) getLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.db.Lists(r.Context())
	s.respond(w, lists, err)
}

func (s *Server) getItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.db.AllItems(r.Context())
	s.respond(w, items, err)
}

func (s *Server) getList(w http.ResponseWriter, r *http.Request) {
	l, err := s.db.List(r.Context(), pathID(r))
	s.respond(w, l, err)
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	it, err := s.db.Item(r.Context(), pathID(r))
	s.respond(w, it, err)
}

func (s *Server) getListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.db.Items(r.Context(), pathID(r))
	s.respond(w, items, err)
}

func (s *Server) postList(w http.ResponseWriter, r *http.Request) {
	var p listPayload
	if !decode(w, r, &p) {
		return
	}
	l, err := s.db.CreateList(r.Context(), p.Name)
	if err == nil {
		s.hub.Publish(event.ListCreated{List: l})
	}
	s.respond(w, l, err)
}

func (s *Server) postItem(w http.ResponseWriter, r *http.Request) {
	var p itemCreatePayload
	if !decode(w, r, &p) {
		return
	}
	it, err := s.db.CreateItem(r.Context(), p.ListID, p.Content)
	if err == nil {
		s.hub.Publish(event.ItemCreated{Item: it})
	}
	s.respond(w, it, err)
}

func (s *Server) patchList(w http.ResponseWriter, r *http.Request) {
	var p listPayload
	if !decode(w, r, &p) {
		return
	}
	l, err := s.db.RenameList(r.Context(), pathID(r), p.Name)
	if err == nil {
		s.hub.Publish(event.ListRenamed{List: l})
	}
	s.respond(w, l, err)
}

func (s *Server) patchItem(w http.ResponseWriter, r *http.Request) {
	var p itemEditPayload
	if !decode(w, r, &p) {
		return
	}
	it, err := s.db.EditItem(r.Context(), pathID(r), p.Content)
	if err == nil {
		s.hub.Publish(event.ItemEdited{Item: it})
	}
	s.respond(w, it, err)
}

func (s *Server) deleteList(w http.ResponseWriter, r *http.Request) {
	l, err := s.db.RemoveList(r.Context(), pathID(r))
	if err == nil {
		s.hub.Publish(event.ListRemoved{List: l})
	}
	s.respond(w, l, err)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	it, err := s.db.RemoveItem(r.Context(), pathID(r))
	if err == nil {
		s.hub.Publish(event.ItemRemoved{Item: it})
	}
	s.respond(w, it, err)
}

func (s *Server) respond(w http.ResponseWriter, v any, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, v)
	case errors.Is(err, ErrNoSuchList), errors.Is(err, ErrNoSuchItem), errors.Is(err, ErrDuplicateListName):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.log.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// decode reads and validates a JSON body, answering 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid body: %v", err)})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return false
	}
	return true
}

func pathID(r *http.Request) model.ID {
	// the route pattern only admits digits
	id, _ := model.ParseID(mux.Vars(r)["id"])
	return id
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
