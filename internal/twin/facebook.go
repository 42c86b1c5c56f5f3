package twin

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	defaultGraphLimit = 25
	// maxGraphLimit is the largest page Graph serves.
	maxGraphLimit = 5000
)

func (s *Server) facebookRoutes(r chi.Router) {
	r.Use(s.graphAuth)
	r.Get("/{id}", s.graphObject)
	r.Delete("/{id}", s.graphDelete)
	r.Get("/{id}/{connection}", s.graphConnection)
	r.Post("/{id}/{connection}", s.graphPublish)
}

func graphError(w http.ResponseWriter, status int, code, subcode int, typ, msg string) {
	body := map[string]any{
		"message":    msg,
		"type":       typ,
		"code":       code,
		"fbtrace_id": uuid.NewString(),
	}
	if subcode != 0 {
		body["error_subcode"] = subcode
	}
	writeJSON(w, status, map[string]any{"error": body})
}

func graphNotFound(w http.ResponseWriter, id string) {
	graphError(w, http.StatusBadRequest, 100, 33, "GraphMethodException",
		fmt.Sprintf("Unsupported get request. Object with ID '%s' does not exist, cannot be loaded due to missing permissions, or does not support this operation.", id))
}

func (s *Server) graphAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.store.ValidToken(bearerToken(r, "access_token")) {
			graphError(w, http.StatusUnauthorized, 190, 0, "OAuthException", "Invalid OAuth access token.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestedFields(r *http.Request) []string {
	raw := r.URL.Query().Get("fields")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

func (s *Server) graphObject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	obj, ok := s.store.GraphObject(id)
	if !ok {
		graphNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, selectFields(obj, requestedFields(r)))
}

func (s *Server) graphDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.store.DeleteGraphObject(id) {
		graphNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) graphPublish(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		graphError(w, http.StatusBadRequest, 100, 0, "OAuthException", "Invalid parameter")
		return
	}
	fields := Object{}
	for k := range r.PostForm {
		if k != "access_token" {
			fields[k] = r.PostForm.Get(k)
		}
	}
	newID, ok := s.store.Publish(id, chi.URLParam(r, "connection"), fields)
	if !ok {
		graphNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": newID})
}

func (s *Server) graphConnection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	list, ok := s.store.GraphConnection(id, chi.URLParam(r, "connection"))
	if !ok {
		graphNotFound(w, id)
		return
	}

	q := r.URL.Query()
	limit := defaultGraphLimit
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		limit = min(v, maxGraphLimit)
	}
	offset, _ := strconv.Atoi(q.Get("offset"))
	if c := q.Get("after"); c != "" {
		offset = decodeCursor(c)
	}
	if c := q.Get("before"); c != "" {
		offset = decodeCursor(c) - limit
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(list) {
		offset = len(list)
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}

	fields := requestedFields(r)
	data := make([]Object, 0, end-offset)
	for _, o := range list[offset:end] {
		data = append(data, selectFields(o, fields))
	}

	paging := map[string]any{}
	if end < len(list) {
		paging["next"] = pageLink(r, limit, "after", end)
	}
	if offset > 0 {
		paging["previous"] = pageLink(r, limit, "before", offset)
	}
	resp := map[string]any{"data": data}
	if len(paging) > 0 {
		paging["cursors"] = map[string]string{"before": encodeCursor(offset), "after": encodeCursor(end)}
		resp["paging"] = paging
	}
	writeJSON(w, http.StatusOK, resp)
}

func pageLink(r *http.Request, limit int, cursorParam string, pos int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	q := url.Values{}
	if f := r.URL.Query().Get("fields"); f != "" {
		q.Set("fields", f)
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set(cursorParam, encodeCursor(pos))
	return scheme + "://" + r.Host + r.URL.Path + "?" + q.Encode()
}

func encodeCursor(pos int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(pos)))
}

func decodeCursor(c string) int {
	b, err := base64.RawURLEncoding.DecodeString(c)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(string(b))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
