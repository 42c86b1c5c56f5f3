package twin

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	defaultLinkedInCount = 10
	maxLinkedInCount     = 500
)

func (s *Server) linkedinRoutes(r chi.Router) {
	r.Use(s.linkedinAuth)
	r.Get("/people/{selector}", s.linkedinPerson)
	r.Get("/companies/{selector}", s.linkedinCompany)
	r.Get("/companies/{id}/{resource}", s.linkedinProducts)
}

func linkedinError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"errorCode": 0,
		"message":   msg,
		"requestId": strings.ToUpper(uuid.NewString()[:10]),
		"status":    status,
		"timestamp": time.Now().UnixMilli(),
	})
}

func (s *Server) linkedinAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.store.ValidToken(bearerToken(r, "oauth2_access_token")) {
			linkedinError(w, http.StatusUnauthorized, "Invalid access token.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// splitProjection splits "1337:(id,name)" into "1337" and its JSON field names.
// Nested selectors such as "recommendations:(id,text)" keep only their key.
func splitProjection(selector string) (string, []string) {
	i := strings.Index(selector, ":(")
	if i < 0 || !strings.HasSuffix(selector, ")") {
		return selector, nil
	}
	base, inner := selector[:i], selector[i+2:len(selector)-1]

	var fields []string
	depth, start := 0, 0
	for j := 0; j <= len(inner); j++ {
		if j < len(inner) {
			switch inner[j] {
			case '(':
				depth++
				continue
			case ')':
				depth--
				continue
			case ',':
				if depth > 0 {
					continue
				}
			default:
				continue
			}
		}
		f := inner[start:j]
		if k := strings.Index(f, ":"); k >= 0 {
			f = f[:k]
		}
		if f != "" {
			fields = append(fields, camelCase(f))
		}
		start = j + 1
	}
	return base, fields
}

// camelCase turns LinkedIn's "first-name" into the JSON key "firstName".
func camelCase(s string) string {
	parts := strings.Split(s, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

func (s *Server) linkedinPerson(w http.ResponseWriter, r *http.Request) {
	key, fields := splitProjection(chi.URLParam(r, "selector"))
	id := strings.TrimPrefix(key, "id=")
	p, ok := s.store.Person(id)
	if !ok {
		linkedinError(w, http.StatusNotFound, fmt.Sprintf("Couldn't find member: %s", id))
		return
	}
	writeJSON(w, http.StatusOK, selectFields(p, fields))
}

func (s *Server) linkedinCompany(w http.ResponseWriter, r *http.Request) {
	key, fields := splitProjection(chi.URLParam(r, "selector"))
	var (
		c  Object
		ok bool
	)
	if name, byName := strings.CutPrefix(key, "universal-name="); byName {
		_, c, ok = s.store.CompanyByUniversalName(name)
	} else {
		c, ok = s.store.Company(key)
	}
	if !ok {
		linkedinError(w, http.StatusNotFound, fmt.Sprintf("Company with ID {%s} not found", key))
		return
	}
	writeJSON(w, http.StatusOK, selectFields(c, fields))
}

func (s *Server) linkedinProducts(w http.ResponseWriter, r *http.Request) {
	resource, fields := splitProjection(chi.URLParam(r, "resource"))
	if resource != "products" {
		linkedinError(w, http.StatusNotFound, fmt.Sprintf("Unknown resource: %s", resource))
		return
	}
	id := chi.URLParam(r, "id")
	products, ok := s.store.Products(id)
	if !ok {
		linkedinError(w, http.StatusNotFound, fmt.Sprintf("Company with ID {%s} not found", id))
		return
	}

	q := r.URL.Query()
	start, _ := strconv.Atoi(q.Get("start"))
	count := defaultLinkedInCount
	if v, err := strconv.Atoi(q.Get("count")); err == nil && v > 0 {
		count = min(v, maxLinkedInCount)
	}
	if start < 0 || start > len(products) {
		start = len(products)
	}
	end := start + count
	if end > len(products) {
		end = len(products)
	}

	values := make([]Object, 0, end-start)
	for _, p := range products[start:end] {
		values = append(values, selectFields(p, fields))
	}
	resp := map[string]any{
		"_total": len(products),
		"_count": count,
		"_start": start,
	}
	if len(values) > 0 {
		resp["values"] = values
	}
	writeJSON(w, http.StatusOK, resp)
}
