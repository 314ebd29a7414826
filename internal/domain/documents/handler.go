package documents

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

const maxDocumentBytes = 1 << 20

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/{collection}.json", pushHandler(svc))
	r.Get("/{collection}.json", listHandler(svc))
	r.Get("/{collection}/{key}.json", getHandler(svc))
}

// pushResponse es lo que devuelve Firebase al hacer POST: la clave nueva.
type pushResponse struct {
	Name string `json:"name"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// pushHandler godoc
// @Summary Agregar documento
// @Description Guarda el body JSON bajo una clave nueva (UUIDv7, ordenada por creación) y devuelve la clave.
// @Tags documents
// @Accept json
// @Produce json
// @Param collection path string true "Nombre de la colección (ej: events)"
// @Param payload body object true "Cualquier valor JSON distinto de null"
// @Success 200 {object} pushResponse
// @Failure 400 {object} errorResponse "colección inválida / json inválido"
// @Failure 500 {object} errorResponse "internal error"
// @Router /{collection}.json [post]
func pushHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}

		d, err := svc.Push(r.Context(), chi.URLParam(r, "collection"), body)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, "Invalid data; couldn't parse JSON object, array, or value.")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, pushResponse{Name: d.Key})
	}
}

// listHandler godoc
// @Summary Listar colección
// @Description Devuelve la colección como objeto clave → documento, o null si está vacía. Los parámetros van codificados como JSON, igual que en Firebase (ej: orderBy="time", startAt="2026-10-17T00:00:00.000Z").
// @Tags documents
// @Produce json
// @Param collection path string true "Nombre de la colección"
// @Param orderBy query string false "Hijo por el que ordenar, entre comillas, o \"$key\""
// @Param startAt query string false "Cota inferior (JSON)"
// @Param endAt query string false "Cota superior (JSON)"
// @Param limitToFirst query int false "Primeros N según el orden"
// @Param limitToLast query int false "Últimos N según el orden"
// @Success 200 {object} map[string]object
// @Failure 400 {object} errorResponse "parámetros inválidos"
// @Failure 500 {object} errorResponse "internal error"
// @Router /{collection}.json [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		docs, err := svc.List(r.Context(), chi.URLParam(r, "collection"), q)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, "invalid collection")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		// Firebase responde null para una colección vacía.
		if len(docs) == 0 {
			writeJSON(w, http.StatusOK, nil)
			return
		}

		out := make(map[string]json.RawMessage, len(docs))
		for _, d := range docs {
			out[d.Key] = d.Data
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getHandler godoc
// @Summary Obtener documento
// @Description Devuelve el documento con la clave indicada, o null si no existe.
// @Tags documents
// @Produce json
// @Param collection path string true "Nombre de la colección"
// @Param key path string true "Clave del documento"
// @Success 200 {object} object
// @Failure 400 {object} errorResponse "colección inválida"
// @Failure 500 {object} errorResponse "internal error"
// @Router /{collection}/{key}.json [get]
func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.Get(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "key"))
		switch {
		case errors.Is(err, ErrNotFound):
			writeJSON(w, http.StatusOK, nil)
		case errors.Is(err, ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid collection")
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
		default:
			writeJSON(w, http.StatusOK, d.Data)
		}
	}
}

func parseQuery(r *http.Request) (Query, error) {
	v := r.URL.Query()
	var q Query

	if s := strings.TrimSpace(v.Get("orderBy")); s != "" {
		var path string
		if err := json.Unmarshal([]byte(s), &path); err != nil || strings.TrimSpace(path) == "" {
			return Query{}, errors.New("orderBy must be a valid JSON encoded path")
		}
		q.OrderBy = path
	}

	for _, p := range []struct {
		name string
		dst  **Bound
	}{
		{"startAt", &q.StartAt},
		{"endAt", &q.EndAt},
	} {
		s := strings.TrimSpace(v.Get(p.name))
		if s == "" {
			continue
		}
		var val any
		if err := json.Unmarshal([]byte(s), &val); err != nil {
			return Query{}, fmt.Errorf("%s must be a valid JSON value", p.name)
		}
		*p.dst = &Bound{Value: val}
	}

	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"limitToFirst", &q.LimitToFirst},
		{"limitToLast", &q.LimitToLast},
	} {
		s := strings.TrimSpace(v.Get(p.name))
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return Query{}, fmt.Errorf("%s must be a positive integer", p.name)
		}
		*p.dst = n
	}

	if q.LimitToFirst > 0 && q.LimitToLast > 0 {
		return Query{}, errors.New("limitToFirst and limitToLast cannot be combined")
	}
	if q.OrderBy == "" && !q.IsZero() {
		return Query{}, errors.New("orderBy must be defined when other query parameters are defined")
	}
	return q, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
