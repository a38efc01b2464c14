package book

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"bookshelf/internal/httpx"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

const (
	msgAdded           = "Book added successfully"
	msgDeleted         = "Book deleted successfully by ISBN"
	msgLocationUpdated = "Location updated successfully"
	msgInternal        = "Internal server error"
)

type createRequest struct {
	ISBN     string `json:"isbn" validate:"required"`
	Location string `json:"location"`
}

type createResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
	Name    string `json:"name"`
}

type locationRequest struct {
	Location string `json:"location"`
}

type HTTPHandler struct {
	service *Service
	log     logrus.FieldLogger
}

func NewHTTPHandler(service *Service, log logrus.FieldLogger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

// List handles GET /api/entries
// @Summary List catalog entries
// @Tags entries
// @Produce json
// @Param search query string false "Substring of title, author or ISBN"
// @Success 200 {array} Entry
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/entries [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context(), Query{Search: r.URL.Query().Get("search")})
	if err != nil {
		h.writeError(w, err)
		return
	}

	entries := make([]Entry, 0, len(books))
	for _, b := range books {
		entries = append(entries, ToEntry(b))
	}
	httpx.JSON(w, http.StatusOK, entries)
}

// Create handles POST /api/entries
// @Summary Add a book by ISBN
// @Tags entries
// @Accept json
// @Produce json
// @Success 201 {object} createResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/entries [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if errs := httpx.ValidateStruct(req); len(errs) > 0 {
		httpx.JSONError(w, http.StatusBadRequest, errs[0].Message)
		return
	}

	b, err := h.service.Add(r.Context(), AddInput{ISBN: req.ISBN, Location: req.Location})
	if err != nil {
		h.writeError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, createResponse{
		Message: msgAdded,
		ID:      b.ID,
		Name:    b.Title,
	})
}

// DeleteByISBN handles DELETE /api/entries/isbn/{isbn}
// @Summary Delete a book by ISBN
// @Tags entries
// @Produce json
// @Param isbn path string true "ISBN as stored"
// @Success 200 {object} httpx.MessageResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/entries/isbn/{isbn} [delete]
func (h *HTTPHandler) DeleteByISBN(w http.ResponseWriter, r *http.Request) {
	isbn := pathParam(r, "isbn")

	if err := h.service.Delete(r.Context(), isbn); err != nil {
		if KindOf(err) == KindNotFound {
			httpx.JSONError(w, http.StatusNotFound, msgNotFound)
			return
		}
		// storage details stay in the log on this path
		h.log.WithError(err).WithField("isbn", isbn).Error("delete book failed")
		httpx.JSONError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	httpx.JSONMessage(w, http.StatusOK, msgDeleted)
}

// UpdateLocation handles PUT /api/entries/{isbn}/location
// @Summary Move a book to another shelf location
// @Tags entries
// @Accept json
// @Produce json
// @Param isbn path string true "ISBN as stored"
// @Success 200 {object} httpx.MessageResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/entries/{isbn}/location [put]
func (h *HTTPHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	isbn := pathParam(r, "isbn")

	var req locationRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.service.UpdateLocation(r.Context(), isbn, req.Location); err != nil {
		h.writeError(w, err)
		return
	}

	httpx.JSONMessage(w, http.StatusOK, msgLocationUpdated)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch KindOf(err) {
	case KindValidation:
		status = http.StatusBadRequest
	case KindConflict:
		status = http.StatusConflict
	case KindNotFound:
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		h.log.WithError(err).Error("request failed")
	}
	httpx.JSONError(w, status, err.Error())
}

// decodeBody reads a JSON object into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func pathParam(r *http.Request, name string) string {
	if v := chi.URLParam(r, name); v != "" {
		return v
	}
	return r.PathValue(name)
}
