package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"bookcatalog/internal/httpx"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// UpsertRequest is the body of POST /books and PUT /books/{id}.
type UpsertRequest struct {
	Title    string `json:"title" validate:"required"`
	Author   string `json:"author" validate:"required"`
	Category string `json:"category" validate:"required"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Collection handles /api/v1/books.
func (h *Handler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.findAll(w, r)
	case http.MethodPost:
		h.add(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Item handles /api/v1/books/{id} and the by-* lookup routes.
func (h *Handler) Item(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/books/")
	switch rest {
	case "by-category", "by-title-and-author":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if rest == "by-category" {
			h.findByCategory(w, r)
		} else {
			h.findByTitleAndAuthor(w, r)
		}
		return
	}

	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getByID(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// @Summary List all books
// @Tags books
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /books [get]
func (h *Handler) findAll(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.FindAll(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "server_error", "server error", nil)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, books)
}

// @Summary List books by category name
// @Tags books
// @Produce json
// @Param category query string true "Category name"
// @Success 200 {object} httpx.SuccessResponse
// @Router /books/by-category [get]
func (h *Handler) findByCategory(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		httpx.JSONError(w, http.StatusBadRequest, "blank_param", "category must not be blank", nil)
		return
	}
	books, err := h.service.FindByCategory(r.Context(), category)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "server_error", "server error", nil)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, books)
}

// @Summary Find a book by its title and author
// @Tags books
// @Produce json
// @Param title query string true "Title"
// @Param author query string true "Author"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/by-title-and-author [get]
func (h *Handler) findByTitleAndAuthor(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	author := r.URL.Query().Get("author")
	if title == "" || author == "" {
		httpx.JSONError(w, http.StatusBadRequest, "blank_param", "title and author must not be blank", nil)
		return
	}
	book, err := h.service.FindByTitleAndAuthor(r.Context(), title, author)
	if err != nil {
		h.lookupError(w, err)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, book)
}

// @Summary Get a book by ID
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id} [get]
func (h *Handler) getByID(w http.ResponseWriter, r *http.Request, id int64) {
	book, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.lookupError(w, err)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, book)
}

// @Summary Add a book
// @Tags books
// @Accept json
// @Produce json
// @Param request body UpsertRequest true "Book to add"
// @Success 201 {object} httpx.SuccessResponse
// @Router /books [post]
func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	cand, ok := h.decodeCandidate(w, r)
	if !ok {
		return
	}
	result, err := h.service.Add(r.Context(), cand)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "server_error", "server error", nil)
		return
	}
	h.respondOutcome(w, r, result)
}

// @Summary Update a book
// @Tags books
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Param request body UpsertRequest true "New field values"
// @Success 200 {object} httpx.SuccessResponse
// @Router /books/{id} [put]
func (h *Handler) update(w http.ResponseWriter, r *http.Request, id int64) {
	cand, ok := h.decodeCandidate(w, r)
	if !ok {
		return
	}
	result, err := h.service.Update(r.Context(), id, cand)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "server_error", "server error", nil)
		return
	}
	h.respondOutcome(w, r, result)
}

// @Summary Delete a book
// @Tags books
// @Param id path int true "Book ID"
// @Success 204
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id} [delete]
func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		h.lookupError(w, err)
		return
	}
	httpx.JSONNoContent(w)
}

func (h *Handler) decodeCandidate(w http.ResponseWriter, r *http.Request) (Candidate, bool) {
	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "bad_json", "request body is not valid JSON", nil)
		return Candidate{}, false
	}
	if err := validate.Struct(req); err != nil {
		var details []httpx.ErrorDetail
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				details = append(details, httpx.ErrorDetail{
					Field:   strings.ToLower(fe.Field()),
					Message: "must not be blank",
				})
			}
		}
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "invalid request", details)
		return Candidate{}, false
	}
	return Candidate{Title: req.Title, Author: req.Author, Category: req.Category}, true
}

// respondOutcome maps the reconciliation status onto the wire: 201 for a
// fresh record, 200 for an in-place update, 302 with a Location pointing
// at the record that absorbed the candidate.
func (h *Handler) respondOutcome(w http.ResponseWriter, r *http.Request, result Result) {
	book, err := h.service.FindByID(r.Context(), result.ID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "server_error", "server error", nil)
		return
	}

	location := fmt.Sprintf("/api/v1/books/%d", result.ID)
	switch result.Status {
	case StatusCreated:
		w.Header().Set("Location", location)
		httpx.JSONSuccess(w, http.StatusCreated, book)
	case StatusUpdated:
		httpx.JSONSuccess(w, http.StatusOK, book)
	case StatusFound:
		w.Header().Set("Location", location)
		httpx.JSONSuccess(w, http.StatusFound, book)
	}
}

func (h *Handler) lookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", "book not found", nil)
		return
	}
	httpx.JSONError(w, http.StatusInternalServerError, "server_error", "server error", nil)
}
