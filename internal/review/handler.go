package review

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/reviewboard/service/internal/response"
	"github.com/reviewboard/service/internal/storage"
)

// Handler holds HTTP handlers for review endpoints.
type Handler struct {
	svc       *Service
	maxUpload int64
}

// NewHandler creates a new review Handler. maxUpload bounds the multipart
// form size in bytes; it is the only size limit applied to uploads.
func NewHandler(svc *Service, maxUpload int64) *Handler {
	return &Handler{svc: svc, maxUpload: maxUpload}
}

// List godoc
//
//	@Summary		List reviews
//	@Description	Returns all reviews, newest first.
//	@Tags			reviews
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=[]Review}
//	@Failure		500	{object}	response.Envelope
//	@Router			/reviews [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.svc.List(r.Context())
	if err != nil {
		log.Printf("review: list: %v", err)
		response.InternalError(w)
		return
	}
	if reviews == nil {
		reviews = []*Review{}
	}
	response.OK(w, reviews)
}

// Get godoc
//
//	@Summary		Get a review
//	@Tags			reviews
//	@Produce		json
//	@Param			id	path		string	true	"Review ID"
//	@Success		200	{object}	response.Envelope{data=Review}
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/reviews/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	rev, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	response.OK(w, rev)
}

// Create godoc
//
//	@Summary		Create a review
//	@Description	Creates a review from multipart form data with an optional image upload.
//	@Tags			reviews
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			title	formData	string	true	"Title (max 100 characters)"
//	@Param			content	formData	string	true	"Content"
//	@Param			rating	formData	int		true	"Rating (1-5)"
//	@Param			image	formData	file	false	"Image (JPEG, PNG, GIF, or WebP)"
//	@Success		201		{object}	response.Envelope{data=Review}
//	@Failure		400		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/reviews [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	in, upload, ok := h.bindForm(w, r)
	if !ok {
		return
	}

	rev, err := h.svc.Create(r.Context(), in, upload)
	if err != nil {
		h.respondError(w, err)
		return
	}
	response.Created(w, rev)
}

// Update godoc
//
//	@Summary		Update a review
//	@Description	Updates the scalar fields and optionally replaces the image.
//	@Tags			reviews
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		string	true	"Review ID"
//	@Param			title	formData	string	true	"Title (max 100 characters)"
//	@Param			content	formData	string	true	"Content"
//	@Param			rating	formData	int		true	"Rating (1-5)"
//	@Param			image	formData	file	false	"Replacement image"
//	@Success		200		{object}	response.Envelope{data=Review}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/reviews/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	in, upload, ok := h.bindForm(w, r)
	if !ok {
		return
	}

	rev, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), in, upload)
	if err != nil {
		h.respondError(w, err)
		return
	}
	response.OK(w, rev)
}

// Delete godoc
//
//	@Summary		Delete a review
//	@Description	Removes the review and its stored image, if any.
//	@Tags			reviews
//	@Produce		json
//	@Param			id	path		string	true	"Review ID"
//	@Success		200	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/reviews/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	response.OK(w, map[string]bool{"deleted": true})
}

// bindForm parses the multipart form into validated scalar input and an
// optional buffered upload. On failure it writes a 400 and returns ok=false.
func (h *Handler) bindForm(w http.ResponseWriter, r *http.Request) (Input, *storage.Upload, bool) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return Input{}, nil, false
	}

	rating, err := strconv.Atoi(r.FormValue("rating"))
	if err != nil {
		response.BadRequest(w, "rating must be an integer")
		return Input{}, nil, false
	}

	in := Input{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
		Rating:  rating,
	}
	if err := in.Validate(); err != nil {
		response.BadRequest(w, err.Error())
		return Input{}, nil, false
	}

	upload, err := formUpload(r)
	if err != nil {
		log.Printf("review: read upload: %v", err)
		response.BadRequest(w, "could not read uploaded file")
		return Input{}, nil, false
	}
	return in, upload, true
}

// formUpload buffers the optional "image" form file. A request without the
// field yields a nil upload, which the coordinator treats as "no image".
func formUpload(r *http.Request) (*storage.Upload, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &storage.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        data,
	}, nil
}

// respondError maps service errors onto HTTP statuses. Anything unexpected
// is logged in full and answered with a generic 500.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "review not found")
	case errors.Is(err, storage.ErrEmptyUpload):
		response.BadRequest(w, "uploaded file is empty")
	case errors.Is(err, storage.ErrUnsupportedType):
		response.BadRequest(w, "only JPEG, PNG, GIF, and WebP images are allowed")
	case errors.Is(err, ErrInvalidInput):
		response.BadRequest(w, err.Error())
	default:
		log.Printf("review: %v", err)
		response.InternalError(w)
	}
}
