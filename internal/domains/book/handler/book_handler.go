package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/domains/book/service"
	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/internal/shared/response"
)

// Handler - HTTP Handler (single file)
type Handler struct {
	service service.ServiceInterface
	detail  service.DetailServiceInterface
}

// NewHandler - Constructor with DI
func NewHandler(service service.ServiceInterface, detail service.DetailServiceInterface) *Handler {
	return &Handler{
		service: service,
		detail:  detail,
	}
}

// AddBook - POST /api/books
func (h *Handler) AddBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	book, err := h.service.AddBook(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, book)
}

// ListBooks - GET /api/books
// Query params: page, limit, author, genre
func (h *Handler) ListBooks(c *gin.Context) {
	var req model.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "page and limit must be integers")
		return
	}

	data, err := h.service.ListBooks(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, data)
}

// SearchBooks - GET /api/search?q=
func (h *Handler) SearchBooks(c *gin.Context) {
	data, err := h.service.SearchBooks(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, data)
}

// GetBookDetail - GET /api/books/:id
// Query params: page, limit (of the review list)
func (h *Handler) GetBookDetail(c *gin.Context) {
	var req model.BookDetailRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "page and limit must be integers")
		return
	}

	detail, err := h.detail.GetBookDetails(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}
