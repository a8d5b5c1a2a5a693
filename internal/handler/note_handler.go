package handler

import (
	"net/http"

	"clinicpos/internal/middleware"
	"clinicpos/internal/service"
	"clinicpos/pkg/pagination"
	"clinicpos/pkg/response"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	noteService service.NoteService
}

func NewNoteHandler(noteService service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

func (h *NoteHandler) RegisterRoutes(router *gin.RouterGroup) {
	notes := router.Group("/api/notes", middleware.RequireAuth())
	{
		notes.POST("", h.IssueNote)
		notes.GET("", h.ListNotes)
		notes.GET("/:id", h.GetNote)
	}
}

// IssueNote issues a credit or debit note
// @Summary      Issue note
// @Description  Issues a CN- or DN-series note against a patient, optionally linked to an invoice
// @Tags         notes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.IssueNoteRequest  true  "Issue Note Payload"
// @Success      201      {object}  response.Response{data=service.NoteResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/notes [post]
func (h *NoteHandler) IssueNote(c *gin.Context) {
	var req service.IssueNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	note, err := h.noteService.IssueNote(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, note))
}

// ListNotes returns a paginated list of notes
// @Summary      List notes
// @Tags         notes
// @Security     BearerAuth
// @Produce      json
// @Param        kind   query     string  false  "Filter by kind (CREDIT, DEBIT)"
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/notes [get]
func (h *NoteHandler) ListNotes(c *gin.Context) {
	params := pagination.Parse(c)

	notes, total, err := h.noteService.ListNotes(c.Request.Context(), c.Query("kind"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"notes": notes,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// GetNote returns one note
// @Summary      Get note
// @Tags         notes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Note ID"
// @Success      200  {object}  response.Response{data=service.NoteResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/notes/{id} [get]
func (h *NoteHandler) GetNote(c *gin.Context) {
	note, err := h.noteService.GetNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, note))
}
