package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PragyeNawani/soloistanjali-sub000/internal/service"
)

type WorkshopHandler struct {
	svc      *service.WorkshopSvc
	checkout *service.CheckoutSvc
}

func NewWorkshopHandler(svc *service.WorkshopSvc, checkout *service.CheckoutSvc) *WorkshopHandler {
	return &WorkshopHandler{svc: svc, checkout: checkout}
}

type workshopBody struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	Instructor      string `json:"instructor" binding:"required"`
	StartISO        string `json:"start_iso" binding:"required"` // RFC3339
	DurationMin     int    `json:"duration_min" binding:"required"`
	PriceINR        int64  `json:"price_inr"`
	MaxParticipants int    `json:"max_participants" binding:"required"`
	MeetingLink     string `json:"meeting_link"`
	Status          string `json:"status"`
}

func (b *workshopBody) toInput() (service.WorkshopInput, error) {
	st, err := time.Parse(time.RFC3339, b.StartISO)
	if err != nil {
		return service.WorkshopInput{}, err
	}
	return service.WorkshopInput{
		Title:           b.Title,
		Description:     b.Description,
		Instructor:      b.Instructor,
		StartTime:       st,
		DurationMin:     b.DurationMin,
		PriceINR:        b.PriceINR,
		MaxParticipants: b.MaxParticipants,
		MeetingLink:     b.MeetingLink,
		Status:          b.Status,
	}, nil
}

// GET /v1/workshops?status=UPCOMING
func (h *WorkshopHandler) List(c *gin.Context) {
	out, err := h.svc.List(c, c.Query("status"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workshops": out})
}

// GET /v1/workshops/:id
func (h *WorkshopHandler) Get(c *gin.Context) {
	w, err := h.svc.Get(c, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// GET /v1/workshops/:id/attendance reports whether the caller holds a paid seat.
func (h *WorkshopHandler) Attendance(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	can, err := h.checkout.CanAttend(c, userID, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"registered": can})
}

// POST /v1/workshops (admin)
func (h *WorkshopHandler) Create(c *gin.Context) {
	var body workshopBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in, err := body.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_iso must be RFC3339"})
		return
	}
	w, err := h.svc.Create(c, in)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// PUT /v1/workshops/:id (admin). Edits fan out update mail to registrants.
func (h *WorkshopHandler) Update(c *gin.Context) {
	var body workshopBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in, err := body.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_iso must be RFC3339"})
		return
	}
	w, changed, report, err := h.svc.Update(c, c.Param("id"), in)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workshop": w, "changed": changed, "notified": report})
}
