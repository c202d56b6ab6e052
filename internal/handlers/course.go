package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PragyeNawani/soloistanjali-sub000/internal/domain"
	"github.com/PragyeNawani/soloistanjali-sub000/internal/service"
)

type CourseHandler struct {
	courses  service.CourseStore
	checkout *service.CheckoutSvc
}

func NewCourseHandler(courses service.CourseStore, checkout *service.CheckoutSvc) *CourseHandler {
	return &CourseHandler{courses: courses, checkout: checkout}
}

// GET /v1/courses?instrument=guitar
func (h *CourseHandler) List(c *gin.Context) {
	out, err := h.courses.List(c, c.Query("instrument"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": out})
}

// GET /v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.ByID(c, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if course == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, course)
}

// GET /v1/courses/:id/download, gated on a completed purchase.
func (h *CourseHandler) Download(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	course, err := h.courses.ByID(c, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if course == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	can, err := h.checkout.CanDownload(c, userID, course.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !can {
		c.JSON(http.StatusForbidden, gin.H{"error": "course not purchased"})
		return
	}
	// the signed-URL mechanism lives outside this service; hand back the key
	c.JSON(http.StatusOK, gin.H{"material_key": course.MaterialKey})
}

type courseBody struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Instrument  string `json:"instrument"`
	Level       string `json:"level"`
	PriceINR    int64  `json:"price_inr"`
	MaterialKey string `json:"material_key"`
}

// POST /v1/courses (admin)
func (h *CourseHandler) Create(c *gin.Context) {
	var body courseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	course := &domain.Course{
		Title:       body.Title,
		Description: body.Description,
		Instrument:  body.Instrument,
		Level:       body.Level,
		PriceINR:    body.PriceINR,
		MaterialKey: body.MaterialKey,
	}
	if err := h.courses.Create(c, course); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// PUT /v1/courses/:id (admin)
func (h *CourseHandler) Update(c *gin.Context) {
	var body courseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	course, err := h.courses.ByID(c, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if course == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	course.Title = body.Title
	course.Description = body.Description
	course.Instrument = body.Instrument
	course.Level = body.Level
	course.PriceINR = body.PriceINR
	course.MaterialKey = body.MaterialKey
	if err := h.courses.Update(c, course); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}
