package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PragyeNawani/soloistanjali-sub000/internal/service"
)

type CheckoutHandler struct {
	svc *service.CheckoutSvc
}

func NewCheckoutHandler(svc *service.CheckoutSvc) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// POST /v1/checkout/start
// Exactly one of workshop_id / course_id selects the flow.
func (h *CheckoutHandler) Start(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var in struct {
		WorkshopID     string `json:"workshop_id"`
		CourseID       string `json:"course_id"`
		Phone          string `json:"phone"`
		AdditionalInfo string `json:"additional_info"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if (in.WorkshopID == "") == (in.CourseID == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exactly one of workshop_id or course_id is required"})
		return
	}

	var (
		intent *service.OrderIntent
		err    error
	)
	if in.WorkshopID != "" {
		intent, err = h.svc.StartRegistration(c, userID, service.RegistrationInput{
			WorkshopID:     in.WorkshopID,
			Phone:          in.Phone,
			AdditionalInfo: in.AdditionalInfo,
		})
	} else {
		intent, err = h.svc.StartPurchase(c, userID, in.CourseID)
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, intent)
}

// POST /v1/checkout/verify
func (h *CheckoutHandler) Verify(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var in struct {
		OrderID   string `json:"order_id" binding:"required"`
		PaymentID string `json:"payment_id" binding:"required"`
		Signature string `json:"signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// registrations and purchases share the order-id namespace; try the
	// registration ledger first, fall back to purchases
	res, err := h.svc.VerifyRegistration(c, userID, in.OrderID, in.PaymentID, in.Signature)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "email_sent": res.EmailSent})
		return
	}
	if !errors.Is(err, service.ErrNotFound) {
		writeServiceError(c, err)
		return
	}
	if err := h.svc.VerifyPurchase(c, userID, in.OrderID, in.PaymentID, in.Signature); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /v1/checkout/failure
func (h *CheckoutHandler) Failure(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var in struct {
		OrderID string `json:"order_id" binding:"required"`
		Reason  string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.svc.RecordRegistrationFailure(c, userID, in.OrderID, in.Reason)
	if errors.Is(err, service.ErrNotFound) {
		err = h.svc.RecordPurchaseFailure(c, userID, in.OrderID, in.Reason)
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
