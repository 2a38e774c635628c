package circulation

import (
	"errors"
	"net/http"
	"strconv"

	custom_error "library/pkg/errors"
	"library/pkg/models"

	"github.com/gin-gonic/gin"
)

// CirculationService is the handler-facing surface of the lifecycle
// controller.
type CirculationService interface {
	CheckOut(assetID, cardID int) (Outcome, error)
	CheckIn(assetID int) (Outcome, error)
	CheckOutToFirstReserve(assetID, cardID int) (Outcome, error)
	PlaceHold(assetID, cardID int) (Outcome, error)
	MarkLost(assetID int) (Outcome, error)
	MarkFound(assetID int) (Outcome, error)
	GetCurrentHolds(assetID int) ([]models.Hold, error)
	GetCheckoutHistory(assetID int) ([]models.CheckoutHistory, error)
}

type CirculationHandler struct {
	Service CirculationService
}

func NewCirculationHandler(service CirculationService) *CirculationHandler {
	return &CirculationHandler{
		Service: service,
	}
}

func (h *CirculationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/assets/:id/checkout", h.CheckOut)
	router.POST("/assets/:id/checkin", h.CheckIn)
	router.POST("/assets/:id/hold", h.PlaceHold)
	router.POST("/assets/:id/release-hold", h.CheckOutToFirstReserve)
	router.POST("/assets/:id/lost", h.MarkLost)
	router.POST("/assets/:id/found", h.MarkFound)
	router.GET("/assets/:id/holds", h.GetHolds)
	router.GET("/assets/:id/history", h.GetHistory)
}

type cardRequest struct {
	LibraryCardID int `json:"library_card_id" binding:"required"`
}

func (h *CirculationHandler) CheckOut(c *gin.Context) {
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	outcome, err := h.Service.CheckOut(assetID, req.LibraryCardID)
	respondOutcome(c, outcome, err)
}

func (h *CirculationHandler) CheckIn(c *gin.Context) {
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	outcome, err := h.Service.CheckIn(assetID)
	respondOutcome(c, outcome, err)
}

func (h *CirculationHandler) PlaceHold(c *gin.Context) {
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	outcome, err := h.Service.PlaceHold(assetID, req.LibraryCardID)
	respondOutcome(c, outcome, err)
}

func (h *CirculationHandler) CheckOutToFirstReserve(c *gin.Context) {
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	outcome, err := h.Service.CheckOutToFirstReserve(assetID, req.LibraryCardID)
	respondOutcome(c, outcome, err)
}

func (h *CirculationHandler) MarkLost(c *gin.Context) {
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	outcome, err := h.Service.MarkLost(assetID)
	respondOutcome(c, outcome, err)
}

func (h *CirculationHandler) MarkFound(c *gin.Context) {
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	outcome, err := h.Service.MarkFound(assetID)
	respondOutcome(c, outcome, err)
}

func (h *CirculationHandler) GetHolds(c *gin.Context) {
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	holds, err := h.Service.GetCurrentHolds(assetID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch holds"})
		return
	}

	c.JSON(http.StatusOK, holds)
}

func (h *CirculationHandler) GetHistory(c *gin.Context) {
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	history, err := h.Service.GetCheckoutHistory(assetID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch checkout history"})
		return
	}

	c.JSON(http.StatusOK, history)
}

func assetIDParam(c *gin.Context) (int, bool) {
	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return 0, false
	}
	return assetID, true
}

func respondOutcome(c *gin.Context, outcome Outcome, err error) {
	if err != nil {
		var conflict *custom_error.StorageConflictError
		if errors.As(err, &conflict) {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "Storage conflict, please retry",
			})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
		return
	}

	switch outcome {
	case OutcomeAlreadyCheckedOut:
		c.JSON(http.StatusConflict, gin.H{"outcome": outcome})
	case OutcomeInvalidReference:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"outcome": outcome})
	default:
		c.JSON(http.StatusOK, gin.H{"outcome": outcome})
	}
}
