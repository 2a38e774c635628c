package catalog

import (
	"net/http"
	"strconv"
	"time"

	"library/pkg/models"

	"github.com/gin-gonic/gin"
)

// AssetReader is the repository surface the catalog handlers read from.
type AssetReader interface {
	GetAsset(assetID int) (*models.Asset, error)
	GetAssetList() ([]models.Asset, error)
}

// CirculationReader is the slice of the circulation service the catalog needs
// to assemble detail views.
type CirculationReader interface {
	GetCurrentCheckout(assetID int) (*models.Checkout, error)
	GetCheckoutHistory(assetID int) ([]models.CheckoutHistory, error)
	GetCurrentHolds(assetID int) ([]models.Hold, error)
	GetCurrentCheckoutPatron(assetID int) (string, error)
	GetHoldPatronName(holdID int) (string, error)
}

type CatalogHandler struct {
	Assets      AssetReader
	Circulation CirculationReader
}

func NewCatalogHandler(assets AssetReader, circulation CirculationReader) *CatalogHandler {
	return &CatalogHandler{
		Assets:      assets,
		Circulation: circulation,
	}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/assets", h.GetAssets)
	router.GET("/assets/:id", h.GetAssetDetail)
}

type AssetHoldView struct {
	HoldID     int       `json:"hold_id"`
	HoldPlaced time.Time `json:"hold_placed"`
	PatronName string    `json:"patron_name"`
}

type AssetDetailView struct {
	Asset           models.Asset             `json:"asset"`
	PatronName      string                   `json:"patron_name"`
	CurrentCheckout *models.Checkout         `json:"current_checkout,omitempty"`
	CheckoutHistory []models.CheckoutHistory `json:"checkout_history"`
	CurrentHolds    []AssetHoldView          `json:"current_holds"`
	FirstHoldCardID int                      `json:"first_hold_library_card_id"`
}

func (h *CatalogHandler) GetAssets(c *gin.Context) {
	assets, err := h.Assets.GetAssetList()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assets"})
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *CatalogHandler) GetAssetDetail(c *gin.Context) {
	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return
	}

	asset, err := h.Assets.GetAsset(assetID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch asset"})
		return
	}
	if asset == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}

	patronName, err := h.Circulation.GetCurrentCheckoutPatron(assetID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve checkout patron"})
		return
	}

	currentCheckout, err := h.Circulation.GetCurrentCheckout(assetID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch current checkout"})
		return
	}

	history, err := h.Circulation.GetCheckoutHistory(assetID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch checkout history"})
		return
	}

	holds, err := h.Circulation.GetCurrentHolds(assetID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch holds"})
		return
	}

	holdViews := make([]AssetHoldView, 0, len(holds))
	for _, hold := range holds {
		name, err := h.Circulation.GetHoldPatronName(hold.ID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve hold patron"})
			return
		}
		holdViews = append(holdViews, AssetHoldView{
			HoldID:     hold.ID,
			HoldPlaced: hold.HoldPlaced,
			PatronName: name,
		})
	}

	firstHoldCardID := 0
	if len(holds) > 0 {
		firstHoldCardID = holds[0].LibraryCardID
	}

	c.JSON(http.StatusOK, AssetDetailView{
		Asset:           *asset,
		PatronName:      patronName,
		CurrentCheckout: currentCheckout,
		CheckoutHistory: history,
		CurrentHolds:    holdViews,
		FirstHoldCardID: firstHoldCardID,
	})
}
