package http

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/outfitplanner/backend/internal/domain"
	"github.com/outfitplanner/backend/internal/logging"
	"github.com/outfitplanner/backend/internal/usecase"
)

// uploadURLPrefix is where uploaded wardrobe images are served from
const uploadURLPrefix = "/uploads"

// Services bundles the usecases the HTTP layer exposes
type Services struct {
	Search    *usecase.SearchService
	Recommend *usecase.RecommendService
	Wardrobe  *usecase.WardrobeService
	Outfits   *usecase.OutfitService
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	services  Services
	uploadDir string
	log       zerolog.Logger
}

// NewHandler creates a new HTTP handler. Uploaded images are written to uploadDir.
func NewHandler(services Services, uploadDir string) *Handler {
	return &Handler{
		services:  services,
		uploadDir: uploadDir,
		log:       logging.With("http"),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "outfitplanner-backend",
		"version": "1.0.0",
	})
}

// SearchProducts handles product search requests
func (h *Handler) SearchProducts(c *gin.Context) {
	var req domain.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.services.Search.Search(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recommend picks an outfit from the wardrobe for the event in the query string
func (h *Handler) Recommend(c *gin.Context) {
	var req domain.RecommendRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.services.Recommend.Recommend(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListWardrobe returns every wardrobe item
func (h *Handler) ListWardrobe(c *gin.Context) {
	items, err := h.services.Wardrobe.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetWardrobeItem returns one wardrobe item
func (h *Handler) GetWardrobeItem(c *gin.Context) {
	item, err := h.services.Wardrobe.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// AddWardrobeItem accepts either JSON or a multipart form with an optional "image" file
func (h *Handler) AddWardrobeItem(c *gin.Context) {
	input, image, ok := h.bindWardrobeInput(c)
	if !ok {
		return
	}

	item, err := h.services.Wardrobe.Add(c.Request.Context(), input, image)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateWardrobeItem replaces an item's fields and recomputes its embedding
func (h *Handler) UpdateWardrobeItem(c *gin.Context) {
	input, image, ok := h.bindWardrobeInput(c)
	if !ok {
		return
	}

	item, err := h.services.Wardrobe.Update(c.Request.Context(), c.Param("id"), input, image)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteWardrobeItem removes one item
func (h *Handler) DeleteWardrobeItem(c *gin.Context) {
	item, err := h.services.Wardrobe.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": item})
}

// ClearWardrobe removes every item
func (h *Handler) ClearWardrobe(c *gin.Context) {
	if err := h.services.Wardrobe.Clear(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RefreshEmbeddings recomputes wardrobe embeddings, up to ?limit items
func (h *Handler) RefreshEmbeddings(c *gin.Context) {
	limit := usecase.DefaultRefreshLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	updated, err := h.services.Wardrobe.RefreshEmbeddings(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

type addToCartRequest struct {
	Listing  domain.Listing `json:"listing"`
	Category string         `json:"category"`
}

// AddToCart stores a scraped listing in the user's cart
func (h *Handler) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	item, err := h.services.Outfits.AddToCart(c.Request.Context(), c.Param("user"), req.Listing, req.Category)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ListCart returns the user's cart
func (h *Handler) ListCart(c *gin.Context) {
	items, err := h.services.Outfits.Cart(c.Request.Context(), c.Param("user"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// RemoveFromCart deletes one cart item
func (h *Handler) RemoveFromCart(c *gin.Context) {
	if err := h.services.Outfits.RemoveFromCart(c.Request.Context(), c.Param("user"), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BuildOutfits generates every scored combination from the user's cart
func (h *Handler) BuildOutfits(c *gin.Context) {
	combos, err := h.services.Outfits.Build(c.Request.Context(), c.Param("user"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"combinations": combos})
}

type saveOutfitRequest struct {
	Name        string                   `json:"name"`
	Combination domain.OutfitCombination `json:"combination"`
}

// SaveOutfit persists one combination for the user
func (h *Handler) SaveOutfit(c *gin.Context) {
	var req saveOutfitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	outfit, err := h.services.Outfits.SaveOutfit(c.Request.Context(), c.Param("user"), req.Name, req.Combination)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, outfit)
}

// ListOutfits returns the user's saved outfits
func (h *Handler) ListOutfits(c *gin.Context) {
	outfits, err := h.services.Outfits.Outfits(c.Request.Context(), c.Param("user"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outfits)
}

// bindWardrobeInput reads a wardrobe payload and stores an uploaded image if present.
// It writes the error response itself and reports false on failure.
func (h *Handler) bindWardrobeInput(c *gin.Context) (domain.WardrobeItemInput, string, bool) {
	var input domain.WardrobeItemInput

	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return input, "", false
		}
		return input, "", true
	}

	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return input, "", false
	}
	input.Tags = usecase.ParseTags(c.PostForm("tags"))

	file, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return input, "", true
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image upload: " + err.Error()})
		return input, "", false
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, name)); err != nil {
		h.log.Error().Err(err).Str("file", name).Msg("failed to store upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return input, "", false
	}
	return input, uploadURLPrefix + "/" + name, true
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
