package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/material-inventory-backend/internal/data/repos"
	"github.com/yungbote/material-inventory-backend/internal/pkg/logger"
	"github.com/yungbote/material-inventory-backend/internal/platform/apierr"
	"github.com/yungbote/material-inventory-backend/internal/services"
)

type MaterialHandler struct {
	log             *logger.Logger
	materialService services.MaterialService
	imageService    services.ImageService
}

func NewMaterialHandler(baseLog *logger.Logger, materialService services.MaterialService, imageService services.ImageService) *MaterialHandler {
	return &MaterialHandler{
		log:             baseLog.With("handler", "MaterialHandler"),
		materialService: materialService,
		imageService:    imageService,
	}
}

// GET /api/materials
func (h *MaterialHandler) List(c *gin.Context) {
	filter := repos.ListFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Page:   intQuery(c, "page", 1),
		Limit:  intQuery(c, "limit", 10),
	}

	var err error
	if filter.DivisionID, err = optionalUUIDQuery(c, "divisionId"); err != nil {
		RespondError(c, err)
		return
	}
	if filter.PlacementID, err = optionalUUIDQuery(c, "placementId"); err != nil {
		RespondError(c, err)
		return
	}

	page, err := h.materialService.List(c.Request.Context(), filter)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, page)
}

// GET /api/materials/:id
func (h *MaterialHandler) Get(c *gin.Context) {
	id, err := materialID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	material, err := h.materialService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, material)
}

// POST /api/materials
func (h *MaterialHandler) Create(c *gin.Context) {
	var req struct {
		MaterialName   string `json:"materialName"`
		MaterialNumber string `json:"materialNumber"`
		DivisionID     string `json:"divisionId"`
		PlacementID    string `json:"placementId"`
		Function       string `json:"function"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidArgument("Please provide all required fields"))
		return
	}

	input := services.MaterialCreateInput{
		MaterialName:   req.MaterialName,
		MaterialNumber: req.MaterialNumber,
		Function:       req.Function,
	}
	var err error
	if input.DivisionID, err = parseOptionalUUID(req.DivisionID, "divisionId"); err != nil {
		RespondError(c, err)
		return
	}
	if input.PlacementID, err = parseOptionalUUID(req.PlacementID, "placementId"); err != nil {
		RespondError(c, err)
		return
	}

	material, err := h.materialService.Create(c.Request.Context(), input)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"success": true, "material": material})
}

// PUT /api/materials/:id
func (h *MaterialHandler) Update(c *gin.Context) {
	id, err := materialID(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	var req struct {
		MaterialName   *string `json:"materialName"`
		MaterialNumber *string `json:"materialNumber"`
		DivisionID     *string `json:"divisionId"`
		PlacementID    *string `json:"placementId"`
		Function       *string `json:"function"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidArgument("Invalid request body"))
		return
	}

	input := services.MaterialUpdateInput{
		MaterialName:   req.MaterialName,
		MaterialNumber: req.MaterialNumber,
		Function:       req.Function,
	}
	if req.DivisionID != nil {
		divisionID, err := parseOptionalUUID(*req.DivisionID, "divisionId")
		if err != nil {
			RespondError(c, err)
			return
		}
		input.DivisionID = &divisionID
	}
	if req.PlacementID != nil {
		placementID, err := parseOptionalUUID(*req.PlacementID, "placementId")
		if err != nil {
			RespondError(c, err)
			return
		}
		input.PlacementID = &placementID
	}

	material, err := h.materialService.Update(c.Request.Context(), id, input)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true, "material": material})
}

// PATCH /api/materials/:id/toggle-status
func (h *MaterialHandler) ToggleStatus(c *gin.Context) {
	id, err := materialID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	material, err := h.materialService.ToggleActive(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true, "material": material})
}

// DELETE /api/materials/:id
func (h *MaterialHandler) Delete(c *gin.Context) {
	id, err := materialID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	if err := h.materialService.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true, "message": "Material deleted successfully"})
}

// POST /api/materials/:id/images
func (h *MaterialHandler) UploadImages(c *gin.Context) {
	id, err := materialID(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, apierr.InvalidArgument("No images provided"))
		return
	}

	material, err := h.imageService.Upload(c.Request.Context(), id, form.File["images"])
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true, "material": material})
}

// DELETE /api/materials/:id/images/:imageId
func (h *MaterialHandler) DeleteImage(c *gin.Context) {
	id, err := materialID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		RespondError(c, apierr.NotFound("Image not found"))
		return
	}
	if err := h.imageService.Delete(c.Request.Context(), id, imageID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true, "message": "Image deleted successfully"})
}

// PUT /api/materials/:id/images/:imageId/primary
func (h *MaterialHandler) SetPrimaryImage(c *gin.Context) {
	id, err := materialID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		RespondError(c, apierr.NotFound("Image not found"))
		return
	}
	material, err := h.imageService.SetPrimary(c.Request.Context(), id, imageID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true, "material": material})
}

func materialID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apierr.NotFound("Material not found")
	}
	return id, nil
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func optionalUUIDQuery(c *gin.Context, key string) (uuid.UUID, error) {
	return parseOptionalUUID(c.Query(key), key)
}

func parseOptionalUUID(raw, field string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierr.InvalidArgument("%s must be a valid id", field)
	}
	return id, nil
}
