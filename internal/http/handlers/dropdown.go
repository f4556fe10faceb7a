package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/material-inventory-backend/internal/pkg/logger"
	"github.com/yungbote/material-inventory-backend/internal/platform/apierr"
	"github.com/yungbote/material-inventory-backend/internal/services"
)

type DropdownHandler struct {
	log             *logger.Logger
	dropdownService services.DropdownService
}

func NewDropdownHandler(baseLog *logger.Logger, dropdownService services.DropdownService) *DropdownHandler {
	return &DropdownHandler{
		log:             baseLog.With("handler", "DropdownHandler"),
		dropdownService: dropdownService,
	}
}

// GET /api/dropdowns/:type
func (h *DropdownHandler) ListByType(c *gin.Context) {
	dropdowns, err := h.dropdownService.ListByType(c.Request.Context(), c.Param("type"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, dropdowns)
}

// GET /api/dropdowns/:type/options
// Only the literal path /api/dropdowns/all/options is served here; it returns
// every option of every type, active and inactive, for admin screens.
func (h *DropdownHandler) ListAllOptions(c *gin.Context) {
	if c.Param("type") != "all" {
		RespondError(c, apierr.NotFound("Not found"))
		return
	}
	options, err := h.dropdownService.ListAll(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, options)
}

// POST /api/dropdowns
func (h *DropdownHandler) Create(c *gin.Context) {
	var req struct {
		Type  string `json:"type"`
		Label string `json:"label"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidArgument("Please provide type, label, and value"))
		return
	}

	dropdown, err := h.dropdownService.Create(c.Request.Context(), req.Type, req.Label, req.Value)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"success": true, "dropdown": dropdown})
}

// PUT /api/dropdowns/:id
func (h *DropdownHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.NotFound("Dropdown not found"))
		return
	}

	var req struct {
		Label string `json:"label"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidArgument("Please provide label or value"))
		return
	}

	dropdown, err := h.dropdownService.Update(c.Request.Context(), id, req.Label, req.Value)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true, "dropdown": dropdown})
}

// DELETE /api/dropdowns/:id
func (h *DropdownHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.NotFound("Dropdown not found"))
		return
	}
	if err := h.dropdownService.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true, "message": "Dropdown deleted successfully"})
}
