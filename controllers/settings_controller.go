package controllers

import (
	"net/http"

	"guesthouse-backend/middleware"
	"guesthouse-backend/services"
	"guesthouse-backend/utils"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	Settings *services.SettingsService
	Presets  *services.PresetService
}

func NewSettingsController(ss *services.SettingsService, ps *services.PresetService) *SettingsController {
	return &SettingsController{Settings: ss, Presets: ps}
}

type updateSettingsPayload struct {
	MaxCapacity int `json:"maxCapacity" binding:"required,min=1"`
}

type presetPayload struct {
	Name        string `json:"name" binding:"required"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Phone       string `json:"phone" binding:"omitempty,phone"`
	Email       string `json:"email" binding:"omitempty,email"`
	Institution string `json:"institution"`
}

func (p presetPayload) input() services.PresetInput {
	return services.PresetInput{
		Name:        p.Name,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Phone:       p.Phone,
		Email:       p.Email,
		Institution: p.Institution,
	}
}

// GET /api/settings
func (sc *SettingsController) GetSettings(c *gin.Context) {
	s, err := sc.Settings.Get()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, s)
}

// PUT /api/settings
func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	var payload updateSettingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		bindError(c, err)
		return
	}
	s, err := sc.Settings.Update(c.Request.Context(), payload.MaxCapacity, middleware.ActorFrom(c), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, s)
}

// GET /api/presets
func (sc *SettingsController) ListPresets(c *gin.Context) {
	presets, err := sc.Presets.List()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, presets)
}

func (sc *SettingsController) CreatePreset(c *gin.Context) {
	var payload presetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		bindError(c, err)
		return
	}
	p, err := sc.Presets.Create(c.Request.Context(), payload.input(), middleware.ActorFrom(c), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, p)
}

func (sc *SettingsController) UpdatePreset(c *gin.Context) {
	var payload presetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		bindError(c, err)
		return
	}
	p, err := sc.Presets.Update(c.Request.Context(), c.Param("id"), payload.input(), middleware.ActorFrom(c), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, p)
}

func (sc *SettingsController) DeletePreset(c *gin.Context) {
	id := c.Param("id")
	if err := sc.Presets.Delete(c.Request.Context(), id, middleware.ActorFrom(c), c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "message": "preset deleted"})
}
