package controllers

import (
	"net/http"
	"strconv"

	"guesthouse-backend/repository"
	"guesthouse-backend/services"
	"guesthouse-backend/utils"

	"github.com/gin-gonic/gin"
)

type LogController struct {
	Logs *services.LogService
}

func NewLogController(ls *services.LogService) *LogController {
	return &LogController{Logs: ls}
}

// GET /api/logs?page=&limit=&action=&entityType=&entityId=
func (lc *LogController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(repository.DefaultLogLimit)))

	result, err := lc.Logs.List(c.Request.Context(), repository.LogQuery{
		Page:       page,
		Limit:      limit,
		Action:     c.Query("action"),
		EntityType: c.Query("entityType"),
		EntityID:   c.Query("entityId"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result)
}

func (lc *LogController) Stats(c *gin.Context) {
	stats, err := lc.Logs.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}
