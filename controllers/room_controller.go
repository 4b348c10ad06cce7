package controllers

import (
	"net/http"
	"time"

	"guesthouse-backend/middleware"
	"guesthouse-backend/services"
	"guesthouse-backend/utils"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	Rooms            *services.RoomService
	OccupancyService *services.OccupancyService
}

func NewRoomController(rs *services.RoomService, occ *services.OccupancyService) *RoomController {
	return &RoomController{Rooms: rs, OccupancyService: occ}
}

type createRoomRequest struct {
	Name        string `json:"name" binding:"required"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

type updateRoomRequest struct {
	Name        *string `json:"name"`
	Capacity    *int    `json:"capacity" binding:"omitempty,min=1"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// ----------------------------------------------------
// GET /api/rooms?active=true
// ----------------------------------------------------

func (rc *RoomController) List(c *gin.Context) {
	rooms, err := rc.Rooms.List(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (rc *RoomController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	room, err := rc.Rooms.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// ----------------------------------------------------
// POST /api/rooms
// ----------------------------------------------------

func (rc *RoomController) Create(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	room, err := rc.Rooms.Create(c.Request.Context(), services.RoomInput{
		Name:        req.Name,
		Capacity:    req.Capacity,
		Description: req.Description,
		IsActive:    req.IsActive,
	}, middleware.ActorFrom(c), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// ----------------------------------------------------
// PUT /api/rooms/:id
// ----------------------------------------------------

func (rc *RoomController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	room, err := rc.Rooms.Update(c.Request.Context(), id, services.RoomUpdateInput{
		Name:        req.Name,
		Capacity:    req.Capacity,
		Description: req.Description,
		IsActive:    req.IsActive,
	}, middleware.ActorFrom(c), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// ----------------------------------------------------
// DELETE /api/rooms/:id
// ----------------------------------------------------

func (rc *RoomController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := rc.Rooms.Delete(c.Request.Context(), id, middleware.ActorFrom(c), c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "message": "room deleted"})
}

// ----------------------------------------------------
// GET /api/rooms/occupancy?startDate=&endDate=
// Defaults to tonight: [today, tomorrow).
// ----------------------------------------------------

func (rc *RoomController) Occupancy(c *gin.Context) {
	start := utils.StartOfDay(time.Now())
	if raw := c.Query("startDate"); raw != "" {
		t, err := utils.ParseDate(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "startDate: "+err.Error())
			return
		}
		start = t
	}
	end := start.AddDate(0, 0, 1)
	if raw := c.Query("endDate"); raw != "" {
		t, err := utils.ParseDate(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "endDate: "+err.Error())
			return
		}
		end = t
	}

	report, err := rc.OccupancyService.Occupancy(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, report)
}
