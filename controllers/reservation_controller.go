package controllers

import (
	"net/http"
	"strings"
	"time"

	"guesthouse-backend/middleware"
	"guesthouse-backend/models"
	"guesthouse-backend/repository"
	"guesthouse-backend/services"
	"guesthouse-backend/utils"

	"github.com/gin-gonic/gin"
)

type ReservationController struct {
	Reservations *services.ReservationService
	Availability *services.AvailabilityService
}

func NewReservationController(rs *services.ReservationService, as *services.AvailabilityService) *ReservationController {
	return &ReservationController{Reservations: rs, Availability: as}
}

type guestRequest struct {
	FirstName      string `json:"firstName" binding:"required"`
	LastName       string `json:"lastName" binding:"required"`
	Phone          string `json:"phone" binding:"required,phone"`
	Email          string `json:"email" binding:"omitempty,email"`
	IdentityNumber string `json:"identityNumber"`
}

func (g guestRequest) input() services.GuestInput {
	return services.GuestInput{
		FirstName:      g.FirstName,
		LastName:       g.LastName,
		Phone:          g.Phone,
		Email:          g.Email,
		IdentityNumber: g.IdentityNumber,
	}
}

type registrarRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Phone       string `json:"phone" binding:"omitempty,phone"`
	Email       string `json:"email" binding:"omitempty,email"`
	Institution string `json:"institution"`
}

func (r *registrarRequest) model() *models.Registrar {
	if r == nil {
		return nil
	}
	return &models.Registrar{
		FirstName:   strings.TrimSpace(r.FirstName),
		LastName:    strings.TrimSpace(r.LastName),
		Phone:       strings.TrimSpace(r.Phone),
		Email:       strings.TrimSpace(r.Email),
		Institution: strings.TrimSpace(r.Institution),
	}
}

type createReservationRequest struct {
	Guest            guestRequest             `json:"guest"`
	GuestCount       int                      `json:"guestCount" binding:"omitempty,min=1"`
	CheckInDate      string                   `json:"checkInDate" binding:"required,isodate"`
	CheckOutDate     string                   `json:"checkOutDate" binding:"required,isodate"`
	RoomAssignments  []models.RoomAssignment  `json:"roomAssignments"`
	AssignedRooms    []string                 `json:"assignedRooms"`
	AdditionalGuests []models.AdditionalGuest `json:"additionalGuests"`
	Registrar        *registrarRequest        `json:"registrar"`
	Notes            string                   `json:"notes"`
}

type updateReservationRequest struct {
	Guest            *guestRequest             `json:"guest"`
	GuestCount       *int                      `json:"guestCount" binding:"omitempty,min=1"`
	CheckInDate      *string                   `json:"checkInDate" binding:"omitempty,isodate"`
	CheckOutDate     *string                   `json:"checkOutDate" binding:"omitempty,isodate"`
	Status           *models.ReservationStatus `json:"status"`
	RoomAssignments  *[]models.RoomAssignment  `json:"roomAssignments"`
	AssignedRooms    *[]string                 `json:"assignedRooms"`
	AdditionalGuests *[]models.AdditionalGuest `json:"additionalGuests"`
	Registrar        *registrarRequest         `json:"registrar"`
	Notes            *string                   `json:"notes"`
	RejectionReason  *string                   `json:"rejectionReason"`
}

func optionalDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := utils.ParseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GET /api/reservations/check-availability?checkIn=YYYY-MM-DD&checkOut=YYYY-MM-DD
func (rc *ReservationController) CheckAvailability(c *gin.Context) {
	checkIn, err := utils.ParseDate(c.Query("checkIn"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "checkIn: "+err.Error())
		return
	}
	checkOut, err := utils.ParseDate(c.Query("checkOut"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "checkOut: "+err.Error())
		return
	}

	result, err := rc.Availability.Check(c.Request.Context(), checkIn, checkOut)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result)
}

// POST /api/reservations (public form)
func (rc *ReservationController) Create(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	checkIn, _ := utils.ParseDate(req.CheckInDate)
	checkOut, _ := utils.ParseDate(req.CheckOutDate)

	res, err := rc.Reservations.Create(c.Request.Context(), services.CreateReservationInput{
		Guest:            req.Guest.input(),
		GuestCount:       req.GuestCount,
		CheckInDate:      checkIn,
		CheckOutDate:     checkOut,
		RoomAssignments:  req.RoomAssignments,
		AssignedRooms:    req.AssignedRooms,
		AdditionalGuests: req.AdditionalGuests,
		Registrar:        req.Registrar.model(),
		Notes:            req.Notes,
	}, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, res)
}

// GET /api/reservations?status=&archived=&from=&to=&search=
func (rc *ReservationController) List(c *gin.Context) {
	var filter repository.ReservationFilter

	if s := strings.TrimSpace(c.Query("status")); s != "" {
		status := models.ReservationStatus(s)
		if !status.IsValid() {
			utils.JSONError(c, http.StatusBadRequest, "invalid status: "+s)
			return
		}
		filter.Status = &status
	}
	if a := strings.TrimSpace(c.Query("archived")); a != "" {
		archived := a == "true" || a == "1"
		filter.Archived = &archived
	}
	if f := c.Query("from"); f != "" {
		from, err := utils.ParseDate(f)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "from: "+err.Error())
			return
		}
		filter.From = &from
	}
	if t := c.Query("to"); t != "" {
		to, err := utils.ParseDate(t)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "to: "+err.Error())
			return
		}
		filter.To = &to
	}
	filter.Search = c.Query("search")

	list, err := rc.Reservations.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []models.Reservation{}
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (rc *ReservationController) Stats(c *gin.Context) {
	stats, err := rc.Reservations.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}

func (rc *ReservationController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res, err := rc.Reservations.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// PUT /api/reservations/:id
func (rc *ReservationController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	checkIn, err := optionalDate(req.CheckInDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "checkInDate: "+err.Error())
		return
	}
	checkOut, err := optionalDate(req.CheckOutDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "checkOutDate: "+err.Error())
		return
	}

	in := services.UpdateReservationInput{
		GuestCount:       req.GuestCount,
		CheckInDate:      checkIn,
		CheckOutDate:     checkOut,
		Status:           req.Status,
		RoomAssignments:  req.RoomAssignments,
		AssignedRooms:    req.AssignedRooms,
		AdditionalGuests: req.AdditionalGuests,
		Registrar:        req.Registrar.model(),
		Notes:            req.Notes,
		RejectionReason:  req.RejectionReason,
	}
	if req.Guest != nil {
		g := req.Guest.input()
		in.Guest = &g
	}

	res, err := rc.Reservations.Update(c.Request.Context(), id, in, middleware.ActorFrom(c), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

func (rc *ReservationController) Archive(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res, err := rc.Reservations.Archive(c.Request.Context(), id, middleware.ActorFrom(c), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

func (rc *ReservationController) Restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res, err := rc.Reservations.Restore(c.Request.Context(), id, middleware.ActorFrom(c), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

func (rc *ReservationController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := rc.Reservations.Delete(c.Request.Context(), id, middleware.ActorFrom(c), c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "message": "reservation deleted"})
}
