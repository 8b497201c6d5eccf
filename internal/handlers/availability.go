package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clinic-scheduling-server/internal/middleware"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/scheduling"
	"clinic-scheduling-server/internal/utils"
)

// AvailabilityHandler manages per-doctor, per-weekday offered hours.
type AvailabilityHandler struct {
	DB *gorm.DB
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(db *gorm.DB) *AvailabilityHandler {
	return &AvailabilityHandler{DB: db}
}

// AvailabilityResponse is the payload for a single weekday's hours.
type AvailabilityResponse struct {
	DoctorID string   `json:"doctorId"`
	Weekday  string   `json:"weekday"`
	Hours    []string `json:"hours"`
}

// canEditAvailability allows a doctor to edit their own hours and admins
// to edit anyone's.
func canEditAvailability(c *gin.Context, doctorID string) bool {
	userID, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)
	if role == models.RoleAdmin {
		return true
	}
	return role == models.RoleDoctor && userID == doctorID
}

// GetForWeekday returns the ordered offered hours for (doctor, weekday).
// A doctor with no configured row simply has no hours: the response is an
// empty list, never an error, so the booking form stays usable.
func (h *AvailabilityHandler) GetForWeekday(c *gin.Context) {
	doctorID := c.Param("doctorId")
	weekday := c.Param("weekday")
	if !scheduling.IsWeekday(weekday) {
		utils.BadRequest(c, "Unknown weekday: "+weekday)
		return
	}

	hours := []string{}
	var row models.WeekdayAvailability
	err := h.DB.Where("doctor_id = ? AND weekday = ?", doctorID, weekday).First(&row).Error
	switch {
	case err == nil:
		hours = row.Hours
	case err == gorm.ErrRecordNotFound:
		// empty list stands
	default:
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	utils.Success(c, "Availability fetched successfully", AvailabilityResponse{
		DoctorID: doctorID,
		Weekday:  weekday,
		Hours:    hours,
	})
}

// ReplaceRequest is the full replacement hour list for one weekday. The
// pointer distinguishes a missing field from an explicit empty list;
// clearing a weekday entirely is a valid save.
type ReplaceRequest struct {
	Hours *[]string `json:"hours" binding:"required"`
}

// saveWeekdayHours writes the (doctor, weekday) row as a single upsert.
// MySQL reports zero affected rows for an update that writes identical
// values, so existence must not be inferred from RowsAffected.
func (h *AvailabilityHandler) saveWeekdayHours(doctorID, weekday string, hours []string) error {
	row := models.WeekdayAvailability{
		DoctorID: doctorID,
		Weekday:  weekday,
		Hours:    hours,
	}
	return h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doctor_id"}, {Name: "weekday"}},
		DoUpdates: clause.AssignmentColumns([]string{"hours", "updated_at"}),
	}).Create(&row).Error
}

// ReplaceForWeekday saves a weekday's hours with replace-not-merge
// semantics: exactly the (doctor, weekday) row is written, every other
// weekday is untouched.
func (h *AvailabilityHandler) ReplaceForWeekday(c *gin.Context) {
	doctorID := c.Param("doctorId")
	weekday := c.Param("weekday")
	if !scheduling.IsWeekday(weekday) {
		utils.BadRequest(c, "Unknown weekday: "+weekday)
		return
	}
	if !canEditAvailability(c, doctorID) {
		utils.Forbidden(c, "You can only edit your own availability.")
		return
	}

	var req ReplaceRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	hours := *req.Hours
	if err := scheduling.ValidateHours(hours); err != nil {
		utils.BadRequest(c, "Invalid hours: "+err.Error())
		return
	}

	if err := h.saveWeekdayHours(doctorID, weekday, hours); err != nil {
		utils.InternalServerError(c, "Failed to save availability: "+err.Error())
		return
	}

	utils.Success(c, "Availability updated successfully", AvailabilityResponse{
		DoctorID: doctorID,
		Weekday:  weekday,
		Hours:    hours,
	})
}

// ResetForWeekday rebuilds one weekday from the default hourly template.
// Hours that are reserved on that weekday are kept even when the template
// would not include them, so a reset never strands a live booking.
func (h *AvailabilityHandler) ResetForWeekday(c *gin.Context) {
	doctorID := c.Param("doctorId")
	weekday := c.Param("weekday")
	if !scheduling.IsWeekday(weekday) {
		utils.BadRequest(c, "Unknown weekday: "+weekday)
		return
	}
	if !canEditAvailability(c, doctorID) {
		utils.Forbidden(c, "You can only edit your own availability.")
		return
	}

	reservedByDay, err := scheduling.ReservedByWeekday(h.DB, doctorID)
	if err != nil {
		utils.InternalServerError(c, "Failed to compute reservations: "+err.Error())
		return
	}
	hours := scheduling.ResetHours(reservedByDay[weekday])

	if err := h.saveWeekdayHours(doctorID, weekday, hours); err != nil {
		utils.InternalServerError(c, "Failed to reset availability: "+err.Error())
		return
	}

	utils.Success(c, "Availability reset to defaults", AvailabilityResponse{
		DoctorID: doctorID,
		Weekday:  weekday,
		Hours:    hours,
	})
}

// GetReserved returns, per weekday, the hours currently consumed by
// non-cancelled appointments for the doctor. The availability editor uses
// this to lock hours that cannot be removed.
func (h *AvailabilityHandler) GetReserved(c *gin.Context) {
	doctorID := c.Param("doctorId")

	reserved, err := scheduling.ReservedByWeekday(h.DB, doctorID)
	if err != nil {
		utils.InternalServerError(c, "Failed to compute reservations: "+err.Error())
		return
	}

	utils.Success(c, "Reserved hours fetched successfully", gin.H{
		"doctorId": doctorID,
		"reserved": reserved,
	})
}
