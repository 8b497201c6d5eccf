package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/scheduling"
	"clinic-scheduling-server/internal/utils"
)

// DoctorHandler serves doctor profiles, the identities patients book
// against.
type DoctorHandler struct {
	DB *gorm.DB
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(db *gorm.DB) *DoctorHandler {
	return &DoctorHandler{DB: db}
}

// GetDoctors lists all doctor profiles. Accessible to any authenticated
// user; this feeds the booking form's doctor selector.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	var doctors []models.DoctorProfile
	if err := h.DB.Order("last_name asc").Find(&doctors).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}
	utils.Success(c, "Doctors fetched successfully", doctors)
}

// GetDoctorByUserID fetches one doctor profile by the doctor's account ID
// (the identifier appointments reference).
func (h *DoctorHandler) GetDoctorByUserID(c *gin.Context) {
	userID := c.Param("userId")

	var doctor models.DoctorProfile
	if err := h.DB.Where("user_id = ?", userID).First(&doctor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "Doctor fetched successfully", doctor)
}

// CreateDoctorRequest represents the request body for creating a doctor
// profile.
type CreateDoctorRequest struct {
	UserID    string `json:"userId" binding:"required,uuid"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Specialty string `json:"specialty" binding:"required"`
}

// CreateDoctor creates a doctor profile for an existing doctor account
// and seeds the default weekday availability, so a freshly registered
// doctor is immediately bookable (admin only).
func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var req CreateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var user models.User
	if err := h.DB.Where("id = ? AND role = ?", req.UserID, models.RoleDoctor).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor account not found or user is not a doctor")
		} else {
			utils.InternalServerError(c, "Database error verifying doctor account: "+err.Error())
		}
		return
	}

	var existing models.DoctorProfile
	if err := h.DB.Where("user_id = ?", req.UserID).First(&existing).Error; err == nil {
		utils.BadRequest(c, "Doctor profile already exists for this account")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	doctor := models.DoctorProfile{
		UserID:    req.UserID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Specialty: req.Specialty,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&doctor).Error; err != nil {
			return err
		}
		for _, day := range scheduling.Weekdays {
			availability := models.WeekdayAvailability{
				DoctorID: req.UserID,
				Weekday:  day,
				Hours:    scheduling.DefaultHours(),
			}
			if err := tx.Create(&availability).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to create doctor profile: "+err.Error())
		return
	}

	utils.Created(c, "Doctor profile created successfully", doctor)
}
