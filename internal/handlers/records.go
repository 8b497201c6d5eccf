package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-scheduling-server/internal/middleware"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/scheduling"
	"clinic-scheduling-server/internal/utils"
)

// RecordHandler serves medical records and visit reports.
type RecordHandler struct {
	DB *gorm.DB
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(db *gorm.DB) *RecordHandler {
	return &RecordHandler{DB: db}
}

// AddVisitRequest is the visit report a doctor attaches to an honored
// appointment.
type AddVisitRequest struct {
	Facility  string `json:"facility" binding:"required"`
	VisitDate string `json:"visitDate" binding:"required"`
	Summary   string `json:"summary" binding:"required"`
	Symptoms  string `json:"symptoms"`
	Diagnosis string `json:"diagnosis"`
	Treatment string `json:"treatment"`
	Notes     string `json:"notes"`
}

// AddVisit attaches a visit report to an appointment (doctor only). In
// one transaction it stores the visit, derives a medical record entry and
// flips the appointment's one-way VisitDone flag.
func (h *RecordHandler) AddVisit(c *gin.Context) {
	var req AddVisitRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if !scheduling.ValidDate(req.VisitDate) {
		utils.BadRequest(c, "Invalid visit date, expected YYYY-MM-DD")
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)
	if role != models.RoleAdmin && !(role == models.RoleDoctor && userID == appointment.DoctorID) {
		utils.Forbidden(c, "Only the appointment's doctor can attach a visit.")
		return
	}
	if appointment.Cancelled() {
		utils.BadRequest(c, "A cancelled appointment cannot have a visit.")
		return
	}
	if appointment.VisitDone {
		utils.BadRequest(c, "A visit has already been recorded for this appointment.")
		return
	}

	visit := models.Visit{
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		DoctorID:      appointment.DoctorID,
		Facility:      req.Facility,
		VisitDate:     req.VisitDate,
		Summary:       req.Summary,
		Symptoms:      req.Symptoms,
		Diagnosis:     req.Diagnosis,
		Treatment:     req.Treatment,
		Notes:         req.Notes,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&visit).Error; err != nil {
			return err
		}
		symptoms := req.Symptoms
		if symptoms == "" {
			symptoms = req.Summary
		}
		record := models.MedicalRecord{
			PatientID:  appointment.PatientID,
			DoctorID:   appointment.DoctorID,
			VisitID:    visit.ID,
			RecordType: models.RecordTypeVisitSummary,
			RecordDate: req.VisitDate,
			Title:      "Visite du " + req.VisitDate,
			Symptoms:   symptoms,
			Diagnosis:  req.Diagnosis,
			Treatment:  req.Treatment,
			Summary:    req.Summary,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Model(&appointment).Update("visit_done", true).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to record visit: "+err.Error())
		return
	}

	utils.Created(c, "Visit recorded successfully", visit)
}

// GetRecordsForPatient lists a patient's medical records. Patients can
// read their own history; doctors and admins can read any patient's.
func (h *RecordHandler) GetRecordsForPatient(c *gin.Context) {
	patientID := c.Param("patientId")

	userID, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)
	if role == models.RolePatient && userID != patientID {
		utils.Forbidden(c, "Patients can only view their own medical records.")
		return
	}

	var records []models.MedicalRecord
	err := h.DB.Where("patient_id = ?", patientID).
		Order("record_date desc").Find(&records).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch medical records: "+err.Error())
		return
	}

	utils.Success(c, "Medical records fetched successfully", records)
}

// GetRecordByID fetches a single medical record with the same access
// rules as the patient listing.
func (h *RecordHandler) GetRecordByID(c *gin.Context) {
	var record models.MedicalRecord
	if err := h.DB.First(&record, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Medical record not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)
	if role == models.RolePatient && userID != record.PatientID {
		utils.Forbidden(c, "You are not authorized to view this record.")
		return
	}

	utils.Success(c, "Medical record fetched successfully", record)
}
