package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/planmate/planmate-backend/internal/apierr"
	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/requestdata"
	"github.com/planmate/planmate-backend/internal/services"
)

type CampTemplateHandler struct {
	templates   services.CampTemplateService
	invitations services.InvitationService
	bulk        services.BulkService
	log         *logger.Logger
}

func NewCampTemplateHandler(
	templates services.CampTemplateService,
	invitations services.InvitationService,
	bulk services.BulkService,
	baseLog *logger.Logger,
) *CampTemplateHandler {
	return &CampTemplateHandler{
		templates:   templates,
		invitations: invitations,
		bulk:        bulk,
		log:         baseLog.With("handler", "CampTemplateHandler"),
	}
}

func tenantOf(c *gin.Context) (*requestdata.RequestData, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		return nil, false
	}
	return rd, true
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

type createTemplateRequest struct {
	Name          string                       `json:"name" validate:"required"`
	ProgramType   string                       `json:"program_type"`
	TemplateData  services.WizardData          `json:"template_data"`
	CampStartDate *string                      `json:"camp_start_date" validate:"omitempty,datetime=2006-01-02"`
	CampEndDate   *string                      `json:"camp_end_date" validate:"omitempty,datetime=2006-01-02"`
	BlockSetID    *string                      `json:"block_set_id" validate:"omitempty,uuid4"`
	SlotTemplates []services.SlotTemplateInput `json:"slot_templates"`
}

func (h *CampTemplateHandler) Create(c *gin.Context) {
	rd, ok := tenantOf(c)
	if !ok {
		RespondError(c, h.log, apierr.Forbidden("missing tenant context"))
		return
	}
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		RespondValidation(c, err)
		return
	}

	input := services.CreateCampTemplateInput{
		Name:          req.Name,
		ProgramType:   req.ProgramType,
		TemplateData:  req.TemplateData,
		SlotTemplates: req.SlotTemplates,
	}
	if req.CampStartDate != nil {
		parsed, _ := time.Parse("2006-01-02", *req.CampStartDate)
		input.CampStartDate = &parsed
	}
	if req.CampEndDate != nil {
		parsed, _ := time.Parse("2006-01-02", *req.CampEndDate)
		input.CampEndDate = &parsed
	}
	if req.BlockSetID != nil {
		parsed, _ := uuid.Parse(*req.BlockSetID)
		input.BlockSetID = &parsed
	}

	template, err := h.templates.CreateTemplate(c.Request.Context(), rd.AcademyID, input)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondCreated(c, template)
}

type updateTemplateRequest struct {
	Name          *string              `json:"name"`
	ProgramType   *string              `json:"program_type"`
	Status        *string              `json:"status" validate:"omitempty,oneof=draft active"`
	TemplateData  *services.WizardData `json:"template_data"`
	CampStartDate *string              `json:"camp_start_date" validate:"omitempty,datetime=2006-01-02"`
	CampEndDate   *string              `json:"camp_end_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *CampTemplateHandler) Update(c *gin.Context) {
	rd, ok := tenantOf(c)
	if !ok {
		RespondError(c, h.log, apierr.Forbidden("missing tenant context"))
		return
	}
	templateID, err := parseIDParam(c, "id")
	if err != nil {
		RespondValidation(c, err)
		return
	}
	var req updateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		RespondValidation(c, err)
		return
	}

	input := services.UpdateCampTemplateInput{
		Name:         req.Name,
		ProgramType:  req.ProgramType,
		Status:       req.Status,
		TemplateData: req.TemplateData,
	}
	if req.CampStartDate != nil {
		parsed, _ := time.Parse("2006-01-02", *req.CampStartDate)
		input.CampStartDate = &parsed
	}
	if req.CampEndDate != nil {
		parsed, _ := time.Parse("2006-01-02", *req.CampEndDate)
		input.CampEndDate = &parsed
	}

	template, err := h.templates.UpdateTemplate(c.Request.Context(), rd.AcademyID, templateID, input)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, template)
}

func (h *CampTemplateHandler) Archive(c *gin.Context) {
	rd, ok := tenantOf(c)
	if !ok {
		RespondError(c, h.log, apierr.Forbidden("missing tenant context"))
		return
	}
	templateID, err := parseIDParam(c, "id")
	if err != nil {
		RespondValidation(c, err)
		return
	}
	if err := h.templates.ArchiveTemplate(c.Request.Context(), rd.AcademyID, templateID); err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"archived": true})
}

func (h *CampTemplateHandler) Get(c *gin.Context) {
	rd, ok := tenantOf(c)
	if !ok {
		RespondError(c, h.log, apierr.Forbidden("missing tenant context"))
		return
	}
	templateID, err := parseIDParam(c, "id")
	if err != nil {
		RespondValidation(c, err)
		return
	}
	template, slots, err := h.templates.GetTemplate(c.Request.Context(), rd.AcademyID, templateID)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"template": template, "slot_templates": slots})
}

func (h *CampTemplateHandler) List(c *gin.Context) {
	rd, ok := tenantOf(c)
	if !ok {
		RespondError(c, h.log, apierr.Forbidden("missing tenant context"))
		return
	}
	templates, err := h.templates.ListTemplates(c.Request.Context(), rd.AcademyID)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, templates)
}

type linkBlockSetRequest struct {
	BlockSetID string `json:"block_set_id" validate:"required,uuid4"`
}

func (h *CampTemplateHandler) LinkBlockSet(c *gin.Context) {
	rd, ok := tenantOf(c)
	if !ok {
		RespondError(c, h.log, apierr.Forbidden("missing tenant context"))
		return
	}
	templateID, err := parseIDParam(c, "id")
	if err != nil {
		RespondValidation(c, err)
		return
	}
	var req linkBlockSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		RespondValidation(c, err)
		return
	}
	blockSetID, _ := uuid.Parse(req.BlockSetID)
	if err := h.templates.LinkBlockSet(c.Request.Context(), rd.AcademyID, templateID, blockSetID); err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondCreated(c, gin.H{"linked": true})
}

type bulkInviteRequest struct {
	StudentIDs []string `json:"student_ids" validate:"required,min=1,dive,uuid4"`
	ExpiresAt  *string  `json:"expires_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

func (h *CampTemplateHandler) BulkInvite(c *gin.Context) {
	rd, ok := tenantOf(c)
	if !ok {
		RespondError(c, h.log, apierr.Forbidden("missing tenant context"))
		return
	}
	templateID, err := parseIDParam(c, "id")
	if err != nil {
		RespondValidation(c, err)
		return
	}
	var req bulkInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		RespondValidation(c, err)
		return
	}

	studentIDs := make([]uuid.UUID, 0, len(req.StudentIDs))
	for _, raw := range req.StudentIDs {
		id, _ := uuid.Parse(raw)
		studentIDs = append(studentIDs, id)
	}
	var expiresAt *time.Time
	if req.ExpiresAt != nil {
		parsed, _ := time.Parse(time.RFC3339, *req.ExpiresAt)
		expiresAt = &parsed
	}

	result, err := h.bulk.CreateInvitations(c.Request.Context(), rd.AcademyID, templateID, studentIDs, expiresAt)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, result)
}

func (h *CampTemplateHandler) ListInvitations(c *gin.Context) {
	rd, ok := tenantOf(c)
	if !ok {
		RespondError(c, h.log, apierr.Forbidden("missing tenant context"))
		return
	}
	templateID, err := parseIDParam(c, "id")
	if err != nil {
		RespondValidation(c, err)
		return
	}
	invitations, err := h.invitations.ListForTemplate(c.Request.Context(), rd.AcademyID, templateID)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, invitations)
}
