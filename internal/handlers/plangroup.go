package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/planmate/planmate-backend/internal/apierr"
	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/repos"
	"github.com/planmate/planmate-backend/internal/services"
)

type PlanGroupHandler struct {
	status services.PlanGroupStatusService
	bulk   services.BulkService
	groups repos.PlanGroupRepo
	log    *logger.Logger
}

func NewPlanGroupHandler(
	status services.PlanGroupStatusService,
	bulk services.BulkService,
	groups repos.PlanGroupRepo,
	baseLog *logger.Logger,
) *PlanGroupHandler {
	return &PlanGroupHandler{
		status: status,
		bulk:   bulk,
		groups: groups,
		log:    baseLog.With("handler", "PlanGroupHandler"),
	}
}

func (h *PlanGroupHandler) Get(c *gin.Context) {
	rd, ok := tenantOf(c)
	if !ok {
		RespondError(c, h.log, apierr.Forbidden("missing tenant context"))
		return
	}
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		RespondValidation(c, err)
		return
	}
	group, err := h.groups.GetByID(c.Request.Context(), nil, rd.AcademyID, groupID)
	if err != nil {
		RespondError(c, h.log, apierr.Database("failed to load plan group", err))
		return
	}
	if group == nil {
		RespondError(c, h.log, apierr.NotFound("plan group %s not found", groupID))
		return
	}
	RespondOK(c, group)
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft saved active paused archived"`
}

func (h *PlanGroupHandler) ChangeStatus(c *gin.Context) {
	rd, ok := tenantOf(c)
	if !ok {
		RespondError(c, h.log, apierr.Forbidden("missing tenant context"))
		return
	}
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		RespondValidation(c, err)
		return
	}
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		RespondValidation(c, err)
		return
	}
	group, err := h.status.ChangeStatus(c.Request.Context(), rd.AcademyID, groupID, req.Status)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, group)
}

func (h *PlanGroupHandler) Materialize(c *gin.Context) {
	rd, ok := tenantOf(c)
	if !ok {
		RespondError(c, h.log, apierr.Forbidden("missing tenant context"))
		return
	}
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		RespondValidation(c, err)
		return
	}
	if err := h.status.Materialize(c.Request.Context(), rd.AcademyID, groupID); err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"materialized": true})
}

type bulkStatusRequest struct {
	GroupIDs []string `json:"group_ids" validate:"required,min=1,dive,uuid4"`
	Status   string   `json:"status" validate:"required,oneof=draft saved active paused archived"`
}

func (h *PlanGroupHandler) BulkChangeStatus(c *gin.Context) {
	rd, ok := tenantOf(c)
	if !ok {
		RespondError(c, h.log, apierr.Forbidden("missing tenant context"))
		return
	}
	var req bulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		RespondValidation(c, err)
		return
	}
	groupIDs := parseUUIDList(req.GroupIDs)
	result, err := h.status.BulkChangeStatus(c.Request.Context(), rd.AcademyID, groupIDs, req.Status)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, result)
}

type bulkRecommendRequest struct {
	GroupIDs []string                 `json:"group_ids" validate:"required,min=1,dive,uuid4"`
	Contents []services.WizardContent `json:"contents" validate:"required,min=1"`
}

func (h *PlanGroupHandler) BulkRecommendContent(c *gin.Context) {
	rd, ok := tenantOf(c)
	if !ok {
		RespondError(c, h.log, apierr.Forbidden("missing tenant context"))
		return
	}
	var req bulkRecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		RespondValidation(c, err)
		return
	}
	groupIDs := parseUUIDList(req.GroupIDs)
	result, err := h.bulk.RecommendContent(c.Request.Context(), rd.AcademyID, groupIDs, req.Contents)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, result)
}

type bulkAdjustRangeRequest struct {
	GroupIDs        []string `json:"group_ids" validate:"required,min=1,dive,uuid4"`
	ContentType     string   `json:"content_type" validate:"required,oneof=book lecture custom"`
	MasterContentID string   `json:"master_content_id" validate:"required,uuid4"`
	StartRange      int      `json:"start_range" validate:"required,min=1"`
	EndRange        int      `json:"end_range" validate:"required,min=1"`
}

func (h *PlanGroupHandler) BulkAdjustContentRange(c *gin.Context) {
	rd, ok := tenantOf(c)
	if !ok {
		RespondError(c, h.log, apierr.Forbidden("missing tenant context"))
		return
	}
	var req bulkAdjustRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		RespondValidation(c, err)
		return
	}
	groupIDs := parseUUIDList(req.GroupIDs)
	masterContentID, _ := uuid.Parse(req.MasterContentID)
	result, err := h.bulk.AdjustContentRange(c.Request.Context(), rd.AcademyID, groupIDs, req.ContentType, masterContentID, req.StartRange, req.EndRange)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, result)
}

func parseUUIDList(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, item := range raw {
		id, err := uuid.Parse(item)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
