package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/planmate/planmate-backend/internal/apierr"
	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/services"
)

type CampInvitationHandler struct {
	participation services.ParticipationService
	invitations   services.InvitationService
	log           *logger.Logger
}

func NewCampInvitationHandler(
	participation services.ParticipationService,
	invitations services.InvitationService,
	baseLog *logger.Logger,
) *CampInvitationHandler {
	return &CampInvitationHandler{
		participation: participation,
		invitations:   invitations,
		log:           baseLog.With("handler", "CampInvitationHandler"),
	}
}

func (h *CampInvitationHandler) ListMine(c *gin.Context) {
	rd, ok := tenantOf(c)
	if !ok {
		RespondError(c, h.log, apierr.Forbidden("missing tenant context"))
		return
	}
	invitations, err := h.invitations.ListForStudent(c.Request.Context(), rd.AcademyID, rd.UserID)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, invitations)
}

func (h *CampInvitationHandler) Get(c *gin.Context) {
	rd, ok := tenantOf(c)
	if !ok {
		RespondError(c, h.log, apierr.Forbidden("missing tenant context"))
		return
	}
	invitationID, err := parseIDParam(c, "id")
	if err != nil {
		RespondValidation(c, err)
		return
	}
	invitation, err := h.invitations.GetInvitation(c.Request.Context(), rd.AcademyID, rd.UserID, invitationID)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, invitation)
}

type acceptInvitationRequest struct {
	WizardData services.WizardData `json:"wizard_data"`
}

func (h *CampInvitationHandler) Accept(c *gin.Context) {
	rd, ok := tenantOf(c)
	if !ok {
		RespondError(c, h.log, apierr.Forbidden("missing tenant context"))
		return
	}
	invitationID, err := parseIDParam(c, "id")
	if err != nil {
		RespondValidation(c, err)
		return
	}
	var req acceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	group, err := h.participation.AcceptInvitation(c.Request.Context(), rd.AcademyID, rd.UserID, invitationID, req.WizardData)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"success": true, "plan_group": group})
}

func (h *CampInvitationHandler) Decline(c *gin.Context) {
	rd, ok := tenantOf(c)
	if !ok {
		RespondError(c, h.log, apierr.Forbidden("missing tenant context"))
		return
	}
	invitationID, err := parseIDParam(c, "id")
	if err != nil {
		RespondValidation(c, err)
		return
	}
	if err := h.participation.DeclineInvitation(c.Request.Context(), rd.AcademyID, rd.UserID, invitationID); err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (h *CampInvitationHandler) Cancel(c *gin.Context) {
	rd, ok := tenantOf(c)
	if !ok {
		RespondError(c, h.log, apierr.Forbidden("missing tenant context"))
		return
	}
	invitationID, err := parseIDParam(c, "id")
	if err != nil {
		RespondValidation(c, err)
		return
	}
	if err := h.participation.CancelParticipation(c.Request.Context(), rd.AcademyID, rd.UserID, invitationID); err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (h *CampInvitationHandler) Edit(c *gin.Context) {
	rd, ok := tenantOf(c)
	if !ok {
		RespondError(c, h.log, apierr.Forbidden("missing tenant context"))
		return
	}
	invitationID, err := parseIDParam(c, "id")
	if err != nil {
		RespondValidation(c, err)
		return
	}
	group, err := h.participation.EditParticipation(c.Request.Context(), rd.AcademyID, rd.UserID, invitationID)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"success": true, "plan_group": group})
}
