package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/planmate/planmate-backend/internal/apierr"
	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/repos"
	"github.com/planmate/planmate-backend/internal/types"
)

// InvitationService covers invitation reads plus the time-based expiry sweep.
type InvitationService interface {
	ListForStudent(ctx context.Context, academyID, studentID uuid.UUID) ([]*types.CampInvitation, error)
	ListForTemplate(ctx context.Context, academyID, templateID uuid.UUID) ([]*types.CampInvitation, error)
	GetInvitation(ctx context.Context, academyID, studentID uuid.UUID, invitationID uuid.UUID) (*types.CampInvitation, error)
	AutoExpireCampInvitations(ctx context.Context) (int, error)
}

type invitationService struct {
	invitations repos.CampInvitationRepo
	log         *logger.Logger
}

func NewInvitationService(invitations repos.CampInvitationRepo, baseLog *logger.Logger) InvitationService {
	return &invitationService{
		invitations: invitations,
		log:         baseLog.With("service", "InvitationService"),
	}
}

func (s *invitationService) ListForStudent(ctx context.Context, academyID, studentID uuid.UUID) ([]*types.CampInvitation, error) {
	invitations, err := s.invitations.ListByStudent(ctx, nil, academyID, studentID)
	if err != nil {
		return nil, apierr.Database("failed to list invitations", err)
	}
	return invitations, nil
}

func (s *invitationService) ListForTemplate(ctx context.Context, academyID, templateID uuid.UUID) ([]*types.CampInvitation, error) {
	invitations, err := s.invitations.ListByTemplate(ctx, nil, academyID, templateID)
	if err != nil {
		return nil, apierr.Database("failed to list invitations", err)
	}
	return invitations, nil
}

func (s *invitationService) GetInvitation(ctx context.Context, academyID, studentID uuid.UUID, invitationID uuid.UUID) (*types.CampInvitation, error) {
	invitation, err := s.invitations.GetByID(ctx, nil, academyID, invitationID)
	if err != nil {
		return nil, apierr.Database("failed to load invitation", err)
	}
	if invitation == nil {
		return nil, apierr.NotFound("invitation %s not found", invitationID)
	}
	if invitation.StudentID != studentID {
		return nil, apierr.Forbidden("invitation %s does not belong to this student", invitationID)
	}
	return invitation, nil
}

// AutoExpireCampInvitations flips every pending invitation past its deadline
// to expired. It runs on a schedule; per-row failures are logged so one bad
// row cannot stall the sweep.
func (s *invitationService) AutoExpireCampInvitations(ctx context.Context) (int, error) {
	expired, err := s.invitations.ListExpiredPending(ctx, nil, time.Now())
	if err != nil {
		return 0, apierr.Database("failed to list expired invitations", err)
	}
	flipped := 0
	for _, invitation := range expired {
		if err := s.invitations.UpdateFields(ctx, nil, invitation.ID, map[string]interface{}{"status": types.InvitationStatusExpired}); err != nil {
			s.log.Warn("failed to expire invitation", "invitation_id", invitation.ID, "error", err)
			continue
		}
		flipped++
	}
	if flipped > 0 {
		s.log.Info("expired stale invitations", "count", flipped)
	}
	return flipped, nil
}
