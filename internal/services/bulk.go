package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/planmate/planmate-backend/internal/apierr"
	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/repos"
	"github.com/planmate/planmate-backend/internal/types"
)

// bulkBatchSize caps concurrent sub-tasks per batch; batches run one after
// another.
const bulkBatchSize = 5

type BulkError struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
}

// BulkResult aggregates per-item outcomes. Partial failure is reported here,
// never as an error from the bulk operation itself.
type BulkResult struct {
	SuccessCount int         `json:"success_count"`
	FailureCount int         `json:"failure_count"`
	Errors       []BulkError `json:"errors,omitempty"`
}

func (r *BulkResult) AddFailure(id uuid.UUID, err error) {
	r.FailureCount++
	r.Errors = append(r.Errors, BulkError{ID: id, Error: err.Error()})
}

// BulkService fans admin actions out over many students or groups with
// per-item isolation: one bad target never blocks its siblings.
type BulkService interface {
	CreateInvitations(ctx context.Context, academyID, templateID uuid.UUID, studentIDs []uuid.UUID, expiresAt *time.Time) (*BulkResult, error)
	RecommendContent(ctx context.Context, academyID uuid.UUID, groupIDs []uuid.UUID, requested []WizardContent) (*BulkResult, error)
	AdjustContentRange(ctx context.Context, academyID uuid.UUID, groupIDs []uuid.UUID, contentType string, masterContentID uuid.UUID, startRange, endRange int) (*BulkResult, error)
}

type bulkService struct {
	users       repos.UserRepo
	templates   repos.CampTemplateRepo
	invitations repos.CampInvitationRepo
	groups      repos.PlanGroupRepo
	contents    repos.PlanContentRepo
	resolver    ContentResolver
	notifier    Notifier
	log         *logger.Logger
}

func NewBulkService(
	users repos.UserRepo,
	templates repos.CampTemplateRepo,
	invitations repos.CampInvitationRepo,
	groups repos.PlanGroupRepo,
	contents repos.PlanContentRepo,
	resolver ContentResolver,
	notifier Notifier,
	baseLog *logger.Logger,
) BulkService {
	return &bulkService{
		users:       users,
		templates:   templates,
		invitations: invitations,
		groups:      groups,
		contents:    contents,
		resolver:    resolver,
		notifier:    notifier,
		log:         baseLog.With("service", "BulkService"),
	}
}

// CreateInvitations invites many students to one template. Tenant membership
// of every target is a batch-level precondition; duplicate and storage
// failures stay per-item. Notification delivery is tracked per row as a
// retryable status, separate from whether the row was created.
func (s *bulkService) CreateInvitations(ctx context.Context, academyID, templateID uuid.UUID, studentIDs []uuid.UUID, expiresAt *time.Time) (*BulkResult, error) {
	result := &BulkResult{}
	if len(studentIDs) == 0 {
		return result, nil
	}

	template, err := s.templates.GetByID(ctx, nil, academyID, templateID)
	if err != nil {
		return nil, apierr.Database("failed to load camp template", err)
	}
	if template == nil {
		return nil, apierr.NotFound("camp template %s not found", templateID)
	}
	if template.Status == types.CampTemplateStatusArchived {
		return nil, apierr.Validation("camp template %s is archived and cannot be offered", templateID)
	}

	students, err := s.users.GetByIDs(ctx, nil, studentIDs)
	if err != nil {
		return nil, apierr.Database("failed to load invited students", err)
	}
	known := make(map[uuid.UUID]*types.User, len(students))
	for _, student := range students {
		known[student.ID] = student
	}
	for _, id := range studentIDs {
		student, found := known[id]
		if !found || student.AcademyID != academyID {
			return nil, apierr.Forbidden("student %s does not belong to this academy", id)
		}
	}

	var mu sync.Mutex
	var created []*types.CampInvitation
	for start := 0; start < len(studentIDs); start += bulkBatchSize {
		end := start + bulkBatchSize
		if end > len(studentIDs) {
			end = len(studentIDs)
		}
		var g errgroup.Group
		g.SetLimit(bulkBatchSize)
		for _, studentID := range studentIDs[start:end] {
			studentID := studentID
			g.Go(func() error {
				invitation := &types.CampInvitation{
					AcademyID:          academyID,
					CampTemplateID:     templateID,
					StudentID:          studentID,
					Status:             types.InvitationStatusPending,
					ExpiresAt:          expiresAt,
					NotificationStatus: types.NotificationStatusPending,
				}
				_, err := s.invitations.Create(ctx, nil, []*types.CampInvitation{invitation})
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if apierr.IsUniqueViolation(err) {
						result.AddFailure(studentID, apierr.Duplicate("student %s was already invited to this camp", studentID))
					} else {
						result.AddFailure(studentID, apierr.Database("failed to create invitation", err))
					}
					return nil
				}
				created = append(created, invitation)
				result.SuccessCount++
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	s.dispatchInvitationNotifications(ctx, academyID, templateID, created)

	s.log.Info("bulk invitation creation finished",
		"template_id", templateID, "requested", len(studentIDs),
		"success", result.SuccessCount, "failed", result.FailureCount)
	return result, nil
}

// dispatchInvitationNotifications delivers best-effort and records the
// outcome per row so failed deliveries can be retried later.
func (s *bulkService) dispatchInvitationNotifications(ctx context.Context, academyID, templateID uuid.UUID, created []*types.CampInvitation) {
	for start := 0; start < len(created); start += bulkBatchSize {
		end := start + bulkBatchSize
		if end > len(created) {
			end = len(created)
		}
		var g errgroup.Group
		g.SetLimit(bulkBatchSize)
		for _, invitation := range created[start:end] {
			invitation := invitation
			g.Go(func() error {
				status := types.NotificationStatusSent
				err := s.notifier.Publish(ctx, NotificationEvent{
					Type:         "camp.invitation.created",
					AcademyID:    academyID,
					StudentID:    invitation.StudentID,
					InvitationID: &invitation.ID,
					TemplateID:   &templateID,
				})
				if err != nil {
					status = types.NotificationStatusFailed
					s.log.Warn("invitation notification failed", "invitation_id", invitation.ID, "error", err)
				}
				if updateErr := s.invitations.UpdateFields(ctx, nil, invitation.ID, map[string]interface{}{"notification_status": status}); updateErr != nil {
					s.log.Warn("failed to record notification status", "invitation_id", invitation.ID, "error", updateErr)
				}
				return nil
			})
		}
		_ = g.Wait()
	}
}

// RecommendContent pushes the same study items onto many groups. Provenance
// is forced to a manual admin push; the per-group content cap is enforced
// against each group's existing rows.
func (s *bulkService) RecommendContent(ctx context.Context, academyID uuid.UUID, groupIDs []uuid.UUID, requested []WizardContent) (*BulkResult, error) {
	result := &BulkResult{}
	if len(groupIDs) == 0 {
		return result, nil
	}
	if len(requested) == 0 {
		return nil, apierr.Validation("no content was supplied to recommend")
	}

	groups, err := s.groups.GetByIDs(ctx, nil, academyID, groupIDs)
	if err != nil {
		return nil, apierr.Database("failed to load plan groups", err)
	}
	byID := make(map[uuid.UUID]*types.PlanGroup, len(groups))
	for _, group := range groups {
		byID[group.ID] = group
	}

	for _, id := range groupIDs {
		group, found := byID[id]
		if !found {
			result.AddFailure(id, apierr.NotFound("plan group %s not found", id))
			continue
		}
		resolved, err := s.resolver.Resolve(ctx, nil, academyID, group.StudentID, requested, ProvenanceAdmin)
		if err != nil {
			result.AddFailure(id, err)
			continue
		}
		if err := s.resolver.EnsureCap(ctx, nil, id, len(resolved)); err != nil {
			result.AddFailure(id, err)
			continue
		}
		for _, row := range resolved {
			row.PlanGroupID = id
		}
		if _, err := s.contents.Create(ctx, nil, resolved); err != nil {
			result.AddFailure(id, apierr.Database("failed to insert recommended content", err))
			continue
		}
		result.SuccessCount++
	}

	s.log.Info("bulk content recommendation finished",
		"requested_groups", len(groupIDs), "items", len(requested),
		"success", result.SuccessCount, "failed", result.FailureCount)
	return result, nil
}

// AdjustContentRange rewrites the study range of one master content item
// across many groups. A group without a matching row fails individually.
func (s *bulkService) AdjustContentRange(ctx context.Context, academyID uuid.UUID, groupIDs []uuid.UUID, contentType string, masterContentID uuid.UUID, startRange, endRange int) (*BulkResult, error) {
	result := &BulkResult{}
	if len(groupIDs) == 0 {
		return result, nil
	}
	if startRange <= 0 || endRange < startRange {
		return nil, apierr.Validation("invalid range [%d, %d]", startRange, endRange)
	}

	groups, err := s.groups.GetByIDs(ctx, nil, academyID, groupIDs)
	if err != nil {
		return nil, apierr.Database("failed to load plan groups", err)
	}
	byID := make(map[uuid.UUID]*types.PlanGroup, len(groups))
	for _, group := range groups {
		byID[group.ID] = group
	}

	for _, id := range groupIDs {
		if _, found := byID[id]; !found {
			result.AddFailure(id, apierr.NotFound("plan group %s not found", id))
			continue
		}
		affected, err := s.contents.UpdateRangeByMasterContent(ctx, nil, id, contentType, masterContentID, startRange, endRange)
		if err != nil {
			result.AddFailure(id, apierr.Database("failed to adjust content range", err))
			continue
		}
		if affected == 0 {
			result.AddFailure(id, apierr.NotFound("plan group %s has no %s content for master id %s", id, contentType, masterContentID))
			continue
		}
		result.SuccessCount++
	}

	s.log.Info("bulk range adjustment finished",
		"requested_groups", len(groupIDs), "master_content_id", masterContentID,
		"success", result.SuccessCount, "failed", result.FailureCount)
	return result, nil
}
