package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/planmate/planmate-backend/internal/apierr"
	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/repos"
	"github.com/planmate/planmate-backend/internal/types"
)

// legalTransitions is the single source of truth for plan group status moves.
// Archived is terminal.
var legalTransitions = map[string][]string{
	types.PlanGroupStatusDraft:    {types.PlanGroupStatusSaved, types.PlanGroupStatusArchived},
	types.PlanGroupStatusSaved:    {types.PlanGroupStatusActive, types.PlanGroupStatusArchived},
	types.PlanGroupStatusActive:   {types.PlanGroupStatusPaused, types.PlanGroupStatusSaved, types.PlanGroupStatusArchived},
	types.PlanGroupStatusPaused:   {types.PlanGroupStatusActive, types.PlanGroupStatusArchived},
	types.PlanGroupStatusArchived: {},
}

// CanTransition reports whether from → to is a legal status move. Every
// status-changing path consults this and nothing else.
func CanTransition(from, to string) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ActivationPolicy enforces "one active plan per mode per student" as a side
// effect of a successful activation.
type ActivationPolicy interface {
	OnActivate(ctx context.Context, group *types.PlanGroup)
}

type activationPolicy struct {
	groups repos.PlanGroupRepo
	log    *logger.Logger
}

func NewActivationPolicy(groups repos.PlanGroupRepo, baseLog *logger.Logger) ActivationPolicy {
	return &activationPolicy{groups: groups, log: baseLog.With("service", "ActivationPolicy")}
}

// OnActivate demotes every other active group sharing the activated group's
// (student, plan mode) to saved. Failures are logged and swallowed; the
// primary activation already happened and takes precedence over cleanup.
func (p *activationPolicy) OnActivate(ctx context.Context, group *types.PlanGroup) {
	active, err := p.groups.ListActiveByStudent(ctx, nil, group.AcademyID, group.StudentID)
	if err != nil {
		p.log.Warn("failed to list active groups for deactivation", "group_id", group.ID, "error", err)
		return
	}
	mode := group.PlanMode()
	var demote []uuid.UUID
	for _, other := range active {
		if other.ID == group.ID {
			continue
		}
		if other.PlanMode() == mode {
			demote = append(demote, other.ID)
		}
	}
	if len(demote) == 0 {
		return
	}
	if err := p.groups.UpdateStatusByIDs(ctx, nil, demote, types.PlanGroupStatusSaved); err != nil {
		p.log.Warn("failed to deactivate sibling groups", "group_id", group.ID, "sibling_count", len(demote), "error", err)
		return
	}
	p.log.Info("deactivated sibling groups on activation", "group_id", group.ID, "mode", mode, "deactivated", len(demote))
}

// PlanGroupStatusService owns single and bulk lifecycle moves plus the
// materialize step that expands a group into concrete daily plans.
type PlanGroupStatusService interface {
	ChangeStatus(ctx context.Context, academyID, groupID uuid.UUID, newStatus string) (*types.PlanGroup, error)
	BulkChangeStatus(ctx context.Context, academyID uuid.UUID, groupIDs []uuid.UUID, newStatus string) (*BulkResult, error)
	Materialize(ctx context.Context, academyID, groupID uuid.UUID) error
}

type planGroupStatusService struct {
	groups    repos.PlanGroupRepo
	plans     repos.StudentPlanRepo
	policy    ActivationPolicy
	generator PlanGenerator
	log       *logger.Logger
}

func NewPlanGroupStatusService(
	groups repos.PlanGroupRepo,
	plans repos.StudentPlanRepo,
	policy ActivationPolicy,
	generator PlanGenerator,
	baseLog *logger.Logger,
) PlanGroupStatusService {
	return &planGroupStatusService{
		groups:    groups,
		plans:     plans,
		policy:    policy,
		generator: generator,
		log:       baseLog.With("service", "PlanGroupStatusService"),
	}
}

func (s *planGroupStatusService) ChangeStatus(ctx context.Context, academyID, groupID uuid.UUID, newStatus string) (*types.PlanGroup, error) {
	group, err := s.groups.GetByID(ctx, nil, academyID, groupID)
	if err != nil {
		return nil, apierr.Database("failed to load plan group", err)
	}
	if group == nil {
		return nil, apierr.NotFound("plan group %s not found", groupID)
	}
	if !CanTransition(group.Status, newStatus) {
		return nil, apierr.Validation("illegal status transition from %s to %s", group.Status, newStatus)
	}
	if newStatus == types.PlanGroupStatusActive {
		count, err := s.plans.CountByGroupID(ctx, nil, groupID)
		if err != nil {
			return nil, apierr.Database("failed to count generated plans", err)
		}
		if count == 0 {
			return nil, apierr.Validation("cannot activate plan group %s: no generated plans exist yet", groupID)
		}
	}
	if err := s.groups.UpdateFields(ctx, nil, academyID, groupID, map[string]interface{}{"status": newStatus}); err != nil {
		return nil, apierr.Database("failed to update plan group status", err)
	}
	group.Status = newStatus
	if newStatus == types.PlanGroupStatusActive {
		s.policy.OnActivate(ctx, group)
	}
	s.log.Info("plan group status changed", "group_id", groupID, "status", newStatus)
	return group, nil
}

// BulkChangeStatus applies the same guards as ChangeStatus across many groups
// with per-group isolation. The plan-existence guard for activation runs as
// one batched count query instead of one per group.
func (s *planGroupStatusService) BulkChangeStatus(ctx context.Context, academyID uuid.UUID, groupIDs []uuid.UUID, newStatus string) (*BulkResult, error) {
	result := &BulkResult{}
	if len(groupIDs) == 0 {
		return result, nil
	}

	groups, err := s.groups.GetByIDs(ctx, nil, academyID, groupIDs)
	if err != nil {
		return nil, apierr.Database("failed to load plan groups", err)
	}
	byID := make(map[uuid.UUID]*types.PlanGroup, len(groups))
	for _, group := range groups {
		byID[group.ID] = group
	}

	var planCounts map[uuid.UUID]int64
	if newStatus == types.PlanGroupStatusActive {
		planCounts, err = s.plans.CountByGroupIDs(ctx, nil, groupIDs)
		if err != nil {
			return nil, apierr.Database("failed to count generated plans", err)
		}
	}

	var activated []*types.PlanGroup
	for _, id := range groupIDs {
		group, found := byID[id]
		if !found {
			result.AddFailure(id, apierr.NotFound("plan group %s not found", id))
			continue
		}
		if !CanTransition(group.Status, newStatus) {
			result.AddFailure(id, apierr.Validation("illegal status transition from %s to %s", group.Status, newStatus))
			continue
		}
		if newStatus == types.PlanGroupStatusActive && planCounts[id] == 0 {
			result.AddFailure(id, apierr.Validation("cannot activate plan group %s: no generated plans exist yet", id))
			continue
		}
		if err := s.groups.UpdateFields(ctx, nil, academyID, id, map[string]interface{}{"status": newStatus}); err != nil {
			result.AddFailure(id, apierr.Database("failed to update plan group status", err))
			continue
		}
		group.Status = newStatus
		if newStatus == types.PlanGroupStatusActive {
			activated = append(activated, group)
		}
		result.SuccessCount++
	}

	for _, group := range activated {
		s.policy.OnActivate(ctx, group)
	}

	s.log.Info("bulk status change finished",
		"requested", len(groupIDs), "status", newStatus,
		"success", result.SuccessCount, "failed", result.FailureCount)
	return result, nil
}

// Materialize expands the group into concrete daily plans. A generator
// failure aborts only this step; the persisted group metadata stays intact.
func (s *planGroupStatusService) Materialize(ctx context.Context, academyID, groupID uuid.UUID) error {
	group, err := s.groups.GetByID(ctx, nil, academyID, groupID)
	if err != nil {
		return apierr.Database("failed to load plan group", err)
	}
	if group == nil {
		return apierr.NotFound("plan group %s not found", groupID)
	}
	if err := s.generator.GeneratePlansFromGroup(ctx, group); err != nil {
		return err
	}
	s.log.Info("plan group materialized", "group_id", groupID)
	return nil
}
