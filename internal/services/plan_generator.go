package services

import (
	"context"

	"github.com/planmate/planmate-backend/internal/apierr"
	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/repos"
	"github.com/planmate/planmate-backend/internal/types"
)

// PlanGenerator is the scheduling algorithm boundary. The orchestration code
// only ever calls it at the materialize step and treats its output as opaque.
type PlanGenerator interface {
	GeneratePlansFromGroup(ctx context.Context, group *types.PlanGroup) error
}

type defaultPlanGenerator struct {
	plans      repos.StudentPlanRepo
	exclusions repos.PlanExclusionRepo
	log        *logger.Logger
}

func NewDefaultPlanGenerator(plans repos.StudentPlanRepo, exclusions repos.PlanExclusionRepo, baseLog *logger.Logger) PlanGenerator {
	return &defaultPlanGenerator{
		plans:      plans,
		exclusions: exclusions,
		log:        baseLog.With("service", "PlanGenerator"),
	}
}

// GeneratePlansFromGroup expands the group's period into one planned row per
// study day, skipping excluded dates. Groups that already generated plans are
// rejected; regeneration goes through the dedicated reschedule path.
func (g *defaultPlanGenerator) GeneratePlansFromGroup(ctx context.Context, group *types.PlanGroup) error {
	existing, err := g.plans.CountByGroupID(ctx, nil, group.ID)
	if err != nil {
		return apierr.Database("failed to count existing plans", err)
	}
	if existing > 0 {
		return apierr.Validation("plan group %s already has %d generated plans", group.ID, existing)
	}
	if group.PeriodEnd.Before(group.PeriodStart) {
		return apierr.Validation("plan group %s has period_end before period_start", group.ID)
	}

	exclusions, err := g.exclusions.ListByGroupID(ctx, nil, group.ID)
	if err != nil {
		return apierr.Database("failed to load plan exclusions", err)
	}
	excluded := make(map[string]bool, len(exclusions))
	for _, excl := range exclusions {
		excluded[exclusionDateKey(excl.ExclusionDate)] = true
	}

	var rows []*types.StudentPlan
	for day := group.PeriodStart; !day.After(group.PeriodEnd); day = day.AddDate(0, 0, 1) {
		if excluded[exclusionDateKey(day)] {
			continue
		}
		rows = append(rows, &types.StudentPlan{
			AcademyID:   group.AcademyID,
			StudentID:   group.StudentID,
			PlanGroupID: group.ID,
			PlanDate:    day,
			Status:      types.StudentPlanStatusPlanned,
		})
	}
	if len(rows) == 0 {
		return apierr.Validation("plan group %s has no schedulable days in its period", group.ID)
	}

	if _, err := g.plans.Create(ctx, nil, rows); err != nil {
		return apierr.Database("failed to insert generated plans", err)
	}
	g.log.Info("generated plans for group", "group_id", group.ID, "count", len(rows))
	return nil
}
