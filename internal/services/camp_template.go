package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/planmate/planmate-backend/internal/apierr"
	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/repos"
	"github.com/planmate/planmate-backend/internal/types"
)

type CreateCampTemplateInput struct {
	Name          string
	ProgramType   string
	TemplateData  WizardData
	CampStartDate *time.Time
	CampEndDate   *time.Time
	BlockSetID    *uuid.UUID
	SlotTemplates []SlotTemplateInput
}

type SlotTemplateInput struct {
	ContentType  string
	Title        string
	Subject      string
	DisplayOrder int
}

type UpdateCampTemplateInput struct {
	Name          *string
	ProgramType   *string
	Status        *string
	TemplateData  *WizardData
	CampStartDate *time.Time
	CampEndDate   *time.Time
}

// CampTemplateService owns the admin-side authoring of camp templates.
type CampTemplateService interface {
	CreateTemplate(ctx context.Context, academyID uuid.UUID, input CreateCampTemplateInput) (*types.CampTemplate, error)
	UpdateTemplate(ctx context.Context, academyID, templateID uuid.UUID, input UpdateCampTemplateInput) (*types.CampTemplate, error)
	ArchiveTemplate(ctx context.Context, academyID, templateID uuid.UUID) error
	GetTemplate(ctx context.Context, academyID, templateID uuid.UUID) (*types.CampTemplate, []*types.CampSlotTemplate, error)
	ListTemplates(ctx context.Context, academyID uuid.UUID) ([]*types.CampTemplate, error)
	LinkBlockSet(ctx context.Context, academyID, templateID, blockSetID uuid.UUID) error
}

type campTemplateService struct {
	templates repos.CampTemplateRepo
	blockSets repos.BlockSetRepo
	log       *logger.Logger
}

func NewCampTemplateService(templates repos.CampTemplateRepo, blockSets repos.BlockSetRepo, baseLog *logger.Logger) CampTemplateService {
	return &campTemplateService{
		templates: templates,
		blockSets: blockSets,
		log:       baseLog.With("service", "CampTemplateService"),
	}
}

func (s *campTemplateService) CreateTemplate(ctx context.Context, academyID uuid.UUID, input CreateCampTemplateInput) (*types.CampTemplate, error) {
	if input.Name == "" {
		return nil, apierr.Validation("template name is required")
	}
	if input.CampStartDate != nil && input.CampEndDate != nil && input.CampEndDate.Before(*input.CampStartDate) {
		return nil, apierr.Validation("camp period ends before it starts")
	}
	// Validate the wizard payload up front so a broken template cannot be
	// stored and fail every later acceptance.
	if _, err := SyncWizardDataToCreationData(input.TemplateData); err != nil {
		return nil, err
	}
	templateJSON, err := json.Marshal(input.TemplateData)
	if err != nil {
		return nil, apierr.Validation("template data is not serializable: %v", err)
	}

	template := &types.CampTemplate{
		AcademyID:     academyID,
		Name:          input.Name,
		ProgramType:   input.ProgramType,
		Status:        types.CampTemplateStatusDraft,
		TemplateData:  datatypes.JSON(templateJSON),
		CampStartDate: input.CampStartDate,
		CampEndDate:   input.CampEndDate,
	}
	if _, err := s.templates.Create(ctx, nil, []*types.CampTemplate{template}); err != nil {
		return nil, apierr.Database("failed to create camp template", err)
	}

	if len(input.SlotTemplates) > 0 {
		slots := make([]*types.CampSlotTemplate, 0, len(input.SlotTemplates))
		for i, slot := range input.SlotTemplates {
			order := slot.DisplayOrder
			if order == 0 {
				order = i
			}
			slots = append(slots, &types.CampSlotTemplate{
				AcademyID:      academyID,
				CampTemplateID: template.ID,
				ContentType:    slot.ContentType,
				Title:          slot.Title,
				Subject:        slot.Subject,
				DisplayOrder:   order,
			})
		}
		if _, err := s.templates.CreateSlotTemplates(ctx, nil, slots); err != nil {
			return nil, apierr.Database("failed to create slot templates", err)
		}
	}

	if input.BlockSetID != nil {
		if err := s.LinkBlockSet(ctx, academyID, template.ID, *input.BlockSetID); err != nil {
			return nil, err
		}
	}

	s.log.Info("camp template created", "template_id", template.ID, "name", template.Name)
	return template, nil
}

func (s *campTemplateService) UpdateTemplate(ctx context.Context, academyID, templateID uuid.UUID, input UpdateCampTemplateInput) (*types.CampTemplate, error) {
	template, err := s.templates.GetByID(ctx, nil, academyID, templateID)
	if err != nil {
		return nil, apierr.Database("failed to load camp template", err)
	}
	if template == nil {
		return nil, apierr.NotFound("camp template %s not found", templateID)
	}
	if template.Status == types.CampTemplateStatusArchived {
		return nil, apierr.Validation("camp template %s is archived and cannot be edited", templateID)
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, apierr.Validation("template name cannot be empty")
		}
		updates["name"] = *input.Name
		template.Name = *input.Name
	}
	if input.ProgramType != nil {
		updates["program_type"] = *input.ProgramType
		template.ProgramType = *input.ProgramType
	}
	if input.Status != nil {
		if *input.Status != types.CampTemplateStatusDraft && *input.Status != types.CampTemplateStatusActive {
			return nil, apierr.Validation("invalid template status %q", *input.Status)
		}
		updates["status"] = *input.Status
		template.Status = *input.Status
	}
	if input.TemplateData != nil {
		if _, err := SyncWizardDataToCreationData(*input.TemplateData); err != nil {
			return nil, err
		}
		templateJSON, err := json.Marshal(*input.TemplateData)
		if err != nil {
			return nil, apierr.Validation("template data is not serializable: %v", err)
		}
		updates["template_data"] = datatypes.JSON(templateJSON)
		template.TemplateData = datatypes.JSON(templateJSON)
	}
	if input.CampStartDate != nil {
		updates["camp_start_date"] = *input.CampStartDate
		template.CampStartDate = input.CampStartDate
	}
	if input.CampEndDate != nil {
		updates["camp_end_date"] = *input.CampEndDate
		template.CampEndDate = input.CampEndDate
	}
	if template.CampStartDate != nil && template.CampEndDate != nil && template.CampEndDate.Before(*template.CampStartDate) {
		return nil, apierr.Validation("camp period ends before it starts")
	}
	if len(updates) == 0 {
		return template, nil
	}

	if err := s.templates.UpdateFields(ctx, nil, academyID, templateID, updates); err != nil {
		return nil, apierr.Database("failed to update camp template", err)
	}
	s.log.Info("camp template updated", "template_id", templateID, "fields", len(updates))
	return template, nil
}

func (s *campTemplateService) ArchiveTemplate(ctx context.Context, academyID, templateID uuid.UUID) error {
	template, err := s.templates.GetByID(ctx, nil, academyID, templateID)
	if err != nil {
		return apierr.Database("failed to load camp template", err)
	}
	if template == nil {
		return apierr.NotFound("camp template %s not found", templateID)
	}
	if template.Status == types.CampTemplateStatusArchived {
		return nil
	}
	if err := s.templates.UpdateFields(ctx, nil, academyID, templateID, map[string]interface{}{"status": types.CampTemplateStatusArchived}); err != nil {
		return apierr.Database("failed to archive camp template", err)
	}
	s.log.Info("camp template archived", "template_id", templateID)
	return nil
}

func (s *campTemplateService) GetTemplate(ctx context.Context, academyID, templateID uuid.UUID) (*types.CampTemplate, []*types.CampSlotTemplate, error) {
	template, err := s.templates.GetByID(ctx, nil, academyID, templateID)
	if err != nil {
		return nil, nil, apierr.Database("failed to load camp template", err)
	}
	if template == nil {
		return nil, nil, apierr.NotFound("camp template %s not found", templateID)
	}
	slots, err := s.templates.ListSlotTemplates(ctx, nil, academyID, templateID)
	if err != nil {
		return nil, nil, apierr.Database("failed to load slot templates", err)
	}
	return template, slots, nil
}

func (s *campTemplateService) ListTemplates(ctx context.Context, academyID uuid.UUID) ([]*types.CampTemplate, error) {
	templates, err := s.templates.ListByAcademy(ctx, nil, academyID)
	if err != nil {
		return nil, apierr.Database("failed to list camp templates", err)
	}
	return templates, nil
}

func (s *campTemplateService) LinkBlockSet(ctx context.Context, academyID, templateID, blockSetID uuid.UUID) error {
	blockSet, err := s.blockSets.GetByID(ctx, nil, academyID, blockSetID)
	if err != nil {
		return apierr.Database("failed to load block set", err)
	}
	if blockSet == nil {
		return apierr.NotFound("block set %s not found", blockSetID)
	}
	existing, err := s.blockSets.GetTemplateLink(ctx, nil, academyID, templateID)
	if err != nil {
		return apierr.Database("failed to check template block set link", err)
	}
	if existing != nil {
		return apierr.Duplicate("camp template %s is already linked to a block set", templateID)
	}
	link := &types.TemplateBlockSet{
		AcademyID:      academyID,
		CampTemplateID: templateID,
		BlockSetID:     blockSetID,
	}
	if err := s.blockSets.CreateTemplateLink(ctx, nil, link); err != nil {
		if apierr.IsUniqueViolation(err) {
			return apierr.Duplicate("camp template %s is already linked to a block set", templateID)
		}
		return apierr.Database("failed to link block set", err)
	}
	s.log.Info("block set linked to template", "template_id", templateID, "block_set_id", blockSetID)
	return nil
}
