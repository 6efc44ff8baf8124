package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/types"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func errUniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

func mustDate(t string) time.Time {
	parsed, err := time.Parse("2006-01-02", t)
	if err != nil {
		panic(err)
	}
	return parsed
}

func strPtr(s string) *string { return &s }

type fakeInvitationRepo struct {
	mu        sync.Mutex
	items     map[uuid.UUID]*types.CampInvitation
	createErr error
	updateErr map[uuid.UUID]error
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{
		items:     map[uuid.UUID]*types.CampInvitation{},
		updateErr: map[uuid.UUID]error{},
	}
}

func (r *fakeInvitationRepo) add(inv *types.CampInvitation) *types.CampInvitation {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.items[inv.ID] = inv
	return inv
}

func (r *fakeInvitationRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.CampInvitation) ([]*types.CampInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, row := range rows {
		for _, existing := range r.items {
			if existing.CampTemplateID == row.CampTemplateID && existing.StudentID == row.StudentID {
				return nil, errUniqueViolation()
			}
		}
		r.add(row)
	}
	return rows, nil
}

func (r *fakeInvitationRepo) GetByID(ctx context.Context, tx *gorm.DB, academyID, id uuid.UUID) (*types.CampInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, found := r.items[id]
	if !found || inv.AcademyID != academyID {
		return nil, nil
	}
	copied := *inv
	return &copied, nil
}

func (r *fakeInvitationRepo) ListByStudent(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID) ([]*types.CampInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.CampInvitation
	for _, inv := range r.items {
		if inv.AcademyID == academyID && inv.StudentID == studentID {
			copied := *inv
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeInvitationRepo) ListByTemplate(ctx context.Context, tx *gorm.DB, academyID, templateID uuid.UUID) ([]*types.CampInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.CampInvitation
	for _, inv := range r.items {
		if inv.AcademyID == academyID && inv.CampTemplateID == templateID {
			copied := *inv
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeInvitationRepo) ListExpiredPending(ctx context.Context, tx *gorm.DB, now time.Time) ([]*types.CampInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.CampInvitation
	for _, inv := range r.items {
		if inv.Status == types.InvitationStatusPending && inv.ExpiresAt != nil && inv.ExpiresAt.Before(now) {
			copied := *inv
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeInvitationRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.updateErr[id]; err != nil {
		return err
	}
	inv, found := r.items[id]
	if !found {
		return nil
	}
	if status, ok := updates["status"].(string); ok {
		inv.Status = status
	}
	if status, ok := updates["notification_status"].(string); ok {
		inv.NotificationStatus = status
	}
	return nil
}

type fakeTemplateRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*types.CampTemplate
	slots map[uuid.UUID][]*types.CampSlotTemplate
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{
		items: map[uuid.UUID]*types.CampTemplate{},
		slots: map[uuid.UUID][]*types.CampSlotTemplate{},
	}
}

func (r *fakeTemplateRepo) add(tpl *types.CampTemplate) *types.CampTemplate {
	if tpl.ID == uuid.Nil {
		tpl.ID = uuid.New()
	}
	r.items[tpl.ID] = tpl
	return tpl
}

func (r *fakeTemplateRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.CampTemplate) ([]*types.CampTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		r.add(row)
	}
	return rows, nil
}

func (r *fakeTemplateRepo) GetByID(ctx context.Context, tx *gorm.DB, academyID, id uuid.UUID) (*types.CampTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tpl, found := r.items[id]
	if !found || tpl.AcademyID != academyID {
		return nil, nil
	}
	copied := *tpl
	return &copied, nil
}

func (r *fakeTemplateRepo) ListByAcademy(ctx context.Context, tx *gorm.DB, academyID uuid.UUID) ([]*types.CampTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.CampTemplate
	for _, tpl := range r.items {
		if tpl.AcademyID == academyID {
			copied := *tpl
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeTemplateRepo) UpdateFields(ctx context.Context, tx *gorm.DB, academyID, id uuid.UUID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tpl, found := r.items[id]
	if !found || tpl.AcademyID != academyID {
		return nil
	}
	if status, ok := updates["status"].(string); ok {
		tpl.Status = status
	}
	if name, ok := updates["name"].(string); ok {
		tpl.Name = name
	}
	return nil
}

func (r *fakeTemplateRepo) CreateSlotTemplates(ctx context.Context, tx *gorm.DB, rows []*types.CampSlotTemplate) ([]*types.CampSlotTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		r.slots[row.CampTemplateID] = append(r.slots[row.CampTemplateID], row)
	}
	return rows, nil
}

func (r *fakeTemplateRepo) ListSlotTemplates(ctx context.Context, tx *gorm.DB, academyID, templateID uuid.UUID) ([]*types.CampSlotTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slots[templateID], nil
}

type fakeBlockSetRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*types.BlockSet
	links map[uuid.UUID]*types.TemplateBlockSet
}

func newFakeBlockSetRepo() *fakeBlockSetRepo {
	return &fakeBlockSetRepo{
		items: map[uuid.UUID]*types.BlockSet{},
		links: map[uuid.UUID]*types.TemplateBlockSet{},
	}
}

func (r *fakeBlockSetRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.BlockSet) ([]*types.BlockSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		r.items[row.ID] = row
	}
	return rows, nil
}

func (r *fakeBlockSetRepo) GetByID(ctx context.Context, tx *gorm.DB, academyID, id uuid.UUID) (*types.BlockSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bs, found := r.items[id]
	if !found || bs.AcademyID != academyID {
		return nil, nil
	}
	copied := *bs
	return &copied, nil
}

func (r *fakeBlockSetRepo) GetTemplateLink(ctx context.Context, tx *gorm.DB, academyID, templateID uuid.UUID) (*types.TemplateBlockSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, found := r.links[templateID]
	if !found || link.AcademyID != academyID {
		return nil, nil
	}
	copied := *link
	return &copied, nil
}

func (r *fakeBlockSetRepo) CreateTemplateLink(ctx context.Context, tx *gorm.DB, row *types.TemplateBlockSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.links[row.CampTemplateID]; found {
		return errUniqueViolation()
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	r.links[row.CampTemplateID] = row
	return nil
}

type fakeGroupRepo struct {
	mu        sync.Mutex
	items     map[uuid.UUID]*types.PlanGroup
	createErr error
	// updateHook can fail a specific UpdateFields call, keyed by the value
	// being written to the status column.
	updateHook func(id uuid.UUID, updates map[string]interface{}) error
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{items: map[uuid.UUID]*types.PlanGroup{}}
}

func (r *fakeGroupRepo) add(group *types.PlanGroup) *types.PlanGroup {
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	r.items[group.ID] = group
	return group
}

func (r *fakeGroupRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.PlanGroup) ([]*types.PlanGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, row := range rows {
		if row.CampTemplateID != nil {
			for _, existing := range r.items {
				if existing.CampTemplateID != nil &&
					*existing.CampTemplateID == *row.CampTemplateID &&
					existing.StudentID == row.StudentID {
					return nil, errUniqueViolation()
				}
			}
		}
		r.add(row)
	}
	return rows, nil
}

func (r *fakeGroupRepo) GetByID(ctx context.Context, tx *gorm.DB, academyID, id uuid.UUID) (*types.PlanGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	group, found := r.items[id]
	if !found || group.AcademyID != academyID {
		return nil, nil
	}
	copied := *group
	return &copied, nil
}

func (r *fakeGroupRepo) GetByIDs(ctx context.Context, tx *gorm.DB, academyID uuid.UUID, ids []uuid.UUID) ([]*types.PlanGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.PlanGroup
	for _, id := range ids {
		if group, found := r.items[id]; found && group.AcademyID == academyID {
			copied := *group
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeGroupRepo) GetByInvitationID(ctx context.Context, tx *gorm.DB, academyID, invitationID uuid.UUID) (*types.PlanGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, group := range r.items {
		if group.AcademyID == academyID && group.CampInvitationID != nil && *group.CampInvitationID == invitationID {
			copied := *group
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeGroupRepo) ListByTemplateAndStudent(ctx context.Context, tx *gorm.DB, academyID, templateID, studentID uuid.UUID) ([]*types.PlanGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.PlanGroup
	for _, group := range r.items {
		if group.AcademyID == academyID && group.StudentID == studentID &&
			group.CampTemplateID != nil && *group.CampTemplateID == templateID {
			copied := *group
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeGroupRepo) ListActiveByStudent(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID) ([]*types.PlanGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.PlanGroup
	for _, group := range r.items {
		if group.AcademyID == academyID && group.StudentID == studentID && group.Status == types.PlanGroupStatusActive {
			copied := *group
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeGroupRepo) UpdateFields(ctx context.Context, tx *gorm.DB, academyID, id uuid.UUID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateHook != nil {
		if err := r.updateHook(id, updates); err != nil {
			return err
		}
	}
	group, found := r.items[id]
	if !found || group.AcademyID != academyID {
		return nil
	}
	applyGroupUpdates(group, updates)
	return nil
}

func (r *fakeGroupRepo) UpdateStatusByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if group, found := r.items[id]; found {
			group.Status = status
		}
	}
	return nil
}

func (r *fakeGroupRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.items, id)
	}
	return nil
}

func applyGroupUpdates(group *types.PlanGroup, updates map[string]interface{}) {
	if status, ok := updates["status"].(string); ok {
		group.Status = status
	}
	if start, ok := updates["period_start"].(time.Time); ok {
		group.PeriodStart = start
	}
	if end, ok := updates["period_end"].(time.Time); ok {
		group.PeriodEnd = end
	}
}

type fakeContentRepo struct {
	mu        sync.Mutex
	rows      []*types.PlanContent
	createErr error
}

func newFakeContentRepo() *fakeContentRepo { return &fakeContentRepo{} }

func (r *fakeContentRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.PlanContent) ([]*types.PlanContent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		r.rows = append(r.rows, row)
	}
	return rows, nil
}

func (r *fakeContentRepo) ListByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]*types.PlanContent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.PlanContent
	for _, row := range r.rows {
		if row.PlanGroupID == groupID {
			copied := *row
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeContentRepo) CountByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, row := range r.rows {
		if row.PlanGroupID == groupID {
			count++
		}
	}
	return count, nil
}

func (r *fakeContentRepo) UpdateRangeByMasterContent(ctx context.Context, tx *gorm.DB, groupID uuid.UUID, contentType string, masterContentID uuid.UUID, startRange, endRange int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var affected int64
	for _, row := range r.rows {
		if row.PlanGroupID == groupID && row.ContentType == contentType &&
			row.MasterContentID != nil && *row.MasterContentID == masterContentID {
			row.StartRange = startRange
			row.EndRange = endRange
			affected++
		}
	}
	return affected, nil
}

func (r *fakeContentRepo) FullDeleteByGroupIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	targets := map[uuid.UUID]bool{}
	for _, id := range groupIDs {
		targets[id] = true
	}
	var kept []*types.PlanContent
	for _, row := range r.rows {
		if !targets[row.PlanGroupID] {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

type fakeExclusionRepo struct {
	mu   sync.Mutex
	rows []*types.PlanExclusion
}

func newFakeExclusionRepo() *fakeExclusionRepo { return &fakeExclusionRepo{} }

func (r *fakeExclusionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.PlanExclusion) ([]*types.PlanExclusion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		r.rows = append(r.rows, row)
	}
	return rows, nil
}

func (r *fakeExclusionRepo) ListByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]*types.PlanExclusion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.PlanExclusion
	for _, row := range r.rows {
		if row.PlanGroupID == groupID {
			copied := *row
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeExclusionRepo) FullDeleteByGroupIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	targets := map[uuid.UUID]bool{}
	for _, id := range groupIDs {
		targets[id] = true
	}
	var kept []*types.PlanExclusion
	for _, row := range r.rows {
		if !targets[row.PlanGroupID] {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

type fakeScheduleRepo struct {
	mu   sync.Mutex
	rows []*types.AcademySchedule
}

func newFakeScheduleRepo() *fakeScheduleRepo { return &fakeScheduleRepo{} }

func (r *fakeScheduleRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.AcademySchedule) ([]*types.AcademySchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		r.rows = append(r.rows, row)
	}
	return rows, nil
}

func (r *fakeScheduleRepo) ListByStudent(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID) ([]*types.AcademySchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.AcademySchedule
	for _, row := range r.rows {
		if row.AcademyID == academyID && row.StudentID == studentID {
			copied := *row
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	targets := map[uuid.UUID]bool{}
	for _, id := range ids {
		targets[id] = true
	}
	var kept []*types.AcademySchedule
	for _, row := range r.rows {
		if !targets[row.ID] {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

type fakePlanRepo struct {
	mu   sync.Mutex
	rows []*types.StudentPlan
}

func newFakePlanRepo() *fakePlanRepo { return &fakePlanRepo{} }

func (r *fakePlanRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.StudentPlan) ([]*types.StudentPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		r.rows = append(r.rows, row)
	}
	return rows, nil
}

func (r *fakePlanRepo) CountByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, row := range r.rows {
		if row.PlanGroupID == groupID {
			count++
		}
	}
	return count, nil
}

func (r *fakePlanRepo) CountByGroupIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[uuid.UUID]int64{}
	targets := map[uuid.UUID]bool{}
	for _, id := range groupIDs {
		targets[id] = true
	}
	for _, row := range r.rows {
		if targets[row.PlanGroupID] {
			counts[row.PlanGroupID]++
		}
	}
	return counts, nil
}

func (r *fakePlanRepo) FullDeleteByGroupIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	targets := map[uuid.UUID]bool{}
	for _, id := range groupIDs {
		targets[id] = true
	}
	var kept []*types.StudentPlan
	for _, row := range r.rows {
		if !targets[row.PlanGroupID] {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

type fakeStudentContentRepo struct {
	books          []*types.StudentBook
	bookDetails    map[uuid.UUID][]*types.StudentBookDetail
	lectures       []*types.StudentLecture
	lectureDetails map[uuid.UUID][]*types.StudentLectureDetail
}

func newFakeStudentContentRepo() *fakeStudentContentRepo {
	return &fakeStudentContentRepo{
		bookDetails:    map[uuid.UUID][]*types.StudentBookDetail{},
		lectureDetails: map[uuid.UUID][]*types.StudentLectureDetail{},
	}
}

func (r *fakeStudentContentRepo) GetBooksByIDs(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID, ids []uuid.UUID) ([]*types.StudentBook, error) {
	targets := map[uuid.UUID]bool{}
	for _, id := range ids {
		targets[id] = true
	}
	var out []*types.StudentBook
	for _, book := range r.books {
		if book.AcademyID == academyID && book.StudentID == studentID && targets[book.ID] {
			out = append(out, book)
		}
	}
	return out, nil
}

func (r *fakeStudentContentRepo) GetBooksByMasterIDs(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID, masterIDs []uuid.UUID) ([]*types.StudentBook, error) {
	targets := map[uuid.UUID]bool{}
	for _, id := range masterIDs {
		targets[id] = true
	}
	var out []*types.StudentBook
	for _, book := range r.books {
		if book.AcademyID == academyID && book.StudentID == studentID &&
			book.MasterBookID != nil && targets[*book.MasterBookID] {
			out = append(out, book)
		}
	}
	return out, nil
}

func (r *fakeStudentContentRepo) ListBookDetails(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) ([]*types.StudentBookDetail, error) {
	return r.bookDetails[bookID], nil
}

func (r *fakeStudentContentRepo) GetLecturesByIDs(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID, ids []uuid.UUID) ([]*types.StudentLecture, error) {
	targets := map[uuid.UUID]bool{}
	for _, id := range ids {
		targets[id] = true
	}
	var out []*types.StudentLecture
	for _, lecture := range r.lectures {
		if lecture.AcademyID == academyID && lecture.StudentID == studentID && targets[lecture.ID] {
			out = append(out, lecture)
		}
	}
	return out, nil
}

func (r *fakeStudentContentRepo) GetLecturesByMasterIDs(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID, masterIDs []uuid.UUID) ([]*types.StudentLecture, error) {
	targets := map[uuid.UUID]bool{}
	for _, id := range masterIDs {
		targets[id] = true
	}
	var out []*types.StudentLecture
	for _, lecture := range r.lectures {
		if lecture.AcademyID == academyID && lecture.StudentID == studentID &&
			lecture.MasterLectureID != nil && targets[*lecture.MasterLectureID] {
			out = append(out, lecture)
		}
	}
	return out, nil
}

func (r *fakeStudentContentRepo) ListLectureDetails(ctx context.Context, tx *gorm.DB, lectureID uuid.UUID) ([]*types.StudentLectureDetail, error) {
	return r.lectureDetails[lectureID], nil
}

type fakeUserRepo struct {
	users []*types.User
}

func (r *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.User) ([]*types.User, error) {
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		r.users = append(r.users, row)
	}
	return rows, nil
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.User, error) {
	targets := map[uuid.UUID]bool{}
	for _, id := range ids {
		targets[id] = true
	}
	var out []*types.User
	for _, user := range r.users {
		if targets[user.ID] {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*types.User, error) {
	targets := map[string]bool{}
	for _, email := range emails {
		targets[email] = true
	}
	var out []*types.User
	for _, user := range r.users {
		if targets[user.Email] {
			out = append(out, user)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []NotificationEvent
	err    error
}

func (n *fakeNotifier) Publish(ctx context.Context, event NotificationEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, event)
	return nil
}

func (n *fakeNotifier) Close() error { return nil }
