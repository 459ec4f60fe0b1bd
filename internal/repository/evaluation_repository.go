package repository

import (
	"context"

	"github.com/yukikurage/talent-registration-api/internal/models"
	"gorm.io/gorm"
)

// GormEvaluationRepository is a GORM implementation of EvaluationRepository
type GormEvaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository creates a new EvaluationRepository
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &GormEvaluationRepository{db: db}
}

func orderedCompetencies(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func (r *GormEvaluationRepository) CreateCycle(ctx context.Context, cycle *models.EvaluationCycle) error {
	return r.db.WithContext(ctx).Create(cycle).Error
}

func (r *GormEvaluationRepository) FindCycle(ctx context.Context, id uint64) (*models.EvaluationCycle, error) {
	var cycle models.EvaluationCycle
	if err := r.db.WithContext(ctx).First(&cycle, id).Error; err != nil {
		return nil, err
	}
	return &cycle, nil
}

// ListCycles returns every cycle, most recent start date first
func (r *GormEvaluationRepository) ListCycles(ctx context.Context) ([]models.EvaluationCycle, error) {
	var cycles []models.EvaluationCycle
	if err := r.db.WithContext(ctx).Order("start_date DESC").Order("id DESC").Find(&cycles).Error; err != nil {
		return nil, err
	}
	return cycles, nil
}

// FindLatestCycleByStatus finds the most recently started cycle in a status
func (r *GormEvaluationRepository) FindLatestCycleByStatus(ctx context.Context, status models.CycleStatus) (*models.EvaluationCycle, error) {
	var cycle models.EvaluationCycle
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("start_date DESC").
		Order("id DESC").
		First(&cycle).Error; err != nil {
		return nil, err
	}
	return &cycle, nil
}

func (r *GormEvaluationRepository) UpdateCycleStatus(ctx context.Context, id uint64, status models.CycleStatus) error {
	result := r.db.WithContext(ctx).Model(&models.EvaluationCycle{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindEvaluation finds the evaluation of a type for an employee in a cycle
func (r *GormEvaluationRepository) FindEvaluation(ctx context.Context, cycleID, employeeID uint64, typ models.EvaluationType) (*models.Evaluation, error) {
	var ev models.Evaluation
	if err := r.db.WithContext(ctx).
		Preload("Competencies", orderedCompetencies).
		Where("cycle_id = ? AND employee_id = ? AND type = ?", cycleID, employeeID, typ).
		First(&ev).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

// SaveEvaluation creates or updates an evaluation and replaces its competencies in a transaction
func (r *GormEvaluationRepository) SaveEvaluation(ctx context.Context, ev *models.Evaluation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comps := ev.Competencies
		if ev.ID == 0 {
			if err := tx.Omit("Competencies", "Employee").Create(ev).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Omit("Competencies", "Employee").Save(ev).Error; err != nil {
				return err
			}
			if err := tx.Where("evaluation_id = ?", ev.ID).Delete(&models.EvaluationCompetency{}).Error; err != nil {
				return err
			}
		}

		for i := range comps {
			comps[i].ID = 0
			comps[i].EvaluationID = ev.ID
		}
		if len(comps) > 0 {
			if err := tx.Create(&comps).Error; err != nil {
				return err
			}
		}
		ev.Competencies = comps
		return nil
	})
}

// ListEmployeeEvaluations lists an employee's evaluations, restricted to a
// cycle unless cycleID is 0 and to a type unless typ is empty
func (r *GormEvaluationRepository) ListEmployeeEvaluations(ctx context.Context, employeeID, cycleID uint64, typ models.EvaluationType) ([]models.Evaluation, error) {
	query := r.db.WithContext(ctx).
		Preload("Competencies", orderedCompetencies).
		Where("employee_id = ?", employeeID)
	if cycleID != 0 {
		query = query.Where("cycle_id = ?", cycleID)
	}
	if typ != "" {
		query = query.Where("type = ?", typ)
	}

	var evs []models.Evaluation
	if err := query.Order("cycle_id DESC").Order("type DESC").Find(&evs).Error; err != nil {
		return nil, err
	}
	return evs, nil
}

// ListCycleEvaluations lists every evaluation of a cycle
func (r *GormEvaluationRepository) ListCycleEvaluations(ctx context.Context, cycleID uint64) ([]models.Evaluation, error) {
	var evs []models.Evaluation
	if err := r.db.WithContext(ctx).
		Preload("Competencies", orderedCompetencies).
		Where("cycle_id = ?", cycleID).
		Order("employee_id").
		Find(&evs).Error; err != nil {
		return nil, err
	}
	return evs, nil
}

func (r *GormEvaluationRepository) CreateConsensus(ctx context.Context, meeting *models.ConsensusMeeting) error {
	return r.db.WithContext(ctx).Create(meeting).Error
}

func (r *GormEvaluationRepository) FindConsensus(ctx context.Context, id uint64) (*models.ConsensusMeeting, error) {
	var meeting models.ConsensusMeeting
	if err := r.db.WithContext(ctx).First(&meeting, id).Error; err != nil {
		return nil, err
	}
	return &meeting, nil
}

func (r *GormEvaluationRepository) UpdateConsensus(ctx context.Context, meeting *models.ConsensusMeeting) error {
	return r.db.WithContext(ctx).Save(meeting).Error
}

// ListCycleConsensus lists the consensus meetings of a cycle, oldest first
func (r *GormEvaluationRepository) ListCycleConsensus(ctx context.Context, cycleID uint64) ([]models.ConsensusMeeting, error) {
	var meetings []models.ConsensusMeeting
	if err := r.db.WithContext(ctx).Where("cycle_id = ?", cycleID).Order("id").Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}
