package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/talent-registration-api/internal/evaluation"
	"github.com/yukikurage/talent-registration-api/internal/metrics"
	"github.com/yukikurage/talent-registration-api/internal/models"
	"github.com/yukikurage/talent-registration-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCycleNotFound          = errors.New("evaluation cycle not found")
	ErrNoOpenCycle            = errors.New("no evaluation cycle is open")
	ErrCycleTitleRequired     = errors.New("cycle title is required")
	ErrInvalidCycleDates      = errors.New("cycle needs a start date and an end date on or after it")
	ErrInvalidCycleTransition = errors.New("cycle cannot move to that status")
	ErrAnotherCycleOpen       = errors.New("another evaluation cycle is already open")
	ErrCycleNotOpen           = errors.New("evaluation cycle is not open")
	ErrCompetenciesRequired   = errors.New("evaluate at least one competency")
	ErrInvalidCompetency      = errors.New("every competency needs a name and a category")
	ErrInvalidScore           = errors.New("scores must be between 1 and 5")
	ErrInvalidEvaluationType  = errors.New("type must be self or leader")
	ErrEvaluatorNotFound      = errors.New("evaluator not found")
	ErrEvaluatorNotLeader     = errors.New("evaluator must be a leader or a director")
	ErrConsensusNotFound      = errors.New("consensus meeting not found")
	ErrConsensusCompleted     = errors.New("consensus meeting is already completed")
)

const (
	minScore = 1.0
	maxScore = 5.0
)

// Nine-box entry sources.
const (
	SourceConsensus = "consensus"
	SourceLeader    = "leader"
)

// EmployeeLister lists every user, ordered by name.
type EmployeeLister interface {
	ListUsers(ctx context.Context) ([]models.User, error)
}

// EvaluationService runs evaluation cycles: self and leader evaluations,
// consensus meetings and the per-cycle nine-box.
type EvaluationService struct {
	repo      repository.EvaluationRepository
	userRepo  repository.UserRepository
	employees EmployeeLister
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewEvaluationService(repo repository.EvaluationRepository, userRepo repository.UserRepository, employees EmployeeLister, m *metrics.Metrics) *EvaluationService {
	return &EvaluationService{
		repo:      repo,
		userRepo:  userRepo,
		employees: employees,
		metrics:   m,
		now:       time.Now,
	}
}

type CreateCycleInput struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
}

// CreateCycle stores a new cycle in draft.
func (s *EvaluationService) CreateCycle(ctx context.Context, input CreateCycleInput) (*models.EvaluationCycle, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrCycleTitleRequired
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() || input.EndDate.Before(input.StartDate) {
		return nil, ErrInvalidCycleDates
	}

	cycle := &models.EvaluationCycle{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      models.CycleDraft,
	}
	if err := s.repo.CreateCycle(ctx, cycle); err != nil {
		return nil, fmt.Errorf("failed to create evaluation cycle: %w", err)
	}
	return cycle, nil
}

func (s *EvaluationService) ListCycles(ctx context.Context) ([]models.EvaluationCycle, error) {
	cycles, err := s.repo.ListCycles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluation cycles: %w", err)
	}
	return cycles, nil
}

// CurrentCycle returns the open cycle.
func (s *EvaluationService) CurrentCycle(ctx context.Context) (*models.EvaluationCycle, error) {
	cycle, err := s.repo.FindLatestCycleByStatus(ctx, models.CycleOpen)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoOpenCycle
		}
		return nil, fmt.Errorf("failed to find current cycle: %w", err)
	}
	return cycle, nil
}

// OpenCycle moves a draft cycle to open. Only one cycle can be open at a time.
func (s *EvaluationService) OpenCycle(ctx context.Context, id uint64) (*models.EvaluationCycle, error) {
	cycle, err := s.findCycle(ctx, id)
	if err != nil {
		return nil, err
	}
	if cycle.Status != models.CycleDraft {
		return nil, ErrInvalidCycleTransition
	}

	current, err := s.CurrentCycle(ctx)
	switch {
	case err == nil:
		if current.ID != cycle.ID {
			return nil, ErrAnotherCycleOpen
		}
	case !errors.Is(err, ErrNoOpenCycle):
		return nil, err
	}

	return s.setStatus(ctx, cycle, models.CycleOpen)
}

// CloseCycle moves an open cycle to closed.
func (s *EvaluationService) CloseCycle(ctx context.Context, id uint64) (*models.EvaluationCycle, error) {
	cycle, err := s.findCycle(ctx, id)
	if err != nil {
		return nil, err
	}
	if cycle.Status != models.CycleOpen {
		return nil, ErrInvalidCycleTransition
	}
	return s.setStatus(ctx, cycle, models.CycleClosed)
}

func (s *EvaluationService) setStatus(ctx context.Context, cycle *models.EvaluationCycle, status models.CycleStatus) (*models.EvaluationCycle, error) {
	if err := s.repo.UpdateCycleStatus(ctx, cycle.ID, status); err != nil {
		return nil, fmt.Errorf("failed to update cycle status: %w", err)
	}
	cycle.Status = status
	return cycle, nil
}

func (s *EvaluationService) findCycle(ctx context.Context, id uint64) (*models.EvaluationCycle, error) {
	cycle, err := s.repo.FindCycle(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCycleNotFound
		}
		return nil, fmt.Errorf("failed to find evaluation cycle: %w", err)
	}
	return cycle, nil
}

func (s *EvaluationService) findOpenCycle(ctx context.Context, id uint64) (*models.EvaluationCycle, error) {
	cycle, err := s.findCycle(ctx, id)
	if err != nil {
		return nil, err
	}
	if cycle.Status != models.CycleOpen {
		return nil, ErrCycleNotOpen
	}
	return cycle, nil
}

func (s *EvaluationService) findUser(ctx context.Context, id uint64, notFound error) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// EvaluationInput is a self or leader evaluation as submitted. EvaluatorID
// and PotentialScore are only read for leader evaluations.
type EvaluationInput struct {
	CycleID        uint64
	EmployeeID     uint64
	EvaluatorID    uint64
	Competencies   []evaluation.Competency
	PotentialScore float64
	Strengths      string
	Improvements   string
	Observations   string
}

// SaveSelf stores the employee's own evaluation, replacing an earlier one
// in the same cycle.
func (s *EvaluationService) SaveSelf(ctx context.Context, input EvaluationInput) (*models.Evaluation, error) {
	input.EvaluatorID = input.EmployeeID
	input.PotentialScore = 0
	return s.save(ctx, models.EvaluationSelf, input)
}

// SaveLeader stores the leader evaluation of an employee, replacing an
// earlier one in the same cycle. The evaluator must be a leader or a director.
func (s *EvaluationService) SaveLeader(ctx context.Context, input EvaluationInput) (*models.Evaluation, error) {
	if !inScoreRange(input.PotentialScore) {
		return nil, ErrInvalidScore
	}
	if input.EvaluatorID == 0 {
		return nil, ErrEvaluatorNotFound
	}
	evaluator, err := s.findUser(ctx, input.EvaluatorID, ErrEvaluatorNotFound)
	if err != nil {
		return nil, err
	}
	if !evaluator.Profile().IsLeader() {
		return nil, ErrEvaluatorNotLeader
	}
	return s.save(ctx, models.EvaluationLeader, input)
}

func (s *EvaluationService) save(ctx context.Context, typ models.EvaluationType, input EvaluationInput) (*models.Evaluation, error) {
	comps, err := buildCompetencies(input.Competencies)
	if err != nil {
		return nil, err
	}
	if input.EmployeeID == 0 {
		return nil, ErrEmployeeRequired
	}
	if _, err := s.findOpenCycle(ctx, input.CycleID); err != nil {
		return nil, err
	}
	if _, err := s.findUser(ctx, input.EmployeeID, ErrEmployeeNotFound); err != nil {
		return nil, err
	}

	ev, err := s.repo.FindEvaluation(ctx, input.CycleID, input.EmployeeID, typ)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find evaluation: %w", err)
		}
		ev = &models.Evaluation{CycleID: input.CycleID, EmployeeID: input.EmployeeID, Type: typ}
	}

	ev.EvaluatorID = input.EvaluatorID
	ev.FinalScore = evaluation.FinalScore(input.Competencies)
	ev.PotentialScore = nil
	if typ == models.EvaluationLeader {
		potential := input.PotentialScore
		ev.PotentialScore = &potential
	}
	ev.Strengths = strings.TrimSpace(input.Strengths)
	ev.Improvements = strings.TrimSpace(input.Improvements)
	ev.Observations = strings.TrimSpace(input.Observations)
	ev.Competencies = comps

	if err := s.repo.SaveEvaluation(ctx, ev); err != nil {
		return nil, fmt.Errorf("failed to save evaluation: %w", err)
	}
	s.metrics.ObserveEvaluationSaved(string(typ))
	return ev, nil
}

func buildCompetencies(inputs []evaluation.Competency) ([]models.EvaluationCompetency, error) {
	if len(inputs) == 0 {
		return nil, ErrCompetenciesRequired
	}
	comps := make([]models.EvaluationCompetency, 0, len(inputs))
	for _, in := range inputs {
		name, category := strings.TrimSpace(in.Name), strings.TrimSpace(in.Category)
		if name == "" || category == "" {
			return nil, ErrInvalidCompetency
		}
		if !inScoreRange(in.Score) {
			return nil, ErrInvalidScore
		}
		comps = append(comps, models.EvaluationCompetency{Name: name, Category: category, Score: in.Score})
	}
	return comps, nil
}

func inScoreRange(v float64) bool {
	return v >= minScore && v <= maxScore
}

func toCompetencies(comps []models.EvaluationCompetency) []evaluation.Competency {
	out := make([]evaluation.Competency, len(comps))
	for i, c := range comps {
		out[i] = evaluation.Competency{Name: c.Name, Category: c.Category, Score: c.Score}
	}
	return out
}

// EmployeeEvaluations lists an employee's evaluations. A zero cycleID
// covers every cycle and an empty typ covers both types.
func (s *EvaluationService) EmployeeEvaluations(ctx context.Context, employeeID, cycleID uint64, typ models.EvaluationType) ([]models.Evaluation, error) {
	if typ != "" && !typ.Valid() {
		return nil, ErrInvalidEvaluationType
	}
	evs, err := s.repo.ListEmployeeEvaluations(ctx, employeeID, cycleID, typ)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	if evs == nil {
		evs = []models.Evaluation{}
	}
	return evs, nil
}

// HasEvaluation reports whether the employee already has an evaluation of
// that type in the cycle.
func (s *EvaluationService) HasEvaluation(ctx context.Context, cycleID, employeeID uint64, typ models.EvaluationType) (bool, error) {
	if !typ.Valid() {
		return false, ErrInvalidEvaluationType
	}
	if _, err := s.repo.FindEvaluation(ctx, cycleID, employeeID, typ); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find evaluation: %w", err)
	}
	return true, nil
}

type CreateConsensusInput struct {
	CycleID     uint64
	EmployeeID  uint64
	MeetingDate *time.Time
	Notes       string
}

// CreateConsensus schedules a consensus meeting for an employee in an open cycle.
func (s *EvaluationService) CreateConsensus(ctx context.Context, input CreateConsensusInput) (*models.ConsensusMeeting, error) {
	if input.EmployeeID == 0 {
		return nil, ErrEmployeeRequired
	}
	if _, err := s.findOpenCycle(ctx, input.CycleID); err != nil {
		return nil, err
	}
	if _, err := s.findUser(ctx, input.EmployeeID, ErrEmployeeNotFound); err != nil {
		return nil, err
	}

	meeting := &models.ConsensusMeeting{
		CycleID:     input.CycleID,
		EmployeeID:  input.EmployeeID,
		MeetingDate: input.MeetingDate,
		Status:      models.ConsensusScheduled,
		Notes:       strings.TrimSpace(input.Notes),
	}
	if err := s.repo.CreateConsensus(ctx, meeting); err != nil {
		return nil, fmt.Errorf("failed to create consensus meeting: %w", err)
	}
	return meeting, nil
}

type CompleteConsensusInput struct {
	PerformanceScore float64
	PotentialScore   float64
	Notes            string
}

// CompleteConsensus records the agreed scores and places the employee on
// the nine-box grid.
func (s *EvaluationService) CompleteConsensus(ctx context.Context, id uint64, input CompleteConsensusInput) (*models.ConsensusMeeting, error) {
	if !inScoreRange(input.PerformanceScore) || !inScoreRange(input.PotentialScore) {
		return nil, ErrInvalidScore
	}

	meeting, err := s.repo.FindConsensus(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConsensusNotFound
		}
		return nil, fmt.Errorf("failed to find consensus meeting: %w", err)
	}
	if meeting.Status == models.ConsensusCompleted {
		return nil, ErrConsensusCompleted
	}

	performance, potential := input.PerformanceScore, input.PotentialScore
	completedAt := s.now()
	meeting.Status = models.ConsensusCompleted
	meeting.PerformanceScore = &performance
	meeting.PotentialScore = &potential
	meeting.NineBox = evaluation.NineBoxPosition(performance, potential)
	meeting.CompletedAt = &completedAt
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		meeting.Notes = notes
	}

	if err := s.repo.UpdateConsensus(ctx, meeting); err != nil {
		return nil, fmt.Errorf("failed to complete consensus meeting: %w", err)
	}
	return meeting, nil
}

// NineBoxEntry places one employee on the grid for a cycle.
type NineBoxEntry struct {
	EmployeeID   uint64  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Performance  float64 `json:"performance"`
	Potential    float64 `json:"potential"`
	Position     string  `json:"position"`
	Source       string  `json:"source"`
}

// NineBox places every employee with a completed consensus or a leader
// evaluation on the grid. A completed consensus wins over the leader
// evaluation, whose performance is its final score.
func (s *EvaluationService) NineBox(ctx context.Context, cycleID uint64) ([]NineBoxEntry, error) {
	data, err := s.loadCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}

	entries := []NineBoxEntry{}
	for _, u := range data.users {
		if m, ok := data.consensus[u.ID]; ok && m.Status == models.ConsensusCompleted {
			entries = append(entries, NineBoxEntry{
				EmployeeID:   u.ID,
				EmployeeName: u.Name,
				Performance:  *m.PerformanceScore,
				Potential:    *m.PotentialScore,
				Position:     m.NineBox,
				Source:       SourceConsensus,
			})
			continue
		}
		ev, ok := data.leader[u.ID]
		if !ok || ev.PotentialScore == nil {
			continue
		}
		summary := evaluation.Summarize(toCompetencies(ev.Competencies), 0, *ev.PotentialScore)
		entries = append(entries, NineBoxEntry{
			EmployeeID:   u.ID,
			EmployeeName: u.Name,
			Performance:  summary.FinalScore,
			Potential:    *ev.PotentialScore,
			Position:     summary.NineBox,
			Source:       SourceLeader,
		})
	}
	return entries, nil
}

// DashboardRow is the evaluation progress of one employee in a cycle.
type DashboardRow struct {
	EmployeeID      uint64                 `json:"employee_id"`
	EmployeeName    string                 `json:"employee_name"`
	SelfScore       *float64               `json:"self_score"`
	LeaderScore     *float64               `json:"leader_score"`
	PotentialScore  *float64               `json:"potential_score"`
	ConsensusStatus models.ConsensusStatus `json:"consensus_status"`
	NineBox         string                 `json:"nine_box"`
}

// Dashboard lists every non-director employee with the evaluations they
// have in the cycle.
func (s *EvaluationService) Dashboard(ctx context.Context, cycleID uint64) ([]DashboardRow, error) {
	data, err := s.loadCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}

	rows := make([]DashboardRow, 0, len(data.users))
	for _, u := range data.users {
		if u.Profile().IsDirector() {
			continue
		}
		row := DashboardRow{EmployeeID: u.ID, EmployeeName: u.Name}
		if ev, ok := data.self[u.ID]; ok {
			row.SelfScore = &ev.FinalScore
		}
		if ev, ok := data.leader[u.ID]; ok {
			row.LeaderScore = &ev.FinalScore
			row.PotentialScore = ev.PotentialScore
		}
		if m, ok := data.consensus[u.ID]; ok {
			row.ConsensusStatus = m.Status
			row.NineBox = m.NineBox
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type cycleData struct {
	users     []models.User
	self      map[uint64]models.Evaluation
	leader    map[uint64]models.Evaluation
	consensus map[uint64]models.ConsensusMeeting
}

// loadCycle gathers the evaluations and consensus meetings of a cycle keyed
// by employee. When an employee has several meetings a completed one wins,
// then the latest.
func (s *EvaluationService) loadCycle(ctx context.Context, cycleID uint64) (*cycleData, error) {
	if _, err := s.findCycle(ctx, cycleID); err != nil {
		return nil, err
	}

	users, err := s.employees.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	evs, err := s.repo.ListCycleEvaluations(ctx, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cycle evaluations: %w", err)
	}
	meetings, err := s.repo.ListCycleConsensus(ctx, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list consensus meetings: %w", err)
	}

	data := &cycleData{
		users:     users,
		self:      map[uint64]models.Evaluation{},
		leader:    map[uint64]models.Evaluation{},
		consensus: map[uint64]models.ConsensusMeeting{},
	}
	for _, ev := range evs {
		if ev.Type == models.EvaluationSelf {
			data.self[ev.EmployeeID] = ev
		} else {
			data.leader[ev.EmployeeID] = ev
		}
	}
	for _, m := range meetings {
		if prev, ok := data.consensus[m.EmployeeID]; ok &&
			prev.Status == models.ConsensusCompleted && m.Status != models.ConsensusCompleted {
			continue
		}
		data.consensus[m.EmployeeID] = m
	}
	return data, nil
}
