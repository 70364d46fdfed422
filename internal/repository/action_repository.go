package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/network-actions-api/internal/models"
)

const actionColumns = `id, name, location, description, start_date, end_date, quarter, departments,
professional_families, selected_groups, objectives, student_participants, teacher_participants,
rating, comments, created_by, network, center, image_url, document_url, document_name, created_at, updated_at`

// ActionRepository persists action records in PostgreSQL.
type ActionRepository struct {
	db    *sqlx.DB
	now   func() time.Time
	newID func() string
}

// NewActionRepository constructs the repository.
func NewActionRepository(db *sqlx.DB) *ActionRepository {
	return &ActionRepository{
		db:    db,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

type actionRow struct {
	ID                   string         `db:"id"`
	Name                 string         `db:"name"`
	Location             string         `db:"location"`
	Description          string         `db:"description"`
	StartDate            models.Date    `db:"start_date"`
	EndDate              models.Date    `db:"end_date"`
	Quarter              string         `db:"quarter"`
	Departments          pq.StringArray `db:"departments"`
	ProfessionalFamilies pq.StringArray `db:"professional_families"`
	SelectedGroups       pq.StringArray `db:"selected_groups"`
	Objectives           pq.StringArray `db:"objectives"`
	StudentParticipants  int            `db:"student_participants"`
	TeacherParticipants  int            `db:"teacher_participants"`
	Rating               int            `db:"rating"`
	Comments             string         `db:"comments"`
	CreatedBy            string         `db:"created_by"`
	Network              string         `db:"network"`
	Center               string         `db:"center"`
	ImageURL             sql.NullString `db:"image_url"`
	DocumentURL          sql.NullString `db:"document_url"`
	DocumentName         sql.NullString `db:"document_name"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
}

func toActionRow(a models.Action) actionRow {
	return actionRow{
		ID:                   a.ID,
		Name:                 a.Name,
		Location:             a.Location,
		Description:          a.Description,
		StartDate:            a.StartDate,
		EndDate:              a.EndDate,
		Quarter:              a.Quarter,
		Departments:          nonNil(a.Departments),
		ProfessionalFamilies: nonNil(a.ProfessionalFamilies),
		SelectedGroups:       nonNil(a.SelectedGroups),
		Objectives:           nonNil(a.Objectives),
		StudentParticipants:  a.StudentParticipants,
		TeacherParticipants:  a.TeacherParticipants,
		Rating:               a.Rating,
		Comments:             a.Comments,
		CreatedBy:            a.CreatedBy,
		Network:              a.Network,
		Center:               a.Center,
		ImageURL:             nullString(a.ImageURL),
		DocumentURL:          nullString(a.DocumentURL),
		DocumentName:         nullString(a.DocumentName),
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}

func (r actionRow) toModel() models.Action {
	return models.Action{
		ID: r.ID,
		ActionFields: models.ActionFields{
			Name:                 r.Name,
			Location:             r.Location,
			Description:          r.Description,
			StartDate:            r.StartDate,
			EndDate:              r.EndDate,
			Quarter:              r.Quarter,
			Departments:          []string(r.Departments),
			ProfessionalFamilies: []string(r.ProfessionalFamilies),
			SelectedGroups:       []string(r.SelectedGroups),
			Objectives:           []string(r.Objectives),
			StudentParticipants:  r.StudentParticipants,
			TeacherParticipants:  r.TeacherParticipants,
			Rating:               r.Rating,
			Comments:             r.Comments,
			CreatedBy:            r.CreatedBy,
			Network:              r.Network,
			Center:               r.Center,
			ImageURL:             stringPtr(r.ImageURL),
			DocumentURL:          stringPtr(r.DocumentURL),
			DocumentName:         stringPtr(r.DocumentName),
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Create inserts a new action with generated id and timestamps.
func (r *ActionRepository) Create(ctx context.Context, fields models.ActionFields) (*models.Action, error) {
	now := r.now()
	action := models.Action{ID: r.newID(), ActionFields: fields.Clone(), CreatedAt: now, UpdatedAt: now}

	const query = `INSERT INTO actions (` + actionColumns + `)
VALUES (:id, :name, :location, :description, :start_date, :end_date, :quarter, :departments,
:professional_families, :selected_groups, :objectives, :student_participants, :teacher_participants,
:rating, :comments, :created_by, :network, :center, :image_url, :document_url, :document_name, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, toActionRow(action)); err != nil {
		return nil, fmt.Errorf("create action: %w", err)
	}
	return &action, nil
}

// Update merges patch into the stored record under a row lock.
func (r *ActionRepository) Update(ctx context.Context, id string, patch models.ActionPatch) (*models.Action, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update action: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var row actionRow
	if err := tx.GetContext(ctx, &row, `SELECT `+actionColumns+` FROM actions WHERE id = $1 FOR UPDATE`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActionNotFound
		}
		return nil, fmt.Errorf("lock action: %w", err)
	}

	action := row.toModel()
	patch.Apply(&action.ActionFields)
	action.UpdatedAt = r.now()

	const query = `UPDATE actions SET name = :name, location = :location, description = :description,
start_date = :start_date, end_date = :end_date, quarter = :quarter, departments = :departments,
professional_families = :professional_families, selected_groups = :selected_groups, objectives = :objectives,
student_participants = :student_participants, teacher_participants = :teacher_participants, rating = :rating,
comments = :comments, created_by = :created_by, network = :network, center = :center, image_url = :image_url,
document_url = :document_url, document_name = :document_name, updated_at = :updated_at WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, toActionRow(action)); err != nil {
		return nil, fmt.Errorf("update action: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update action: %w", err)
	}
	return &action, nil
}

// Delete removes an action row.
func (r *ActionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM actions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete action: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete action rows affected: %w", err)
	}
	if affected == 0 {
		return ErrActionNotFound
	}
	return nil
}

// List returns every action in creation order.
func (r *ActionRepository) List(ctx context.Context) ([]models.Action, error) {
	var rows []actionRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+actionColumns+` FROM actions ORDER BY created_at ASC, id ASC`); err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	out := make([]models.Action, len(rows))
	for i, row := range rows {
		out[i] = row.toModel()
	}
	return out, nil
}

// FindByID returns an action by id.
func (r *ActionRepository) FindByID(ctx context.Context, id string) (*models.Action, error) {
	var row actionRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+actionColumns+` FROM actions WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActionNotFound
		}
		return nil, fmt.Errorf("get action: %w", err)
	}
	action := row.toModel()
	return &action, nil
}

func nonNil(in []string) pq.StringArray {
	if in == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(in)
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
