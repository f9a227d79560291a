package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ComplaintRepository encapsulates complaint persistence.
// Missing ids are reported as pgx.ErrNoRows.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListAll(ctx context.Context) ([]domain.Complaint, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Complaint, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Complaint, error)
	Delete(ctx context.Context, id string) error
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, category, description, urgency, contact_name, contact_email, contact_phone, status, created_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (id, category, description, urgency, contact_name, contact_email, contact_phone, status, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.pool.Exec(ctx, query,
		complaint.ID,
		complaint.Category,
		complaint.Description,
		complaint.Urgency,
		complaint.Contact.Name,
		complaint.Contact.Email,
		complaint.Contact.Phone,
		complaint.Status,
		complaint.CreatedAt,
	)
	return err
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	return scanComplaint(r.pool.QueryRow(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE id=$1`, id))
}

func (r *complaintRepository) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+complaintColumns+` FROM complaints ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) ListByEmail(ctx context.Context, email string) ([]domain.Complaint, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+complaintColumns+` FROM complaints WHERE contact_email=$1 ORDER BY created_at ASC, id ASC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

// UpdateStatus relies on single-row atomicity; concurrent writers resolve last-writer-wins.
func (r *complaintRepository) UpdateStatus(ctx context.Context, id, status string) (*domain.Complaint, error) {
	return scanComplaint(r.pool.QueryRow(ctx,
		`UPDATE complaints SET status=$1 WHERE id=$2 RETURNING `+complaintColumns, status, id))
}

func (r *complaintRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanComplaint(row pgx.Row) (*domain.Complaint, error) {
	var c domain.Complaint
	if err := row.Scan(
		&c.ID,
		&c.Category,
		&c.Description,
		&c.Urgency,
		&c.Contact.Name,
		&c.Contact.Email,
		&c.Contact.Phone,
		&c.Status,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}
