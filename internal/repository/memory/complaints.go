package memory

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
)

// ComplaintRepository is an in-memory repository.ComplaintRepository.
// Listing returns complaints in insertion order.
type ComplaintRepository struct {
	mu    sync.RWMutex
	byID  map[string]domain.Complaint
	order []string
}

// NewComplaintRepository returns an empty store.
func NewComplaintRepository() *ComplaintRepository {
	return &ComplaintRepository{byID: make(map[string]domain.Complaint)}
}

var _ repository.ComplaintRepository = (*ComplaintRepository)(nil)

func (r *ComplaintRepository) Create(_ context.Context, c *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[c.ID] = *c
	r.order = append(r.order, c.ID)
	return nil
}

func (r *ComplaintRepository) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &c, nil
}

func (r *ComplaintRepository) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	return r.filter(func(*domain.Complaint) bool { return true }), nil
}

func (r *ComplaintRepository) ListByEmail(_ context.Context, email string) ([]domain.Complaint, error) {
	return r.filter(func(c *domain.Complaint) bool { return c.Contact.Email == email }), nil
}

func (r *ComplaintRepository) UpdateStatus(_ context.Context, id, status string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	c.Status = status
	r.byID[id] = c
	return &c, nil
}

func (r *ComplaintRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *ComplaintRepository) filter(keep func(*domain.Complaint) bool) []domain.Complaint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []domain.Complaint{}
	for _, id := range r.order {
		c := r.byID[id]
		if keep(&c) {
			result = append(result, c)
		}
	}
	return result
}
