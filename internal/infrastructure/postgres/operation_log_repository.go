package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.OperationLogRepository = (*OperationLogRepo)(nil)

// OperationLogRepo implementación de OperationLogRepository sobre PostgreSQL.
type OperationLogRepo struct {
	q Querier
}

// NewOperationLogRepository construye el adaptador del registro de auditoría.
func NewOperationLogRepository(q Querier) *OperationLogRepo {
	return &OperationLogRepo{q: q}
}

// Create persiste una entrada de auditoría.
func (r *OperationLogRepo) Create(l *entity.OperationLog) error {
	query := `
		INSERT INTO operation_logs (id, category, action, target_id, description, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.Category, l.Action, l.TargetID, l.Description, l.UserID, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert operation log: %w", err)
	}
	return nil
}
