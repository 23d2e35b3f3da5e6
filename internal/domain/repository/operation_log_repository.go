package repository

import "github.com/jhoicas/Pedidos-api/internal/domain/entity"

// OperationLogRepository define el puerto de persistencia del registro de auditoría.
type OperationLogRepository interface {
	Create(l *entity.OperationLog) error
}
