package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// Recorder escribe entradas de auditoría en el registro de operaciones.
// Fire-and-forget: una falla de auditoría se loguea pero nunca se propaga
// a la operación que la originó.
type Recorder struct {
	repo repository.OperationLogRepository
}

// NewRecorder construye el grabador de auditoría.
func NewRecorder(repo repository.OperationLogRepository) *Recorder {
	return &Recorder{repo: repo}
}

// Log registra una operación. userID nil = operación del sistema.
func (r *Recorder) Log(category, action, targetID, description string, userID *string) {
	entry := &entity.OperationLog{
		ID:          uuid.New().String(),
		Category:    category,
		Action:      action,
		TargetID:    targetID,
		Description: description,
		UserID:      userID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.repo.Create(entry); err != nil {
		log.Error().Err(err).
			Str("category", category).
			Str("action", action).
			Str("target_id", targetID).
			Msg("no se pudo escribir la entrada de auditoría")
	}
}
