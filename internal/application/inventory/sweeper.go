package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper es el barrido de fondo que libera reservas expiradas y no
// confirmadas. Es el único mecanismo de recuperación del lease de 15 minutos:
// el cliente nunca cancela explícitamente. No toma ningún lock global, así que
// nunca bloquea la creación de reservas.
type Sweeper struct {
	uc       *UseCase
	interval time.Duration
	done     chan struct{}
}

// NewSweeper construye el barrido con su intervalo (5 minutos por defecto).
func NewSweeper(uc *UseCase, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Sweeper{uc: uc, interval: interval, done: make(chan struct{})}
}

// Run ejecuta el loop hasta que el contexto se cancele (apagado ordenado).
// Bloqueante: lanzarlo en su propia goroutine desde main.
func (s *Sweeper) Run(ctx context.Context) {
	defer close(s.done)

	log.Info().Dur("interval", s.interval).Msg("barrido de reservas iniciado")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("barrido de reservas detenido")
			return
		case <-ticker.C:
			if _, err := s.uc.CleanupExpiredReservations(ctx); err != nil {
				// Un barrido fallido no es fatal; el siguiente tick reintenta.
				log.Error().Err(err).Msg("barrido de reservas expiradas")
			}
		}
	}
}

// Wait bloquea hasta que Run haya terminado (para drenar en el apagado).
func (s *Sweeper) Wait() {
	<-s.done
}
