package movement

import (
	"context"
	"time"

	"github.com/tu-usuario/salon-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la única garantía de atomicidad multi-ítem
// del motor: o se aplican todos los débitos/créditos de una solicitud, o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		ledgerRepo repository.StockLedgerRepository,
		auditRepo repository.LedgerMovementRepository,
	) error) error
}

// EventPublisher publica eventos de ciclo de vida después del commit.
// Best effort: un fallo de publicación nunca revierte una operación ya confirmada.
type EventPublisher interface {
	Publish(subject string, payload any)
}

// Cache puerto de caché con TTL para consultas advisory (catálogo común).
// found=false indica miss; el caller consulta la fuente y repuebla.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
