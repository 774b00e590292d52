package movement

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tu-usuario/salon-stock/internal/domain"
	"github.com/tu-usuario/salon-stock/internal/domain/entity"
	"github.com/tu-usuario/salon-stock/internal/domain/repository"
	"github.com/tu-usuario/salon-stock/pkg/logger"
)

// TTL del caché del catálogo común. La consulta es advisory (restringe la UI,
// no sostiene invariantes), así que una ventana de staleness es aceptable.
const commonCatalogTTL = 60 * time.Second

// Resolver resuelve referencias cruzadas entre sucursales: borrows pendientes
// entre un par (para que el remitente elija "qué solicitud estoy atendiendo")
// y la intersección de catálogos con stock positivo en ambas. Solo lecturas,
// sin efectos secundarios.
type Resolver struct {
	movRepo    repository.MovementRepository
	ledgerRepo repository.StockLedgerRepository
	cache      Cache // opcional; nil = sin caché
	log        *logger.Logger
}

// NewResolver construye el resolver. cache puede ser nil.
func NewResolver(
	movRepo repository.MovementRepository,
	ledgerRepo repository.StockLedgerRepository,
	cache Cache,
	log *logger.Logger,
) *Resolver {
	return &Resolver{movRepo: movRepo, ledgerRepo: ledgerRepo, cache: cache, log: log}
}

// FindPendingBorrowsBetween devuelve los borrows pendientes donde from presta
// y to recibe.
func (r *Resolver) FindPendingBorrowsBetween(ctx context.Context, fromBranchID, toBranchID string) ([]*entity.MovementRequest, error) {
	if fromBranchID == "" || toBranchID == "" || fromBranchID == toBranchID {
		return nil, domain.ErrInvalidBranch
	}
	return r.movRepo.ListPendingBorrowsBetween(fromBranchID, toBranchID)
}

// FindCommonCatalog devuelve los productos con entrada activa y cantidad
// positiva en ambas sucursales. Con caché configurado, cache-aside con TTL corto.
func (r *Resolver) FindCommonCatalog(ctx context.Context, branchA, branchB string) ([]string, error) {
	if branchA == "" || branchB == "" || branchA == branchB {
		return nil, domain.ErrInvalidBranch
	}
	key := "common-catalog:" + branchA + ":" + branchB

	if r.cache != nil {
		if raw, found, err := r.cache.Get(ctx, key); err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("caché no disponible, consultando BD")
		} else if found {
			var ids []string
			if err := json.Unmarshal([]byte(raw), &ids); err == nil {
				return ids, nil
			}
		}
	}

	ids, err := r.ledgerRepo.CommonCatalog(branchA, branchB)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if raw, err := json.Marshal(ids); err == nil {
			if err := r.cache.Set(ctx, key, string(raw), commonCatalogTTL); err != nil {
				r.log.Warn().Err(err).Str("key", key).Msg("no se pudo poblar el caché")
			}
		}
	}
	return ids, nil
}
