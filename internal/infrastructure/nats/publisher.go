package nats

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/tu-usuario/salon-stock/internal/application/movement"
	"github.com/tu-usuario/salon-stock/pkg/logger"
)

var _ movement.EventPublisher = (*Publisher)(nil)

// Publisher publica los eventos de ciclo de vida del motor en NATS como JSON.
// Best effort: los fallos se registran y no afectan la operación ya confirmada.
type Publisher struct {
	conn *nats.Conn
	log  *logger.Logger
}

// NewPublisher conecta a NATS con reconexión automática.
func NewPublisher(url string, log *logger.Logger) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(nats.DefaultReconnectWait),
	)
	if err != nil {
		return nil, fmt.Errorf("conectar NATS: %w", err)
	}
	return &Publisher{conn: conn, log: log}, nil
}

// Publish serializa el payload y lo publica en el subject.
func (p *Publisher) Publish(subject string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		p.log.Error().Err(err).Str("subject", subject).Msg("serializar evento")
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		p.log.Error().Err(err).Str("subject", subject).Msg("publicar evento")
	}
}

// Close drena y cierra la conexión.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}
