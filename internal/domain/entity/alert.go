package entity

import "time"

// Tipos y estados de alerta.
const (
	AlertTypeLowStock = "LOW_STOCK"

	AlertStatusActive   = "ACTIVE"
	AlertStatusResolved = "RESOLVED"
)

// Alert es una notificación de stock mínimo alcanzado.
type Alert struct {
	ID        string    `db:"id"`
	Type      string    `db:"type"`
	ArticleID string    `db:"article_id"`
	Message   string    `db:"message"`
	Status    string    `db:"status"`
	Date      time.Time `db:"date"`
}
