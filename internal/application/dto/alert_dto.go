package dto

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// AlertResponse salida de una alerta.
type AlertResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	ArticleID string    `json:"article_id"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Date      time.Time `json:"date"`
}

// NewAlertResponse mapea la entidad a la salida HTTP.
func NewAlertResponse(a *entity.Alert) AlertResponse {
	return AlertResponse{
		ID:        a.ID,
		Type:      a.Type,
		ArticleID: a.ArticleID,
		Message:   a.Message,
		Status:    a.Status,
		Date:      a.Date,
	}
}

// NewAlertList mapea un listado de alertas.
func NewAlertList(list []*entity.Alert) ListResponse[AlertResponse] {
	return NewList(mapAll(list, NewAlertResponse))
}

// AuditEntryResponse entrada del rastro con su detalle tipado.
type AuditEntryResponse struct {
	ID      string              `json:"id"`
	Module  string              `json:"module"`
	Action  string              `json:"action"`
	Kind    string              `json:"kind"`
	Details entity.AuditDetails `json:"details"`
	Date    time.Time           `json:"date"`
	User    string              `json:"user"`
}

// NewAuditList mapea el rastro de auditoría.
func NewAuditList(list []*entity.AuditEntry) ListResponse[AuditEntryResponse] {
	return NewList(mapAll(list, func(e *entity.AuditEntry) AuditEntryResponse {
		return AuditEntryResponse{
			ID:      e.ID,
			Module:  e.Module,
			Action:  e.Action,
			Kind:    e.Details.Kind(),
			Details: e.Details,
			Date:    e.Date,
			User:    e.User,
		}
	}))
}
