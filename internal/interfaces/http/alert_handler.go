package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/alert"
	"github.com/jhoicas/stock-ledger/internal/application/audit"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// AlertHandler maneja alertas y el rastro de auditoría (solo lectura salvo Resolve).
type AlertHandler struct {
	alerts *alert.Evaluator
	audit  *audit.Logger
}

// NewAlertHandler construye el handler.
func NewAlertHandler(alerts *alert.Evaluator, auditLog *audit.Logger) *AlertHandler {
	return &AlertHandler{alerts: alerts, audit: auditLog}
}

// List godoc
// @Summary      Listar alertas
// @Tags         alerts
// @Produce      json
// @Param        status      query  string  false  "ACTIVE o RESOLVED"
// @Param        article_id  query  string  false  "ID del artículo"
// @Success      200  {object}  dto.ListResponse[dto.AlertResponse]
// @Router       /api/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	list, err := h.alerts.List(c.Context(), repository.AlertFilter{
		ArticleID: c.Query("article_id"),
		Type:      c.Query("type"),
		Status:    c.Query("status"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewAlertList(list))
}

// Resolve godoc
// @Summary      Resolver alerta
// @Tags         alerts
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	a, err := h.alerts.Resolve(c.Context(), c.Params("id"), GetUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewAlertResponse(a))
}

// Audit godoc
// @Summary      Rastro de auditoría
// @Tags         audit
// @Produce      json
// @Param        module  query  string  false  "article, stock, inventory, alert"
// @Param        action  query  string  false  "create, update, movement, ..."
// @Param        user    query  string  false  "Usuario"
// @Success      200  {object}  dto.ListResponse[dto.AuditEntryResponse]
// @Router       /api/audit [get]
func (h *AlertHandler) Audit(c *fiber.Ctx) error {
	list, err := h.audit.List(c.Context(), repository.AuditFilter{
		Module: c.Query("module"),
		Action: c.Query("action"),
		User:   c.Query("user"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewAuditList(list))
}
