package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// Módulos y acciones del rastro de auditoría.
const (
	AuditModuleArticle   = "article"
	AuditModuleStock     = "stock"
	AuditModuleInventory = "inventory"
	AuditModuleAlert     = "alert"
)

// AuditEntry es una entrada inmutable del rastro de auditoría.
type AuditEntry struct {
	ID      string
	Module  string
	Action  string
	Details AuditDetails
	Date    time.Time
	User    string
}

// AuditDetails es la unión etiquetada de cargas de auditoría conocidas.
// Kind identifica la variante al persistir; Module y Action clasifican la entrada.
type AuditDetails interface {
	Kind() string
	Module() string
	Action() string
}

// ArticleCreated alta de artículo.
type ArticleCreated struct {
	ArticleID   string `json:"article_id"`
	Reference   string `json:"reference"`
	Designation string `json:"designation"`
	Location    string `json:"location"`
}

func (ArticleCreated) Kind() string   { return "article.created" }
func (ArticleCreated) Module() string { return AuditModuleArticle }
func (ArticleCreated) Action() string { return "create" }

// ArticleUpdated modificación de datos maestros.
type ArticleUpdated struct {
	ArticleID string   `json:"article_id"`
	Reference string   `json:"reference"`
	Fields    []string `json:"fields"`
}

func (ArticleUpdated) Kind() string   { return "article.updated" }
func (ArticleUpdated) Module() string { return AuditModuleArticle }
func (ArticleUpdated) Action() string { return "update" }

// ArticleDeleted baja de artículo.
type ArticleDeleted struct {
	ArticleID string `json:"article_id"`
	Reference string `json:"reference"`
}

func (ArticleDeleted) Kind() string   { return "article.deleted" }
func (ArticleDeleted) Module() string { return AuditModuleArticle }
func (ArticleDeleted) Action() string { return "delete" }

// MovementApplied movimiento registrado en el ledger.
type MovementApplied struct {
	MovementID  string `json:"movement_id"`
	ArticleID   string `json:"article_id"`
	Reference   string `json:"reference"`
	Type        string `json:"type"`
	Quantity    int64  `json:"quantity"`
	StockBefore int64  `json:"stock_before"`
	StockAfter  int64  `json:"stock_after"`
	InventoryID string `json:"inventory_id,omitempty"`
}

func (MovementApplied) Kind() string   { return "stock.movement" }
func (MovementApplied) Module() string { return AuditModuleStock }
func (MovementApplied) Action() string { return "movement" }

// InventoryStarted inicio de sesión de inventario.
type InventoryStarted struct {
	InventoryID string `json:"inventory_id"`
	Zone        string `json:"zone,omitempty"`
	Lines       int    `json:"lines"`
}

func (InventoryStarted) Kind() string   { return "inventory.started" }
func (InventoryStarted) Module() string { return AuditModuleInventory }
func (InventoryStarted) Action() string { return "start" }

// CountRecorded conteo de una línea.
type CountRecorded struct {
	InventoryID  string `json:"inventory_id"`
	ArticleID    string `json:"article_id"`
	CountedStock int64  `json:"counted_stock"`
	Variance     int64  `json:"variance"`
}

func (CountRecorded) Kind() string   { return "inventory.count" }
func (CountRecorded) Module() string { return AuditModuleInventory }
func (CountRecorded) Action() string { return "count" }

// InventoryValidated cierre de la sesión.
type InventoryValidated struct {
	InventoryID   string    `json:"inventory_id"`
	AdjustedLines int       `json:"adjusted_lines"`
	ValidatedAt   time.Time `json:"validated_at"`
}

func (InventoryValidated) Kind() string   { return "inventory.validated" }
func (InventoryValidated) Module() string { return AuditModuleInventory }
func (InventoryValidated) Action() string { return "validate" }

// AlertResolved resolución manual de una alerta.
type AlertResolved struct {
	AlertID   string `json:"alert_id"`
	ArticleID string `json:"article_id"`
}

func (AlertResolved) Kind() string   { return "alert.resolved" }
func (AlertResolved) Module() string { return AuditModuleAlert }
func (AlertResolved) Action() string { return "resolve" }

// DecodeAuditDetails reconstruye la variante concreta a partir de kind y JSON.
func DecodeAuditDetails(kind string, raw []byte) (AuditDetails, error) {
	switch kind {
	case ArticleCreated{}.Kind():
		return decodeAs[ArticleCreated](raw)
	case ArticleUpdated{}.Kind():
		return decodeAs[ArticleUpdated](raw)
	case ArticleDeleted{}.Kind():
		return decodeAs[ArticleDeleted](raw)
	case MovementApplied{}.Kind():
		return decodeAs[MovementApplied](raw)
	case InventoryStarted{}.Kind():
		return decodeAs[InventoryStarted](raw)
	case CountRecorded{}.Kind():
		return decodeAs[CountRecorded](raw)
	case InventoryValidated{}.Kind():
		return decodeAs[InventoryValidated](raw)
	case AlertResolved{}.Kind():
		return decodeAs[AlertResolved](raw)
	}
	return nil, fmt.Errorf("tipo de auditoría desconocido: %s", kind)
}

func decodeAs[T AuditDetails](raw []byte) (AuditDetails, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
