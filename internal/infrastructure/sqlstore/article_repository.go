package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ArticleRepository = (*ArticleRepo)(nil)

const articleColumns = `id, reference, designation, barcode, family, location, supplier, status,
	current_stock, min_stock, max_stock, purchase_price, created_at, updated_at`

// ArticleRepo implementación de ArticleRepository (usable con conexión o tx).
type ArticleRepo struct {
	q       Querier
	dialect dialect
	now     func() time.Time
}

// NewArticleRepository construye el adaptador. Pasar conexión o tx (Querier).
func NewArticleRepository(q Querier, d dialect, now func() time.Time) *ArticleRepo {
	return &ArticleRepo{q: q, dialect: d, now: now}
}

// Create persiste un artículo nuevo; asigna id si falta y sella fechas.
func (r *ArticleRepo) Create(ctx context.Context, a *entity.Article) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := r.now()
	a.CreatedAt = now
	a.UpdatedAt = now
	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.ExecContext(ctx, query,
		a.ID, a.Reference, a.Designation, a.Barcode, a.Family, a.Location, a.Supplier, a.Status,
		a.CurrentStock, a.MinStock, a.MaxStock, a.PurchasePrice, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return storageErr("insert article", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID; nil si no existe.
func (r *ArticleRepo) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	return r.get(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
}

// GetForUpdate obtiene el artículo y bloquea la fila (SELECT FOR UPDATE en PostgreSQL;
// en SQLite la transacción ya es de escritor único).
func (r *ArticleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Article, error) {
	return r.get(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`+r.dialect.forUpdate, id)
}

func (r *ArticleRepo) get(ctx context.Context, query string, args ...any) (*entity.Article, error) {
	var a entity.Article
	if err := sqlxGet(ctx, r.q, &a, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get article", err)
	}
	normalizeArticle(&a)
	return &a, nil
}

// List devuelve los artículos que cumplen el filtro, en orden de inserción.
func (r *ArticleRepo) List(ctx context.Context, f repository.ArticleFilter) ([]*entity.Article, error) {
	var w where
	w.eq("reference", f.Reference)
	w.eq("barcode", f.Barcode)
	w.eq("location", f.Location)
	w.eq("family", f.Family)
	w.eq("supplier", f.Supplier)
	w.eq("status", f.Status)

	var list []*entity.Article
	query := `SELECT ` + articleColumns + ` FROM articles` + w.String() + ` ORDER BY seq`
	if err := sqlxSelect(ctx, r.q, &list, query, w.args...); err != nil {
		return nil, storageErr("list articles", err)
	}
	for _, a := range list {
		normalizeArticle(a)
	}
	return list, nil
}

// Update guarda los datos maestros (no el stock). ErrNotFound si no existe.
func (r *ArticleRepo) Update(ctx context.Context, a *entity.Article) error {
	a.UpdatedAt = r.now()
	query := `
		UPDATE articles SET reference = $2, designation = $3, barcode = $4, family = $5, location = $6,
			supplier = $7, status = $8, min_stock = $9, max_stock = $10, purchase_price = $11, updated_at = $12
		WHERE id = $1`
	res, err := r.q.ExecContext(ctx, query,
		a.ID, a.Reference, a.Designation, a.Barcode, a.Family, a.Location,
		a.Supplier, a.Status, a.MinStock, a.MaxStock, a.PurchasePrice, a.UpdatedAt,
	)
	if err != nil {
		return storageErr("update article", err)
	}
	return requireAffected(res, "article", a.ID)
}

// UpdateStock actualiza solo el stock actual (usado por el ledger).
func (r *ArticleRepo) UpdateStock(ctx context.Context, id string, stock int64) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE articles SET current_stock = $2, updated_at = $3 WHERE id = $1`,
		id, stock, r.now(),
	)
	if err != nil {
		return storageErr("update article stock", err)
	}
	return requireAffected(res, "article", id)
}

// Delete elimina un artículo por ID.
func (r *ArticleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete article", err)
	}
	return requireAffected(res, "article", id)
}

func normalizeArticle(a *entity.Article) {
	a.CreatedAt = utc(a.CreatedAt)
	a.UpdatedAt = utc(a.UpdatedAt)
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("rows affected", err)
	}
	if n == 0 {
		return domain.NotFoundf("%s %s", kind, id)
	}
	return nil
}
