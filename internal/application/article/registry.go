// Package article gestiona los datos maestros de los artículos.
package article

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/stock-ledger/internal/application/audit"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/keylock"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Registry casos de uso del maestro de artículos. El stock solo cambia vía ledger.
type Registry struct {
	txRunner repository.TxRunner
	repo     repository.ArticleRepository
	locks    *keylock.Locker
	audit    *audit.Logger
	log      *logger.Logger
}

// NewRegistry construye el registro de artículos.
func NewRegistry(
	txRunner repository.TxRunner,
	repo repository.ArticleRepository,
	locks *keylock.Locker,
	auditLog *audit.Logger,
	log *logger.Logger,
) *Registry {
	return &Registry{
		txRunner: txRunner,
		repo:     repo,
		locks:    locks,
		audit:    auditLog,
		log:      log.Named("article"),
	}
}

// Create valida y da de alta un artículo con stock 0 y estado ACTIVE.
// Una referencia o código de barras ya existente devuelve ErrConflict sin escribir nada.
func (r *Registry) Create(ctx context.Context, in dto.CreateArticleRequest, user string) (*entity.Article, error) {
	a := &entity.Article{
		Reference:     strings.TrimSpace(in.Reference),
		Designation:   strings.TrimSpace(in.Designation),
		Barcode:       normalizeBarcode(in.Barcode),
		Family:        strings.TrimSpace(in.Family),
		Location:      strings.TrimSpace(in.Location),
		Supplier:      strings.TrimSpace(in.Supplier),
		Status:        entity.ArticleStatusActive,
		CurrentStock:  0,
		MinStock:      in.MinStock,
		MaxStock:      in.MaxStock,
		PurchasePrice: in.PurchasePrice,
	}
	if err := validate(a); err != nil {
		return nil, err
	}

	unlock := r.locks.Lock("reference:" + a.Reference)
	defer unlock()

	err := r.txRunner.Run(ctx, func(repos repository.Repositories) error {
		if err := ensureUnique(ctx, repos.Articles, a); err != nil {
			return err
		}
		if err := repos.Articles.Create(ctx, a); err != nil {
			return err
		}
		return r.audit.Record(ctx, repos, user, entity.ArticleCreated{
			ArticleID:   a.ID,
			Reference:   a.Reference,
			Designation: a.Designation,
			Location:    a.Location,
		})
	})
	if err != nil {
		return nil, err
	}
	r.log.Debug().Str("article_id", a.ID).Str("reference", a.Reference).Msg("artículo creado")
	return a, nil
}

// Search busca query (sin distinguir mayúsculas) como subcadena de referencia, designación,
// código de barras o familia. Resultados en orden del almacén; query vacía devuelve todos.
func (r *Registry) Search(ctx context.Context, query string) ([]*entity.Article, error) {
	all, err := r.repo.List(ctx, repository.ArticleFilter{})
	if err != nil {
		return nil, err
	}
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(query))
	if needle == "" {
		return all, nil
	}
	out := make([]*entity.Article, 0, len(all))
	for _, a := range all {
		for _, field := range []string{a.Reference, a.Designation, a.BarcodeValue(), a.Family} {
			if strings.Contains(fold.String(field), needle) {
				out = append(out, a)
				break
			}
		}
	}
	return out, nil
}

// ByLocation devuelve los artículos de una ubicación (coincidencia exacta).
func (r *Registry) ByLocation(ctx context.Context, location string) ([]*entity.Article, error) {
	return r.repo.List(ctx, repository.ArticleFilter{Location: location})
}

// List devuelve los artículos que cumplen el filtro de igualdad.
func (r *Registry) List(ctx context.Context, filter repository.ArticleFilter) ([]*entity.Article, error) {
	return r.repo.List(ctx, filter)
}

// Get obtiene un artículo; ErrNotFound si no existe.
func (r *Registry) Get(ctx context.Context, id string) (*entity.Article, error) {
	a, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.NotFoundf("artículo %s", id)
	}
	return a, nil
}

// FindByBarcode resuelve un token de escaneo: primero por código de barras exacto,
// después por referencia exacta.
func (r *Registry) FindByBarcode(ctx context.Context, code string) (*entity.Article, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.Validationf("código vacío")
	}
	for _, f := range []repository.ArticleFilter{{Barcode: code}, {Reference: code}} {
		list, err := r.repo.List(ctx, f)
		if err != nil {
			return nil, err
		}
		if len(list) > 0 {
			return list[0], nil
		}
	}
	return nil, domain.NotFoundf("ningún artículo con código %s", code)
}

// Update aplica los campos presentes en in, revalida y audita los nombres de campo cambiados.
func (r *Registry) Update(ctx context.Context, id string, in dto.UpdateArticleRequest, user string) (*entity.Article, error) {
	unlock := r.locks.Lock(id)
	defer unlock()

	var updated *entity.Article
	err := r.txRunner.Run(ctx, func(repos repository.Repositories) error {
		a, err := repos.Articles.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.NotFoundf("artículo %s", id)
		}
		fields := applyPatch(a, in)
		if len(fields) == 0 {
			updated = a
			return nil
		}
		if err := validate(a); err != nil {
			return err
		}
		if err := ensureUnique(ctx, repos.Articles, a); err != nil {
			return err
		}
		if err := repos.Articles.Update(ctx, a); err != nil {
			return err
		}
		updated = a
		return r.audit.Record(ctx, repos, user, entity.ArticleUpdated{
			ArticleID: a.ID,
			Reference: a.Reference,
			Fields:    fields,
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete elimina un artículo sin movimientos ni líneas en inventarios abiertos.
// En otro caso devuelve ErrConflict.
func (r *Registry) Delete(ctx context.Context, id, user string) error {
	unlock := r.locks.Lock(id)
	defer unlock()

	err := r.txRunner.Run(ctx, func(repos repository.Repositories) error {
		a, err := repos.Articles.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.NotFoundf("artículo %s", id)
		}
		n, err := repos.Movements.CountByArticle(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.Conflictf("el artículo %s tiene %d movimientos", a.Reference, n)
		}
		openCount, err := repos.Inventories.CountOpenByArticle(ctx, id)
		if err != nil {
			return err
		}
		if openCount > 0 {
			return domain.Conflictf("el artículo %s está en %d inventarios en curso", a.Reference, openCount)
		}
		if err := repos.Articles.Delete(ctx, id); err != nil {
			return err
		}
		return r.audit.Record(ctx, repos, user, entity.ArticleDeleted{ArticleID: id, Reference: a.Reference})
	})
	if err != nil {
		return err
	}
	r.log.Debug().Str("article_id", id).Msg("artículo eliminado")
	return nil
}

func ensureUnique(ctx context.Context, repo repository.ArticleRepository, a *entity.Article) error {
	same, err := repo.List(ctx, repository.ArticleFilter{Reference: a.Reference})
	if err != nil {
		return err
	}
	for _, other := range same {
		if other.ID != a.ID {
			return domain.Conflictf("referencia %s ya existe", a.Reference)
		}
	}
	if a.Barcode == nil {
		return nil
	}
	same, err = repo.List(ctx, repository.ArticleFilter{Barcode: *a.Barcode})
	if err != nil {
		return err
	}
	for _, other := range same {
		if other.ID != a.ID {
			return domain.Conflictf("código de barras %s ya existe", *a.Barcode)
		}
	}
	return nil
}

func normalizeBarcode(code *string) *string {
	if code == nil {
		return nil
	}
	v := strings.TrimSpace(*code)
	if v == "" {
		return nil
	}
	return &v
}
