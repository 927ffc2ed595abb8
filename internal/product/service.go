package product

import (
	"context"
	"log"

	"github.com/MikeMC777/kasir-pos/internal/asset"
	"github.com/MikeMC777/kasir-pos/internal/db"
	"github.com/MikeMC777/kasir-pos/internal/validate"
)

type Service struct {
	repo   Repository
	tx     db.Runner[Repository]
	assets asset.Store
}

func NewService(repo Repository, tx db.Runner[Repository], assets asset.Store) *Service {
	return &Service{repo: repo, tx: tx, assets: assets}
}

func takenErr(field string) error {
	errs := validate.Errors{}
	errs.Add(field, validate.Unique(field))
	return errs
}

// check validates in against the store: unique name and sku (other than
// exceptID) and an existing category.
func check(ctx context.Context, repo Repository, in ProductRequest, exceptID int64, errs validate.Errors) error {
	for field, value := range map[string]string{"name": in.Name, "sku": in.SKU} {
		if len(errs[field]) > 0 {
			continue
		}
		taken, err := repo.Taken(ctx, field, value, exceptID)
		if err != nil {
			return err
		}
		if taken {
			errs.Add(field, validate.Unique(field))
		}
	}
	if len(errs["category_id"]) == 0 {
		ok, err := repo.CategoryExists(ctx, *in.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			errs.Add("category_id", validate.Invalid("category_id"))
		}
	}
	return errs.Err()
}

func (s *Service) List(ctx context.Context, categoryID *int64, name *string, page int) ([]Product, int, error) {
	return s.repo.List(ctx, Query{
		CategoryID: categoryID,
		Name:       name,
		Limit:      db.PageSize,
		Offset:     db.Offset(page),
	})
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores the image and inserts the product. When the insert fails the
// stored image is removed again.
func (s *Service) Create(ctx context.Context, in ProductRequest, image *asset.Upload) (*Product, error) {
	var stored string
	var out *Product
	err := s.tx.InTx(ctx, func(repo Repository) error {
		errs := validate.Struct(in)
		if image == nil {
			errs.Add("image", "The image field is required.")
		}
		if err := check(ctx, repo, in, 0, errs); err != nil {
			return err
		}
		p, err := s.assets.Put(ctx, AssetDir, image.Filename, image.Content)
		if err != nil {
			return err
		}
		stored = p
		out = &Product{
			Name:       in.Name,
			SKU:        in.SKU,
			Stock:      *in.Stock,
			Price:      *in.Price,
			Image:      stored,
			CategoryID: *in.CategoryID,
		}
		if err := repo.Create(ctx, out); err != nil {
			return err
		}
		out, err = repo.GetByID(ctx, out.ID)
		return err
	})
	if err != nil {
		s.discard(ctx, stored)
		return nil, err
	}
	return out, nil
}

// Update replaces every field. A new image replaces the old one, which is
// removed only after the update committed.
func (s *Service) Update(ctx context.Context, id int64, in ProductRequest, image *asset.Upload) (*Product, error) {
	var (
		stored, previous string
		out              *Product
	)
	err := s.tx.InTx(ctx, func(repo Repository) error {
		cur, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := check(ctx, repo, in, id, validate.Struct(in)); err != nil {
			return err
		}
		if image != nil {
			p, err := s.assets.Put(ctx, AssetDir, image.Filename, image.Content)
			if err != nil {
				return err
			}
			stored, previous = p, cur.Image
			cur.Image = p
		}
		cur.Name, cur.SKU = in.Name, in.SKU
		cur.Stock, cur.Price, cur.CategoryID = *in.Stock, *in.Price, *in.CategoryID
		if err := repo.Update(ctx, cur); err != nil {
			return err
		}
		out, err = repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		s.discard(ctx, stored)
		return nil, err
	}
	s.discard(ctx, previous)
	return out, nil
}

// Delete removes the product and then its image.
func (s *Service) Delete(ctx context.Context, id int64) error {
	var image string
	err := s.tx.InTx(ctx, func(repo Repository) error {
		p, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := repo.Delete(ctx, id); err != nil {
			return err
		}
		image = p.Image
		return nil
	})
	if err != nil {
		return err
	}
	s.discard(ctx, image)
	return nil
}

func (s *Service) discard(ctx context.Context, p string) {
	if p == "" {
		return
	}
	if err := s.assets.Delete(ctx, p); err != nil {
		log.Printf("[product] could not delete asset %s: %v", p, err)
	}
}
