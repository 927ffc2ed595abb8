package payment

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

func (s *Service) List(ctx context.Context, page int) ([]Payment, int, error) {
	return s.repo.List(ctx, db.PageSize, db.Offset(page))
}

func (s *Service) Get(ctx context.Context, id int64) (*Payment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in PaymentRequest, logo *asset.Upload) (*Payment, error) {
	errs := validate.Struct(in)
	if logo == nil {
		errs.Add("logo", "The logo field is required.")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	var stored string
	out := &Payment{Name: in.Name, Type: in.Type}
	err := s.tx.InTx(ctx, func(repo Repository) error {
		p, err := s.assets.Put(ctx, AssetDir, logo.Filename, logo.Content)
		if err != nil {
			return err
		}
		stored, out.Logo = p, p
		return repo.Create(ctx, out)
	})
	if err != nil {
		s.discard(ctx, stored)
		return nil, err
	}
	return out, nil
}

// Update replaces name and type, and the logo when a new one is sent. The old
// logo is removed after the update committed.
func (s *Service) Update(ctx context.Context, id int64, in PaymentRequest, logo *asset.Upload) (*Payment, error) {
	var (
		stored, previous string
		out              *Payment
	)
	err := s.tx.InTx(ctx, func(repo Repository) error {
		cur, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := validate.Struct(in).Err(); err != nil {
			return err
		}
		if logo != nil {
			p, err := s.assets.Put(ctx, AssetDir, logo.Filename, logo.Content)
			if err != nil {
				return err
			}
			stored, previous = p, cur.Logo
			cur.Logo = p
		}
		cur.Name, cur.Type = in.Name, in.Type
		if err := repo.Update(ctx, cur); err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		s.discard(ctx, stored)
		return nil, err
	}
	s.discard(ctx, previous)
	return out, nil
}

// Delete removes the payment method and then its logo.
func (s *Service) Delete(ctx context.Context, id int64) error {
	var logo string
	err := s.tx.InTx(ctx, func(repo Repository) error {
		p, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := repo.Delete(ctx, id); err != nil {
			return err
		}
		logo = p.Logo
		return nil
	})
	if err != nil {
		return err
	}
	s.discard(ctx, logo)
	return nil
}

func (s *Service) discard(ctx context.Context, p string) {
	if p == "" {
		return
	}
	if err := s.assets.Delete(ctx, p); err != nil {
		log.Printf("[payment] could not delete asset %s: %v", p, err)
	}
}
