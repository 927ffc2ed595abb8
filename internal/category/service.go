package category

import (
	"context"

	"github.com/MikeMC777/kasir-pos/internal/db"
	"github.com/MikeMC777/kasir-pos/internal/validate"
)

type Service struct {
	repo Repository
	tx   db.Runner[Repository]
}

func NewService(repo Repository, tx db.Runner[Repository]) *Service {
	return &Service{repo: repo, tx: tx}
}

func nameTakenErr() error {
	errs := validate.Errors{}
	errs.Add("name", validate.Unique("name"))
	return errs
}

// check validates in and, when the name is well formed, that no other
// category (besides exceptID) already uses it.
func check(ctx context.Context, repo Repository, in CategoryRequest, exceptID int64) error {
	errs := validate.Struct(in)
	if len(errs["name"]) == 0 {
		taken, err := repo.NameTaken(ctx, in.Name, exceptID)
		if err != nil {
			return err
		}
		if taken {
			errs.Add("name", validate.Unique("name"))
		}
	}
	return errs.Err()
}

func (s *Service) List(ctx context.Context, page int) ([]Category, int, error) {
	return s.repo.List(ctx, db.PageSize, db.Offset(page))
}

func (s *Service) Get(ctx context.Context, id int64) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CategoryRequest) (*Category, error) {
	c := &Category{Name: in.Name}
	err := s.tx.InTx(ctx, func(repo Repository) error {
		if err := check(ctx, repo, in, 0); err != nil {
			return err
		}
		return repo.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id int64, in CategoryRequest) (*Category, error) {
	var out *Category
	err := s.tx.InTx(ctx, func(repo Repository) error {
		c, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := check(ctx, repo, in, id); err != nil {
			return err
		}
		c.Name = in.Name
		if err := repo.Update(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.tx.InTx(ctx, func(repo Repository) error {
		ok, err := repo.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		return nil
	})
}
