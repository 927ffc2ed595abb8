package user

import (
	"context"
	"errors"
	"log"

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

func emailTakenErr() error {
	errs := validate.Errors{}
	errs.Add("email", validate.Unique("email"))
	return errs
}

func (s *Service) List(ctx context.Context, page int) ([]User, int, error) {
	return s.repo.List(ctx, db.PageSize, db.Offset(page))
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates in, checks the email is free and stores the user with a
// bcrypt hash of the password.
func (s *Service) Create(ctx context.Context, in CreateUserRequest) (*User, error) {
	if err := validate.Struct(in).Err(); err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &User{Email: in.Email, Name: in.Name, PasswordHash: hash, Role: in.Role}

	err = s.tx.InTx(ctx, func(repo Repository) error {
		taken, err := repo.EmailTaken(ctx, in.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			return emailTakenErr()
		}
		return repo.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Update replaces email, name and role of user id.
func (s *Service) Update(ctx context.Context, id int64, in UpdateUserRequest) (*User, error) {
	var out *User
	err := s.tx.InTx(ctx, func(repo Repository) error {
		u, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		errs := validate.Struct(in)
		if len(errs["email"]) == 0 {
			taken, err := repo.EmailTaken(ctx, in.Email, id)
			if err != nil {
				return err
			}
			if taken {
				errs.Add("email", validate.Unique("email"))
			}
		}
		if err := errs.Err(); err != nil {
			return err
		}
		u.Email, u.Name, u.Role = in.Email, in.Name, in.Role
		if err := repo.Update(ctx, u); err != nil {
			return err
		}
		out = u
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

// Authenticate checks email/password and returns the matching user.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, in LoginRequest) (*User, error) {
	if err := validate.Struct(in).Err(); err != nil {
		return nil, err
	}
	u, err := s.repo.GetByEmail(ctx, in.Email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(u.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// EnsureAdmin creates an admin account for email when none exists yet.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		log.Printf("[user] admin %s already present", email)
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	_, err = s.Create(ctx, CreateUserRequest{Email: email, Name: "Administrator", Password: password, Role: RoleAdmin})
	if err == nil {
		log.Printf("[user] admin %s created", email)
	}
	return err
}
