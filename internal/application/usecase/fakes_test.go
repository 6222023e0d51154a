package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/bar-inventario-api/internal/domain"
	"github.com/jhoicas/bar-inventario-api/internal/domain/entity"
	"github.com/jhoicas/bar-inventario-api/internal/domain/repository"
)

type memUserRepo struct {
	users  map[int64]*entity.User
	nextID int64
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{users: map[int64]*entity.User{}, nextID: 1} }

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, v := range r.users {
		if v.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	u.ID, u.Active, u.CreatedAt = r.nextID, true, time.Now()
	r.nextID++
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetForShare(ctx context.Context, id int64) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) SetPhotoURL(_ context.Context, id int64, url string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PhotoURL = &url
	return nil
}

func (r *memUserRepo) List(_ context.Context, f repository.UserFilter) ([]*entity.User, error) {
	out := []*entity.User{}
	for _, u := range r.users {
		if f.OnlyActive && !u.Active {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memUserRepo) Deactivate(_ context.Context, id int64) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Active = false
	return nil
}

type memProductRepo struct {
	products map[int64]*entity.Product
	nextID   int64
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: map[int64]*entity.Product{}, nextID: 1}
}

func (r *memProductRepo) Create(_ context.Context, p *entity.Product) error {
	p.ID, p.Active, p.CreatedAt = r.nextID, true, time.Now()
	r.nextID++
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// Update conserva la cantidad almacenada, igual que el UPDATE real.
func (r *memProductRepo) Update(_ context.Context, p *entity.Product) error {
	cur, ok := r.products[p.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	cp := *p
	cp.Quantity = cur.Quantity
	r.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) AdjustQuantity(context.Context, int64, int) (int, error) {
	return 0, errors.New("no usado")
}

func (r *memProductRepo) SetImageURL(_ context.Context, id int64, url string) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.ImageURL = &url
	return nil
}

func (r *memProductRepo) Search(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	out := []*entity.Product{}
	q := strings.ToLower(f.Query)
	for _, p := range r.products {
		if f.OnlyActive && !p.Active {
			continue
		}
		hay := strings.ToLower(p.Name + " " + p.Category + " " + p.Brand)
		if q != "" && !strings.Contains(hay, q) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memProductRepo) Deactivate(_ context.Context, id int64) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Active = false
	return nil
}

type fakeStorage struct {
	err     error
	folders []string
}

func (s *fakeStorage) Upload(_ context.Context, folder, filename, _ string, _ []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.folders = append(s.folders, folder)
	return "https://cdn.test/" + folder + "/" + filename, nil
}
