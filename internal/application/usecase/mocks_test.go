package usecase_test

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/funko-api/internal/application/dto"
	"github.com/jhoicas/funko-api/internal/application/ports"
	"github.com/jhoicas/funko-api/internal/domain/entity"
	"github.com/jhoicas/funko-api/internal/domain/repository"
)

// ────────────────────────────────────────────────────────────────
// Mocks (testify)
// ────────────────────────────────────────────────────────────────

type mockCategoryRepo struct{ mock.Mock }

func (m *mockCategoryRepo) GetAll(ctx context.Context) ([]*entity.Category, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*entity.Category)
	return list, args.Error(1)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*entity.Category)
	return c, args.Error(1)
}

func (m *mockCategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(*entity.Category)
	return c, args.Error(1)
}

func (m *mockCategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCategoryRepo) Update(ctx context.Context, c *entity.Category) (*entity.Category, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(*entity.Category)
	return out, args.Error(1)
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*entity.Category)
	return c, args.Error(1)
}

type mockItemRepo struct{ mock.Mock }

func (m *mockItemRepo) GetAll(ctx context.Context) ([]*entity.Item, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*entity.Item)
	return list, args.Error(1)
}

func (m *mockItemRepo) GetByID(ctx context.Context, id int64) (*entity.Item, error) {
	args := m.Called(ctx, id)
	it, _ := args.Get(0).(*entity.Item)
	return it, args.Error(1)
}

func (m *mockItemRepo) Create(ctx context.Context, it *entity.Item) error {
	return m.Called(ctx, it).Error(0)
}

func (m *mockItemRepo) Update(ctx context.Context, it *entity.Item) (*entity.Item, error) {
	args := m.Called(ctx, it)
	switch v := args.Get(0).(type) {
	case func(context.Context, *entity.Item) *entity.Item:
		return v(ctx, it), args.Error(1)
	case *entity.Item:
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) Delete(ctx context.Context, id int64) (*entity.Item, error) {
	args := m.Called(ctx, id)
	it, _ := args.Get(0).(*entity.Item)
	return it, args.Error(1)
}

func (m *mockItemRepo) CountByCategory(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *mockItemRepo) ListByCategory(ctx context.Context, id uuid.UUID) ([]*entity.Item, error) {
	args := m.Called(ctx, id)
	list, _ := args.Get(0).([]*entity.Item)
	return list, args.Error(1)
}

func (m *mockItemRepo) DeleteByCategory(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return int64(args.Int(0)), args.Error(1)
}

type mockStorage struct{ mock.Mock }

func (m *mockStorage) Save(ctx context.Context, f ports.Upload) (string, error) {
	args := m.Called(ctx, f)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) Delete(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *mockStorage) Open(name string) (io.ReadCloser, error) {
	args := m.Called(name)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

// recordingNotifier guarda los eventos difundidos.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
	data   []any
}

func (n *recordingNotifier) Broadcast(_ context.Context, event string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	n.data = append(n.data, payload)
}

func (n *recordingNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

// directTx ejecuta fn con los mismos repos, sin transacción real.
type directTx struct {
	categories repository.CategoryRepository
	items      repository.ItemRepository
	calls      int
}

func (d *directTx) Run(_ context.Context, fn func(repository.CategoryRepository, repository.ItemRepository) error) error {
	d.calls++
	return fn(d.categories, d.items)
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("dial tcp: connection refused")
}
func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("dial tcp: connection refused")
}
func (failingStore) Remove(context.Context, ...string) error {
	return errors.New("dial tcp: connection refused")
}

type captureGenerator struct {
	report dto.CatalogReport
}

func (g *captureGenerator) GenerateCatalog(r dto.CatalogReport) ([]byte, error) {
	g.report = r
	return []byte("%PDF-1.3"), nil
}

// ────────────────────────────────────────────────────────────────
// Repositorios en memoria para escenarios de extremo a extremo
// ────────────────────────────────────────────────────────────────

type memCategoryRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]entity.Category
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{rows: map[uuid.UUID]entity.Category{}}
}

func (r *memCategoryRepo) GetAll(context.Context) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Category, 0, len(r.rows))
	for _, c := range r.rows {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memCategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if strings.EqualFold(c.Name, name) {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memCategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[c.ID] = *c
	return nil
}

func (r *memCategoryRepo) Update(_ context.Context, c *entity.Category) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[c.ID]
	if !ok {
		return nil, nil
	}
	cur.Name = c.Name
	cur.UpdatedAt = c.UpdatedAt
	r.rows[c.ID] = cur
	return &cur, nil
}

func (r *memCategoryRepo) Delete(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	delete(r.rows, id)
	return &c, nil
}

type memItemRepo struct {
	mu         sync.Mutex
	seq        int64
	rows       map[int64]entity.Item
	categories *memCategoryRepo
}

func newMemItemRepo(categories *memCategoryRepo) *memItemRepo {
	return &memItemRepo{rows: map[int64]entity.Item{}, categories: categories}
}

func (r *memItemRepo) join(it entity.Item) *entity.Item {
	c, _ := r.categories.GetByID(context.Background(), it.CategoryID)
	it.Category = c
	return &it
}

func (r *memItemRepo) GetAll(context.Context) ([]*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Item, 0, len(r.rows))
	for _, it := range r.rows {
		out = append(out, r.join(it))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memItemRepo) GetByID(_ context.Context, id int64) (*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return r.join(it), nil
}

func (r *memItemRepo) Create(_ context.Context, it *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	it.ID = r.seq
	row := *it
	row.Category = nil
	r.rows[it.ID] = row
	return nil
}

func (r *memItemRepo) Update(_ context.Context, it *entity.Item) (*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[it.ID]; !ok {
		return nil, nil
	}
	row := *it
	row.Category = nil
	r.rows[it.ID] = row
	return r.join(row), nil
}

func (r *memItemRepo) Delete(_ context.Context, id int64) (*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	delete(r.rows, id)
	return r.join(it), nil
}

func (r *memItemRepo) CountByCategory(ctx context.Context, id uuid.UUID) (int, error) {
	list, err := r.ListByCategory(ctx, id)
	return len(list), err
}

func (r *memItemRepo) ListByCategory(_ context.Context, id uuid.UUID) ([]*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Item
	for _, it := range r.rows {
		if it.CategoryID == id {
			out = append(out, r.join(it))
		}
	}
	return out, nil
}

func (r *memItemRepo) DeleteByCategory(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, it := range r.rows {
		if it.CategoryID == id {
			delete(r.rows, k)
			n++
		}
	}
	return n, nil
}
