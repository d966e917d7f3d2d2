package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dkovalenko/todohub/internal/domain/todo"
	"github.com/dkovalenko/todohub/internal/observability"
	"github.com/google/uuid"
)

// TodosRepo persists the entire todo collection as one JSON array on disk.
// Every operation is a full read-modify-write cycle over that artifact,
// serialized by the mutex so overlapping mutations can never drop each
// other's writes. The file is created lazily with an empty collection.
type TodosRepo struct {
	path string
	mu   sync.Mutex
	prom *observability.Prom

	now func() time.Time
}

// NewTodosRepo builds a store over the given file path. prom may be nil.
func NewTodosRepo(path string, prom *observability.Prom) *TodosRepo {
	return &TodosRepo{
		path: path,
		prom: prom,
		now:  time.Now,
	}
}

// ListAll returns the caller's todos in insertion order.
func (r *TodosRepo) ListAll(ctx context.Context, userID string) ([]todo.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	todos, err := r.load()
	if err != nil {
		return nil, err
	}

	out := make([]todo.Todo, 0, len(todos))
	for _, t := range todos {
		if t.UserID == userID {
			out = append(out, t)
		}
	}

	return out, nil
}

// Create appends a new todo owned by userID. The title check is a
// defensive invariant; handlers validate before the store is reached.
func (r *TodosRepo) Create(ctx context.Context, title, userID string) (todo.Todo, error) {
	if title == "" {
		return todo.Todo{}, todo.ErrEmptyTitle
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	todos, err := r.load()
	if err != nil {
		return todo.Todo{}, err
	}

	now := r.now().UnixMilli()
	t := todo.Todo{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	todos = append(todos, t)

	if err := r.save(todos); err != nil {
		return todo.Todo{}, err
	}

	return t, nil
}

// Update merges the provided fields into the todo matching id and userID.
// id, userId and createdAt are never touched, whatever the payload says.
func (r *TodosRepo) Update(ctx context.Context, id, userID string, req todo.UpdateTodoRequest) (todo.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	todos, err := r.load()
	if err != nil {
		return todo.Todo{}, err
	}

	idx := -1
	for i, t := range todos {
		if t.ID == id && t.UserID == userID {
			idx = i
			break
		}
	}

	if idx == -1 {
		return todo.Todo{}, todo.ErrNotFound
	}

	t := todos[idx]

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Completed != nil {
		t.Completed = *req.Completed
	}
	t.UpdatedAt = r.now().UnixMilli()

	todos[idx] = t

	if err := r.save(todos); err != nil {
		return todo.Todo{}, err
	}

	return t, nil
}

// Delete removes the todo matching id and userID. The boolean is the
// not-found signal: false means nothing matched.
func (r *TodosRepo) Delete(ctx context.Context, id, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	todos, err := r.load()
	if err != nil {
		return false, err
	}

	kept := todos[:0]
	removed := false

	for _, t := range todos {
		if t.ID == id && t.UserID == userID {
			removed = true
			continue
		}
		kept = append(kept, t)
	}

	if !removed {
		return false, nil
	}

	if err := r.save(kept); err != nil {
		return false, err
	}

	return true, nil
}

func (r *TodosRepo) load() ([]todo.Todo, error) {
	var todos []todo.Todo

	err := r.observe("read", func() error {
		data, err := os.ReadFile(r.path)

		if errors.Is(err, fs.ErrNotExist) {
			todos = []todo.Todo{}
			return r.writeFile([]byte("[]"))
		}
		if err != nil {
			return fmt.Errorf("read todo collection: %w", err)
		}

		if err := json.Unmarshal(data, &todos); err != nil {
			return fmt.Errorf("decode todo collection: %w", err)
		}

		return nil
	})

	return todos, err
}

func (r *TodosRepo) save(todos []todo.Todo) error {
	return r.observe("write", func() error {
		data, err := json.MarshalIndent(todos, "", "  ")
		if err != nil {
			return fmt.Errorf("encode todo collection: %w", err)
		}

		return r.writeFile(data)
	})
}

// writeFile replaces the collection via temp file + rename so a failed
// write can never leave a truncated artifact behind.
func (r *TodosRepo) writeFile(data []byte) error {
	dir := filepath.Dir(r.path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create todo data dir: %w", err)
	}

	tmp := r.path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write todo collection: %w", err)
	}

	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace todo collection: %w", err)
	}

	return nil
}

func (r *TodosRepo) observe(op string, fn func() error) error {
	if r.prom == nil {
		return fn()
	}

	return r.prom.ObserveStore(op, fn)
}
