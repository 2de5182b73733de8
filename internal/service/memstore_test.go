package service_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"workplace/internal/model"
	"workplace/internal/pagination"
	"workplace/internal/repository"
)

// memStore keeps users and tasks in memory and behaves like the gorm
// repositories, including the owner preload and the delete restriction.
type memStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
	tasks []model.Task
}

type memUsers struct{ *memStore }
type memTasks struct{ *memStore }

var (
	_ repository.UserRepositoryInterface = memUsers{}
	_ repository.TaskRepositoryInterface = memTasks{}
)

func newMemStore() (*memStore, memUsers, memTasks) {
	s := &memStore{users: map[uuid.UUID]model.User{}}
	return s, memUsers{s}, memTasks{s}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *memStore) withOwner(t model.Task) model.Task {
	if u, ok := s.users[t.CreatedByUserID]; ok {
		owner := u
		t.CreatedBy = &owner
	} else {
		t.CreatedBy = nil
	}
	return t
}

func (s *memStore) taskIndex(id uuid.UUID) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// newestFirst orders by creation time descending, then id descending.
func (s *memStore) newestFirst(keep func(model.Task) bool) []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for i := len(s.tasks) - 1; i >= 0; i-- {
		if keep(s.tasks[i]) {
			out = append(out, s.withOwner(s.tasks[i]))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out
}

func (r memUsers) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = *user
	return nil
}

func (r memUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r memUsers) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].Email, out[j].Email) < 0 })
	return out, nil
}

func (r memUsers) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	for id, u := range r.users {
		if id != user.ID && u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r memUsers) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	for _, t := range r.tasks {
		if t.CreatedByUserID == id {
			return repository.ErrUserHasTasks
		}
	}
	delete(r.users, id)
	return nil
}

func (r memUsers) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r memTasks) Create(_ context.Context, task *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	stored := *task
	stored.CreatedBy = nil
	r.tasks = append(r.tasks, stored)
	return nil
}

func (r memTasks) GetByID(_ context.Context, id uuid.UUID) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.taskIndex(id)
	if i < 0 {
		return nil, repository.ErrTaskNotFound
	}
	t := r.withOwner(r.tasks[i])
	return &t, nil
}

func (r memTasks) ListAll(_ context.Context) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.newestFirst(func(model.Task) bool { return true }), nil
}

func (r memTasks) ListPaged(_ context.Context, p pagination.Params, status *model.TaskStatus) ([]model.Task, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.newestFirst(func(t model.Task) bool {
		return status == nil || t.Status == *status
	})
	page := pagination.Paginate(all, p)
	return page.Items, int64(page.TotalCount), nil
}

func (r memTasks) Update(_ context.Context, task *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.taskIndex(task.ID)
	if i < 0 {
		return repository.ErrTaskNotFound
	}
	r.tasks[i].Title = task.Title
	r.tasks[i].Description = task.Description
	r.tasks[i].Status = task.Status
	return nil
}

func (r memTasks) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.taskIndex(id)
	if i < 0 {
		return repository.ErrTaskNotFound
	}
	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	return nil
}

func (r memTasks) CountByOwner(_ context.Context) (map[uuid.UUID]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[uuid.UUID]int64{}
	for _, t := range r.tasks {
		out[t.CreatedByUserID]++
	}
	return out, nil
}

func (r memTasks) CountOwnedBy(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, t := range r.tasks {
		if t.CreatedByUserID == userID {
			n++
		}
	}
	return n, nil
}

// addUser stores an account directly, bypassing hashing.
func (s *memStore) addUser(email string, role model.Role) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := model.User{ID: uuid.New(), Email: email, PasswordHash: "x", Role: role}
	s.users[u.ID] = u
	return u
}

// addTask stores a task directly, for fixtures the workflows cannot produce.
func (s *memStore) addTask(t model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, t)
}
