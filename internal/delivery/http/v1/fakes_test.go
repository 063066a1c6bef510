package v1

import (
	"context"
	"sync"
	"time"

	"github.com/adanyl0v/task-tracker/internal/models"
	"github.com/adanyl0v/task-tracker/internal/services"
)

// memoryStore implements every service the handler depends on.
type memoryStore struct {
	mu     sync.Mutex
	tokens *services.TokenManager

	users  map[string]*models.User
	tasks  map[int64]*models.Task
	logs   map[int64][]*models.TaskLog
	nextID int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		tokens: services.NewTokenManager("test-secret"),
		users:  make(map[string]*models.User),
		tasks:  make(map[int64]*models.Task),
		logs:   make(map[int64][]*models.TaskLog),
	}
}

func (s *memoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memoryStore) Register(_ context.Context, params services.CredentialsParams) (*services.TokenResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[params.Login]; ok {
		return nil, services.ErrUserAlreadyExists
	}
	user := &models.User{ID: s.id(), Login: params.Login, Password: params.Password}
	s.users[user.Login] = user

	token, err := s.tokens.Issue(user.Login)
	if err != nil {
		return nil, err
	}
	return &services.TokenResult{UserID: user.ID, AccessToken: token}, nil
}

func (s *memoryStore) Login(_ context.Context, params services.CredentialsParams) (*services.TokenResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[params.Login]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	if user.Password != params.Password {
		return nil, services.ErrUserPasswordMismatch
	}

	token, err := s.tokens.Issue(user.Login)
	if err != nil {
		return nil, err
	}
	return &services.TokenResult{UserID: user.ID, AccessToken: token}, nil
}

func (s *memoryStore) ParseToken(token string) (*services.TokenClaims, error) {
	return s.tokens.Parse(token)
}

func (s *memoryStore) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[login]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	return &models.User{ID: user.ID, Login: user.Login}, nil
}

func (s *memoryStore) CreateTask(_ context.Context, params services.CreateTaskParams) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := &models.Task{
		ID:           s.id(),
		UserID:       params.UserID,
		Name:         params.Name,
		Description:  params.Description,
		Status:       params.Status,
		CreatedAt:    time.Now(),
		CompletionAt: params.CompletionAt,
	}
	s.tasks[task.ID] = task

	copied := *task
	return &copied, nil
}

func (s *memoryStore) GetTasks(_ context.Context, params services.GetTasksParams) ([]*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]*models.Task, 0)
	for id := int64(1); id <= s.nextID; id++ {
		task, ok := s.tasks[id]
		if !ok || task.UserID != params.UserID {
			continue
		}
		if params.Status != nil && task.Status != *params.Status {
			continue
		}
		if params.CompletionBefore != nil &&
			(task.CompletionAt == nil || task.CompletionAt.After(*params.CompletionBefore)) {
			continue
		}
		copied := *task
		tasks = append(tasks, &copied)
	}
	return tasks, nil
}

func (s *memoryStore) ownedTask(params services.TaskParams) (*models.Task, error) {
	task, ok := s.tasks[params.ID]
	if !ok {
		return nil, services.ErrTaskNotFound
	}
	if task.UserID != params.UserID {
		return nil, services.ErrTaskAccessDenied
	}
	return task, nil
}

func (s *memoryStore) GetTask(_ context.Context, params services.TaskParams) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.ownedTask(params)
	if err != nil {
		return nil, err
	}
	copied := *task
	return &copied, nil
}

func (s *memoryStore) UpdateTask(_ context.Context, params services.UpdateTaskParams) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.ownedTask(services.TaskParams{ID: params.ID, UserID: params.UserID})
	if err != nil {
		return nil, err
	}

	for _, change := range task.Apply(params.Patch) {
		s.logs[task.ID] = append(s.logs[task.ID], &models.TaskLog{
			ID:        s.id(),
			TaskID:    task.ID,
			Log:       change.String(),
			CreatedAt: time.Now(),
		})
	}

	copied := *task
	return &copied, nil
}

func (s *memoryStore) DeleteTask(_ context.Context, params services.TaskParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ownedTask(params); err != nil {
		return err
	}
	delete(s.tasks, params.ID)
	delete(s.logs, params.ID)
	return nil
}

func (s *memoryStore) GetTaskLogs(_ context.Context, params services.TaskParams) ([]*models.TaskLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ownedTask(params); err != nil {
		return nil, err
	}
	logs := make([]*models.TaskLog, 0, len(s.logs[params.ID]))
	logs = append(logs, s.logs[params.ID]...)
	return logs, nil
}
