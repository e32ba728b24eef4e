package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"movie-catalog/internal/data/entity"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*entity.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) find(match func(*entity.User) bool) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			copied := *u
			return &copied
		}
	}
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id }), nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email }), nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username }), nil
}

func (r *fakeUserRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	u, _ := r.FindByID(ctx, id)
	return u != nil, nil
}

func (r *fakeUserRepo) SetActive(ctx context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	u.IsActive = true
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// fakeTokenRepo mimics the user_id upsert and the cascade of the real table
type fakeTokenRepo struct {
	mu     sync.Mutex
	nextID int64
	tokens map[string]*entity.ActivationToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*entity.ActivationToken)}
}

func (r *fakeTokenRepo) Create(ctx context.Context, token *entity.ActivationToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.tokens {
		if t.UserID == token.UserID {
			delete(r.tokens, k)
		}
	}
	r.nextID++
	token.ID = r.nextID
	if token.Created.IsZero() {
		token.Created = time.Now()
	}
	stored := *token
	r.tokens[token.Token] = &stored
	return nil
}

func (r *fakeTokenRepo) FindByToken(ctx context.Context, token string) (*entity.ActivationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTokenRepo) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r *fakeTokenRepo) forUser(userID int64) []*entity.ActivationToken {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ActivationToken
	for _, t := range r.tokens {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

func (r *fakeTokenRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[int64]*entity.UserProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[int64]*entity.UserProfile)}
}

func (r *fakeProfileRepo) ExistsByUserID(ctx context.Context, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.profiles[userID]
	return ok, nil
}

func (r *fakeProfileRepo) Create(ctx context.Context, profile *entity.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile.ID = int64(len(r.profiles) + 1)
	profile.CreatedAt = time.Now()
	r.profiles[profile.UserID] = profile
	return nil
}

type sentEmail struct {
	email, link, fullname string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (m *fakeMailer) SendActivationEmail(ctx context.Context, email, activationLink, fullname string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentEmail{email, activationLink, fullname})
	return nil
}

var errSMTPDown = errors.New("dial tcp: connection refused")
