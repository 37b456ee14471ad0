package user

import (
	"agriVest/domain"
	"context"
	"errors"
	"fmt"
	"sync"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users []domain.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = uint(len(r.users) + 1)
	r.users = append(r.users, *u)
	return nil
}

func (r *fakeUserRepo) find(match func(domain.User) bool) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			return u, nil
		}
	}
	return domain.User{}, fmt.Errorf("user %w", domain.ErrNotFound)
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindAll(_ context.Context, filter domain.UserFilter) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].ID == u.ID {
			r.users[i] = *u
			return nil
		}
	}
	return fmt.Errorf("user %w", domain.ErrNotFound)
}

type fakeTokenRepo struct {
	tokens map[uint]domain.AuthToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[uint]domain.AuthToken{}}
}

func (r *fakeTokenRepo) FindByUserID(_ context.Context, userID uint) (domain.AuthToken, error) {
	t, ok := r.tokens[userID]
	if !ok {
		return domain.AuthToken{}, domain.ErrNotFound
	}
	return t, nil
}

func (r *fakeTokenRepo) FindByKey(_ context.Context, key string) (domain.AuthToken, error) {
	for _, t := range r.tokens {
		if t.Key == key {
			return t, nil
		}
	}
	return domain.AuthToken{}, domain.ErrNotFound
}

func (r *fakeTokenRepo) CreateIfAbsent(_ context.Context, token domain.AuthToken) (domain.AuthToken, error) {
	if existing, ok := r.tokens[token.UserID]; ok {
		return existing, nil
	}
	r.tokens[token.UserID] = token
	return token, nil
}

func (r *fakeTokenRepo) DeleteByUserID(_ context.Context, userID uint) error {
	delete(r.tokens, userID)
	return nil
}

type sentNotification struct {
	UserID         uint
	Title, Message string
}

type fakeNotifier struct {
	sent []sentNotification
}

func (n *fakeNotifier) Notify(_ context.Context, userID uint, title, message string) error {
	n.sent = append(n.sent, sentNotification{userID, title, message})
	return nil
}

type fakeMailer struct {
	sent    []domain.Mail
	failAll bool
}

func (m *fakeMailer) Send(_ context.Context, mail domain.Mail) error {
	if m.failAll {
		return errors.New("mail transport unavailable")
	}
	m.sent = append(m.sent, mail)
	return nil
}
