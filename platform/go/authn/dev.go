package authn

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// DevProvider is an in-memory Provider for local development. Accounts live
// for the lifetime of the process.
type DevProvider struct {
	mu       sync.Mutex
	accounts map[string]devAccount
	counter  int
}

type devAccount struct {
	uid      string
	password string
}

// NewDevProvider constructs an empty in-memory provider.
func NewDevProvider() *DevProvider {
	return &DevProvider{accounts: make(map[string]devAccount)}
}

func (p *DevProvider) CreateUser(_ context.Context, email, password string) (Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.accounts[email]; exists {
		return Principal{}, ErrUserExists
	}

	p.counter++
	uid := fmt.Sprintf("dev-%d", p.counter)
	p.accounts[email] = devAccount{uid: uid, password: password}

	return Principal{UID: uid, Email: email}, nil
}

func (p *DevProvider) DeleteUser(_ context.Context, uid string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for email, account := range p.accounts {
		if account.uid == uid {
			delete(p.accounts, email)
			return nil
		}
	}
	return ErrUserNotFound
}

func (p *DevProvider) SignInWithPassword(_ context.Context, email, password string) (Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	p.mu.Lock()
	defer p.mu.Unlock()

	account, exists := p.accounts[email]
	if !exists || account.password != password {
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{UID: account.uid, Email: email}, nil
}

var _ Provider = (*DevProvider)(nil)
