// Package service implements the operations that are more than a single
// database call: credential management and catalog search.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/menden/shop-api/internal/auth"
	"github.com/menden/shop-api/internal/domain"
	"github.com/menden/shop-api/internal/repository"
)

// Account documents use these field names in the store.
const (
	fieldPhone    = "phonenumber"
	fieldPassword = "password"
	fieldSalt     = "salt"
)

// ErrMissingPassword is returned when a registration has no password.
var ErrMissingPassword = errors.New("password is required")

// Accounts manages account credentials on top of the accounts collection.
type Accounts struct {
	docs repository.Documents
}

func NewAccounts(docs repository.Documents) *Accounts {
	return &Accounts{docs: docs}
}

// Register stores a new account. The raw password is replaced by its
// derived hash and salt before the document reaches the store; the raw
// value is never persisted.
func (a *Accounts) Register(ctx context.Context, account domain.Document) (domain.Document, error) {
	raw, _ := account[fieldPassword].(string)
	if raw == "" {
		return nil, ErrMissingPassword
	}

	hash, salt, err := auth.Register(raw)
	if err != nil {
		return nil, fmt.Errorf("derive credential: %w", err)
	}

	record := make(domain.Document, len(account)+1)
	for k, v := range account {
		record[k] = v
	}
	record[fieldPassword] = hash
	record[fieldSalt] = salt

	inserted, err := a.docs.Insert(ctx, record)
	if err != nil {
		return nil, err
	}
	return redact(inserted), nil
}

// Login verifies the password for the account registered under phone.
// Unknown phone and wrong password both yield ErrInvalidCredential so the
// response does not reveal which one was wrong.
func (a *Accounts) Login(ctx context.Context, phone, password string) (domain.Document, error) {
	account, err := a.docs.FindOneByField(ctx, fieldPhone, phone)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, auth.ErrInvalidCredential
	}
	if err != nil {
		return nil, err
	}

	salt, _ := account[fieldSalt].(string)
	hash, _ := account[fieldPassword].(string)
	if !auth.Verify(password, salt, hash) {
		return nil, auth.ErrInvalidCredential
	}
	return redact(account), nil
}

// ChangePassword rotates the credential for the account registered under
// phone. The stored hash and salt are left untouched unless the old
// password verifies.
func (a *Accounts) ChangePassword(ctx context.Context, phone, oldPassword, newPassword string) error {
	account, err := a.docs.FindOneByField(ctx, fieldPhone, phone)
	if errors.Is(err, repository.ErrNotFound) {
		return auth.ErrInvalidCredential
	}
	if err != nil {
		return err
	}

	salt, _ := account[fieldSalt].(string)
	hash, _ := account[fieldPassword].(string)
	newHash, newSalt, err := auth.ChangePassword(oldPassword, newPassword, salt, hash)
	if err != nil {
		return err
	}

	return a.docs.UpdateByField(ctx, fieldPhone, phone, domain.Document{
		fieldPassword: newHash,
		fieldSalt:     newSalt,
	})
}

// redact strips credential material from a record before it leaves the
// service.
func redact(account domain.Document) domain.Document {
	out := make(domain.Document, len(account))
	for k, v := range account {
		if k == fieldPassword || k == fieldSalt {
			continue
		}
		out[k] = v
	}
	return out
}
