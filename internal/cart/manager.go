// Package cart manages the session-scoped shopping cart. All mutations of
// a session's state go through the Manager, which serializes them per
// token so concurrent requests sharing a session cannot lose updates.
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/menden/shop-api/internal/domain"
	"github.com/menden/shop-api/internal/session"
)

type Manager struct {
	store session.Store
	locks keyedMutex
}

func NewManager(store session.Store) *Manager {
	return &Manager{store: store}
}

// AddItem appends the item to the session's cart, or, when an item with
// the same product id is already present, adds the quantities together.
// Repeated adds accumulate; that is relied upon by repeated add-to-cart
// clicks. Returns the item as added or merged.
func (m *Manager) AddItem(ctx context.Context, token string, item domain.CartItem) (domain.CartItem, error) {
	unlock := m.locks.lock(token)
	defer unlock()

	sess, err := m.session(ctx, token)
	if err != nil {
		return domain.CartItem{}, err
	}

	if i := sess.Cart.Find(item.ProductID); i >= 0 {
		sess.Cart[i].Quantity += item.Quantity
		item = sess.Cart[i]
	} else {
		sess.Cart = append(sess.Cart, item)
	}

	if err := m.store.Save(ctx, sess); err != nil {
		return domain.CartItem{}, fmt.Errorf("save cart: %w", err)
	}
	return item, nil
}

// Items returns the session's cart, empty when no cart exists yet.
func (m *Manager) Items(ctx context.Context, token string) (domain.Cart, error) {
	sess, err := m.store.Get(ctx, token)
	if errors.Is(err, session.ErrSessionNotFound) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}
	if sess.Cart == nil {
		return domain.Cart{}, nil
	}
	return sess.Cart, nil
}

// Item returns the line item for productID, reporting whether it exists.
func (m *Manager) Item(ctx context.Context, token, productID string) (domain.CartItem, bool, error) {
	items, err := m.Items(ctx, token)
	if err != nil {
		return domain.CartItem{}, false, err
	}
	if i := items.Find(productID); i >= 0 {
		return items[i], true, nil
	}
	return domain.CartItem{}, false, nil
}

// RemoveItem drops the line item for productID and returns the remaining
// cart. Removing an absent product is a no-op, not an error.
func (m *Manager) RemoveItem(ctx context.Context, token, productID string) (domain.Cart, error) {
	unlock := m.locks.lock(token)
	defer unlock()

	sess, err := m.session(ctx, token)
	if err != nil {
		return nil, err
	}

	i := sess.Cart.Find(productID)
	if i < 0 {
		return sess.Cart, nil
	}
	sess.Cart = append(sess.Cart[:i], sess.Cart[i+1:]...)

	if err := m.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return sess.Cart, nil
}

// SetQuantity overwrites the quantity of the line item for productID and
// returns the cart. No-op when the product is not in the cart.
func (m *Manager) SetQuantity(ctx context.Context, token, productID string, quantity int) (domain.Cart, error) {
	unlock := m.locks.lock(token)
	defer unlock()

	sess, err := m.session(ctx, token)
	if err != nil {
		return nil, err
	}

	i := sess.Cart.Find(productID)
	if i < 0 {
		return sess.Cart, nil
	}
	sess.Cart[i].Quantity = quantity

	if err := m.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return sess.Cart, nil
}

// RecordVisit increments the session's visit counter and returns the new
// count. Goes through the same per-token lock as the cart mutations.
func (m *Manager) RecordVisit(ctx context.Context, token string) (int, error) {
	unlock := m.locks.lock(token)
	defer unlock()

	sess, err := m.session(ctx, token)
	if err != nil {
		return 0, err
	}

	sess.Visits++
	if err := m.store.Save(ctx, sess); err != nil {
		return 0, fmt.Errorf("save session: %w", err)
	}
	return sess.Visits, nil
}

// session loads the session for token, creating an empty one when none
// exists. The cart is created lazily on the first mutation this way.
func (m *Manager) session(ctx context.Context, token string) (*session.Session, error) {
	sess, err := m.store.Get(ctx, token)
	if errors.Is(err, session.ErrSessionNotFound) {
		return &session.Session{Token: token}, nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}
