package storefront

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Domain errors
var (
	ErrNoSession          = errors.New("unknown session")
	ErrNotSignedIn        = errors.New("not signed in")
	ErrUnknownProduct     = errors.New("unknown product")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrIncompleteAddress  = errors.New("shipping address is incomplete")
	ErrNoOrderPlaced      = errors.New("no order placed in this session")
	ErrOrderNumberInvalid = errors.New("order number out of range")
)

// Order numbers are drawn from this closed range.
const (
	MinOrderNumber = 1
	MaxOrderNumber = 100
)

// Address is the shipping form content.
type Address struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	AddressLine1 string `json:"addressLine1"`
	Province     string `json:"province"`
	PostalCode   string `json:"postCode"`
}

// Validate rejects an address with any blank field.
func (a Address) Validate() error {
	fields := []struct{ name, value string }{
		{"firstName", a.FirstName},
		{"lastName", a.LastName},
		{"addressLine1", a.AddressLine1},
		{"province", a.Province},
		{"postCode", a.PostalCode},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is empty", ErrIncompleteAddress, f.name)
		}
	}
	return nil
}

// CartLine is a product and how many of it are in the cart.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal returns the line price in cents.
func (l CartLine) Subtotal() int64 { return l.Product.PriceCents * int64(l.Quantity) }

// Order is a placed order.
type Order struct {
	ID         string
	Number     int
	PlacedAt   time.Time
	Lines      []CartLine
	TotalCents int64
	ShipTo     Address
}

// Session is the state of one browser: who is signed in and what they hold.
type Session struct {
	ID         string
	User       *User
	Cart       []CartLine
	Favourites []int
	Orders     []Order
	LastOrder  *Order
}

// Store keeps every sandbox session in memory.
type Store struct {
	mu          sync.Mutex
	password    string
	sessions    map[string]*Session
	orderNumber func() int
	now         func() time.Time
}

// Option adjusts a Store.
type Option func(*Store)

// WithOrderNumbers replaces the order number source.
func WithOrderNumbers(next func() int) Option {
	return func(s *Store) { s.orderNumber = next }
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty store whose fixture users sign in with password.
func NewStore(password string, opts ...Option) *Store {
	s := &Store{
		password: password,
		sessions: make(map[string]*Session),
		orderNumber: func() int {
			return MinOrderNumber + rand.IntN(MaxOrderNumber-MinOrderNumber+1)
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Password returns the shared fixture password.
func (s *Store) Password() string { return s.password }

// NewSession starts an anonymous session and returns its id.
func (s *Store) NewSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.sessions[id] = &Session{ID: id}
	return id
}

// HasSession reports whether id names a live session.
func (s *Store) HasSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	return ok
}

// Snapshot returns a copy of the session state.
func (s *Store) Snapshot(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNoSession
	}
	out := *sess
	out.Cart = append([]CartLine(nil), sess.Cart...)
	out.Favourites = append([]int(nil), sess.Favourites...)
	out.Orders = append([]Order(nil), sess.Orders...)
	return out, nil
}

// SignIn authenticates the session as username. Seeded favourites and
// orders of the fixture are loaded; the cart is kept.
func (s *Store) SignIn(id, username, password string) error {
	user, ok := LookupUser(username)
	if !ok {
		return ErrUnknownUser
	}
	if password != s.password {
		return ErrWrongPassword
	}
	if user.Locked {
		return ErrLockedUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return ErrNoSession
	}
	sess.User = &user
	sess.Favourites = append([]int(nil), user.SeedFavourites...)
	sess.Orders = nil
	sess.LastOrder = nil
	if user.SeedOrders {
		sess.Orders = seededOrders(s.now())
	}
	return nil
}

// SignOut forgets everything about the session.
func (s *Store) SignOut(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; ok {
		s.sessions[id] = &Session{ID: id}
	}
}

func (s *Store) signedIn(id string) (*Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	if sess.User == nil {
		return nil, ErrNotSignedIn
	}
	return sess, nil
}

// AddToCart puts one more of the product in the cart and returns the new
// total quantity.
func (s *Store) AddToCart(id string, productID int) (int, error) {
	product, ok := ProductByID(productID)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownProduct, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.signedIn(id)
	if err != nil {
		return 0, err
	}
	found := false
	for i := range sess.Cart {
		if sess.Cart[i].Product.ID == productID {
			sess.Cart[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		sess.Cart = append(sess.Cart, CartLine{Product: product, Quantity: 1})
	}
	return quantity(sess.Cart), nil
}

// ToggleFavourite flips the favourite mark of a product and returns the new mark.
func (s *Store) ToggleFavourite(id string, productID int) (bool, error) {
	if _, ok := ProductByID(productID); !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownProduct, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.signedIn(id)
	if err != nil {
		return false, err
	}
	for i, fav := range sess.Favourites {
		if fav == productID {
			sess.Favourites = append(sess.Favourites[:i], sess.Favourites[i+1:]...)
			return false, nil
		}
	}
	sess.Favourites = append(sess.Favourites, productID)
	return true, nil
}

// Checkout turns the cart into an order shipped to addr and empties the cart.
func (s *Store) Checkout(id string, addr Address) (*Order, error) {
	if err := addr.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.signedIn(id)
	if err != nil {
		return nil, err
	}
	if len(sess.Cart) == 0 {
		return nil, ErrEmptyCart
	}

	number := s.orderNumber()
	if number < MinOrderNumber || number > MaxOrderNumber {
		return nil, fmt.Errorf("%w: %d", ErrOrderNumberInvalid, number)
	}

	order := Order{
		ID:       uuid.New().String(),
		Number:   number,
		PlacedAt: s.now(),
		Lines:    sess.Cart,
		ShipTo:   addr,
	}
	for _, l := range order.Lines {
		order.TotalCents += l.Subtotal()
	}
	sess.Cart = nil
	sess.Orders = append([]Order{order}, sess.Orders...)
	sess.LastOrder = &order
	return &order, nil
}

// LastOrder returns the order placed most recently in this session.
func (s *Store) LastOrder(id string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.signedIn(id)
	if err != nil {
		return nil, err
	}
	if sess.LastOrder == nil {
		return nil, ErrNoOrderPlaced
	}
	order := *sess.LastOrder
	return &order, nil
}

// Quantity returns the total number of items in the cart.
func (sess Session) Quantity() int { return quantity(sess.Cart) }

// Total returns the cart total in cents.
func (sess Session) Total() int64 {
	var total int64
	for _, l := range sess.Cart {
		total += l.Subtotal()
	}
	return total
}

// IsFavourite reports whether productID is marked as a favourite.
func (sess Session) IsFavourite(productID int) bool {
	for _, fav := range sess.Favourites {
		if fav == productID {
			return true
		}
	}
	return false
}

// FavouriteProducts returns the favourite products in shelf order.
func (sess Session) FavouriteProducts() []Product {
	var out []Product
	for _, p := range catalog {
		if sess.IsFavourite(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

func quantity(cart []CartLine) int {
	n := 0
	for _, l := range cart {
		n += l.Quantity
	}
	return n
}

func seededOrders(now time.Time) []Order {
	ship := Address{
		FirstName:    "Existing",
		LastName:     "Customer",
		AddressLine1: "1 Infinite Loop",
		Province:     "California",
		PostalCode:   "95014",
	}
	var orders []Order
	for i, ids := range [][]int{{3}, {10, 16}} {
		var lines []CartLine
		var total int64
		for _, pid := range ids {
			p, _ := ProductByID(pid)
			lines = append(lines, CartLine{Product: p, Quantity: 1})
			total += p.PriceCents
		}
		orders = append(orders, Order{
			ID:         uuid.New().String(),
			Number:     10 + i,
			PlacedAt:   now.AddDate(0, 0, -7*(i+1)),
			Lines:      lines,
			TotalCents: total,
			ShipTo:     ship,
		})
	}
	return orders
}
