package storefront

import "errors"

// User is a fixture account and the behaviour the shop gives it.
type User struct {
	Name string
	// BrokenImages serves product images that never load.
	BrokenImages bool
	// Locked accounts are refused at sign-in.
	Locked bool
	// SeedOrders are placed in the order history at sign-in.
	SeedOrders bool
	// SeedFavourites are product ids marked as favourites at sign-in.
	SeedFavourites []int
}

var users = []User{
	{Name: "demouser"},
	{Name: "image_not_loading_user", BrokenImages: true},
	{Name: "existing_orders_user", SeedOrders: true},
	{Name: "fav_user", SeedFavourites: []int{1, 9, 16}},
	{Name: "locked_user", Locked: true},
}

var (
	ErrUnknownUser   = errors.New("invalid username")
	ErrWrongPassword = errors.New("invalid password")
	ErrLockedUser    = errors.New("account is locked")
)

// SignInMessage is the text the sign-in page shows for a rejected attempt.
func SignInMessage(err error) string {
	switch {
	case errors.Is(err, ErrLockedUser):
		return "Your account has been locked."
	case errors.Is(err, ErrWrongPassword):
		return "Invalid Password"
	default:
		return "Invalid Username"
	}
}

// Usernames lists the fixture accounts in dropdown order.
func Usernames() []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Name)
	}
	return out
}

// LookupUser finds a fixture account by name.
func LookupUser(name string) (User, bool) {
	for _, u := range users {
		if u.Name == name {
			return u, true
		}
	}
	return User{}, false
}
