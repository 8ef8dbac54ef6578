// Package models holds the entities persisted in the storefront document.
package models

import "encoding/json"

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// User is a registered customer account. Fields this service does not know
// about are kept in Extra and written back unchanged.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash,omitempty"`
	// Password is only present on records written before hashing was
	// introduced. It is cleared on the first successful login.
	Password string `json:"password,omitempty"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Birthday string `json:"birthday,omitempty"`
	// CreatedAt is kept as stored; new accounts use TimestampLayout.
	CreatedAt string `json:"createdAt,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

type plainUser User

var userKeys = []string{"id", "email", "passwordHash", "password", "name", "phone", "birthday", "createdAt"}

// UnmarshalJSON decodes the known fields and collects the rest into Extra.
func (u *User) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*plainUser)(u)); err != nil {
		return err
	}
	extra, err := SplitExtra(data, userKeys...)
	if err != nil {
		return err
	}
	u.Extra = extra
	return nil
}

// MarshalJSON encodes the known fields plus Extra.
func (u User) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(plainUser(u))
	if err != nil {
		return nil, err
	}
	return MergeExtra(base, u.Extra)
}

// Profile is the public view of a User, without credentials.
type Profile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Birthday  string `json:"birthday"`
	CreatedAt string `json:"createdAt"`
}

// Profile strips credential fields from u.
func (u User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Birthday:  u.Birthday,
		CreatedAt: u.CreatedAt,
	}
}

// Order field names assigned or read by the server.
const (
	OrderIDField        = "orderId"
	OrderTimestampField = "timestamp"
	OrderUserIDField    = "userId"
)

// Order is an open record: the client decides its shape (items, total,
// userId, ...) and the server only owns orderId and timestamp.
type Order map[string]any

// ID returns the server-assigned order ID.
func (o Order) ID() string {
	s, _ := o[OrderIDField].(string)
	return s
}

// Timestamp returns the ISO-8601 creation time.
func (o Order) Timestamp() string {
	s, _ := o[OrderTimestampField].(string)
	return s
}

// UserID returns the caller-supplied owner, or "" when missing or not a string.
func (o Order) UserID() string {
	s, _ := o[OrderUserIDField].(string)
	return s
}

// Menu is read-only reference data. Raw fields are kept so that keys this
// service does not know about survive a flush untouched.
type Menu struct {
	Categories json.RawMessage `json:"categories"`
	Products   json.RawMessage `json:"products"`
	Extras     json.RawMessage `json:"extras"`
}

// Banner is a single homepage banner record, stored verbatim.
type Banner = json.RawMessage
