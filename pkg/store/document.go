package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"storefront/pkg/models"
)

// UserIDPrefix is the fixed prefix of every user ID.
const UserIDPrefix = "C"

// Document is the root object holding every persisted entity.
type Document struct {
	Users   []models.User   `json:"user"`
	Menu    json.RawMessage `json:"menu"`
	Orders  []models.Order  `json:"orders"`
	Banners []models.Banner `json:"banners"`
	// UserSeq is the last user sequence number handed out. It only grows,
	// so IDs are never reused even if records are removed.
	UserSeq int `json:"userSeq"`

	// Extra holds top-level keys this service does not use.
	Extra map[string]json.RawMessage `json:"-"`
}

var documentKeys = []string{"user", "menu", "orders", "banners", "userSeq"}

// Parse decodes a raw document. Numbers inside open records such as orders
// are kept as json.Number so they are written back exactly as read.
func Parse(raw []byte) (*Document, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("parse document: empty input")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	extra, err := models.SplitExtra(raw, documentKeys...)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	doc.Extra = extra
	doc.normalize()
	return &doc, nil
}

// Encode serializes the document the way it is written to the backend.
func (d *Document) Encode() ([]byte, error) {
	var v any = d
	if len(d.Extra) > 0 {
		base, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("encode document: %w", err)
		}
		merged, err := models.MergeExtra(base, d.Extra)
		if err != nil {
			return nil, fmt.Errorf("encode document: %w", err)
		}
		v = json.RawMessage(merged)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// FindUserByEmail returns the index of the user with the given email or -1.
func (d *Document) FindUserByEmail(email string) int {
	for i := range d.Users {
		if d.Users[i].Email == email {
			return i
		}
	}
	return -1
}

// FindUserByID returns the index of the user with the given ID or -1.
func (d *Document) FindUserByID(id string) int {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return i
		}
	}
	return -1
}

// NextUserID advances the sequence and returns the new ID, e.g. C01, C02 ... C100.
func (d *Document) NextUserID() string {
	d.UserSeq++
	return fmt.Sprintf("%s%02d", UserIDPrefix, d.UserSeq)
}

func (d *Document) clone() (*Document, error) {
	raw, err := d.Encode()
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// normalize fills empty collections and lifts UserSeq past any existing ID,
// which covers documents written before the counter existed.
func (d *Document) normalize() {
	if d.Users == nil {
		d.Users = []models.User{}
	}
	if d.Orders == nil {
		d.Orders = []models.Order{}
	}
	if d.Banners == nil {
		d.Banners = []models.Banner{}
	}
	for _, u := range d.Users {
		if n, ok := userSeq(u.ID); ok && n > d.UserSeq {
			d.UserSeq = n
		}
	}
}

func userSeq(id string) (int, bool) {
	digits, ok := strings.CutPrefix(id, UserIDPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
