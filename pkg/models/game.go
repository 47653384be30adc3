package models

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Observation is the transient, freshly-fetched multi-source data for one
// game in one run. Every configured price source has an entry in Prices,
// even when the fetch failed — unavailability is an explicit unknown value,
// never a missing key.
type Observation struct {
	Title    string
	Prices   map[string]Price
	Playtime Playtime
}

// GameRecord is the persisted, cumulative per-game document, keyed by the
// slug of its title. Field names on the wire match the records the frontend
// already reads.
//
// OnSale is nil on the very first write: sale status is undefined until a
// second observation exists to compare against.
type GameRecord struct {
	Title    string                `json:"nombreJuego"`
	Prices   map[string]PriceEntry `json:"precios"`
	Playtime Playtime              `json:"howLongToBeat"`
	OnSale   *bool                 `json:"en_oferta,omitempty"`
}

// PriceEntry wraps a single source's price inside the stored record.
type PriceEntry struct {
	Precio Price `json:"precio"`
}

// PriceState distinguishes a real amount from the two sentinel outcomes a
// source can produce.
type PriceState int

const (
	PriceUnknown PriceState = iota // not found, or the fetch/parse failed
	PriceAmount
	PriceFree
)

// Price is one source's best-effort result. On the wire it is a number,
// the literal "Free", or null.
type Price struct {
	State  PriceState
	Amount float64
}

func Amount(v float64) Price { return Price{State: PriceAmount, Amount: v} }

func FreePrice() Price { return Price{State: PriceFree} }

func UnknownPrice() Price { return Price{State: PriceUnknown} }

func (p Price) IsKnown() bool { return p.State != PriceUnknown }

func (p Price) MarshalJSON() ([]byte, error) {
	switch p.State {
	case PriceAmount:
		return json.Marshal(p.Amount)
	case PriceFree:
		return json.Marshal("Free")
	default:
		return []byte("null"), nil
	}
}

func (p *Price) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*p = UnknownPrice()
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*p = Amount(v)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		*p = UnknownPrice()
		return nil
	}
	if strings.EqualFold(strings.TrimSpace(str), "free") {
		*p = FreePrice()
		return nil
	}
	// older records stored formatted prices like "$59.99"
	if v, ok := ParseAmount(str); ok {
		*p = Amount(v)
		return nil
	}
	*p = UnknownPrice()
	return nil
}

// PlaytimeUnknownMarker is what an unknown playtime looks like in storage.
const PlaytimeUnknownMarker = "Desconocido"

// Playtime is an estimated completion time in hours, or unknown when the
// estimator failed or returned no usable match.
type Playtime struct {
	Known bool
	Hours float64
}

func Hours(h float64) Playtime { return Playtime{Known: true, Hours: h} }

func UnknownPlaytime() Playtime { return Playtime{} }

func (p Playtime) MarshalJSON() ([]byte, error) {
	if !p.Known {
		return json.Marshal(PlaytimeUnknownMarker)
	}
	return json.Marshal(p.Hours)
}

func (p *Playtime) UnmarshalJSON(data []byte) error {
	var h float64
	if err := json.Unmarshal(data, &h); err == nil {
		*p = Hours(h)
		return nil
	}
	*p = UnknownPlaytime()
	return nil
}

var (
	slugStripRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	slugSpaceRunRe = regexp.MustCompile(`\s+`)
	amountRe       = regexp.MustCompile(`[0-9][0-9,]*(?:\.[0-9]+)?`)
)

// Slug converts a game title into the clean ID used as its storage key:
// lowercase, punctuation stripped, whitespace runs collapsed to single
// hyphens. Idempotent; two titles that normalize to the same slug collide,
// which is accepted.
func Slug(title string) string {
	s := slugStripRe.ReplaceAllString(strings.ToLower(title), "")
	s = strings.TrimSpace(s)
	return slugSpaceRunRe.ReplaceAllString(s, "-")
}

// ParseAmount pulls the first number out of a price string like "$1,299.99"
// or "59.99 USD". Returns false when the string has no digits.
func ParseAmount(s string) (float64, bool) {
	m := amountRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
