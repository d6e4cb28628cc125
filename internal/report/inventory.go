package report

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/medcarehq/medcare/internal/model"
)

// Sort modes for the inventory view.
const (
	SortAlphabetical = "az"
	SortExpiry       = "expiry"
	SortStock        = "stock"
)

// expiryWindowDays is the "expiring soon" horizon, inclusive at the boundary.
const expiryWindowDays = 30

const expiryDateFormat = "2006-01-02"

// InventoryQuery holds the four independent selection criteria. Empty or
// "all" values disable the corresponding filter.
type InventoryQuery struct {
	Search   string
	Category string
	Status   string
	Sort     string
}

// FilterMedicines returns the items matching every active criterion: the
// search text (case-insensitive) must appear in the name or in a use-case
// tag, and category and status must match when selected.
func FilterMedicines(items []model.Medicine, q InventoryQuery) []model.Medicine {
	search := strings.ToLower(q.Search)

	var out []model.Medicine
	for _, item := range items {
		if search != "" && !matchesSearch(item, search) {
			continue
		}
		if q.Category != "" && q.Category != "all" && item.Category != q.Category {
			continue
		}
		if q.Status != "" && q.Status != "all" && string(item.Status) != q.Status {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesSearch(item model.Medicine, search string) bool {
	if strings.Contains(strings.ToLower(item.Name), search) {
		return true
	}
	for _, uc := range item.UseCases {
		if strings.Contains(strings.ToLower(uc), search) {
			return true
		}
	}
	return false
}

// SortMedicines returns a sorted copy of items. Alphabetical mode uses
// locale-aware case-insensitive collation; expiry mode orders earliest
// expiry first; stock mode orders highest quantity first. An unknown
// mode leaves the order unchanged.
func SortMedicines(items []model.Medicine, mode string) []model.Medicine {
	out := append([]model.Medicine(nil), items...)

	switch mode {
	case SortAlphabetical:
		c := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Name, out[j].Name) < 0
		})
	case SortExpiry:
		sort.SliceStable(out, func(i, j int) bool {
			return parseExpiry(out[i].ExpiryDate).Before(parseExpiry(out[j].ExpiryDate))
		})
	case SortStock:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Quantity > out[j].Quantity
		})
	}
	return out
}

// AlphaGroup is one first-letter bucket of the alphabetical view.
type AlphaGroup struct {
	Letter string           `json:"letter"`
	Items  []model.Medicine `json:"items"`
}

// AlphaGroups buckets items by the uppercased first character of their
// name, buckets ordered by letter. Items with an empty name are skipped.
func AlphaGroups(items []model.Medicine) []AlphaGroup {
	byLetter := make(map[string][]model.Medicine)
	for _, item := range items {
		if item.Name == "" {
			continue
		}
		letter := string(unicode.ToUpper([]rune(item.Name)[0]))
		byLetter[letter] = append(byLetter[letter], item)
	}

	groups := make([]AlphaGroup, 0, len(byLetter))
	for letter, items := range byLetter {
		groups = append(groups, AlphaGroup{Letter: letter, Items: items})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Letter < groups[j].Letter })
	return groups
}

// AlphaIndexEntry is one letter of the A-Z navigation strip.
type AlphaIndexEntry struct {
	Letter  string `json:"letter"`
	Enabled bool   `json:"enabled"`
}

// AlphaIndex returns the full A-Z index with each letter enabled when its
// bucket is non-empty, plus the default selection: the first letter with
// members (empty string when there are none).
func AlphaIndex(groups []AlphaGroup) ([]AlphaIndexEntry, string) {
	nonEmpty := make(map[string]bool, len(groups))
	for _, g := range groups {
		if len(g.Items) > 0 {
			nonEmpty[g.Letter] = true
		}
	}

	index := make([]AlphaIndexEntry, 0, 26)
	selected := ""
	for ch := 'A'; ch <= 'Z'; ch++ {
		letter := string(ch)
		enabled := nonEmpty[letter]
		if enabled && selected == "" {
			selected = letter
		}
		index = append(index, AlphaIndexEntry{Letter: letter, Enabled: enabled})
	}
	return index, selected
}

// InventorySummary holds the dashboard's summary numbers, computed over
// the unfiltered item list.
type InventorySummary struct {
	TotalItems    int     `json:"total_items"`
	LowStockCount int     `json:"low_stock_count"`
	ExpiringSoon  int     `json:"expiring_soon"`
	TotalValue    float64 `json:"total_value"`
}

// Summarize derives the summary numbers. Low stock counts low-stock and
// out-of-stock items; expiring-soon counts items whose expiry date falls
// within 30 days of now, inclusive at exactly 30 days. The total value
// is rounded to two decimals.
func Summarize(items []model.Medicine, now time.Time) InventorySummary {
	s := InventorySummary{TotalItems: len(items)}
	horizon := now.AddDate(0, 0, expiryWindowDays)

	var value float64
	for _, item := range items {
		if item.Status == model.MedicineLowStock || item.Status == model.MedicineOutOfStock {
			s.LowStockCount++
		}
		if exp, err := time.Parse(expiryDateFormat, item.ExpiryDate); err == nil && !exp.After(horizon) {
			s.ExpiringSoon++
		}
		value += float64(item.Quantity) * item.UnitPrice
	}

	s.TotalValue = math.Round(value*100) / 100
	return s
}

func parseExpiry(date string) time.Time {
	t, err := time.Parse(expiryDateFormat, date)
	if err != nil {
		return time.Time{}
	}
	return t
}
