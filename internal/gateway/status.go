package gateway

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"resto_pos_terminal/internal/models"
)

// foldStatus lowercases, strips Vietnamese diacritics and collapses separators,
// so "Đang trống", "dang_trong" and "DANG TRONG" all become "dang trong".
func foldStatus(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.NewReplacer("đ", "d", "Đ", "D", "_", " ", "-", " ").Replace(folded)
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

var tableStatusAliases = map[string]models.TableStatus{
	"available":       models.TableStatusAvailable,
	"free":            models.TableStatusAvailable,
	"empty":           models.TableStatusAvailable,
	"trong":           models.TableStatusAvailable,
	"dang trong":      models.TableStatusAvailable,
	"con trong":       models.TableStatusAvailable,
	"ban trong":       models.TableStatusAvailable,
	"occupied":        models.TableStatusOccupied,
	"in use":          models.TableStatusOccupied,
	"serving":         models.TableStatusOccupied,
	"open":            models.TableStatusOccupied,
	"co khach":        models.TableStatusOccupied,
	"dang phuc vu":    models.TableStatusOccupied,
	"dang su dung":    models.TableStatusOccupied,
	"reserved":        models.TableStatusReserved,
	"booked":          models.TableStatusReserved,
	"da dat":          models.TableStatusReserved,
	"dat truoc":       models.TableStatusReserved,
	"da dat truoc":    models.TableStatusReserved,
	"cleaning":        models.TableStatusCleaningNeeded,
	"cleaning needed": models.TableStatusCleaningNeeded,
	"dirty":           models.TableStatusCleaningNeeded,
	"can don":         models.TableStatusCleaningNeeded,
	"dang don":        models.TableStatusCleaningNeeded,
	"can don dep":     models.TableStatusCleaningNeeded,
}

// NormalizeTableStatus maps a backend table status string onto the closed enum.
func NormalizeTableStatus(raw string) (models.TableStatus, bool) {
	status, ok := tableStatusAliases[foldStatus(raw)]
	return status, ok
}

var reservationStatusAliases = map[string]models.ReservationStatus{
	"booked":       models.ReservationStatusBooked,
	"pending":      models.ReservationStatusBooked,
	"confirmed":    models.ReservationStatusBooked,
	"da dat":       models.ReservationStatusBooked,
	"cho xac nhan": models.ReservationStatusBooked,
	"seated":       models.ReservationStatusSeated,
	"arrived":      models.ReservationStatusSeated,
	"checked in":   models.ReservationStatusSeated,
	"da den":       models.ReservationStatusSeated,
	"cancelled":    models.ReservationStatusCancelled,
	"canceled":     models.ReservationStatusCancelled,
	"da huy":       models.ReservationStatusCancelled,
	"no show":      models.ReservationStatusNoShow,
	"noshow":       models.ReservationStatusNoShow,
	"khong den":    models.ReservationStatusNoShow,
}

// NormalizeReservationStatus maps a backend booking status string onto the closed enum.
func NormalizeReservationStatus(raw string) (models.ReservationStatus, bool) {
	status, ok := reservationStatusAliases[foldStatus(raw)]
	return status, ok
}
