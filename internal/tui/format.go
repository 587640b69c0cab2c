package tui

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jask/recruitdesk/internal/projection"
)

// formatter renders projected values for cells and detail rows.
type formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

func newFormatter(locale, code string) formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.USD
	}
	return formatter{printer: message.NewPrinter(tag), unit: unit}
}

// isMoney reports whether a field holds an amount of money, judged by its path.
func isMoney(path string) bool {
	p := strings.ToLower(path)
	return strings.Contains(p, "revenue") || strings.Contains(p, "salary")
}

// Value formats v. Missing values render as a dash.
func (f formatter) Value(field projection.Field) string {
	if !field.Present || field.Value == nil {
		return "-"
	}
	switch v := field.Value.(type) {
	case string:
		if v == "" {
			return "-"
		}
		return v
	case projection.Identity:
		if v.Name == "" {
			return v.ID
		}
		return v.Name
	case time.Time:
		if v.IsZero() {
			return "-"
		}
		return v.Format("2006-01-02")
	case float64:
		if isMoney(field.Path) {
			return f.Money(v)
		}
		return f.Number(v)
	case int64:
		if isMoney(field.Path) {
			return f.Money(float64(v))
		}
		return f.printer.Sprintf("%d", v)
	case int:
		return f.printer.Sprintf("%d", v)
	case []any:
		return f.printer.Sprintf("%d items", len(v))
	case map[string]any:
		return projection.Record(v).ID()
	default:
		return fmt.Sprint(v)
	}
}

// Number renders v with grouping and at most two decimals.
func (f formatter) Number(v float64) string {
	return f.printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(2)))
}

// Money renders v in whole currency units with grouping.
func (f formatter) Money(v float64) string {
	return f.unit.String() + " " + f.printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(0)))
}
