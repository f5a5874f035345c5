package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatRupiah renders d the way receipts print it: "Rp 1.250.000", with
// a two digit fraction only when there is one ("Rp 12.500,50").
func FormatRupiah(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	d = d.Round(2)
	whole := d.Truncate(0)
	out := sign + "Rp " + groupThousands(whole.String())

	if frac := d.Sub(whole); !frac.IsZero() {
		out += fmt.Sprintf(",%02d", frac.Shift(2).IntPart())
	}

	return out
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var sb strings.Builder

	lead := len(digits) % 3
	if lead > 0 {
		sb.WriteString(digits[:lead])
	}

	for i := lead; i < len(digits); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}

		sb.WriteString(digits[i : i+3])
	}

	return sb.String()
}

const dateLayout = "02-01-2006"

// Text renders the statement as a chat message.
func (s *Statement) Text(shop string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n", shop)
	fmt.Fprintf(&sb, "Rincian hutang %s per %s\n\n", s.CustomerName, s.AsOf.Format(dateLayout))

	if len(s.Lines) == 0 {
		sb.WriteString("Tidak ada hutang yang belum lunas.\n")
		return sb.String()
	}

	for _, l := range s.Lines {
		fmt.Fprintf(&sb, "* %s | %s | Total %s | Dibayar %s | Sisa %s\n",
			l.InvoiceCode, l.Date.Format(dateLayout),
			FormatRupiah(l.Total), FormatRupiah(l.Paid), FormatRupiah(l.Remaining))
	}

	fmt.Fprintf(&sb, "\nTotal sisa hutang: %s\n", FormatRupiah(s.Outstanding()))

	return sb.String()
}
