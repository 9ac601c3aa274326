package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/boighor/bookshop/internal/checkout"
	"github.com/boighor/bookshop/internal/domain/models"
	"github.com/boighor/bookshop/internal/gateway"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			MarginTop(1)
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)
	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	digitStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1)
	digitCursorStyle = digitStyle.
				BorderForeground(lipgloss.Color("#5B8DEF")).
				Bold(true)
)

func (a *App) View() string {
	var content, hint string
	switch a.screen {
	case screenBrowse:
		content = a.viewBrowse()
		hint = "Enter → add to cart    c → cart    q → quit"
	case screenCart:
		content = a.viewCart()
		hint = "+/- qty    d → remove    Enter → checkout    Esc → back"
	case screenCheckout:
		content = a.viewCheckout()
		hint = "Tab → next field    ←/→ payment    Enter → place order    Esc → back"
	case screenOTP:
		content = a.viewOTP()
		hint = "0-9 → enter code    Enter → verify    r → resend / restart    Esc → abandon"
	case screenReceipt:
		content = a.viewReceipt()
		hint = "n → new order    q → quit"
	case screenFailed:
		content = a.viewFailed()
		hint = "r → try again    q → quit"
	}

	sections := []string{
		titleStyle.Render("⬡ BOIGHOR CHECKOUT"),
		panelStyle.Render(content),
		hintStyle.Render(hint),
	}
	if a.status != "" {
		sections = append(sections, statusStyle.Render(a.status))
	}
	return strings.Join(sections, "\n")
}

func (a *App) viewBrowse() string {
	if !a.loaded {
		return "Loading catalog..."
	}
	header := fmt.Sprintf("Cart: %d line(s) · %s", a.store.Len(), a.store.Total().Display())
	return lipgloss.JoinVertical(lipgloss.Left, header, a.books.View())
}

func (a *App) viewCart() string {
	lines := a.store.Lines()
	if len(lines) == 0 {
		return "Your cart is empty."
	}
	rows := make([]string, 0, len(lines)+1)
	for i, l := range lines {
		row := fmt.Sprintf("%-32s ×%d  %s", l.Title, l.Quantity, (l.Price * models.Money(l.Quantity)).Display())
		if i == a.cartSel {
			row = selectedStyle.Render("▸ " + row)
		} else {
			row = "  " + row
		}
		rows = append(rows, row)
	}
	rows = append(rows, "", fmt.Sprintf("Total: %s", a.store.Total().Display()))
	return strings.Join(rows, "\n")
}

func (a *App) viewCheckout() string {
	methods := models.PaymentMethods()
	var pay []string
	for i, m := range methods {
		label := string(m)
		if i == a.payIdx {
			label = selectedStyle.Render("[" + label + "]")
		}
		pay = append(pay, label)
	}
	payLine := "Payment:  " + strings.Join(pay, "  ")
	if a.focusIdx == 2 {
		payLine = selectedStyle.Render("▸ ") + payLine
	} else {
		payLine = "  " + payLine
	}
	return strings.Join([]string{
		fmt.Sprintf("Order total: %s", a.store.Total().Display()),
		"",
		focusMark(a.focusIdx == 0) + "Phone:    " + a.phone.View(),
		focusMark(a.focusIdx == 1) + "Address:  " + a.address.View(),
		payLine,
	}, "\n")
}

func (a *App) viewOTP() string {
	var slots []string
	code := a.machine.Code()
	for i := 0; i < a.machine.OTPLength(); i++ {
		ch := "·"
		if i < len(code) && code[i] != ' ' {
			ch = string(code[i])
		}
		if i == a.otpPos && a.machine.State() == checkout.StateAwaitingVerification {
			slots = append(slots, digitCursorStyle.Render(ch))
		} else {
			slots = append(slots, digitStyle.Render(ch))
		}
	}
	boxes := lipgloss.JoinHorizontal(lipgloss.Top, slots...)

	var countdown string
	switch a.machine.State() {
	case checkout.StateExpired:
		countdown = "Session expired."
	case checkout.StateVerifying:
		countdown = "Verifying..."
	case checkout.StateResending:
		countdown = "Resending..."
	default:
		countdown = fmt.Sprintf("Expires in %s", formatCountdown(a.machine.Remaining()))
		if wait := a.machine.ResendAvailableIn(); wait > 0 {
			countdown += fmt.Sprintf(" · resend in %ds", int(wait.Seconds()))
		} else {
			countdown += " · resend available"
		}
		if n := a.machine.AttemptsRemaining(); n >= 0 {
			countdown += fmt.Sprintf(" · %d attempt(s) left", n)
		}
	}

	return strings.Join([]string{
		"Enter the code we texted you:",
		"",
		boxes,
		"",
		countdown,
	}, "\n")
}

func (a *App) viewReceipt() string {
	order := a.machine.Order()
	if order == nil {
		return "Order confirmed."
	}
	rows := []string{
		selectedStyle.Render("Order confirmed ✓"),
		"",
		fmt.Sprintf("Order ID:  %s", order.OID),
		fmt.Sprintf("Phone:     %s", order.PhoneNumber),
		fmt.Sprintf("Deliver:   %s", order.Address),
		fmt.Sprintf("Payment:   %s", order.PaymentMethod),
		"",
	}
	for _, it := range order.Items {
		rows = append(rows, fmt.Sprintf("  %-32s ×%d  %s", it.Title, it.Quantity, (it.Price*models.Money(it.Quantity)).Display()))
	}
	rows = append(rows, "", fmt.Sprintf("Total: %s", order.Total.Display()))
	return strings.Join(rows, "\n")
}

func (a *App) viewFailed() string {
	rows := []string{"Checkout did not complete."}
	if f := a.machine.Fault(); f != nil {
		rows = append(rows, "", fmt.Sprintf("Reason: %s", faultMessage(f.Kind)))
	}
	if !a.store.Empty() {
		rows = append(rows, "", "Your cart is untouched; try again when ready.")
	}
	return strings.Join(rows, "\n")
}

func focusMark(focused bool) string {
	if focused {
		return selectedStyle.Render("▸ ")
	}
	return "  "
}

func formatCountdown(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func faultMessage(kind gateway.FaultKind) string {
	switch kind {
	case gateway.FaultNetworkUnavailable:
		return "could not reach the bookshop, check your connection"
	case gateway.FaultWrongCode:
		return "the code did not match"
	case gateway.FaultAttemptsExhausted:
		return "too many wrong codes"
	case gateway.FaultSessionExpired:
		return "the verification window closed"
	case gateway.FaultInvalidSession:
		return "the session is no longer valid"
	default:
		return "the bookshop had a problem processing the order"
	}
}
