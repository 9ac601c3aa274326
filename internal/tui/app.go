package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/boighor/bookshop/internal/cart"
	"github.com/boighor/bookshop/internal/catalog"
	"github.com/boighor/bookshop/internal/checkout"
	checkouterrors "github.com/boighor/bookshop/internal/checkout/errors"
	"github.com/boighor/bookshop/internal/config"
	"github.com/boighor/bookshop/internal/domain/models"
	"github.com/boighor/bookshop/internal/gateway"
	"github.com/boighor/bookshop/internal/logger"
)

// screen represents which view the user is on.
type screen int

const (
	screenBrowse screen = iota
	screenCart
	screenCheckout
	screenOTP
	screenReceipt
	screenFailed
)

const gatewayTimeout = 15 * time.Second

type booksMsg struct {
	books []models.Book
	err   error
}

type submitResultMsg struct {
	gen uint64
	res gateway.InitiateResult
}

type verifyResultMsg struct {
	gen uint64
	res gateway.VerifyResult
}

type resendResultMsg struct {
	gen uint64
	res gateway.ResendResult
}

type tickMsg time.Time

// App is the bubbletea model binding the cart and the order session
// machine to the terminal. All machine mutations happen inside Update,
// which bubbletea runs on a single goroutine; gateway calls run as
// commands and come back as generation-tagged messages.
type App struct {
	cfg     *config.Config
	catalog *catalog.Client
	gw      gateway.VerificationGateway
	store   *cart.Store
	machine *checkout.Machine

	screen  screen
	books   list.Model
	loaded  bool
	cartSel int

	phone    textinput.Model
	address  textinput.Model
	payIdx   int
	focusIdx int

	otpPos  int
	ticking bool

	status string
	width  int
	height int
}

type bookItem struct {
	book models.Book
}

func (i bookItem) Title() string { return i.book.Title }
func (i bookItem) Description() string {
	return fmt.Sprintf("%s · %s · %s", i.book.Author, i.book.Genre, i.book.Price.Display())
}
func (i bookItem) FilterValue() string { return i.book.Title }

func NewApp(cfg *config.Config, cat *catalog.Client, gw gateway.VerificationGateway) *App {
	store := cart.New()
	machine := checkout.New(store,
		checkout.WithOTPLength(cfg.OTPLength),
		checkout.WithResendCooldown(cfg.ResendCooldown),
	)

	books := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	books.Title = "বইঘর · Boighor"
	books.SetShowStatusBar(false)
	books.SetFilteringEnabled(true)

	phone := textinput.New()
	phone.Placeholder = "+8801XXXXXXXXX"
	phone.CharLimit = 20
	phone.Focus()
	address := textinput.New()
	address.Placeholder = "House, Road, Area, City"
	address.CharLimit = 120

	return &App{
		cfg:     cfg,
		catalog: cat,
		gw:      gw,
		store:   store,
		machine: machine,
		screen:  screenBrowse,
		books:   books,
		phone:   phone,
		address: address,
	}
}

func (a *App) Init() tea.Cmd {
	return a.fetchBooks()
}

func (a *App) fetchBooks() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
		defer cancel()
		books, err := a.catalog.Books(ctx)
		return booksMsg{books: books, err: err}
	}
}

func (a *App) submitCmd(gen uint64, draft models.OrderDraft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
		defer cancel()
		return submitResultMsg{gen: gen, res: a.gw.Initiate(ctx, draft)}
	}
}

func (a *App) verifyCmd(gen uint64, token, code string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
		defer cancel()
		return verifyResultMsg{gen: gen, res: a.gw.Verify(ctx, token, code)}
	}
}

func (a *App) resendCmd(gen uint64, token string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
		defer cancel()
		return resendResultMsg{gen: gen, res: a.gw.Resend(ctx, token)}
	}
}

// tickCmd drives the expiry countdown once per second while a
// verification session is alive.
func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.books.SetSize(max(0, msg.Width-6), max(0, msg.Height-8))
		return a, nil

	case booksMsg:
		a.loaded = true
		if msg.err != nil {
			a.status = fmt.Sprintf("catalog unavailable: %v", msg.err)
			return a, nil
		}
		items := make([]list.Item, len(msg.books))
		for i, b := range msg.books {
			items[i] = bookItem{book: b}
		}
		a.books.SetItems(items)
		return a, nil

	case submitResultMsg:
		if err := a.machine.ResolveSubmit(msg.gen, msg.res); err != nil {
			a.logIgnored(err)
			return a, nil
		}
		if a.machine.State() == checkout.StateAwaitingVerification {
			a.screen = screenOTP
			a.otpPos = 0
			a.status = fmt.Sprintf("Code sent to %s", a.machine.Draft().PhoneNumber)
			return a, a.startTicker()
		}
		a.screen = screenFailed
		return a, nil

	case verifyResultMsg:
		if err := a.machine.ResolveVerify(msg.gen, msg.res); err != nil {
			a.logIgnored(err)
			return a, nil
		}
		switch a.machine.State() {
		case checkout.StateVerified:
			a.screen = screenReceipt
			a.ticking = false
		case checkout.StateAwaitingVerification:
			a.otpPos = 0
			if f := a.machine.Fault(); f != nil {
				a.status = fmt.Sprintf("Wrong code, %d attempt(s) left", f.AttemptsRemaining)
			}
		default:
			a.screen = screenFailed
			a.ticking = false
		}
		return a, nil

	case resendResultMsg:
		if err := a.machine.ResolveResend(msg.gen, msg.res); err != nil {
			a.logIgnored(err)
			return a, nil
		}
		if f := a.machine.Fault(); f != nil {
			a.status = fmt.Sprintf("Resend failed: %s", f.Detail)
		} else {
			a.otpPos = 0
			a.status = "A fresh code is on its way"
		}
		return a, nil

	case tickMsg:
		if !a.ticking {
			return a, nil
		}
		a.machine.Tick(time.Time(msg))
		switch a.machine.State() {
		case checkout.StateAwaitingVerification, checkout.StateVerifying, checkout.StateResending:
			return a, a.tickCmd()
		case checkout.StateExpired:
			a.ticking = false
			a.status = "Session expired, press r to start over"
		default:
			a.ticking = false
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.machine.Abandon()
			return a, tea.Quit
		}
		switch a.screen {
		case screenBrowse:
			return a.updateBrowse(msg)
		case screenCart:
			return a.updateCart(msg)
		case screenCheckout:
			return a.updateCheckout(msg)
		case screenOTP:
			return a.updateOTP(msg)
		case screenReceipt, screenFailed:
			return a.updateTerminal(msg)
		}
	}

	if a.screen == screenBrowse {
		var cmd tea.Cmd
		a.books, cmd = a.books.Update(msg)
		return a, cmd
	}
	return a, nil
}

// startTicker arms the countdown exactly once per session.
func (a *App) startTicker() tea.Cmd {
	if a.ticking {
		return nil
	}
	a.ticking = true
	return a.tickCmd()
}

func (a *App) logIgnored(err error) {
	if errors.Is(err, checkouterrors.ErrStaleGeneration) {
		log := logger.Get()
		log.Debug().Msg("dropped result for abandoned session")
		return
	}
	log := logger.Get()
	log.Debug().Err(err).Msg("ignored illegal transition")
}

func (a *App) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		a.machine.Abandon()
		return a, tea.Quit
	case "enter":
		if item, ok := a.books.SelectedItem().(bookItem); ok {
			if err := a.store.Add(item.book, 1); err == nil {
				a.status = fmt.Sprintf("Added %q · cart total %s", item.book.Title, a.store.Total().Display())
			}
		}
		return a, nil
	case "c":
		a.screen = screenCart
		a.cartSel = 0
		a.status = ""
		return a, nil
	}
	var cmd tea.Cmd
	a.books, cmd = a.books.Update(msg)
	return a, cmd
}

func (a *App) updateCart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lines := a.store.Lines()
	switch msg.String() {
	case "esc":
		a.screen = screenBrowse
		return a, nil
	case "up", "k":
		if a.cartSel > 0 {
			a.cartSel--
		}
	case "down", "j":
		if a.cartSel < len(lines)-1 {
			a.cartSel++
		}
	case "+", "=":
		if a.cartSel < len(lines) {
			l := lines[a.cartSel]
			_ = a.store.SetQuantity(l.BID, l.Quantity+1)
		}
	case "-":
		if a.cartSel < len(lines) {
			l := lines[a.cartSel]
			_ = a.store.SetQuantity(l.BID, l.Quantity-1)
			if a.cartSel >= a.store.Len() && a.cartSel > 0 {
				a.cartSel--
			}
		}
	case "d":
		if a.cartSel < len(lines) {
			a.store.Remove(lines[a.cartSel].BID)
			if a.cartSel >= a.store.Len() && a.cartSel > 0 {
				a.cartSel--
			}
		}
	case "enter":
		if a.store.Empty() {
			a.status = "Cart is empty"
			return a, nil
		}
		a.screen = screenCheckout
		a.focusIdx = 0
		a.phone.Focus()
		a.address.Blur()
		a.status = ""
	}
	return a, nil
}

func (a *App) updateCheckout(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.screen = screenCart
		return a, nil
	case "tab", "shift+tab":
		if msg.String() == "tab" {
			a.focusIdx = (a.focusIdx + 1) % 3
		} else {
			a.focusIdx = (a.focusIdx + 2) % 3
		}
		a.phone.Blur()
		a.address.Blur()
		switch a.focusIdx {
		case 0:
			a.phone.Focus()
		case 1:
			a.address.Focus()
		}
		return a, nil
	case "left", "right":
		if a.focusIdx == 2 {
			n := len(models.PaymentMethods())
			if msg.String() == "right" {
				a.payIdx = (a.payIdx + 1) % n
			} else {
				a.payIdx = (a.payIdx + n - 1) % n
			}
			return a, nil
		}
	case "enter":
		return a.submitDraft()
	}

	var cmd tea.Cmd
	switch a.focusIdx {
	case 0:
		a.phone, cmd = a.phone.Update(msg)
	case 1:
		a.address, cmd = a.address.Update(msg)
	}
	return a, cmd
}

func (a *App) submitDraft() (tea.Model, tea.Cmd) {
	draft := models.OrderDraft{
		PhoneNumber:   checkout.NormalizePhone(a.phone.Value()),
		Address:       a.address.Value(),
		PaymentMethod: models.PaymentMethods()[a.payIdx],
		Items:         a.store.Snapshot(),
	}
	gen, err := a.machine.Submit(draft)
	if err != nil {
		switch {
		case errors.Is(err, checkouterrors.ErrInvalidDraft):
			a.status = "Check the phone number and address"
		case errors.Is(err, checkouterrors.ErrEmptyCart):
			a.status = "Cart is empty"
		default:
			a.logIgnored(err)
		}
		return a, nil
	}
	a.status = "Placing order..."
	return a, a.submitCmd(gen, draft)
}

func (a *App) updateOTP(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := a.machine.State()

	switch msg.String() {
	case "r":
		if state == checkout.StateExpired {
			return a.restart()
		}
		gen, err := a.machine.Resend()
		if err != nil {
			switch {
			case errors.Is(err, checkouterrors.ErrResendCooldown):
				a.status = fmt.Sprintf("Resend available in %ds", int(a.machine.ResendAvailableIn().Seconds()))
			case errors.Is(err, checkouterrors.ErrSessionExpired):
				a.status = "Session expired, press r to start over"
			default:
				a.logIgnored(err)
			}
			return a, nil
		}
		a.status = "Resending code..."
		return a, a.resendCmd(gen, a.machine.SessionToken())

	case "backspace":
		if a.otpPos > 0 {
			a.otpPos--
			a.machine.ClearDigit(a.otpPos)
		}
		return a, nil

	case "enter":
		if !a.machine.CodeComplete() {
			a.status = "Enter the full code first"
			return a, nil
		}
		gen, err := a.machine.Verify(a.machine.Code())
		if err != nil {
			if errors.Is(err, checkouterrors.ErrSessionExpired) {
				a.status = "Session expired, press r to start over"
			} else {
				a.logIgnored(err)
			}
			return a, nil
		}
		a.status = "Verifying..."
		return a, a.verifyCmd(gen, a.machine.SessionToken(), a.machine.Code())

	case "esc":
		a.machine.Abandon()
		a.ticking = false
		a.screen = screenFailed
		a.status = "Checkout abandoned"
		return a, nil
	}

	if len(msg.String()) == 1 {
		c := msg.String()[0]
		if c >= '0' && c <= '9' && a.otpPos < a.machine.OTPLength() {
			if err := a.machine.EnterDigit(a.otpPos, c); err == nil {
				a.otpPos++
			}
		}
	}
	return a, nil
}

func (a *App) updateTerminal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "n", "r":
		return a.restart()
	}
	return a, nil
}

func (a *App) restart() (tea.Model, tea.Cmd) {
	if err := a.machine.Restart(); err != nil {
		a.logIgnored(err)
		return a, nil
	}
	a.ticking = false
	a.otpPos = 0
	a.status = ""
	if a.store.Empty() {
		a.screen = screenBrowse
	} else {
		a.screen = screenCheckout
		a.focusIdx = 0
		a.phone.Focus()
	}
	return a, nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
