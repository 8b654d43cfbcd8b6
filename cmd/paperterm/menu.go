package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/paperstreet/paperbroker/db"
	"github.com/paperstreet/paperbroker/models"
	"github.com/paperstreet/paperbroker/service/account"
	"github.com/paperstreet/paperbroker/service/registry"
)

type menu struct {
	services registry.Registry
	in       *bufio.Reader
	out      io.Writer
}

func newMenu(services registry.Registry, in io.Reader, out io.Writer) *menu {
	return &menu{
		services: services,
		in:       bufio.NewReader(in),
		out:      out,
	}
}

func (m *menu) run() {
	fmt.Fprintln(m.out, "Welcome to paperbroker.")

	for {
		acct := m.loginMenu()
		if acct == nil {
			break
		}
		m.mainMenu(acct)
	}

	fmt.Fprintln(m.out, "Goodbye.")
}

func (m *menu) prompt(label string) string {
	fmt.Fprint(m.out, label)
	line, err := m.in.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func (m *menu) promptDecimal(label string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(m.prompt(label))
	if err != nil {
		fmt.Fprintln(m.out, "That's not a number.")
		return decimal.Zero, false
	}
	return d, true
}

// loginMenu loops until a successful login or quit. Returns nil to quit.
func (m *menu) loginMenu() *models.Account {
	for {
		fmt.Fprintln(m.out, "\n[1] Create account  [2] Log in  [3] Quit")

		switch m.prompt("> ") {
		case "1":
			m.createAccount()
		case "2":
			username := m.prompt("Username: ")
			password := m.prompt("Password: ")
			acct, err := m.services.Account().WithTx(db.DB()).Authenticate(username, password)
			if err != nil {
				fmt.Fprintln(m.out, "Invalid username or password.")
				continue
			}
			return acct
		case "3":
			return nil
		default:
			fmt.Fprintln(m.out, "Please pick one of the menu options.")
		}
	}
}

func (m *menu) createAccount() {
	req := &account.RegisterRequest{
		FirstName: m.prompt("First name: "),
		LastName:  m.prompt("Last name: "),
		Username:  m.prompt("Username: "),
		Email:     m.prompt("Email: "),
		Password:  m.prompt("Password: "),
	}

	tx := db.Begin()
	acct, err := m.services.Account().WithTx(tx).Create(req)
	if err != nil {
		tx.Rollback()
		fmt.Fprintf(m.out, "Could not create account: %v\n", err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		fmt.Fprintf(m.out, "Could not create account: %v\n", err)
		return
	}

	fmt.Fprintf(m.out, "Account created. Your account number is %d.\n", acct.AccountNumber)
}

func (m *menu) mainMenu(acct *models.Account) {
	for {
		fmt.Fprintln(m.out, "\n[1] Balance  [2] Deposit  [3] Buy/Sell  [4] Quote  [5] Positions  [6] Trades  [7] Sign out")
		if acct.Admin {
			fmt.Fprintln(m.out, "[8] All holdings  [9] Grant admin")
		}

		choice := m.prompt("> ")

		switch choice {
		case "1":
			m.showBalance(acct)
		case "2":
			m.deposit(acct)
		case "3":
			m.buySell(acct)
		case "4":
			m.quote()
		case "5":
			m.positions(acct)
		case "6":
			m.trades(acct)
		case "7":
			return
		case "8":
			if acct.Admin {
				m.allHoldings()
				continue
			}
			fmt.Fprintln(m.out, "Please pick one of the menu options.")
		case "9":
			if acct.Admin {
				m.grantAdmin()
				continue
			}
			fmt.Fprintln(m.out, "Please pick one of the menu options.")
		default:
			fmt.Fprintln(m.out, "Please pick one of the menu options.")
		}
	}
}

func (m *menu) showBalance(acct *models.Account) {
	fresh, err := m.services.Account().WithTx(db.DB()).GetByID(acct.ID)
	if err != nil {
		fmt.Fprintf(m.out, "Could not load account: %v\n", err)
		return
	}
	acct.Balance = fresh.Balance
	fmt.Fprintf(m.out, "Balance: %s\n", acct.Balance.StringFixed(2))
}

func (m *menu) deposit(acct *models.Account) {
	amount, ok := m.promptDecimal("Amount to deposit: ")
	if !ok {
		return
	}

	tx := db.Begin()
	fresh, err := m.services.Account().WithTx(tx).Deposit(acct.ID, amount)
	if err != nil {
		tx.Rollback()
		fmt.Fprintf(m.out, "Deposit failed: %v\n", err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		fmt.Fprintf(m.out, "Deposit failed: %v\n", err)
		return
	}

	acct.Balance = fresh.Balance
	fmt.Fprintf(m.out, "Balance: %s\n", acct.Balance.StringFixed(2))
}

func (m *menu) buySell(acct *models.Account) {
	ticker := m.prompt("Ticker: ")
	side := m.prompt("[1] Buy  [2] Sell > ")
	if side != "1" && side != "2" {
		fmt.Fprintln(m.out, "Please pick one of the menu options.")
		return
	}

	volume, ok := m.promptDecimal("Volume: ")
	if !ok {
		return
	}

	tx := db.Begin()
	srv := m.services.Trading().WithTx(tx)

	var err error
	if side == "1" {
		_, err = srv.Buy(acct.ID, ticker, volume)
	} else {
		_, err = srv.Sell(acct.ID, ticker, volume)
	}

	if err != nil {
		tx.Rollback()
		fmt.Fprintf(m.out, "Trade rejected: %v\n", err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		fmt.Fprintf(m.out, "Trade failed: %v\n", err)
		return
	}

	fmt.Fprintln(m.out, "Done.")
	m.showBalance(acct)
}

func (m *menu) quote() {
	ticker := m.prompt("Ticker: ")

	price, err := m.services.Trading().WithTx(db.DB()).Quote(ticker)
	if err != nil {
		fmt.Fprintf(m.out, "Quote failed: %v\n", err)
		return
	}

	fmt.Fprintf(m.out, "%s: %s\n", strings.ToUpper(strings.TrimSpace(ticker)), price.StringFixed(2))
}

func (m *menu) positions(acct *models.Account) {
	positions, err := m.services.Position().WithTx(db.DB()).List(acct.ID)
	if err != nil {
		fmt.Fprintf(m.out, "Could not load positions: %v\n", err)
		return
	}

	if len(positions) == 0 {
		fmt.Fprintln(m.out, "No open positions.")
		return
	}

	for _, p := range positions {
		fmt.Fprintf(m.out, "%-8s %s shares\n", p.Ticker, p.Shares.String())
	}
}

func (m *menu) trades(acct *models.Account) {
	trades, err := m.services.Trade().WithTx(db.DB()).List(acct.ID)
	if err != nil {
		fmt.Fprintf(m.out, "Could not load trades: %v\n", err)
		return
	}

	if len(trades) == 0 {
		fmt.Fprintln(m.out, "No trades yet.")
		return
	}

	for _, t := range trades {
		fmt.Fprintf(m.out, "%s  %-4s %-8s %s @ %s\n",
			t.Time.Format("2006-01-02 15:04:05"), t.Side(), t.Ticker,
			t.Volume.Abs().String(), t.UnitPrice.StringFixed(2))
	}
}

// allHoldings lists every account's open positions valued at the
// current quote, largest share counts first.
func (m *menu) allHoldings() {
	holdings, err := m.services.Trading().WithTx(db.DB()).Holdings()
	if err != nil {
		fmt.Fprintf(m.out, "Could not load holdings: %v\n", err)
		return
	}

	if len(holdings) == 0 {
		fmt.Fprintln(m.out, "No open positions.")
		return
	}

	for _, h := range holdings {
		fmt.Fprintf(m.out, "account %-6d %-8s %s shares @ %s  value %s\n",
			h.AccountID, h.Ticker, h.Shares.String(),
			h.UnitPrice.StringFixed(2), h.Value.StringFixed(2))
	}
}

func (m *menu) grantAdmin() {
	username := m.prompt("Username to grant admin: ")

	tx := db.Begin()
	srv := m.services.Account().WithTx(tx)

	target, err := srv.GetByUsername(username)
	if err != nil {
		tx.Rollback()
		fmt.Fprintf(m.out, "Could not find account: %v\n", err)
		return
	}

	if _, err := srv.SetAdmin(target.ID, true); err != nil {
		tx.Rollback()
		fmt.Fprintf(m.out, "Could not grant admin: %v\n", err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		fmt.Fprintf(m.out, "Could not grant admin: %v\n", err)
		return
	}

	fmt.Fprintf(m.out, "%s is now an admin.\n", username)
}
