package tui

import (
	"context"
	"fmt"

	"medisave/internal/domain/session"
)

func (a *App) signupScreen(ctx context.Context) error {
	a.header("Medisave - Create Account")

	email, err := a.readLine("Email: ")
	if err != nil {
		return err
	}
	credential, err := a.readLine("Password: ")
	if err != nil {
		return err
	}

	if _, err := a.users.Signup(ctx, email, credential); err != nil {
		a.println(errMessage(err))
		return nil
	}
	a.println("Account created! Please log in.")
	return nil
}

// loginScreen returns a nil session (and nil error) when the login attempt
// failed; the caller falls back to the main menu.
func (a *App) loginScreen(ctx context.Context) (*session.Session, error) {
	a.header("Medisave - Log In")

	email, err := a.readLine("Email   : ")
	if err != nil {
		return nil, err
	}
	credential, err := a.readLine("Password: ")
	if err != nil {
		return nil, err
	}

	sess, err := a.users.Authenticate(ctx, email, credential)
	if err != nil {
		a.println(errMessage(err))
		return nil, nil
	}
	return sess, nil
}

// sessionLoop is the itemized-bill screen, the hub every other screen
// returns to.
func (a *App) sessionLoop(ctx context.Context, sess *session.Session) error {
	for {
		a.header("Medisave - Itemized Bill")
		a.println("Your Hospital Bills:")
		a.println("")
		renderLines(a.out, session.BillLines(sess.Bills))
		a.println("")
		a.println("  1) My Bank Info")
		a.println("  2) Sync Bank Accounts")
		a.println("  3) Draft Negotiation Email")
		a.println("  4) Quit")

		choice, err := a.readLine("> ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			if err := a.bankInfoScreen(sess); err != nil {
				return err
			}
		case "2":
			if err := a.linkScreen(ctx, sess); err != nil {
				return err
			}
		case "3":
			if err := a.emailScreen(ctx, sess); err != nil {
				return err
			}
		case "4", "":
			a.println("Goodbye.")
			return nil
		default:
			a.println("Please choose 1-4.")
		}
	}
}

func (a *App) bankInfoScreen(sess *session.Session) error {
	a.header("Medisave - My Bank Info")

	a.println("Your Linked Accounts:")
	renderLines(a.out, session.AccountLines(sess.Accounts))
	a.println("")
	a.println("Your Recent Transactions:")
	renderLines(a.out, session.TransactionLines(sess.Transactions))
	a.println("")

	_, err := a.readLine("Press Enter to go back to your bills. ")
	return err
}

func (a *App) linkScreen(ctx context.Context, sess *session.Session) error {
	a.header("Medisave - Link Bank Accounts")
	a.println("Medisave will contact your bank provider and link any accounts")
	a.println("and transactions it finds for you.")

	confirm, err := a.readLine("Proceed? [y/N] ")
	if err != nil {
		return err
	}
	if confirm != "y" && confirm != "Y" {
		return nil
	}

	result, err := a.linker.LinkFromProvider(ctx, sess)
	if err != nil {
		a.println(errMessage(err))
		return nil
	}

	fmt.Fprintf(a.out, "Linked %d new account(s) and %d new transaction(s).\n",
		result.AccountsLinked, result.TransactionsLinked)
	for _, msg := range result.Errors {
		a.println("Warning: " + msg)
	}
	return a.bankInfoScreen(sess)
}

func (a *App) emailScreen(ctx context.Context, sess *session.Session) error {
	for {
		a.header("Medisave - Negotiation Email")
		a.println("  1) Generate Email")
		a.println("  2) Back to Bills")

		choice, err := a.readLine("> ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			a.println("Generating...")
			email, err := a.drafter.Draft(ctx, sess)
			if err != nil {
				a.println(errMessage(err))
				continue
			}
			a.println("")
			a.println("Email for Hospital:")
			a.println("")
			for _, line := range wrap(email, 78) {
				a.println(line)
			}
		case "2", "":
			return nil
		default:
			a.println("Please choose 1 or 2.")
		}
	}
}
