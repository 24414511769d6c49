package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/meetscribe/internal/client/models"
	"github.com/dmitrijs2005/meetscribe/internal/client/services"
)

func (a *App) printUsage(s models.Session) {
	a.println(fmt.Sprintf("Analyses today: %d of %d used, %d left.", s.Usage.Used, s.Usage.Limit, s.Usage.Remaining()))
}

// Status prints who is signed in and the quota of the current tier.
func (a *App) Status(ctx context.Context) error {
	s := a.session.Session()
	if s.Identity == nil {
		a.println("Signed in as guest.")
	} else {
		a.println(fmt.Sprintf("Signed in as %s <%s>.", s.Identity.DisplayName(), s.Identity.Email))
	}
	a.printUsage(s)
	if !s.CanUse {
		a.println("Daily limit reached.")
	}
	return nil
}

// Usage refreshes the usage count and prints it.
func (a *App) Usage(ctx context.Context) error {
	a.printUsage(a.session.RefreshUsage(ctx))
	return nil
}

// Register prompts for the account details and creates an account. Meetings
// analyzed as a guest are transferred when the provider supports it; a failed
// transfer is reported but does not undo the registration.
func (a *App) Register(ctx context.Context) error {
	if a.isLoggedIn() {
		a.println("Already signed in. Log out first.")
		return nil
	}

	var in services.RegisterInput
	var err error
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"First name", &in.FirstName},
		{"Last name", &in.LastName},
		{"Email", &in.Email},
	} {
		if *f.dst, err = getSimpleText(a.reader, f.prompt, a.out); err != nil {
			return err
		}
	}

	prompt := "Password"
	if !a.credentialed {
		prompt = "Password (optional)"
	}
	if in.Password, err = getPassword(a.out, prompt); err != nil {
		return err
	}
	if a.credentialed || len(in.Password) > 0 {
		if in.ConfirmPassword, err = getPassword(a.out, "Confirm password"); err != nil {
			return err
		}
	}

	res, err := a.session.Register(ctx, in)
	if err != nil {
		return a.fail(ctx, "register", err)
	}

	a.println(fmt.Sprintf("Welcome, %s!", res.Session.Identity.DisplayName()))
	if res.Migrated > 0 {
		a.println(fmt.Sprintf("%d meetings were added to your account.", res.Migrated))
	}
	if res.MigrationErr != nil {
		a.println(services.UserMessage(res.MigrationErr))
	}
	a.printUsage(res.Session)
	return nil
}

// Login prompts for credentials and switches the session to that account.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	prompt := "Password"
	if !a.credentialed {
		prompt = "Password (leave empty if none)"
	}
	password, err := getPassword(a.out, prompt)
	if err != nil {
		return err
	}

	s, err := a.session.Login(ctx, services.LoginInput{Email: email, Password: password})
	if err != nil {
		return a.fail(ctx, "login", err)
	}

	a.println(fmt.Sprintf("Signed in as %s.", s.Identity.DisplayName()))
	a.printUsage(s)
	return nil
}

// Logout ends the session; the client continues as a guest.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println("Not signed in.")
		return nil
	}
	s := a.session.Logout(ctx)
	a.println("Signed out. You are now a guest.")
	a.printUsage(s)
	return nil
}
