package cli

import (
	"context"
	"fmt"
)

// getSimpleText, getOptionalText and getPassword point at the interactive
// input helpers and can be swapped in tests.
var (
	getSimpleText   = GetSimpleText
	getOptionalText = GetOptionalText
	getPassword     = GetPassword
)

// Signup asks for email, password and an optional full name, creates the
// account and keeps the returned session.
func (a *App) Signup(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	fullName, err := getOptionalText(a.reader, "Full name", a.out)
	if err != nil {
		return err
	}

	if err := a.backend.Signup(ctx, email, string(password), fullName); err != nil {
		return a.fail(err)
	}

	a.userName = email
	fmt.Fprintln(a.out, "Signed up as", email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	if err := a.backend.Login(ctx, email, string(password)); err != nil {
		return a.fail(err)
	}

	a.userName = email
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Me(ctx context.Context) error {
	p, err := a.backend.Me(ctx)
	if err != nil {
		return a.fail(err)
	}
	name := "-"
	if p.FullName != nil {
		name = *p.FullName
	}
	fmt.Fprintf(a.out, "id:       %s\nemail:    %s\nname:     %s\ncurrency: %s\nrole:     %s\n",
		p.ID, p.Email, name, p.Currency, p.Role)
	return nil
}

// Logout revokes the session on the server. The local session is dropped
// even if the server call fails.
func (a *App) Logout(ctx context.Context) error {
	err := a.backend.Logout(ctx)
	a.userName = ""
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// fail reports err to the user and hands it back.
func (a *App) fail(err error) error {
	fmt.Fprintln(a.out, "Error:", err)
	return err
}
