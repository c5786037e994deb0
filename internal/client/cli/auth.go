package cli

import (
	"context"
	"fmt"
)

// getPassword is swapped in tests.
var getPassword = GetPassword

// Register asks for the registration key and the account details and logs
// the new user in.
func (a *App) Register(ctx context.Context) error {
	secret, err := GetSimpleText(a.reader, "Enter registration key", a.out)
	if err != nil {
		return err
	}
	name, err := GetSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	sess, err := a.auth.Register(ctx, secret, name, email, string(password))
	if err != nil {
		return a.report(err)
	}

	a.setSession(sess)
	fmt.Fprintf(a.out, "Registered and logged in as %s\n", sess.Email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	sess, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		return a.report(err)
	}

	a.setSession(sess)
	fmt.Fprintf(a.out, "Logged in as %s\n", sess.Email)
	return nil
}

// Logout forgets the cached session. Tokens are not revoked server side;
// they simply expire.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return a.report(err)
	}
	a.setSession(nil)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
