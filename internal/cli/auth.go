package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/movielib/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Users prints every registered user name.
func (a *App) Users(ctx context.Context) error {
	list, err := a.users.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println("No users yet.")
		return nil
	}
	for _, u := range list {
		a.println(u.UserName)
	}
	return nil
}

// Register prompts for a user name and password and creates the account.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	_, err = a.users.CreateUser(ctx, userName, password)
	switch {
	case errors.Is(err, common.ErrAlreadyExists):
		a.printf("User %s already exists.\n", userName)
		return nil
	case errors.Is(err, common.ErrValidation):
		a.println(err)
		return nil
	case err != nil:
		return err
	}

	a.log.Info(ctx, "user registered", "user", userName)
	a.printf("User %s registered.\n", userName)
	return nil
}

// Login prompts for credentials and, on success, switches to the library
// menu and remembers the login for the next run.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ok, err := a.users.Authenticate(ctx, userName, password)
	if err != nil {
		return err
	}
	if !ok {
		a.log.Info(ctx, "login failed", "user", userName)
		a.println("Incorrect username or password.")
		return nil
	}

	a.userName = userName
	if a.session != nil {
		if err := a.session.Save(userName); err != nil {
			a.log.Warn(ctx, "could not remember login", "error", err)
		}
	}

	a.printf("Welcome %s!\n", userName)
	return nil
}

// Logout forgets the current user, including the remembered login.
func (a *App) Logout(ctx context.Context) error {
	if a.config.SingleUser {
		a.println("Single-user mode has no login; use exit to leave.")
		return nil
	}
	if a.session != nil {
		if err := a.session.Clear(); err != nil {
			a.log.Warn(ctx, "could not forget login", "error", err)
		}
	}
	a.userName = ""
	a.println("Logging Out...")
	return nil
}

// DeleteUser removes a user together with all of their movies after
// confirmation.
func (a *App) DeleteUser(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username to delete", a.out)
	if err != nil {
		return err
	}
	if userName == "" {
		return nil
	}

	ok, err := Confirm(a.reader, "Delete "+userName+" and all of their movies?", a.out)
	if err != nil || !ok {
		return err
	}

	if err := a.users.DeleteUser(ctx, userName); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			a.printf("User %s not found.\n", userName)
			return nil
		}
		return err
	}

	if a.session != nil {
		if remembered, err := a.session.Load(); err == nil && remembered == userName {
			_ = a.session.Clear()
		}
	}

	a.log.Info(ctx, "user deleted", "user", userName)
	a.printf("User %s deleted.\n", userName)
	return nil
}
