package views

import (
	"context"
	"time"

	"logdeck/internal/common"
	"logdeck/internal/console/models"
)

// getSimpleText, getOptionalText and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText   = GetSimpleText
	getOptionalText = GetOptionalText
	getPassword     = GetPassword
)

// Login prompts for credentials and authenticates. On success the console
// resumes the navigation that sent the user to login, or lands on the
// dashboard. Backend errors are shown verbatim; they are user-correctable.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.auth.Login(ctx, username, string(password))
	if err != nil {
		printError(a.out, "Login failed: %v", err)
		return err
	}

	printSuccess(a.out, "Welcome back, %s!", user.Username)
	return a.resumeAfterLogin(ctx)
}

// Register prompts for the new account's details and creates it. The
// backend logs the account in as part of registration, so on success the
// console proceeds exactly as after Login.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	role, err := getOptionalText(a.reader, "Role (USER/ANALYST/ADMIN)", string(models.RoleUser), a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.auth.Register(ctx, username, email, string(password), models.Role(role))
	if err != nil {
		printError(a.out, "Registration failed: %v", err)
		return err
	}

	printSuccess(a.out, "Account created, welcome %s!", user.Username)
	return a.resumeAfterLogin(ctx)
}

// Logout ends the session. It cannot fail: the session clear handles both
// storage and navigation, and repeating it is harmless.
func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	return nil
}

// Whoami shows the resident profile and, when the credential carries a
// readable expiry, the session's remaining lifetime.
func (a *App) Whoami(ctx context.Context) error {
	user := a.session.User()
	if user == nil {
		if a.session.IsAuthenticated() {
			printWarn(a.out, "Credential present, profile still loading")
		} else {
			printWarn(a.out, "Not logged in")
		}
		return nil
	}

	lastLogin := "-"
	if user.LastLogin != nil {
		lastLogin = user.LastLogin.Local().Format(time.RFC822)
	}
	renderTable(a.out, []string{"Username", "Email", "Role", "Active", "Last Login"}, [][]string{
		{user.Username, user.Email, string(user.Role), boolLabel(user.IsActive), lastLogin},
	})

	if expiry, ok := a.auth.TokenExpiry(); ok {
		if remaining := time.Until(expiry); remaining > 0 {
			printLine(a.out, "Session expires in %s", remaining.Round(time.Minute))
		} else {
			printWarn(a.out, "Session token expired %s ago", (-remaining).Round(time.Minute))
		}
	}
	return nil
}

func boolLabel(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
