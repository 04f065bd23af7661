// Package useradd implements the operator command that registers a user
// directly against the database.
package useradd

import (
	"bufio"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/postkeeper/internal/server/models"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

type Registrar interface {
	Register(ctx context.Context, userName, password string) (*models.User, error)
}

// Run asks for a username on in and a password (twice) on the terminal,
// then registers the user through r.
func Run(ctx context.Context, r Registrar, in io.Reader, w io.Writer) error {
	reader := bufio.NewReader(in)

	userName, err := getSimpleText(reader, "Enter user name", w)
	if err != nil {
		return fmt.Errorf("read user name: %w", err)
	}

	password, err := getPassword("Enter password", w)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	defer wipe(password)

	confirm, err := getPassword("Repeat password", w)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	defer wipe(confirm)

	if subtle.ConstantTimeCompare(password, confirm) != 1 {
		return ErrPasswordMismatch
	}

	user, err := r.Register(ctx, userName, string(password))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "User %q created with id %d\n", user.UserName, user.ID)
	return err
}
