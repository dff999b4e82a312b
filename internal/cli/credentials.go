package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/lectio/internal/keyring"
	"github.com/julianstephens/lectio/internal/storage"
)

// CredentialsSetCmd stores the PostgreSQL connection string in the OS keyring
type CredentialsSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string, password included."`
}

func (cmd *CredentialsSetCmd) Run(ctx *Context) error {
	err := storage.ValidateConnString(cmd.ConnectionString)
	switch {
	case errors.Is(err, storage.ErrEmbeddedCredentials):
		// the keyring is encrypted, so a password is fine here
	case err != nil:
		return err
	}
	if !storage.IsPostgresURL(cmd.ConnectionString) && !strings.Contains(cmd.ConnectionString, "host=") {
		return fmt.Errorf("%w: expected a postgres:// URL or a key=value DSN", storage.ErrInvalidConnectionString)
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return err
	}
	ctx.println(okLine("Connection string stored in OS keyring"))
	ctx.println("  Point the store at a password-less postgres:// URL to use it.")
	return nil
}

type CredentialsDeleteCmd struct{}

func (cmd *CredentialsDeleteCmd) Run(ctx *Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	ctx.println(okLine("Connection string deleted from OS keyring"))
	return nil
}

type CredentialsStatusCmd struct{}

func (cmd *CredentialsStatusCmd) Run(ctx *Context) error {
	if !keyring.IsAvailable() {
		ctx.println(failLine("OS keyring is not available on this system"))
		return keyring.ErrKeyringUnavailable
	}
	ctx.println(okLine("OS keyring is available"))

	connStr, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		ctx.println(okLine("Connection string stored: " + maskPassword(connStr)))
	case errors.Is(err, keyring.ErrNotFound):
		ctx.println("ℹ No connection string stored in keyring")
	default:
		return err
	}
	return nil
}

// maskPassword hides the password of a URL or DSN connection string
func maskPassword(connStr string) string {
	if storage.IsPostgresURL(connStr) {
		idx := strings.Index(connStr, "://")
		rest := connStr[idx+3:]
		if at := strings.LastIndex(rest, "@"); at != -1 {
			userInfo := rest[:at]
			if colon := strings.Index(userInfo, ":"); colon != -1 {
				return connStr[:idx+3] + userInfo[:colon] + ":****" + rest[at:]
			}
		}
		return connStr
	}

	if !strings.Contains(connStr, "password=") {
		return connStr
	}
	parts := strings.Fields(connStr)
	for i, part := range parts {
		if strings.HasPrefix(part, "password=") {
			parts[i] = "password=****"
		}
	}
	return strings.Join(parts, " ")
}
