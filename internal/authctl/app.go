// Package authctl implements the operator command line: hashing and checking
// passwords offline, and revoking or inspecting refresh tokens in storage.
package authctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/chirpy/internal/common"
	"github.com/dmitrijs2005/chirpy/internal/cryptox"
	"github.com/dmitrijs2005/chirpy/internal/server/models"
)

var ErrUsage = errors.New("usage: authctl hash | verify <hash> | revoke <token> | inspect <token>")

// TokenAdmin is the storage-backed part of the auth service the CLI drives.
type TokenAdmin interface {
	Revoke(ctx context.Context, refreshToken string) error
	InspectRefreshToken(ctx context.Context, refreshToken string) (*models.RefreshToken, models.RefreshTokenState, error)
}

// Connector opens storage on demand; release is called when the command ends.
type Connector func(ctx context.Context) (admin TokenAdmin, release func(), err error)

type App struct {
	out     io.Writer
	connect Connector
}

func NewApp(out io.Writer, connect Connector) *App {
	return &App{out: out, connect: connect}
}

// Run executes one command given as args (without the program name).
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	switch args[0] {
	case "hash":
		return a.hash()
	case "verify":
		if len(args) < 2 {
			return ErrUsage
		}
		return a.verify(args[1])
	case "revoke":
		if len(args) < 2 {
			return ErrUsage
		}
		return a.withAdmin(ctx, func(admin TokenAdmin) error { return a.revoke(ctx, admin, args[1]) })
	case "inspect":
		if len(args) < 2 {
			return ErrUsage
		}
		return a.withAdmin(ctx, func(admin TokenAdmin) error { return a.inspect(ctx, admin, args[1]) })
	default:
		return ErrUsage
	}
}

// CommandArgs returns the leading positional arguments. Server flags such as
// -d or -b follow the command and are read by the config loader.
func CommandArgs(args []string) []string {
	for i, a := range args {
		if strings.HasPrefix(a, "-") {
			return args[:i]
		}
	}
	return args
}

func (a *App) withAdmin(ctx context.Context, fn func(TokenAdmin) error) error {
	admin, release, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(admin)
}

func (a *App) hash() error {
	pw, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if len(pw) == 0 {
		return errors.New("password must not be empty")
	}

	h, err := cryptox.HashPassword(string(pw))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, h)
	return err
}

func (a *App) verify(hash string) error {
	pw, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if cryptox.CheckPasswordHash(string(pw), hash) {
		_, err = fmt.Fprintln(a.out, "match")
		return err
	}
	_, err = fmt.Fprintln(a.out, "no match")
	return err
}

func (a *App) revoke(ctx context.Context, admin TokenAdmin, token string) error {
	if err := admin.Revoke(ctx, token); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("refresh token not found")
		}
		return err
	}
	_, err := fmt.Fprintln(a.out, "revoked")
	return err
}

func (a *App) inspect(ctx context.Context, admin TokenAdmin, token string) error {
	rt, state, err := admin.InspectRefreshToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("refresh token not found")
		}
		return err
	}

	fmt.Fprintf(a.out, "user:    %s\n", rt.UserID)
	fmt.Fprintf(a.out, "state:   %s\n", state)
	fmt.Fprintf(a.out, "created: %s\n", rt.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(a.out, "expires: %s\n", rt.ExpiresAt.Format(time.RFC3339))
	if rt.RevokedAt != nil {
		fmt.Fprintf(a.out, "revoked: %s\n", rt.RevokedAt.Format(time.RFC3339))
	}
	return nil
}
