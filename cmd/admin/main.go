// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

// Command admin is the operator tool for bootstrapping accounts and tokens.
//
// # Usage
//
//	admin create-user -username alice -password secret -role admin
//	admin token -username alice -ttl 1h
//
// It reads DATABASE_URL, JWT_PUBLIC_KEY_PATH and JWT_PRIVATE_KEY_PATH from
// the environment. Signing requires the private key.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/unicode/norm"

	"github.com/Sherry00124/ImChat/internal/platform/constants"
	pgstore "github.com/Sherry00124/ImChat/internal/platform/postgres"
	"github.com/Sherry00124/ImChat/internal/platform/sec"
	"github.com/Sherry00124/ImChat/internal/users/account"
)

// toolConfig is the subset of the server settings the tool needs.
type toolConfig struct {
	DatabaseURL    string `env:"DATABASE_URL,required,notEmpty"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required,notEmpty"`
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required,notEmpty"`
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil)).With(slog.String("app", "imchat-admin"))

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := &toolConfig{}
	if err := env.Parse(cfg); err != nil {
		log.Error("config_invalid", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "create-user":
		err = createUser(ctx, cfg, log, os.Args[2:])
	case "token":
		err = mintToken(ctx, cfg, log, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Error("command_failed", slog.String("command", os.Args[1]), slog.Any("error", err))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admin <create-user|token> [flags]")
}

// createUser registers an account through the same service the API uses.
func createUser(ctx context.Context, cfg *toolConfig, log *slog.Logger, args []string) error {
	flags := flag.NewFlagSet("create-user", flag.ContinueOnError)
	username := flags.String("username", "", "account name")
	password := flags.String("password", "", "plain-text password")
	roleName := flags.String("role", sec.RoleMember.String(), "member or admin")
	if err := flags.Parse(args); err != nil {
		return err
	}

	role, err := sec.ParseRole(*roleName)
	if err != nil {
		return err
	}

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	service := account.NewService(account.NewPostgresRepository(pool), log)
	user, err := service.CreateUser(ctx, *username, *password, role)
	if err != nil {
		return err
	}

	fmt.Println(user.ID)
	return nil
}

// mintToken signs an access token for an existing account.
func mintToken(ctx context.Context, cfg *toolConfig, log *slog.Logger, args []string) error {
	flags := flag.NewFlagSet("token", flag.ContinueOnError)
	username := flags.String("username", "", "account name")
	ttl := flags.Duration("ttl", time.Hour, "token lifetime")
	if err := flags.Parse(args); err != nil {
		return err
	}

	tokens, err := sec.LoadTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	if err != nil {
		return err
	}

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	user, err := account.NewPostgresRepository(pool).FindByUsername(ctx, norm.NFC.String(*username))
	if err != nil {
		return err
	}

	token, err := tokens.GenerateAccessToken(user.ID, user.Username, user.Role, *ttl)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
