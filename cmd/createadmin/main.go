// Command createadmin creates an admin account. Missing flags are prompted for
// on the terminal.
//
//	createadmin -email root@example.com -first-name Root -last-name Admin
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jith101/Back-End-Developer-Assignment/internal/app"
	"github.com/jith101/Back-End-Developer-Assignment/internal/auth"
	"github.com/jith101/Back-End-Developer-Assignment/internal/config"
	"github.com/jith101/Back-End-Developer-Assignment/internal/repository/postgres"
	"github.com/jith101/Back-End-Developer-Assignment/internal/service"
	apperrors "github.com/jith101/Back-End-Developer-Assignment/pkg/errors"
	"github.com/jith101/Back-End-Developer-Assignment/pkg/logger"
)

func main() {
	var input service.CreateAdminInput
	flag.StringVar(&input.Email, "email", "", "admin email address")
	flag.StringVar(&input.FirstName, "first-name", "", "admin first name")
	flag.StringVar(&input.LastName, "last-name", "", "admin last name")
	flag.Parse()

	if err := run(context.Background(), input, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, input service.CreateAdminInput, in io.Reader, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(config.ServiceName, cfg.LogLevel)

	if err := prompt(&input, bufio.NewReader(in), out); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pool, err := app.OpenDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	// Token issuing and revocation are not used when creating accounts.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	users := service.NewUserService(postgres.NewUserRepository(pool), jwtManager, nil, log)

	user, err := users.CreateAdmin(ctx, input)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && len(appErr.Fields) > 0 {
			for field, msg := range appErr.Fields {
				fmt.Fprintf(out, "%s: %s\n", field, msg)
			}
			return errors.New("admin user not created")
		}
		return err
	}

	fmt.Fprintf(out, "Admin user %s created successfully.\n", user.Email)
	log.Info("admin created from command line", slog.String("user_id", user.ID))
	return nil
}

// prompt asks for every value not supplied by flags. Passwords are always read
// from the input, twice.
func prompt(input *service.CreateAdminInput, r *bufio.Reader, out io.Writer) error {
	fields := []struct {
		label string
		dst   *string
	}{
		{"Email", &input.Email},
		{"First name", &input.FirstName},
		{"Last name", &input.LastName},
		{"Password", &input.Password},
		{"Password (again)", &input.Password2},
	}

	for _, f := range fields {
		if *f.dst != "" {
			continue
		}
		fmt.Fprintf(out, "%s: ", f.label)
		line, err := r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return fmt.Errorf("read %s: %w", strings.ToLower(f.label), err)
		}
		*f.dst = strings.TrimRight(line, "\r\n")
	}
	return nil
}
