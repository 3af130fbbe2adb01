package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/segyhp/loan-tracker/internal/domain"
	customError "github.com/segyhp/loan-tracker/pkg/errors"
)

// userManager is the part of service.UserService the commands drive.
type userManager interface {
	Add(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Activate(ctx context.Context, username string) error
	Deactivate(ctx context.Context, username string) error
	ChangePassword(ctx context.Context, req domain.ChangePasswordRequest) error
}

var errUsage = errors.New("invalid usage")

const usage = `Usage: usermgmt [--full-name NAME] <command> [arguments]

Commands:
  add <username> <password> [full_name]   create an active user
  list                                    list all users
  activate <username>                     allow a user to sign in
  deactivate <username>                   block a user from signing in
  password <username> <new_password>      replace a user's password
  help                                    show this message

The full name of "add" may be given as the third argument or with --full-name.
`

func run(ctx context.Context, args []string, users userManager, out io.Writer) error {
	fs := pflag.NewFlagSet("usermgmt", pflag.ContinueOnError)
	fs.SetOutput(out)
	fullName := fs.String("full-name", "", "full name for the add command")
	fs.Usage = func() { fmt.Fprint(out, usage) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprint(out, usage)
		return errUsage
	}

	command, params := rest[0], rest[1:]
	switch command {
	case "add":
		if len(params) < 2 || len(params) > 3 {
			return usageError("add <username> <password> [full_name]")
		}
		name := *fullName
		if len(params) == 3 {
			name = params[2]
		}
		user, err := users.Add(ctx, domain.CreateUserRequest{
			Username: params[0],
			Password: params[1],
			FullName: name,
		})
		if err != nil {
			return describe(err)
		}
		fmt.Fprintf(out, "User '%s' created successfully with ID: %s\n", user.Username, user.ID)

	case "list":
		list, err := users.List(ctx)
		if err != nil {
			return describe(err)
		}
		printUsers(out, list)

	case "activate", "deactivate":
		if len(params) != 1 {
			return usageError(command + " <username>")
		}
		change := users.Activate
		if command == "deactivate" {
			change = users.Deactivate
		}
		if err := change(ctx, params[0]); err != nil {
			return describe(err)
		}
		fmt.Fprintf(out, "User '%s' %sd successfully\n", params[0], command)

	case "password":
		if len(params) != 2 {
			return usageError("password <username> <new_password>")
		}
		err := users.ChangePassword(ctx, domain.ChangePasswordRequest{
			Username:    params[0],
			NewPassword: params[1],
		})
		if err != nil {
			return describe(err)
		}
		fmt.Fprintf(out, "Password for user '%s' changed successfully\n", params[0])

	case "help":
		fmt.Fprint(out, usage)

	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}

	return nil
}

func usageError(form string) error {
	return fmt.Errorf("%w: usermgmt %s", errUsage, form)
}

// describe turns a business error into the message an operator should see.
func describe(err error) error {
	if be, ok := customError.AsBusinessError(err); ok {
		return errors.New(be.Message)
	}
	return err
}

func printUsers(out io.Writer, users []*domain.User) {
	if len(users) == 0 {
		fmt.Fprintln(out, "No users found in database")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tFULL NAME\tSTATUS\tCREATED")
	for _, u := range users {
		status := "Active"
		if !u.IsActive {
			status = "Inactive"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Username, strings.TrimSpace(u.FullName), status, u.CreatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
}
