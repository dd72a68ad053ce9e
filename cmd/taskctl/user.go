package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"github.com/spf13/cobra"
)

func (c *cli) userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(c.userCreateCmd())
	cmd.AddCommand(c.userListCmd())
	return cmd
}

func (c *cli) userCreateCmd() *cobra.Command {
	var (
		name, email, password, role string
		passwordStdin               bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user with an explicit role",
		Example: `  taskctl user create --name "Ada" --email ada@example.com --role admin --password-stdin < secret.txt
  taskctl user create --name "Bob" --email bob@example.com --password hunter2hunter2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := domain.Role(role)
			if !r.Valid() {
				return fmt.Errorf("invalid role %q: must be %q or %q", role, domain.RoleAdmin, domain.RoleUser)
			}
			if passwordStdin {
				if password != "" {
					return errors.New("--password and --password-stdin are mutually exclusive")
				}
				line, err := bufio.NewReader(c.in).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password from stdin: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("a password is required: use --password or --password-stdin")
			}

			return c.withBackend(cmd.Context(), func(b backend) error {
				users := service.NewUserService(b.UnitOfWork(), b.Hasher(), nil, b.Logger())
				user, err := users.Provision(cmd.Context(), name, email, password, r)
				if err != nil {
					return fmt.Errorf("failed to create user: %w", err)
				}
				fmt.Fprintf(c.out, "created %s %d <%s>\n", user.Role, user.ID, user.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "password (visible in shell history; prefer --password-stdin)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from the first line of stdin")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleUser), "role: admin or user")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) userListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every user, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withBackend(cmd.Context(), func(b backend) error {
				users, err := listUsers(cmd.Context(), b.UnitOfWork())
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tACTIVE\tCREATED")
				for _, u := range users {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\t%s\n",
						u.ID, u.Name, u.Email, u.Role, u.Active, u.CreatedAt.UTC().Format(time.RFC3339))
				}
				return tw.Flush()
			})
		},
	}
}

// listUsers reads the directory directly; the operator is not a user, so
// the admin check of the service does not apply.
func listUsers(ctx context.Context, uow store.UnitOfWork) ([]domain.User, error) {
	var users []domain.User
	err := uow.ReadOnly(ctx, func(ctx context.Context, st store.Stores) error {
		var err error
		users, err = st.Users.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
