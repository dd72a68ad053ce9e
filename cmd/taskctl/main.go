// Command taskctl is the operator tool for the task tracker: it applies
// schema migrations and provisions accounts, including admins, which the
// public API cannot create.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

func main() {
	c := &cli{out: os.Stdout, in: os.Stdin, connect: connectPostgres}
	if err := c.rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli carries the I/O and backend factory shared by every subcommand.
type cli struct {
	out       io.Writer
	in        io.Reader
	configDir string
	connect   func(ctx context.Context, configDir string) (backend, error)
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "taskctl",
		Short:         "Operate the task tracker database and accounts",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.out)
	root.PersistentFlags().StringVar(&c.configDir, "config-dir", ".", "directory containing config.yaml")

	root.AddCommand(c.migrateCmd())
	root.AddCommand(c.userCmd())
	return root
}

// withBackend connects, runs fn and closes the backend.
func (c *cli) withBackend(ctx context.Context, fn func(backend) error) error {
	b, err := c.connect(ctx, c.configDir)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()
	return fn(b)
}
