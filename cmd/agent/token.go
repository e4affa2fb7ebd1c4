package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Alwanly/service-remote-update/internal/config"
	"github.com/Alwanly/service-remote-update/internal/models"
	"github.com/Alwanly/service-remote-update/internal/server/agent/repository"
	"github.com/Alwanly/service-remote-update/pkg/database"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API tokens for the update API",
	}

	cmd.AddCommand(
		tokenIssueCmd(),
		tokenListCmd(),
		tokenRevokeCmd(),
	)
	return cmd
}

func tokenIssueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "issue",
		Short: "Generate a new API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTokenStore(func(store repository.ITokenStore) error {
				tok, err := store.Issue(cmd.Context())
				if err != nil {
					return err
				}

				fmt.Printf("Token ID:  %s\n", tok.ID)
				fmt.Printf("Token:     %s\n\n", tok.Value)
				fmt.Println("Store this token now; it is the credential the controller needs to manage this site.")
				return nil
			})
		},
	}
}

func tokenListCmd() *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List API tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTokenStore(func(store repository.ITokenStore) error {
				tokens, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(tokens) == 0 {
					fmt.Println("No tokens issued. Run `agent token issue` to create one.")
					return nil
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tTOKEN\tCREATED\tLAST USED")
				fmt.Fprintln(w, "--\t-----\t-------\t---------")

				for _, t := range tokens {
					value := models.MaskSecret(t.Value)
					if show {
						value = t.Value
					}
					lastUsed := "never"
					if t.LastUsed != nil {
						lastUsed = t.LastUsed.Format(time.RFC3339)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, value, t.CreatedAt.Format(time.RFC3339), lastUsed)
				}

				return w.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "print full token values")
	return cmd
}

func tokenRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke [id]",
		Short: "Revoke an API token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTokenStore(func(store repository.ITokenStore) error {
				ok, err := store.Revoke(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%w: %s", repository.ErrTokenNotFound, args[0])
				}
				fmt.Printf("Token %s revoked\n", args[0])
				return nil
			})
		},
	}
}

// withTokenStore opens the agent database for a single CLI command.
func withTokenStore(fn func(repository.ITokenStore) error) error {
	cfg, err := config.LoadAgentConfig()
	if err != nil {
		return err
	}

	db, err := openAgentDB(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer database.Close(db)

	return fn(repository.NewTokenStore(db))
}

func openAgentDB(path string) (*gorm.DB, error) {
	db, err := database.NewSQLiteDB(path)
	if err != nil {
		return nil, err
	}
	if err := database.RunAgentMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}
