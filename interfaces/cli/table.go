package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"parkwise/infrastructure/persistence/store"
)

func (a *app) tableCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Manage the parkwise table",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Create the table if it does not exist",
		Args:  cobra.NoArgs,
		RunE:  a.runTableCreate,
	})
	return cmd
}

func (a *app) runTableCreate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	b, cfg, err := a.backend(ctx)
	if err != nil {
		return err
	}
	if b.Tables == nil {
		return errors.New("table management needs the dynamodb store backend")
	}

	created, err := store.EnsureTable(ctx, b.Tables, cfg.TableName, b.Logger)
	if err != nil {
		return err
	}
	if ok, err := a.printJSON(map[string]interface{}{"table": cfg.TableName, "created": created}); ok {
		return err
	}
	if created {
		a.printSuccess("Created table %s", cfg.TableName)
	} else {
		a.printSuccess("Table %s already exists", cfg.TableName)
	}
	return nil
}
