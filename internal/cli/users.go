package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qntx/userdb/internal/menu"
	"github.com/qntx/userdb/internal/store"
)

// ----------------------------------------------------------------------------
// Commands
// ----------------------------------------------------------------------------

var (
	menuCmd = &cobra.Command{
		Use:   "menu",
		Short: "Open the interactive menu (default)",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  runMenu,
	}

	addCmd = &cobra.Command{
		Use:   "add",
		Short:   "Add a user",
		Args:    usageArgs(cobra.NoArgs),
		PreRunE: requireFlags,
		RunE:    runAdd,
	}

	listCmd = &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all users",
		Args:    usageArgs(cobra.NoArgs),
		RunE:    runList,
	}

	updateCmd = &cobra.Command{
		Use:   "update <id>",
		Short: "Update a user",
		Long: `Overwrite the name, age and address of the user with the given id.
Fields without a flag keep their current value. Updating an id that does not
exist is not an error when all three fields are given.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: runUpdate,
	}

	deleteCmd = &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a user",
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE:    runDelete,
	}
)

type userFlags struct {
	name    string
	age     string
	address string
}

var (
	addFlags    userFlags
	updateFlags userFlags
)

func init() {
	f := addCmd.Flags()
	f.StringVarP(&addFlags.name, "name", "n", "", "user name")
	f.StringVarP(&addFlags.age, "age", "a", "", "user age")
	f.StringVar(&addFlags.address, "address", "", "user address")
	for _, name := range []string{"name", "age", "address"} {
		_ = addCmd.MarkFlagRequired(name)
	}

	f = updateCmd.Flags()
	f.StringVarP(&updateFlags.name, "name", "n", "", "new name")
	f.StringVarP(&updateFlags.age, "age", "a", "", "new age")
	f.StringVar(&updateFlags.address, "address", "", "new address")

	rootCmd.AddCommand(menuCmd, addCmd, listCmd, updateCmd, deleteCmd)
}

// ----------------------------------------------------------------------------
// Handlers
// ----------------------------------------------------------------------------

func runAdd(cmd *cobra.Command, _ []string) error {
	age, err := menu.ParseInt("age", addFlags.age)
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := a.store.Create(cmd.Context(), addFlags.name, age, addFlags.address)
	if err != nil {
		return err
	}
	a.log.Info("user added", "id", u.ID)
	a.printer.Success("User added successfully!")
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	users, err := a.store.All(cmd.Context())
	if err != nil {
		return err
	}
	a.printer.Users(users)
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := menu.ParseInt("id", args[0])
	if err != nil {
		return err
	}
	var age int64
	if cmd.Flags().Changed("age") {
		if age, err = menu.ParseInt("age", updateFlags.age); err != nil {
			return err
		}
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := mergeUpdate(cmd, a.store, id, age)
	if err != nil {
		return err
	}

	n, err := a.store.Update(cmd.Context(), id, u.Name, u.Age, u.Address)
	if err != nil {
		return err
	}
	a.printer.Success("User updated successfully!")
	if n == 0 {
		a.printer.Info("no user with id %d", id)
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := menu.ParseInt("id", args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.store.Delete(cmd.Context(), id)
	if err != nil {
		return err
	}
	a.printer.Success("User deleted successfully!")
	if n == 0 {
		a.printer.Info("no user with id %d", id)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Helpers
// ----------------------------------------------------------------------------

// mergeUpdate returns the values to write for id. Fields without a flag
// are read from the current row, which must then exist.
func mergeUpdate(cmd *cobra.Command, s *store.Store, id, age int64) (store.User, error) {
	f := cmd.Flags()
	u := store.User{ID: id, Name: updateFlags.name, Age: age, Address: updateFlags.address}
	if f.Changed("name") && f.Changed("age") && f.Changed("address") {
		return u, nil
	}

	cur, err := s.Get(cmd.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return store.User{}, fmt.Errorf("id %d: %w", id, err)
	}
	if err != nil {
		return store.User{}, err
	}

	if !f.Changed("name") {
		u.Name = cur.Name
	}
	if !f.Changed("age") {
		u.Age = cur.Age
	}
	if !f.Changed("address") {
		u.Address = cur.Address
	}
	return u, nil
}
