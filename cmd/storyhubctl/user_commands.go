package main

import (
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storyhub/entities"
)

func newUserCommand(ctx *commandContext) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users and their roles",
	}
	userCmd.AddCommand(newUserAddCommand(ctx))
	userCmd.AddCommand(newUserListCommand(ctx))
	return userCmd
}

func newUserAddCommand(ctx *commandContext) *cobra.Command {
	var roles []string
	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("username must not be blank")
			}
			for _, r := range roles {
				if r != entities.RoleAdmin && r != entities.RoleTranslator {
					return fmt.Errorf("unknown role %q (want %s or %s)", r, entities.RoleAdmin, entities.RoleTranslator)
				}
			}
			users, err := ctx.users()
			if err != nil {
				return err
			}
			slices.Sort(roles)
			u := entities.User{Username: name, Roles: slices.Compact(roles)}
			if err := users.Create(cmd.Context(), &u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %d %s [%s]\n", u.UserID, u.Username, strings.Join(u.Roles, ","))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&roles, "role", nil, "Role to grant (admin, translator); repeatable")
	return cmd
}

func newUserListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := ctx.users()
			if err != nil {
				return err
			}
			list, err := users.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No users")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUSERNAME\tROLES")
			for _, u := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", u.UserID, u.Username, strings.Join(u.Roles, ","))
			}
			return tw.Flush()
		},
	}
}
