package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/maisonbelle/salon-site/internal/domain/admin"
	"github.com/maisonbelle/salon-site/internal/domain/query"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/repository/adminrepo"
	"github.com/maisonbelle/salon-site/pkg/telemetry"
)

var adminsCmd = &cobra.Command{
	Use:   "admins",
	Short: "Manage the admin allow-list",
}

var adminsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List admins",
	Args:  cobra.NoArgs,
	RunE:  runAdminsList,
}

var adminsAddCmd = &cobra.Command{
	Use:   "add <email>",
	Short: "Add or reactivate an admin",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminsAdd,
}

var adminsRemoveCmd = &cobra.Command{
	Use:   "remove <email>",
	Short: "Deactivate an admin",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminsRemove,
}

func init() {
	adminsCmd.AddCommand(adminsListCmd)
	adminsCmd.AddCommand(adminsAddCmd)
	adminsCmd.AddCommand(adminsRemoveCmd)

	adminsListCmd.Flags().Bool("all", false, "Include deactivated admins")
	adminsAddCmd.Flags().String("name", "", "Display name")
}

func adminService(e *env) *admin.Service {
	// Magic links are not sent from the CLI.
	return admin.NewService(adminrepo.NewAdminGormRepository(e.tx), nil, telemetry.NewSanitizer(telemetry.PIILevelFull, ""), e.log)
}

func runAdminsList(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	all, _ := cmd.Flags().GetBool("all")
	users, err := adminService(e).ListAdmins(cmd.Context(), !all, &query.Pagination{Limit: query.MaxLimit})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tNAME\tACTIVE\tLAST LOGIN")
	for _, u := range users {
		lastLogin := "-"
		if u.LastLoginAt != nil {
			lastLogin = u.LastLoginAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", u.Email, u.DisplayName, u.IsActive, lastLogin)
	}
	return w.Flush()
}

func runAdminsAdd(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	name, _ := cmd.Flags().GetString("name")
	user, err := adminService(e).AddAdmin(cmd.Context(), args[0], name, "site-cli")
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "admin %s is active\n", user.Email)
	return nil
}

func runAdminsRemove(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	user, err := adminService(e).RemoveAdmin(cmd.Context(), args[0], "site-cli")
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "admin %s deactivated\n", user.Email)
	return nil
}
