package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/carservice/station/internal/client/station"
	"github.com/carservice/station/internal/core/domain"
)

func newServicesCmd(env *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "services",
		Aliases: []string{"svc"},
		Short:   "Browse and manage the service catalog",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			services, err := env.client.ListServices(cmd.Context())
			if err != nil {
				return reported(err)
			}
			printServices(cmd.OutOrStdout(), services, env.cart.Contains)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := env.client.GetService(cmd.Context(), id)
			if err != nil {
				return reported(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "#%d %s  %s\n", svc.ID, svc.Name, money(svc.Price))
			if svc.Description != "" {
				fmt.Fprintln(out, svc.Description)
			}
			if svc.ImageURL != "" {
				fmt.Fprintln(out, svc.ImageURL)
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a service (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return reported(env.app.DeleteService(cmd.Context(), id))
		},
	}

	cmd.AddCommand(list, show, newSaveServiceCmd(env, "create"), newSaveServiceCmd(env, "update"), del)
	return cmd
}

// newSaveServiceCmd builds "create" (no id) and "update <id>".
func newSaveServiceCmd(env *env, verb string) *cobra.Command {
	var req station.ServiceRequest
	cmd := &cobra.Command{
		Use:   verb,
		Short: "Create a service (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var id int64
			if len(args) == 1 {
				var err error
				if id, err = parseID(args[0]); err != nil {
					return err
				}
			}
			svc, err := env.app.SaveService(cmd.Context(), id, req)
			if err != nil {
				return reported(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "#%d %s  %s\n", svc.ID, svc.Name, money(svc.Price))
			return nil
		},
	}
	if verb == "update" {
		cmd.Use = "update <id>"
		cmd.Short = "Replace a service (admin)"
		cmd.Args = cobra.ExactArgs(1)
	}
	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "service name")
	f.StringVar(&req.Description, "description", "", "what the service includes")
	f.Float64Var(&req.Price, "price", 0, "price")
	f.StringVar(&req.ImageURL, "image", "", "image URL")
	for _, name := range []string{"name", "description", "price"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func printServices(w io.Writer, services []domain.CarService, inCart func(int64) bool) {
	if len(services) == 0 {
		fmt.Fprintln(w, "No services available.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tCART")
	for _, s := range services {
		mark := ""
		if inCart(s.ID) {
			mark = "✓"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.ID, s.Name, money(s.Price), mark)
	}
	_ = tw.Flush()
}

func newCartCmd(env *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Collect services to book together (kept for this session only)",
	}

	add := &cobra.Command{
		Use:   "add <service-id>...",
		Short: "Add services to the cart",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, a := range args {
				id, err := parseID(a)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			return reported(addToCart(cmd.Context(), env, ids))
		},
	}

	remove := &cobra.Command{
		Use:   "remove <service-id>",
		Short: "Remove a service from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			for _, it := range env.cart.Items() {
				if it.ID == id {
					env.app.ToggleService(domain.CarService{ID: it.ID, Name: it.Name, Price: it.Price})
					return nil
				}
			}
			return fmt.Errorf("service %d is not in the cart", id)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			env.cart.ClearCart()
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			items := env.cart.Items()
			if len(items) == 0 {
				fmt.Fprintln(out, "Your booking cart is empty.")
				return
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, it := range items {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", it.ID, it.Name, money(it.Price))
			}
			fmt.Fprintf(tw, "\tTotal\t%s\n", money(env.cart.Total()))
			_ = tw.Flush()
		},
	}

	cmd.AddCommand(add, remove, clearCmd, list)
	return cmd
}

// addToCart looks each id up in the catalog and adds the ones not yet in the cart.
func addToCart(ctx context.Context, env *env, ids []int64) error {
	for _, id := range ids {
		if env.cart.Contains(id) {
			continue
		}
		svc, err := env.client.GetService(ctx, id)
		if err != nil {
			return err
		}
		env.app.ToggleService(svc)
	}
	return nil
}
