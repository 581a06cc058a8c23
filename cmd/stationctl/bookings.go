package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/carservice/station/internal/client/app"
	"github.com/carservice/station/internal/core/domain"
)

const dateLayout = "2006-01-02 15:04"

func newCheckoutCmd(env *env) *cobra.Command {
	var at string
	var serviceIDs []int64
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Book every service in the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			when, err := parseWhen(at)
			if err != nil {
				return err
			}
			if err := addToCart(cmd.Context(), env, serviceIDs); err != nil {
				return reported(err)
			}
			b, err := env.app.Checkout(cmd.Context(), when)
			if err != nil {
				return reported(err)
			}
			printBooking(cmd.OutOrStdout(), b)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "date and time, e.g. \"2026-11-02 09:30\"")
	cmd.Flags().Int64SliceVarP(&serviceIDs, "service", "s", nil, "add a service to the cart first (repeatable)")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func newBookCmd(env *env) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "book <service-id>",
		Short: "Book a single service, leaving the cart alone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			when, err := parseWhen(at)
			if err != nil {
				return err
			}
			b, err := env.app.BookService(cmd.Context(), id, when)
			if err != nil {
				return reported(err)
			}
			printBooking(cmd.OutOrStdout(), b)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "date and time, e.g. \"2026-11-02 09:30\"")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

// bookingAction loads booking <id> and hands it to fn.
func bookingAction(env *env, use, short string, fn func(ctx context.Context, out io.Writer, b domain.Booking) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <booking-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, err := env.client.GetBooking(cmd.Context(), id)
			if err != nil {
				return reported(err)
			}
			return reported(fn(cmd.Context(), cmd.OutOrStdout(), b))
		},
	}
}

func newBookingsCmd(env *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "List and manage bookings",
	}

	mine := &cobra.Command{
		Use:   "mine",
		Short: "Your bookings, grouped by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := env.client.MyBookings(cmd.Context())
			if err != nil {
				return reported(err)
			}
			printGrouped(cmd.OutOrStdout(), list)
			if due := app.PendingPayments(list); len(due) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%d booking(s) awaiting payment.\n", len(due))
			}
			return nil
		},
	}

	all := &cobra.Command{
		Use:   "all",
		Short: "Every booking, grouped by status (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := env.client.ListBookings(cmd.Context())
			if err != nil {
				return reported(err)
			}
			printGrouped(cmd.OutOrStdout(), list)
			return nil
		},
	}

	show := bookingAction(env, "show", "Show one booking", func(_ context.Context, out io.Writer, b domain.Booking) error {
		printBooking(out, b)
		return nil
	})

	advance := bookingAction(env, "advance", "Move a booking to its next status (admin)", func(ctx context.Context, out io.Writer, b domain.Booking) error {
		updated, err := env.app.AdvanceBooking(ctx, b)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Booking #%d is now %s\n", updated.ID, updated.Status)
		return nil
	})

	cancel := bookingAction(env, "cancel", "Cancel a booking (admin)", func(ctx context.Context, out io.Writer, b domain.Booking) error {
		updated, err := env.app.SetBookingStatus(ctx, b.ID, domain.BookingCancelled)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Booking #%d is now %s\n", updated.ID, updated.Status)
		return nil
	})

	del := bookingAction(env, "delete", "Delete a completed booking (admin)", func(ctx context.Context, _ io.Writer, b domain.Booking) error {
		return env.app.DeleteCompletedBooking(ctx, b)
	})

	cmd.AddCommand(mine, all, show, advance, cancel, del)
	return cmd
}

func newStatsCmd(env *env) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Revenue of completed and paid bookings (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := env.client.Stats(cmd.Context())
			if err != nil {
				return reported(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed bookings: %d\nTotal revenue:      %s\n", st.TotalCompletedBookings, money(st.TotalRevenue))
			return nil
		},
	}
}

func newFeedbackCmd(env *env) *cobra.Command {
	var rating int
	var comment string
	cmd := bookingAction(env, "feedback", "Rate a completed booking", func(ctx context.Context, _ io.Writer, b domain.Booking) error {
		return env.app.LeaveFeedback(ctx, b, rating, comment)
	})
	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "rating from 1 to 5")
	cmd.Flags().StringVarP(&comment, "comment", "c", "", "optional comment")
	_ = cmd.MarkFlagRequired("rating")
	return cmd
}

func newPayCmd(env *env) *cobra.Command {
	var paymentID, secret string
	cmd := bookingAction(env, "pay", "Pay a booking through the sandbox checkout", func(ctx context.Context, out io.Writer, b domain.Booking) error {
		return env.app.Pay(ctx, b, sandboxCheckout(out, paymentID, secret))
	})
	cmd.Flags().StringVar(&paymentID, "payment-id", "", "provider payment id (generated when empty)")
	cmd.Flags().StringVar(&secret, "secret", "", "checkout key secret used to sign the sandbox payment")
	_ = cmd.MarkFlagRequired("secret")
	return cmd
}

// sandboxCheckout stands in for the hosted checkout: it accepts the order at
// once and signs the payment the way the provider does.
func sandboxCheckout(out io.Writer, paymentID, secret string) app.CheckoutFunc {
	return func(ctx context.Context, order domain.PaymentOrder) (domain.PaymentConfirmation, error) {
		if err := ctx.Err(); err != nil {
			return domain.PaymentConfirmation{}, err
		}
		if paymentID == "" {
			paymentID = "pay_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
		}
		fmt.Fprintf(out, "Order %s: %s for booking #%d (key %s)\n", order.OrderID, money(order.Amount), order.BookingID, order.KeyID)
		return domain.PaymentConfirmation{
			OrderID:   order.OrderID,
			PaymentID: paymentID,
			Signature: domain.PaymentSignature(secret, order.OrderID, paymentID),
			BookingID: order.BookingID,
		}, nil
	}
}

func printBooking(w io.Writer, b domain.Booking) {
	fmt.Fprintf(w, "Booking #%d  %s  %s / %s\n", b.ID, b.BookingDateTime.Local().Format(dateLayout), b.Status, b.PaymentStatus)
	if b.CustomerFullName != "" {
		fmt.Fprintf(w, "Customer: %s (%s)\n", b.CustomerFullName, b.CustomerUsername)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range b.BookedServices {
		fmt.Fprintf(tw, "  %d\t%s\t%s\n", s.ID, s.Name, money(s.Price))
	}
	fmt.Fprintf(tw, "  \tTotal\t%s\n", money(b.TotalAmount))
	_ = tw.Flush()
	if b.Rating != nil {
		fmt.Fprintf(w, "Rating: %s %s\n", strings.Repeat("★", *b.Rating), b.Comment)
	}
}

func printGrouped(w io.Writer, list []domain.Booking) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No bookings yet.")
		return
	}
	groups := app.GroupByStatus(list)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, st := range domain.BookingStatuses {
		bs := groups[st]
		if len(bs) == 0 {
			continue
		}
		fmt.Fprintf(tw, "%s (%d)\n", st, len(bs))
		for _, b := range bs {
			fmt.Fprintf(tw, "  #%d\t%s\t%s\t%s\n", b.ID, b.BookingDateTime.Local().Format(dateLayout), b.PaymentStatus, money(b.TotalAmount))
		}
	}
	_ = tw.Flush()
}
