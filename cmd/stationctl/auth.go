package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/carservice/station/internal/client/app"
	"github.com/carservice/station/internal/client/station"
)

func newLoginCmd(env *env) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Sign in and remember the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				line, err := env.input().ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no password given")
				}
				password = strings.TrimRight(line, "\r\n")
			}
			s, err := env.app.Login(cmd.Context(), args[0], password)
			if err != nil {
				return reported(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", s.Username, strings.Join(s.Roles, ", "))
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return cmd
}

func newLogoutCmd(env *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			env.app.Logout(cmd.Context())
		},
	}
}

func newWhoamiCmd(env *env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and when the token expires",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, ok := env.session.User()
			if !ok {
				return app.ErrNotSignedIn
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s <%s>\nroles: %s\n", u.Username, u.Email, strings.Join(u.Roles, ", "))

			exp, err := tokenExpiry(u.Token)
			switch {
			case err != nil:
				fmt.Fprintln(out, "token: unreadable")
			case exp.IsZero():
				fmt.Fprintln(out, "token: no expiry")
			case time.Now().After(exp):
				fmt.Fprintf(out, "token: expired %s\n", exp.Local().Format(time.RFC1123))
			default:
				fmt.Fprintf(out, "token: valid until %s\n", exp.Local().Format(time.RFC1123))
			}
			return nil
		},
	}
}

// tokenExpiry reads the exp claim without verifying the signature; the
// server remains the only judge of validity.
func tokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, err
	}
	return exp.Time, nil
}

func newRegisterCmd(env *env) *cobra.Command {
	var req station.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create a customer account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Username = args[0]
			return reported(env.app.Register(cmd.Context(), req))
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Email, "email", "", "e-mail address")
	f.StringVarP(&req.Password, "password", "p", "", "password")
	f.StringVar(&req.FirstName, "first-name", "", "first name")
	f.StringVar(&req.LastName, "last-name", "", "last name")
	f.StringVar(&req.Address, "address", "", "postal address")
	f.StringVar(&req.Phone, "phone", "", "10 digit phone number")
	f.StringVar(&req.ProfileImageURL, "image", "", "profile image URL")
	for _, name := range []string{"email", "password", "first-name", "last-name", "phone"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newProfileCmd(env *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change your profile",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := env.client.Me(cmd.Context())
			if err != nil {
				return reported(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:       %d\n", p.ID)
			fmt.Fprintf(out, "username: %s\n", p.Username)
			fmt.Fprintf(out, "email:    %s\n", p.Email)
			fmt.Fprintf(out, "name:     %s %s\n", p.FirstName, p.LastName)
			fmt.Fprintf(out, "address:  %s\n", p.Address)
			fmt.Fprintf(out, "phone:    %s\n", p.Phone)
			fmt.Fprintf(out, "roles:    %s\n", strings.Join(p.Roles, ", "))
			return nil
		},
	}

	var req station.UserUpdateRequest
	update := &cobra.Command{
		Use:   "update",
		Short: "Change profile fields; you are signed out afterwards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := env.app.UpdateProfile(cmd.Context(), req)
			if err != nil {
				return reported(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved profile of %s\n", p.Username)
			return nil
		},
	}
	f := update.Flags()
	f.StringVar(&req.Username, "username", "", "new username")
	f.StringVar(&req.Email, "email", "", "new e-mail address")
	f.StringVar(&req.Password, "password", "", "new password (unchanged when empty)")
	f.StringVar(&req.FirstName, "first-name", "", "first name")
	f.StringVar(&req.LastName, "last-name", "", "last name")
	f.StringVar(&req.Address, "address", "", "postal address")
	f.StringVar(&req.Phone, "phone", "", "10 digit phone number")
	f.StringVar(&req.ProfileImageURL, "image", "", "profile image URL")

	cmd.AddCommand(show, update)
	return cmd
}
