package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	authmodels "intake/internal/auth/models"
	"intake/internal/guard"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
)

// NewAuthCmd creates the auth command group.
func NewAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in, log out and inspect the cached session",
	}
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newRegisterCmd())
	return cmd
}

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and cache the session locally",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := buildApp()
			sess, err := a.auth.Login(cmd.Context(), authmodels.LoginRequest{
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			if sess.IsLegacy() {
				cmd.Println(warnStyle.Render("logged in via legacy admin fallback"))
			} else {
				cmd.Println(okStyle.Render("logged in"))
			}
			cmd.Printf("  %s <%s>\n", sess.User.FullName(), sess.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the cached session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := buildApp()
			a.auth.Logout(cmd.Context())
			cmd.Println("logged out")
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	var localOnly bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether a valid session is cached",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := buildApp()
			g := a.guard
			if localOnly {
				g = guard.New(a.auth)
			}

			res := g.Check(cmd.Context())
			if res.State != guard.Granted {
				cmd.Println(errStyle.Render("not logged in"))
				return nil
			}

			cmd.Println(okStyle.Render("logged in"))
			cmd.Printf("  user:   %s <%s>\n", res.User.FullName(), res.User.Email)
			if res.User.Organization != "" {
				cmd.Printf("  org:    %s\n", res.User.Organization)
			}
			if res.User.IsLegacy {
				cmd.Println(warnStyle.Render("  scheme: legacy admin (local only)"))
			}
			cmd.Println(faintStyle.Render("  api:    " + a.cfg.APIBaseURL))
			return nil
		},
	}

	cmd.Flags().BoolVar(&localOnly, "local", false, "skip the remote token check")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var req authmodels.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := buildApp()
			sess, err := a.auth.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			cmd.Println(okStyle.Render("account created"))
			cmd.Printf("  %s <%s>\n", sess.User.FullName(), sess.User.Email)
			if sess.User.FormLink != "" {
				cmd.Printf("  public form: %s\n", sess.User.FormLink)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&req.Organization, "organization", "", "organization")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("first-name")
	return cmd
}
