package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	appmodels "intake/internal/application/models"
)

// statusBadge renders a colored label per review status.
func statusBadge(status appmodels.Status) string {
	style := lipgloss.NewStyle().Bold(true)
	switch status {
	case appmodels.StatusApproved:
		style = style.Foreground(lipgloss.Color("42"))
	case appmodels.StatusRejected:
		style = style.Foreground(lipgloss.Color("196"))
	case appmodels.StatusShortlisted, appmodels.StatusInterviewScheduled:
		style = style.Foreground(lipgloss.Color("39"))
	case appmodels.StatusUnderReview:
		style = style.Foreground(lipgloss.Color("214"))
	default:
		style = style.Faint(true)
	}
	return style.Render(status.Label())
}

// addFilterFlags binds the shared listing filters onto a flag set.
func addFilterFlags(fs *pflag.FlagSet, status, search *string) {
	fs.StringVar(status, "status", "", "filter by review status")
	fs.StringVar(search, "search", "", "free-text search on applicant name or email")
}

// NewApplicationsCmd creates the applications command group.
func NewApplicationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"apps"},
		Short:   "List and review submitted applications",
	}
	cmd.AddCommand(newAppsListCmd())
	cmd.AddCommand(newAppsShowCmd())
	cmd.AddCommand(newAppsStatusCmd())
	cmd.AddCommand(newAppsRemarksCmd())
	cmd.AddCommand(newAppsStatsCmd())
	return cmd
}

func newAppsListCmd() *cobra.Command {
	var status, search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications in the inbox",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filters appmodels.Filters
			if status != "" {
				parsed, err := appmodels.ParseStatus(status)
				if err != nil {
					return err
				}
				filters.Status = parsed
			}
			filters.Search = search

			a := buildApp()
			apps, err := a.apps.List(cmd.Context(), filters)
			if err != nil {
				return err
			}
			if len(apps) == 0 {
				cmd.Println(faintStyle.Render("no applications"))
				return nil
			}
			for _, app := range apps {
				cmd.Printf("%-14s %-24s %-28s %s\n",
					app.ID, app.ApplicantName, app.ApplicantEmail, statusBadge(app.Status))
			}
			return nil
		},
	}

	addFilterFlags(cmd.Flags(), &status, &search)
	return cmd
}

func newAppsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one application in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := buildApp()
			app, err := a.apps.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			cmd.Printf("id:        %s\n", app.ID)
			cmd.Printf("applicant: %s <%s>\n", app.ApplicantName, app.ApplicantEmail)
			if app.ApplicantPhone != "" {
				cmd.Printf("phone:     %s\n", app.ApplicantPhone)
			}
			cmd.Printf("status:    %s\n", statusBadge(app.Status))
			cmd.Printf("submitted: %s\n", app.SubmittedAt.Format("2006-01-02 15:04"))
			if app.Remarks != "" {
				cmd.Printf("remarks:   %s\n", app.Remarks)
			}
			for key, value := range app.Responses {
				cmd.Printf("  %s: %s\n", key, value)
			}
			return nil
		},
	}
}

func newAppsStatusCmd() *cobra.Command {
	var remarks string
	var bulk bool

	cmd := &cobra.Command{
		Use:   "set-status <status> <id>...",
		Short: "Move applications to a new review status",
		Long: `Move one or more applications to a new review status. Valid statuses:
` + statusList(),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := appmodels.ParseStatus(args[0])
			if err != nil {
				return err
			}
			ids := args[1:]

			a := buildApp()
			if bulk || len(ids) > 1 {
				updated, err := a.apps.BulkUpdateStatus(cmd.Context(), ids, status, remarks)
				if err != nil {
					return err
				}
				cmd.Printf("%d of %d updated to %s\n", updated, len(ids), statusBadge(status))
				return nil
			}

			app, err := a.apps.UpdateStatus(cmd.Context(), ids[0], status, remarks)
			if err != nil {
				return err
			}
			cmd.Printf("%s is now %s\n", app.ID, statusBadge(app.Status))
			return nil
		},
	}

	cmd.Flags().StringVar(&remarks, "remarks", "", "reviewer remarks to attach")
	cmd.Flags().BoolVar(&bulk, "bulk", false, "force the bulk endpoint even for one id")
	return cmd
}

func statusList() string {
	var names []string
	for _, s := range appmodels.All() {
		names = append(names, string(s))
	}
	return "  " + strings.Join(names, ", ")
}

func newAppsRemarksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remark <id> <remarks>",
		Short: "Attach reviewer remarks to an application",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := buildApp()
			app, err := a.apps.AddRemarks(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			cmd.Printf("remarks saved on %s\n", app.ID)
			return nil
		},
	}
}

func newAppsStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show inbox counts by status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := buildApp()
			stats := a.apps.Stats(cmd.Context())

			rows := []struct {
				label string
				count int
			}{
				{"total", stats.Total},
				{"submitted", stats.Submitted},
				{"under review", stats.UnderReview},
				{"shortlisted", stats.Shortlisted},
				{"interview scheduled", stats.InterviewScheduled},
				{"approved", stats.Approved},
				{"rejected", stats.Rejected},
			}
			for _, row := range rows {
				cmd.Println(fmt.Sprintf("%-20s %d", row.label, row.count))
			}
			return nil
		},
	}
}
