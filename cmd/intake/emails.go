package main

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	emailmodels "intake/internal/email/models"
	emailservice "intake/internal/email/service"
)

// NewEmailsCmd creates the emails command group.
func NewEmailsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emails",
		Short: "Manage templates and send applicant notifications",
	}
	cmd.AddCommand(newTemplatesCmd())
	cmd.AddCommand(newSendCmd())
	cmd.AddCommand(newHistoryCmd())
	return cmd
}

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage the template library",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := buildApp()
			templates, err := a.emails.Templates(cmd.Context())
			if err != nil {
				return err
			}
			if len(templates) == 0 {
				cmd.Println(faintStyle.Render("no templates"))
				return nil
			}
			for _, tpl := range templates {
				cmd.Printf("%-38s %-12s %s\n", tpl.ID, tpl.Category, tpl.Name)
			}
			return nil
		},
	}

	var tpl emailmodels.Template
	var category string
	save := &cobra.Command{
		Use:   "save",
		Short: "Create or update a template",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tpl.Category = emailmodels.Category(category)
			a := buildApp()
			saved, err := a.emails.SaveTemplate(cmd.Context(), tpl)
			if err != nil {
				return err
			}
			cmd.Printf("saved %s\n", saved.ID)
			return nil
		},
	}
	save.Flags().StringVar(&tpl.ID, "id", "", "template id (empty creates a new one)")
	save.Flags().StringVar(&tpl.Name, "name", "", "template name")
	save.Flags().StringVar(&category, "category", string(emailmodels.CategoryGeneral), "template category")
	save.Flags().StringVar(&tpl.Subject, "subject", "", "subject line, may contain {{placeholders}}")
	save.Flags().StringVar(&tpl.Body, "body", "", "body text, may contain {{placeholders}}")
	_ = save.MarkFlagRequired("name")
	_ = save.MarkFlagRequired("subject")
	_ = save.MarkFlagRequired("body")

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := buildApp()
			if err := a.emails.DeleteTemplate(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Println("deleted")
			return nil
		},
	}

	duplicate := &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Copy a template under a new id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := buildApp()
			copied, err := a.emails.DuplicateTemplate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cmd.Printf("created %s (%s)\n", copied.ID, copied.Name)
			return nil
		},
	}

	var values map[string]string
	preview := &cobra.Command{
		Use:   "preview <id>",
		Short: "Render a template with sample values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := buildApp()
			subject, body, err := a.emails.Preview(cmd.Context(), args[0], values)
			if err != nil {
				return err
			}
			cmd.Println("subject: " + subject)
			cmd.Println(body)
			return nil
		},
	}
	preview.Flags().StringToStringVar(&values, "set", nil, "placeholder values, e.g. --set applicantName=Ada")

	cmd.AddCommand(list, save, remove, duplicate, preview)
	return cmd
}

func newSendCmd() *cobra.Command {
	var (
		templateID string
		recipients []string
		valuesJSON string
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a templated email to one or more applicants",
		Long: `Send a templated email. With one recipient the message goes out as a
single send; with several, the bulk path is used and per-recipient
placeholder values can be supplied as JSON keyed by address.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := buildApp()
			tpl, err := a.emails.GetTemplate(cmd.Context(), templateID)
			if err != nil {
				return err
			}

			perRecipient := map[string]map[string]string{}
			if valuesJSON != "" {
				if err := json.Unmarshal([]byte(valuesJSON), &perRecipient); err != nil {
					return err
				}
			}

			targets := make([]emailservice.Recipient, 0, len(recipients))
			for _, to := range recipients {
				targets = append(targets, emailservice.Recipient{To: to, Values: perRecipient[to]})
			}

			report, err := a.emails.SendBulk(cmd.Context(), *tpl, targets)
			if err != nil {
				return err
			}
			cmd.Printf("%s\n", okStyle.Render(plural(report.Sent, "email")+" sent"))
			for _, failure := range report.Failures {
				cmd.Printf("%s %s: %s\n", errStyle.Render("failed"), failure.To, failure.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&templateID, "template", "", "template id to send")
	cmd.Flags().StringSliceVar(&recipients, "to", nil, "recipient addresses")
	cmd.Flags().StringVar(&valuesJSON, "values", "", `per-recipient placeholders as JSON, e.g. {"a@b.co":{"applicantName":"Ada"}}`)
	_ = cmd.MarkFlagRequired("template")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the sent-mail log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := buildApp()
			history, err := a.emails.History(cmd.Context())
			if err != nil {
				return err
			}
			if len(history) == 0 {
				cmd.Println(faintStyle.Render("no emails sent"))
				return nil
			}
			for _, entry := range history {
				cmd.Printf("%s  %-28s %-10s %s\n",
					entry.SentAt.Format("2006-01-02 15:04"), entry.To, entry.Status, entry.Subject)
			}
			return nil
		},
	}
}
