package main

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	appmodels "intake/internal/application/models"
	fb "intake/internal/formbuilder/models"
	"intake/internal/formbuilder/wizard"
	usermodels "intake/internal/user/models"
)

// NewFormCmd creates the form command group.
func NewFormCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Manage the application form and walk through submissions",
	}
	cmd.AddCommand(newFormShowCmd())
	cmd.AddCommand(newFormSaveCmd())
	cmd.AddCommand(newFormApplyCmd())
	return cmd
}

func newFormShowCmd() *cobra.Command {
	var ownerID string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a form definition",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := buildApp()

			var cfg *usermodels.FormConfig
			var err error
			if ownerID != "" {
				cfg, err = a.users.PublicFormConfig(cmd.Context(), ownerID)
			} else {
				cfg, err = a.users.FormConfig(cmd.Context())
			}
			if err != nil {
				return err
			}

			cmd.Println(okStyle.Render(cfg.Title))
			if cfg.Description != "" {
				cmd.Println(cfg.Description)
			}
			if !cfg.AcceptingResponses {
				cmd.Println(warnStyle.Render("not accepting responses"))
			}
			for _, field := range cfg.Fields {
				required := ""
				if field.Required {
					required = " (required)"
				}
				cmd.Printf("  %-20s %s%s\n", field.ID, field.Label, required)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ownerID, "owner", "", "show another user's public form instead of your own")
	return cmd
}

func newFormSaveCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a form definition from a JSON file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			var cfg usermodels.FormConfig
			if err := json.Unmarshal(raw, &cfg); err != nil {
				return err
			}

			a := buildApp()
			saved, err := a.users.UpdateFormConfig(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			cmd.Printf("saved %q with %d fields\n", saved.Title, len(saved.Fields))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "path to the form definition JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// newFormApplyCmd walks through an owner's public form interactively and
// submits the answers, the terminal equivalent of the hosted form page.
func newFormApplyCmd() *cobra.Command {
	var stepSize int

	cmd := &cobra.Command{
		Use:   "apply <ownerID>",
		Short: "Fill in and submit someone's application form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerID := args[0]
			a := buildApp()

			cfg, err := a.users.PublicFormConfig(cmd.Context(), ownerID)
			if err != nil {
				return err
			}
			if !cfg.AcceptingResponses {
				cmd.Println(warnStyle.Render("this form is not accepting responses"))
				return nil
			}

			w, err := wizard.New(chunk(cfg.Fields, stepSize))
			if err != nil {
				return err
			}

			cmd.Println(okStyle.Render(cfg.Title))
			reader := bufio.NewReader(cmd.InOrStdin())
			for !w.Done() {
				cmd.Printf("step %d of %d\n", w.StepIndex()+1, w.StepCount())
				for _, field := range w.Current() {
					for {
						cmd.Printf("  %s: ", field.Label)
						line, err := reader.ReadString('\n')
						if err != nil {
							return err
						}
						if err := w.Answer(field.ID, trimNewline(line)); err != nil {
							cmd.Println("  " + errStyle.Render(err.Error()))
							continue
						}
						break
					}
				}
				if err := w.Next(); err != nil {
					cmd.Println(errStyle.Render(err.Error()))
				}
			}

			responses := w.Responses()
			req := appmodels.SubmitRequest{
				ApplicantName:  responses["fullName"],
				ApplicantEmail: responses["email"],
				ApplicantPhone: responses["phone"],
				Responses:      responses,
			}
			app, err := a.apps.Submit(cmd.Context(), ownerID, req)
			if err != nil {
				return err
			}
			cmd.Println(okStyle.Render("application submitted: " + app.ID))
			return nil
		},
	}

	cmd.Flags().IntVar(&stepSize, "step-size", 3, "fields per wizard step")
	return cmd
}

func chunk(fields []fb.Field, size int) [][]fb.Field {
	if size <= 0 {
		size = 3
	}
	var steps [][]fb.Field
	for len(fields) > size {
		steps = append(steps, fields[:size])
		fields = fields[size:]
	}
	if len(fields) > 0 {
		steps = append(steps, fields)
	}
	return steps
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
