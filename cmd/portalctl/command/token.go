package command

import (
	"context"
	"fmt"

	"github.com/integrada/portal/patients"
	"github.com/integrada/portal/session"
	"github.com/integrada/portal/view"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Link tokens",
	Long:  "The token command is used to troubleshoot patient link tokens",
}

var tokenInspectParams = struct {
	Token string
}{}

var tokenInspectCmd = &cobra.Command{
	Use:   "inspect {token}",
	Args:  cobra.ExactArgs(1),
	Short: "Show what a link token opens",
	Long:  "The inspect command boots the patient area of a token and prints the patient and the status of every test",
	RunE: func(cmd *cobra.Command, args []string) error {
		tokenInspectParams.Token = args[0]
		return Run(inspectToken)
	},
}

func inspectToken(manager *session.Manager) error {
	s, err := manager.Open(context.TODO(), tokenInspectParams.Token)
	if err != nil {
		return err
	}

	patient := s.Patient()
	fmt.Printf("%s %s\n", patients.MaskCpf(s.Cpf()), patient.DisplayName())
	fmt.Println(view.SummaryLine(s.Summary()))
	for _, group := range s.Groups() {
		fmt.Printf("%s: %d released, %d open\n", group.Label, group.Released, group.Open)
	}
	for _, entry := range s.Tests() {
		fmt.Printf("%-24s %-10s %s\n", entry.Definition.Code, entry.Status, entry.Respondent.Label)
	}

	return nil
}

func init() {
	tokenCmd.AddCommand(tokenInspectCmd)
	rootCmd.AddCommand(tokenCmd)
}
