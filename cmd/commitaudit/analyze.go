package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/stake-plus/commitaudit/src/audit"
)

var analyzeReq audit.Request

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one analysis and print the JSON result",
	Example: `  commitaudit analyze --function-id "TC1, TC2" --workspace acme --repo api \
    --token "$BITBUCKET_TOKEN" --description "users can reset their password"`,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeReq.FunctionID, "function-id", "", "comma-separated test case IDs")
	f.StringVar(&analyzeReq.Workspace, "workspace", "", "Bitbucket workspace")
	f.StringVar(&analyzeReq.RepoSlug, "repo", "", "Bitbucket repository slug")
	f.StringVar(&analyzeReq.RepoToken, "token", "", "Bitbucket access token")
	f.StringVar(&analyzeReq.Description, "description", "", "expected functionality")
	for _, name := range []string{"function-id", "workspace", "repo", "token", "description"} {
		_ = analyzeCmd.MarkFlagRequired(name)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := buildService(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := svc.Analyze(cmd.Context(), analyzeReq)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
