package main

import (
	"context"
	"fmt"
	"strings"

	"kb-agent-lambda/internal/bootstrap"
	"kb-agent-lambda/internal/config"
	"kb-agent-lambda/internal/constant"
	"kb-agent-lambda/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var sessionID string

var rootCmd = &cobra.Command{
	Use:           "ask",
	Short:         "Ask the knowledge-base agents from a terminal",
	SilenceErrors: true,
	SilenceUsage:  true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

var underwritingCmd = &cobra.Command{
	Use:   "underwriting [question]",
	Short: "Ask the underwriting assistant",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ask(cmd.Context(), constant.ProfileUnderwriting, strings.Join(args, " "))
	},
}

var encyclopediaCmd = &cobra.Command{
	Use:   "encyclopedia [prompt]",
	Short: "Ask the encyclopedia assistant",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ask(cmd.Context(), constant.ProfileEncyclopedia, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&sessionID, "session", "s", "", "Session id to continue")
	rootCmd.AddCommand(underwritingCmd, encyclopediaCmd, eventsCmd)
}

func ask(ctx context.Context, profile, question string) error {
	container, err := bootstrap.NewContainer(ctx, config.Load(), profile)
	if err != nil {
		return err
	}
	defer container.Close(ctx)

	result, err := container.Service.Ask(ctx, service.TurnRequest{
		Question:  question,
		SessionID: sessionID,
	})
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func printResult(result *service.TurnResult) {
	color.Cyan("Session: %s\n", result.SessionID)
	fmt.Println()
	fmt.Println(result.Answer)

	if len(result.Citations) == 0 {
		return
	}
	color.Yellow("\nCitations")
	for _, c := range result.Citations {
		color.Green("[%s] %s", c.ID, c.Name())
		if c.Snippet != "" {
			fmt.Printf("    %s\n", c.Snippet)
		}
	}
}
