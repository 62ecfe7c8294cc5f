package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/akolanti/DocQA/internal/adapter"
	"github.com/akolanti/DocQA/internal/api"
	"github.com/akolanti/DocQA/internal/extract"
	"github.com/akolanti/DocQA/internal/render"
	"github.com/spf13/cobra"
)

func topKOrDefault(topK int, fallback int) int {
	if topK < 1 {
		return fallback
	}
	return topK
}

func askCMD(a *app) *cobra.Command {
	var topK int
	ask := &cobra.Command{
		Use:   "ask QUESTION...",
		Short: "Ask a question about the uploaded documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return api.NewValidationError(adapter.MsgEmptyQuestion)
			}
			client, err := a.client()
			if err != nil {
				return err
			}
			res, err := client.Ask(cmd.Context(), api.QuestionRequest{
				Question: question,
				TopK:     topKOrDefault(topK, a.cfg.UI.DefaultTopK),
			})
			if err != nil {
				return errors.New(adapter.ToUserMessage(err, adapter.MsgAnswerFallback))
			}
			return render.WriteResultsText(cmd.OutOrStdout(), adapter.ToResultsView(res))
		},
	}
	ask.Flags().IntVarP(&topK, "top-k", "k", 0, "number of answers (default from config)")
	return ask
}

func askDirectCMD(a *app) *cobra.Command {
	var (
		topK     int
		text     string
		textFile string
	)
	askDirect := &cobra.Command{
		Use:   "ask-direct QUESTION...",
		Short: "Ask a question about a given text",
		RunE: func(cmd *cobra.Command, args []string) error {
			if textFile != "" {
				extracted, err := extract.Text(textFile)
				if err != nil {
					return fmt.Errorf("read %s: %w", textFile, err)
				}
				text = extracted
			}
			req := api.DirectTextRequest{
				Text:     strings.TrimSpace(text),
				Question: strings.TrimSpace(strings.Join(args, " ")),
				TopK:     topKOrDefault(topK, a.cfg.UI.DefaultTopK),
			}
			if req.Text == "" || req.Question == "" {
				return api.NewValidationError(adapter.MsgEmptyDirectFields)
			}
			client, err := a.client()
			if err != nil {
				return err
			}
			res, err := client.AskDirect(cmd.Context(), req)
			if err != nil {
				return errors.New(adapter.ToUserMessage(err, adapter.MsgAnswerFallback))
			}
			return render.WriteResultsText(cmd.OutOrStdout(), adapter.ToResultsView(res))
		},
	}
	askDirect.Flags().IntVarP(&topK, "top-k", "k", 0, "number of answers (default from config)")
	askDirect.Flags().StringVar(&text, "text", "", "text to search")
	askDirect.Flags().StringVar(&textFile, "text-file", "", "read the text to search from a PDF, DOCX or TXT file")
	askDirect.MarkFlagsMutuallyExclusive("text", "text-file")
	return askDirect
}

func healthCMD(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the QA service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			res, err := client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("health: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nengine: %s\n", adapter.FormatHealth(res), res.QAEngine)
			return nil
		},
	}
}
