package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/akolanti/DocQA/internal/adapter"
	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/customHttpClient"
	"github.com/akolanti/DocQA/internal/render"
	"github.com/akolanti/DocQA/internal/upload"
	"github.com/spf13/cobra"
)

func customClient(cfg config.Config) (*customHttpClient.Client, error) {
	return customHttpClient.NewClient(cfg.Service)
}

func uploadCMD(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE...",
		Short: "Upload PDF, DOCX or TXT files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			candidates := make([]upload.Candidate, 0, len(args))
			for _, path := range args {
				path := path
				candidates = append(candidates, upload.Candidate{
					Name: filepath.Base(path),
					Open: func() (io.ReadCloser, error) {
						return os.Open(path)
					},
				})
			}

			var printMu sync.Mutex
			refresh := func(ctx context.Context) {
				list, err := client.ListDocuments(ctx)
				if err != nil {
					return
				}
				printMu.Lock()
				defer printMu.Unlock()
				fmt.Fprintf(out, "%d documents stored\n", len(list.Documents))
			}

			handler := upload.NewHandler(client, a.cfg.UI.MaxUploadWorkers)
			jobs, err := handler.Upload(cmd.Context(), candidates, newCLINotifier(cmd.ErrOrStderr()), refresh)
			if err != nil {
				return errors.New(adapter.ToUserMessage(err, adapter.MsgUploadFallback))
			}

			failed := 0
			for _, job := range jobs {
				if !job.Succeeded() {
					failed++
					continue
				}
				fmt.Fprintf(out, "Uploaded %s as %s\n", job.FileName, job.DocId)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d uploads failed", failed, len(jobs))
			}
			return nil
		},
	}
}

func listCMD(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List uploaded documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			res, err := client.ListDocuments(cmd.Context())
			if err != nil {
				return fmt.Errorf("list documents: %w", err)
			}
			return render.WriteDocumentsText(cmd.OutOrStdout(), adapter.ToDocumentsView(res))
		},
	}
}

func deleteCMD(a *app) *cobra.Command {
	var yes bool
	del := &cobra.Command{
		Use:   "delete DOC_ID",
		Short: "Delete one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			docId := args[0]

			if !yes {
				name := docId
				if list, err := client.ListDocuments(ctx); err == nil {
					for _, doc := range list.Documents {
						if doc.DocId == docId {
							name = doc.Filename
						}
					}
				}
				if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Are you sure you want to delete %q?", name)) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			if err := client.DeleteDocument(ctx, docId); err != nil {
				return errors.New(adapter.DeleteFailedPrefix + adapter.ToUserMessage(err, adapter.MsgDeleteFallback))
			}
			res, err := client.ListDocuments(ctx)
			if err != nil {
				return fmt.Errorf("list documents: %w", err)
			}
			return render.WriteDocumentsText(cmd.OutOrStdout(), adapter.ToDocumentsView(res))
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return del
}

func clearCMD(a *app) *cobra.Command {
	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure you want to delete all documents?") {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			res, err := client.ClearDocuments(cmd.Context())
			if err != nil {
				return errors.New(adapter.DeleteFailedPrefix + adapter.ToUserMessage(err, adapter.MsgDeleteFallback))
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "clear without asking")
	return clearCmd
}

func statsCMD(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show document store statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			stats, err := client.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(stats)
		},
	}
}
