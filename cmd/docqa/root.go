package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/customHttpClient"
	"github.com/akolanti/DocQA/pkg/logger_i"
	"github.com/spf13/cobra"
)

// app carries what every subcommand shares: flags of the root command and
// the configuration they resolve to.
type app struct {
	cfgPath string
	baseURL string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "docqa",
		Short:         "Upload documents to a QA service and ask questions about them",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "config file (default is ./docqa.* or ./config/docqa.*)")
	root.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "QA service API root, overrides the config")

	root.AddCommand(
		serveCMD(a),
		uploadCMD(a),
		listCMD(a),
		deleteCMD(a),
		clearCMD(a),
		statsCMD(a),
		askCMD(a),
		askDirectCMD(a),
		healthCMD(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.baseURL != "" {
		cfg.Service.BaseURL = a.baseURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	// keep stdout for command output; the server logs there as usual
	logOut := cmd.ErrOrStderr()
	if cmd.Name() == "serve" {
		logOut = cmd.OutOrStdout()
	}
	logger_i.InitWithWriter(cfg.Log, logOut)
	return nil
}

func (a *app) client() (*customHttpClient.Client, error) {
	return customClient(*a.cfg)
}

// confirm asks a yes/no question; anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
