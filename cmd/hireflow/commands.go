package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/hireflow"
	"github.com/viant/hireflow/internal/logging"
	"github.com/viant/hireflow/model/graph"
	"github.com/viant/hireflow/service/analyzer"
	"github.com/viant/hireflow/service/secret"
	"github.com/viant/scy/cred"
)

type options struct {
	configURL   string
	workflowURL string
	seedURL     string
	logLevel    string
	score       float64
	fixedScore  bool
	secret      secretOptions
}

type secretOptions struct {
	dest     string
	key      string
	username string
	password string
	text     string
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "hireflow",
		Short:         "Execute candidate screening workflows",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configURL, "config", "c", "", "engine config URL (YAML or JSON)")
	root.PersistentFlags().StringVarP(&opts.workflowURL, "workflow", "w", "", "workflow URL (YAML or JSON)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override: debug, info, warn, error")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a workflow against a seed and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.fixedScore = cmd.Flags().Changed("score")
			return runWorkflow(cmd.Context(), opts, out)
		},
	}
	runCmd.Flags().StringVarP(&opts.seedURL, "seed", "s", "", "seed URL: candidate, document and correlation ids")
	runCmd.Flags().Float64Var(&opts.score, "score", 0, "use a fixed match score instead of the configured analyzer")
	_ = runCmd.MarkFlagRequired("seed")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a workflow and print its execution order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateWorkflow(cmd.Context(), opts, out)
		},
	}
	secretCmd := &cobra.Command{
		Use:   "secret",
		Short: "Encrypt SMTP credentials or an analyzer API key for notifier.secret and analyzer.secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			return storeSecret(cmd.Context(), &opts.secret, out)
		},
	}
	secretCmd.Flags().StringVarP(&opts.secret.dest, "dest", "d", "", "secret destination URL")
	secretCmd.Flags().StringVarP(&opts.secret.key, "key", "k", secret.DefaultKey, "encryption key")
	secretCmd.Flags().StringVarP(&opts.secret.username, "username", "u", "", "SMTP username")
	secretCmd.Flags().StringVarP(&opts.secret.password, "password", "p", "", "SMTP password")
	secretCmd.Flags().StringVar(&opts.secret.text, "text", "", "plain secret such as an API key")
	_ = secretCmd.MarkFlagRequired("dest")
	root.AddCommand(runCmd, validateCmd, secretCmd)
	return root
}

func newService(ctx context.Context, opts *options) (*hireflow.Service, error) {
	config := hireflow.DefaultConfig()
	if opts.configURL != "" {
		var err error
		if config, err = hireflow.LoadConfig(ctx, opts.configURL); err != nil {
			return nil, err
		}
	}
	if opts.logLevel != "" {
		config.Log.Level = opts.logLevel
	}
	options := []hireflow.Option{
		hireflow.WithConfig(config),
		hireflow.WithLogger(logging.New(config.Log.Level, config.Log.Format, os.Stderr)),
	}
	if opts.fixedScore {
		score := opts.score
		options = append(options, hireflow.WithAnalyzer(analyzer.Func(func(ctx context.Context, request *analyzer.Request) (*analyzer.Response, error) {
			return &analyzer.Response{MatchScore: score, ExtractedSkills: []string{}}, nil
		})))
	}
	return hireflow.New(options...)
}

func runWorkflow(ctx context.Context, opts *options, out io.Writer) error {
	if opts.workflowURL == "" {
		return errors.New("workflow URL is required")
	}
	srv, err := newService(ctx, opts)
	if err != nil {
		return err
	}
	runtime := srv.Runtime()
	aWorkflow, err := runtime.LoadWorkflow(ctx, opts.workflowURL)
	if err != nil {
		return err
	}
	seed, err := runtime.LoadSeed(ctx, opts.seedURL)
	if err != nil {
		return err
	}
	result, runErr := runtime.Execute(ctx, aWorkflow, seed)
	if result != nil {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err = encoder.Encode(result); err != nil {
			return err
		}
	}
	return runErr
}

func validateWorkflow(ctx context.Context, opts *options, out io.Writer) error {
	if opts.workflowURL == "" {
		return errors.New("workflow URL is required")
	}
	srv, err := newService(ctx, opts)
	if err != nil {
		return err
	}
	runtime := srv.Runtime()
	aWorkflow, err := runtime.LoadWorkflow(ctx, opts.workflowURL)
	if err != nil {
		return err
	}
	plan, err := runtime.Plan(aWorkflow)
	if err != nil {
		return err
	}
	known := map[graph.CardType]bool{}
	for _, cardType := range runtime.CardTypes() {
		known[cardType] = true
	}
	ids := make([]string, 0, len(plan.Order))
	for _, node := range plan.Order {
		ids = append(ids, node.ID)
		if !known[node.CardType] {
			fmt.Fprintf(out, "warning: node %s has unknown card type %q and will be skipped\n", node.ID, node.CardType)
		}
	}
	_, err = fmt.Fprintf(out, "workflow %s is valid: %s\n", aWorkflow.Name, strings.Join(ids, " -> "))
	return err
}

func storeSecret(ctx context.Context, opts *secretOptions, out io.Writer) error {
	resource := &secret.Resource{URL: opts.dest, Key: opts.key}
	secrets := secret.New()
	var err error
	switch {
	case opts.text != "":
		err = secrets.StoreText(ctx, resource, opts.text)
	case opts.username != "":
		err = secrets.StoreBasic(ctx, resource, &cred.Basic{Username: opts.username, Password: opts.password})
	default:
		return errors.New("either text or username is required")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "secret stored at %s\n", opts.dest)
	return err
}
