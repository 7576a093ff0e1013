package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"storylink/internal/config"
	"storylink/internal/credentials"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the storylink configuration",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		targetPath string
		overwrite  bool
	)

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := sampleConfigTarget(targetPath)
			if err != nil {
				return err
			}
			if !overwrite {
				_, statErr := os.Stat(target)
				switch {
				case statErr == nil:
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				case !errors.Is(statErr, fs.ErrNotExist):
					return fmt.Errorf("check config path: %w", statErr)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintf(out, "Export %s to sign in without a prompt.\n", passwordEnv)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

// sampleConfigTarget resolves --path, defaulting to the user config location.
func sampleConfigTarget(flagValue string) (string, error) {
	if value := strings.TrimSpace(flagValue); value != "" {
		expanded, err := config.ExpandPath(value)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return expanded, nil
	}
	target, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return target, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and report what storylink will use",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, resolved, exists, err := config.Load(path)
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			if exists {
				fmt.Fprintln(out, renderStatusLine("Config", statusOK, resolved, colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Config", statusWarn, resolved+" not found; using defaults", colorize))
			}
			fmt.Fprintln(out, renderField("Service", cfg.Service.BaseURL))
			fmt.Fprintln(out, renderField("Page", "http://"+cfg.Page.Listen))
			fmt.Fprintln(out, renderField("State dir", cfg.Paths.StateDir))
			if logPath := cfg.LogPath(); logPath != "" {
				fmt.Fprintln(out, renderField("Log file", logPath))
			}
			fmt.Fprintln(out, renderField("Auto login", yesNo(cfg.Session.AutoLogin)))

			stored, err := credentials.NewStoreFromConfig(cfg).Load()
			switch {
			case err != nil:
				fmt.Fprintln(out, renderStatusLine("Email", statusError, err.Error(), colorize))
			case stored.Email != "":
				fmt.Fprintln(out, renderField("Email", stored.Email))
			default:
				fmt.Fprintln(out, renderField("Email", "none remembered"))
			}
			if _, ok := lookupPasswordEnv(); ok {
				fmt.Fprintln(out, renderStatusLine("Password", statusOK, passwordEnv+" is set", colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Password", statusWarn, passwordEnv+" unset; commands will prompt", colorize))
			}

			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
