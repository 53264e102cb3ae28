package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/depbump/internal/domain/commands"
	"github.com/rios0rios0/depbump/internal/domain/entities"
)

// RunController handles the "run" subcommand (batch mode).
type RunController struct {
	command commands.Scan
}

// NewRunController creates a new RunController.
func NewRunController(command commands.Scan) *RunController {
	return &RunController{command: command}
}

// GetBind returns the Cobra command metadata for the run controller.
func (it *RunController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "run",
		Short: "Scan repositories and publish version bumps",
		Long: `Discover repositories, scan their manifests for outdated or
vulnerable dependencies, and publish one change request per bump.

This is the main command intended to be used in a cronjob.
It reads the configuration file, discovers repositories from
each configured provider and organization, scans every
requirements.txt and pyproject.toml it finds, and publishes
the eligible updates. Published updates are recorded in a
local ledger so later runs skip them.`,
	}
}

// Execute runs the batch scan mode.
func (it *RunController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	configPath, _ := cmd.Flags().GetString("config")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	providerFilter, _ := cmd.Flags().GetString("provider")
	orgOverride, _ := cmd.Flags().GetString("org")

	// Load configuration
	cfgPath := configPath
	if cfgPath == "" {
		var err error
		cfgPath, err = entities.FindConfigFile()
		if err != nil {
			logger.Errorf(
				"no config file found: %v\nSpecify one with --config or create depbump.yaml",
				err,
			)
			return
		}
	}

	logger.Infof("Using config file: %s", cfgPath)

	settings, err := entities.NewSettings(cfgPath)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		return
	}

	logger.Info("Starting depbump scan...")

	if scanErr := it.command.Execute(ctx, settings, commands.ScanOptions{
		DryRun:       dryRun,
		Verbose:      verbose,
		ProviderName: providerFilter,
		OrgOverride:  orgOverride,
	}); scanErr != nil {
		logger.Errorf("Scan failed: %v", scanErr)
	}
}

// AddFlags adds the run-specific flags to the given Cobra command.
func (it *RunController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("provider", "", "Only process this provider (github, gitlab)")
	cmd.Flags().String("org", "", "Only process this organization/group")
}
