package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/leapstack-labs/macroscope/internal/cli/config"
	"github.com/leapstack-labs/macroscope/internal/cli/output"
	sharedcfg "github.com/leapstack-labs/macroscope/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const configFileName = "macroscope.yaml"

// InitOptions holds options for the init command.
type InitOptions struct {
	Force   bool
	Example bool
	Yes     bool
}

// projectConfig is the subset of the configuration written by init.
type projectConfig struct {
	Recursive bool   `yaml:"recursive"`
	MaxDepth  int    `yaml:"max_depth"`
	Output    string `yaml:"output"`
	History   bool   `yaml:"history"`
	StatePath string `yaml:"state_path"`
}

func defaultProjectConfig() projectConfig {
	return projectConfig{
		MaxDepth:  config.DefaultMaxDepth,
		Output:    config.DefaultOutput,
		History:   true,
		StatePath: config.DefaultStateFile,
	}
}

// existingProjectConfig returns the settings of a readable config file in
// dir, falling back to the defaults.
func existingProjectConfig(dir string) projectConfig {
	cfg, err := sharedcfg.LoadFromDir(dir)
	if err != nil {
		return defaultProjectConfig()
	}
	return projectConfig{
		Recursive: cfg.Recursive,
		MaxDepth:  cfg.MaxDepth,
		Output:    cfg.OutputFormat,
		History:   cfg.History,
		StatePath: cfg.StatePath,
	}
}

// verifyProjectConfig loads the configuration of dir the way commands will
// and validates it.
func verifyProjectConfig(dir string) error {
	cfg, err := sharedcfg.LoadFromDir(dir)
	if err != nil {
		return fmt.Errorf("written configuration cannot be loaded: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("written configuration is invalid: %w", err)
	}
	return nil
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a macroscope project",
		Long: `Initialize a macroscope project by writing a macroscope.yaml configuration file.

On a terminal you are asked for the settings; use --yes to accept the
defaults without prompting.

Use --example to also create sample sources under src/ showing flat,
repeated and nested macro_rules! expansions.`,
		Example: `  # Initialize in current directory
  macroscope init

  # Accept defaults and add sample sources
  macroscope init --yes --example

  # Initialize in a new directory
  macroscope init my-project

  # Force overwrite existing config
  macroscope init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			// Create renderer
			cfg := getConfig()
			mode := output.Mode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			return runInit(r, dir, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&opts.Example, "example", false, "Create sample sources under src/")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Accept defaults without prompting")

	return cmd
}

func runInit(r *output.Renderer, dir string, opts *InitOptions) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, configFileName)
	if _, err := os.Stat(configPath); err == nil && !opts.Force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configFileName)
	}

	pc := defaultProjectConfig()
	if opts.Force {
		pc = existingProjectConfig(dir)
	}
	if !opts.Yes && r.IsTTY() {
		if err := promptProjectConfig(&pc); err != nil {
			return err
		}
	}

	if err := writeProjectConfig(configPath, pc); err != nil {
		return err
	}
	if err := verifyProjectConfig(dir); err != nil {
		return err
	}

	r.Header(2, "Configuration")
	r.StatusLine(configFileName, "success", "")

	if opts.Example {
		if err := copyTemplate("example", dir, opts.Force); err != nil {
			return fmt.Errorf("failed to initialize project: %w", err)
		}

		files, _ := listTemplateFiles("example")
		r.Println("")
		r.Header(2, "Sources")
		for _, f := range files {
			r.StatusLine(f, "success", "")
		}
	}

	r.Println("")
	r.Success("macroscope project initialized!")
	r.Println("")
	r.Println("Next steps:")
	if opts.Example {
		r.Println("  macroscope expand src/main.rs      Expand the sample source")
		r.Println("  macroscope expand src/nested.rs -r Expand nested invocations")
	} else {
		r.Println("  macroscope expand <file>           Expand a source file")
	}
	r.Println("  macroscope serve                   Open the playground")

	return nil
}

func promptProjectConfig(pc *projectConfig) error {
	depth := strconv.Itoa(pc.MaxDepth)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Expand recursively by default?").
				Description("Nested invocations in expansion output are expanded too").
				Value(&pc.Recursive),

			huh.NewInput().
				Title("Maximum recursion depth").
				Description("Negative disables the bound").
				Value(&depth).
				Validate(func(s string) error {
					if _, err := strconv.Atoi(s); err != nil {
						return fmt.Errorf("depth must be an integer")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Title("Output format").
				Options(modeOptions()...).
				Value(&pc.Output),

			huh.NewConfirm().
				Title("Record runs in the history database?").
				Value(&pc.History),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	n, err := strconv.Atoi(depth)
	if err != nil {
		return fmt.Errorf("invalid depth %q: %w", depth, err)
	}
	pc.MaxDepth = n
	return nil
}

func modeOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(output.Modes))
	for _, m := range output.Modes {
		opts = append(opts, huh.NewOption(string(m), string(m)))
	}
	return opts
}

func writeProjectConfig(path string, pc projectConfig) error {
	data, err := yaml.Marshal(pc)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
