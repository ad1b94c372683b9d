package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bl4ck0w1/subforce/pkg/models"
)

func NewConfigureCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Manage SubForce scan profiles",
		Long: `Create and inspect scan profiles. A profile is a YAML file holding the
scan defaults (wordlist, threads, timeout, resolvers) and is selected with
'subforce scan --profile <name>'.`,
	}
	cmd.AddCommand(newConfigureInitCommand())
	cmd.AddCommand(newConfigureShowCommand())
	return cmd
}

func newConfigureInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [profile]",
		Short: "Write a profile with default values",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigureInit,
	}
	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing profile")
	return cmd
}

func newConfigureShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [profile]",
		Short: "Print a profile (defaults when it does not exist)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigureShow,
	}
}

func runConfigureInit(cmd *cobra.Command, args []string) error {
	path, err := profilePath(profileArg(args))
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("profile already exists: %s (use --force to overwrite)", path)
	}

	if err := models.DefaultRunConfig().Save(path); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	logrus.Infof("Profile written to %s", path)
	fmt.Fprintf(cmd.OutOrStdout(), "Profile written to %s\n", path)
	return nil
}

func runConfigureShow(cmd *cobra.Command, args []string) error {
	path, err := profilePath(profileArg(args))
	if err != nil {
		return err
	}

	cfg := models.DefaultRunConfig()
	if _, statErr := os.Stat(path); statErr == nil {
		if err := cfg.Load(path); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "# %s does not exist, showing defaults\n", path)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func profileArg(args []string) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0])
	}
	return "default"
}

// profilePath maps a profile name to $HOME/.subforce/<name>.yaml. Values that
// already look like a path are used as is.
func profilePath(profile string) (string, error) {
	ext := strings.ToLower(filepath.Ext(profile))
	if ext == ".yaml" || ext == ".yml" || strings.ContainsRune(profile, os.PathSeparator) {
		return profile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".subforce", profile+".yaml"), nil
}
