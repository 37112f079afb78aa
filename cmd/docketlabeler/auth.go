package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"docketlabeler/pkg/auth"
	"docketlabeler/pkg/config"
	"docketlabeler/pkg/courtlistener"
	"docketlabeler/pkg/logger"
	"docketlabeler/pkg/ui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var skipVerify bool

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the CourtListener API token",
	Long: `Manage the stored CourtListener API token.

Tokens are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables CL_API_TOKEN or DOCKETLABELER_API_TOKEN (read only)`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an API token",
	Long: `Prompt for a CourtListener API token, check it against the docket entries
endpoint and store it under --profile.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API token for --profile",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which API token would be used",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)

	loginCmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "store the token without a test request")
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	auth.ShowTokenGuide(os.Stdout)
	fmt.Print("API token: ")
	token, err := readSecret(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	if token == "" {
		return fmt.Errorf("no token entered")
	}

	if !skipVerify {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ui.PrintInfo("Verifying token against", cfg.Catalog.Endpoint)
		if err := verifyToken(cmd.Context(), cfg, token); err != nil {
			ui.PrintError("Token check failed", err)
			return err
		}
	}

	if err := manager.Store(&auth.Credential{Profile: profile, Token: token}); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Token stored for profile %q (%s)", profile, auth.MaskToken(token)))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}
	if err := manager.Delete(profile); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Removed token for profile %q", profile))
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	source := "configuration"
	if cfg.Catalog.APIToken == "" {
		manager, err := auth.NewManager()
		if err != nil {
			return fmt.Errorf("failed to initialize credential manager: %w", err)
		}
		resolveToken(cfg, manager)
		source = "credential store (profile " + profile + ")"
	}

	if cfg.Catalog.APIToken == "" {
		ui.PrintWarning("No API token found")
		fmt.Println("\nStore one with:")
		fmt.Println("  docketlabeler auth login")
		return nil
	}

	ui.PrintInfo("Token", auth.MaskToken(cfg.Catalog.APIToken))
	ui.PrintInfo("Source", source)
	return nil
}

// verifyToken fetches the first page with token
func verifyToken(ctx context.Context, cfg *config.Config, token string) error {
	client := courtlistener.NewClient(courtlistener.Options{
		Endpoint:  cfg.Catalog.Endpoint,
		APIToken:  token,
		UserAgent: cfg.Catalog.UserAgent,
		Timeout:   cfg.Catalog.Timeout,
	}, logger.NewNopLogger())

	_, err := client.FetchPage(ctx, nil)
	return err
}

// readSecret reads a line without echo from a terminal, or a plain line otherwise
func readSecret(in *os.File) (string, error) {
	if fd := int(in.Fd()); term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
