package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/hardhatlabs/constructpro/internal/config"
	"github.com/hardhatlabs/constructpro/internal/session"
	"github.com/hardhatlabs/constructpro/internal/store"
	"github.com/hardhatlabs/constructpro/internal/sync"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Manage authentication with the ConstructPro server.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the ConstructPro server",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout and clear local data",
	RunE:  runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runRegister,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current account",
	RunE:  runWhoami,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(whoamiCmd)
}

// authParts opens just the pieces auth commands need: the API client and
// the session gate. The full store is not bootstrapped here.
func authParts() (*sync.Client, *session.Gate, *store.Gateway, error) {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	gw, err := store.OpenGateway(cfg.DataDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open local store: %w", err)
	}

	client, err := sync.NewClient(cfg.ServerURL)
	if err != nil {
		gw.Close()
		return nil, nil, nil, err
	}

	return client, session.NewGate(gw), gw, nil
}

func promptLine(label string) string {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptPassword(label string) string {
	fmt.Print(label)
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	return string(passwordBytes)
}

func runLogin(cmd *cobra.Command, args []string) error {
	client, gate, gw, err := authParts()
	if err != nil {
		return err
	}
	defer gw.Close()

	username := promptLine("Username: ")
	password := promptPassword("Password: ")

	fmt.Println("Logging in...")
	if err := client.Login(cmd.Context(), username, password); err != nil {
		return err
	}

	user, err := client.Me(cmd.Context())
	if err != nil {
		return fmt.Errorf("logged in but failed to fetch account: %w", err)
	}
	if err := gate.SignIn(user); err != nil {
		return err
	}

	fmt.Printf("Logged in as %s.\n", user.Username)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	client, gate, gw, err := authParts()
	if err != nil {
		return err
	}
	defer gw.Close()

	if !client.IsLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	if err := client.Logout(); err != nil {
		return err
	}
	gate.SignOut()

	fmt.Println("Logged out. Local data cleared.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	client, gate, gw, err := authParts()
	if err != nil {
		return err
	}
	defer gw.Close()

	username := promptLine("Username: ")
	email := promptLine("Email: ")
	password := promptPassword("Password: ")

	fmt.Println("Creating account...")
	if err := client.Register(cmd.Context(), username, email, password); err != nil {
		return err
	}

	user, err := client.Me(cmd.Context())
	if err != nil {
		return fmt.Errorf("registered but failed to fetch account: %w", err)
	}
	if err := gate.SignIn(user); err != nil {
		return err
	}

	fmt.Printf("Account created. Logged in as %s.\n", user.Username)
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	client, gate, gw, err := authParts()
	if err != nil {
		return err
	}
	defer gw.Close()

	user, ok := gate.Resolve()
	if !ok {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Printf("%s <%s>\n", user.Username, user.Email)
	if client.IsLoggedIn() {
		fmt.Println("Session token present.")
	}
	return nil
}
