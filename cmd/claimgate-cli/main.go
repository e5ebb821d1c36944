package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/claimgate/claimgate/pkg/types"
)

const defaultAddr = "http://localhost:8080"

func main() {
	exitFn(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

var exitFn = os.Exit

type cli struct {
	addr    string
	noColor bool
	client  *http.Client
	stdin   io.Reader
}

func run(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	root := newRootCmd(&cli{client: &http.Client{Timeout: 10 * time.Second}, stdin: stdin})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "claimgate-cli",
		Short:         "Talk to a claimgate gateway",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.noColor {
				color.NoColor = true
			}
		},
	}
	cmd.PersistentFlags().StringVar(&c.addr, "addr", envOrDefault("CLAIMGATE_ADDR", defaultAddr), "claimgate base URL")
	cmd.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "disable coloured output")

	cmd.AddCommand(evaluateCmd(c))
	cmd.AddCommand(healthCmd(c))
	cmd.AddCommand(watchCmd(c))
	return cmd
}

func evaluateCmd(c *cli) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "evaluate [claim.json|-]",
		Short: "Submit a claim and print the decision",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readClaim(c.stdin, args)
			if err != nil {
				return err
			}

			resp, err := c.client.Post(strings.TrimRight(c.addr, "/")+"/api/decision/evaluate", "application/json", bytes.NewReader(body))
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			respBody, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("evaluate failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
			}

			if jsonOut {
				_, err := cmd.OutOrStdout().Write(respBody)
				return err
			}

			var record types.DecisionRecord
			if err := json.Unmarshal(respBody, &record); err != nil {
				return fmt.Errorf("invalid response: %w", err)
			}
			printDecision(cmd.OutOrStdout(), record)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print raw JSON response")
	return cmd
}

func healthCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check gateway liveness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.client.Get(strings.TrimRight(c.addr, "/") + "/api/health")
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
			}
			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func watchCmd(c *cli) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Tail the live audit stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wsURL, err := streamURL(c.addr)
			if err != nil {
				return err
			}
			conn, _, err := websocket.DefaultDialer.DialContext(cmd.Context(), wsURL, nil)
			if err != nil {
				return fmt.Errorf("dial %s: %w", wsURL, err)
			}
			defer conn.Close()

			for seen := 0; count <= 0 || seen < count; seen++ {
				var entry types.AuditEntry
				if err := conn.ReadJSON(&entry); err != nil {
					if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
						return nil
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s confidence=%.2f\n", entry.Timestamp, decisionLabel(entry.Decision), entry.Confidence)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "exit after this many entries (0 = forever)")
	return cmd
}

func readClaim(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 {
		return []byte("{}"), nil
	}
	if args[0] == "-" {
		return io.ReadAll(stdin)
	}
	// #nosec G304 -- path is provided by the operator.
	return os.ReadFile(args[0])
}

func printDecision(w io.Writer, record types.DecisionRecord) {
	fmt.Fprintf(w, "decision=%s confidence=%.2f\n", decisionLabel(record.Decision), record.Confidence)
	plus := color.New(color.FgGreen)
	minus := color.New(color.FgYellow)
	for _, reason := range record.Reasoning {
		plus.Fprintf(w, "  + %s\n", reason)
	}
	for _, reason := range record.WhyNot {
		minus.Fprintf(w, "  - %s\n", reason)
	}
}

func decisionLabel(d types.Decision) string {
	switch d {
	case types.DecisionApprove:
		return color.GreenString(string(d))
	case types.DecisionReject:
		return color.RedString(string(d))
	default:
		return color.YellowString(string(d))
	}
}

func streamURL(addr string) (string, error) {
	addr = strings.TrimRight(addr, "/")
	switch {
	case strings.HasPrefix(addr, "https://"):
		return "wss://" + strings.TrimPrefix(addr, "https://") + "/api/audit/stream", nil
	case strings.HasPrefix(addr, "http://"):
		return "ws://" + strings.TrimPrefix(addr, "http://") + "/api/audit/stream", nil
	default:
		return "", fmt.Errorf("unsupported address %q: want http:// or https://", addr)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
