package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/giantswarm/mcp-vcenter/internal/config"
	"github.com/giantswarm/mcp-vcenter/internal/inventory"
	"github.com/giantswarm/mcp-vcenter/internal/logging"
	"github.com/giantswarm/mcp-vcenter/internal/vcenter"
)

// checkSampleSize is how many cluster names the summary lists.
const checkSampleSize = 3

var checkOutputFormat string

// errCheckFailed makes the check command exit non-zero after it has already
// printed its summary.
var errCheckFailed = errors.New("vCenter connectivity check failed")

// CheckResult is the summary printed by the check command.
type CheckResult struct {
	Host      string `json:"host" yaml:"host"`
	Username  string `json:"username" yaml:"username"`
	Password  string `json:"password" yaml:"password"`
	VerifySSL bool   `json:"verify_ssl" yaml:"verify_ssl"`
	Timeout   string `json:"timeout" yaml:"timeout"`

	Clusters        int      `json:"clusters" yaml:"clusters"`
	ClusterSample   []string `json:"cluster_sample" yaml:"cluster_sample"`
	ResourcePools   int      `json:"resource_pools" yaml:"resource_pools"`
	VirtualMachines int      `json:"virtual_machines" yaml:"virtual_machines"`
	Connected       bool     `json:"connected" yaml:"connected"`
}

// newCheckCmd creates the command that verifies vCenter credentials and
// connectivity without starting the server.
func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify vCenter credentials and connectivity",
		Long: `Resolve the vCenter configuration the same way the server does, list
clusters, resource pools and virtual machines, and run the connection test.

Exits with status 1 when the configuration cannot be resolved or vCenter
cannot be reached.`,
		Example: `  mcp-vcenter check
  mcp-vcenter check -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(os.Stderr, false, "text")
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runCheck(ctx, cmd.OutOrStdout(), os.Getenv, checkOutputFormat)
		},
	}

	cmd.Flags().StringVarP(&checkOutputFormat, "output", "o", "text", "Output format: text, json, or yaml")
	return cmd
}

func runCheck(ctx context.Context, out io.Writer, env config.Environment, format string) error {
	switch format {
	case "text", "json", "yaml":
	default:
		return unsupportedFormatError(format)
	}

	connCfg, err := config.Resolve(env)
	if err != nil {
		return fmt.Errorf("failed to resolve vCenter configuration: %w", err)
	}

	client := vcenter.NewRESTClient(connCfg, vcenter.WithLogger(slog.Default()))
	result := collectCheckResult(ctx, connCfg, client)

	if err := renderCheckResult(out, result, format); err != nil {
		return err
	}
	if !result.Connected {
		return errCheckFailed
	}
	return nil
}

func collectCheckResult(ctx context.Context, connCfg config.ConnectionConfig, client vcenter.Client) CheckResult {
	result := CheckResult{
		Host:      connCfg.Host,
		Username:  connCfg.Username,
		Password:  logging.MaskSecret(connCfg.Password),
		VerifySSL: connCfg.VerifySSL,
		Timeout:   connCfg.Timeout.String(),
	}

	clusters := inventory.NewService(client, connCfg.Host).ListClusters(ctx)
	result.Clusters = len(clusters)
	result.ClusterSample = []string{}
	for i, c := range clusters {
		if i == checkSampleSize {
			break
		}
		result.ClusterSample = append(result.ClusterSample, c.Name)
	}

	result.ResourcePools = len(client.ListResourcePools(ctx, ""))
	result.VirtualMachines = len(client.ListVMs(ctx, "", ""))
	result.Connected = client.TestConnection(ctx)
	return result
}

func renderCheckResult(out io.Writer, result CheckResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err

	case "yaml":
		data, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		_, err = fmt.Fprint(out, string(data))
		return err

	case "text":
		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"CHECK", "RESULT"})
		t.AppendRow(table.Row{"Host", result.Host})
		t.AppendRow(table.Row{"Username", result.Username})
		t.AppendRow(table.Row{"Password", result.Password})
		t.AppendRow(table.Row{"SSL Verify", result.VerifySSL})
		t.AppendRow(table.Row{"Timeout", result.Timeout})
		t.AppendSeparator()
		t.AppendRow(table.Row{"Clusters", result.Clusters})
		for _, name := range result.ClusterSample {
			t.AppendRow(table.Row{"", "- " + name})
		}
		t.AppendRow(table.Row{"Resource Pools", result.ResourcePools})
		t.AppendRow(table.Row{"Virtual Machines", result.VirtualMachines})
		t.AppendSeparator()
		t.AppendRow(table.Row{"Connection", connectionLabel(result.Connected)})
		t.Render()
		return nil

	default:
		return unsupportedFormatError(format)
	}
}

func unsupportedFormatError(format string) error {
	return fmt.Errorf("unsupported output format: %s (supported: text, json, yaml)", format)
}

func connectionLabel(connected bool) string {
	if connected {
		return text.FgGreen.Sprint("PASSED")
	}
	return text.FgRed.Sprint("FAILED")
}
