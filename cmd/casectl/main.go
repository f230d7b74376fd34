// Command casectl talks to a running rainpath-cases API.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"rainpath-cases/internal/client"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app state shared by subcommands, filled in by the root PersistentPreRunE.
type app struct {
	cfg    *viper.Viper
	client *client.CasesClient
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var configFile string

	root := &cobra.Command{
		Use:           "casectl",
		Short:         "casectl manages pathology cases through the rainpath-cases API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile, cmd.Root())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.client = client.NewCasesClient(cfg.GetString(cfgKeyServer), cfg.GetDuration(cfgKeyTimeout), nil)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: <user config dir>/casectl/config.yaml)")
	root.PersistentFlags().String("server", defaultServer, "API base URL")
	root.PersistentFlags().Duration("timeout", defaultTimeout, "request timeout")

	root.AddCommand(newListCmd(a))
	root.AddCommand(newGetCmd(a))
	root.AddCommand(newCreateCmd(a))
	root.AddCommand(newDeleteCmd(a))
	root.AddCommand(newGraphCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newDraftCmd(a))

	return root
}

func parseCaseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid case id %q", s)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readInput reads path, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
