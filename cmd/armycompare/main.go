package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"armycompare/internal/diff"
	"armycompare/internal/scrape"
	"armycompare/internal/server"
	"armycompare/internal/store"
	"armycompare/internal/textdiff"
)

var log = logrus.New()

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	var verbose bool

	root := &cobra.Command{
		Use:   "armycompare",
		Short: "Browse and compare versions of wargame army books",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(serveCmd(), compareCmd(), fetchCmd(), manifestCmd())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func serveCmd() *cobra.Command {
	var dataDir, addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the data tree and compare API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.New(dataDir)
			srv := server.New(st, log)
			log.WithFields(logrus.Fields{"addr": addr, "data": dataDir}).Info("listening")
			return http.ListenAndServe(addr, srv.Router())
		},
	}
	cmd.Flags().StringVar(&dataDir, "data", getenv("ARMYCOMPARE_DATA", "data"), "army data directory")
	cmd.Flags().StringVar(&addr, "addr", getenv("ARMYCOMPARE_ADDR", ":8080"), "listen address")
	return cmd
}

func compareCmd() *cobra.Command {
	var dataDir, from, to string
	var pretty bool
	cmd := &cobra.Command{
		Use:   "compare SYSTEM ARMY",
		Short: "Diff one army between two versions and print the result as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			system, armyID := args[0], args[1]
			st := store.New(dataDir)

			docA, err := st.FindArmy(system, from, armyID)
			if err != nil {
				return fmt.Errorf("version %s: %w", from, err)
			}
			docB, err := st.FindArmy(system, to, armyID)
			if err != nil {
				return fmt.Errorf("version %s: %w", to, err)
			}

			result, err := diff.Compare(docA, docB)
			if err != nil {
				return err
			}
			if result.Background.Changed {
				result.Background.Patch = textdiff.Unified(
					"background@"+from, "background@"+to,
					result.Background.A, result.Background.B,
				)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVar(&dataDir, "data", getenv("ARMYCOMPARE_DATA", "data"), "army data directory")
	cmd.Flags().StringVar(&from, "from", "", "version A (older)")
	cmd.Flags().StringVar(&to, "to", "", "version B (newer)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func fetchCmd() *cobra.Command {
	var outDir, source string
	var slugs []string
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Scrape official army books into the data tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			systems := scrape.DefaultSystems
			if len(slugs) > 0 {
				systems = systems[:0:0]
				for _, want := range slugs {
					found := false
					for _, sys := range scrape.DefaultSystems {
						if sys.Slug == want {
							systems = append(systems, sys)
							found = true
							break
						}
					}
					if !found {
						return fmt.Errorf("unknown game system %q", want)
					}
				}
			}
			client := scrape.NewClient(source, log)
			return client.FetchAll(cmd.Context(), outDir, systems)
		},
	}
	cmd.Flags().StringVar(&outDir, "out", getenv("ARMYCOMPARE_DATA", "data"), "output directory")
	cmd.Flags().StringVar(&source, "source", getenv("ARMYCOMPARE_SOURCE", scrape.DefaultBaseURL), "army-forge base URL")
	cmd.Flags().StringSliceVar(&slugs, "system", nil, "game system slug (repeatable, default all)")
	return cmd
}

func manifestCmd() *cobra.Command {
	var dataDir string
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Regenerate index.json manifests for static hosting",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.New(dataDir).WriteManifests(); err != nil {
				return err
			}
			log.WithField("data", dataDir).Info("manifests written")
			return nil
		},
	}
	cmd.Flags().StringVar(&dataDir, "data", getenv("ARMYCOMPARE_DATA", "data"), "army data directory")
	return cmd
}
