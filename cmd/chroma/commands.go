package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	chroma "github.com/soundprediction/go-chroma"
	"github.com/soundprediction/go-chroma/pkg/api"
	"github.com/soundprediction/go-chroma/pkg/config"
)

var heartbeatCmd = &cobra.Command{
	Use:   "heartbeat",
	Short: "Ping the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		beat, err := client.Heartbeat(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("nanosecond heartbeat: %d\n", beat)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the server version",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		version, err := client.Version(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(version)
		return nil
	},
}

var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Resolve the tenant and databases for the configured credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		identity, err := api.ResolveIdentity(cmd.Context(), cfg.Server.Endpoint, cfg.Auth.AuthMethod())
		if err != nil {
			return err
		}
		fmt.Printf("tenant: %s\n", identity.Tenant)
		fmt.Printf("databases: %s\n", strings.Join(identity.Databases, ", "))
		return nil
	},
}

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "Manage collections",
}

var collectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections in the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		collections, err := client.ListCollections(cmd.Context())
		if err != nil {
			return err
		}
		for _, collection := range collections {
			fmt.Printf("%s\t%s\n", collection.ID, collection.Name)
		}
		return nil
	},
}

var collectionsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		collection, err := client.CreateCollection(cmd.Context(), args[0], nil)
		if err != nil {
			return err
		}
		fmt.Printf("created %s (%s)\n", collection.Name, collection.ID)
		return nil
	},
}

var collectionsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		if err := client.DeleteCollection(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

var (
	queryNResults int
	queryCmd      = &cobra.Command{
		Use:   "query <collection> <text>",
		Short: "Query a collection by text",
		Long: `Query a collection for the nearest entries to the given text.
Requires a configured embedder (embedding.provider and credentials).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			collection, err := client.GetCollection(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			result, err := collection.Query(cmd.Context(), chroma.QueryOptions{
				QueryTexts: []string{args[1]},
				NResults:   queryNResults,
				Include:    []string{"documents", "distances"},
			})
			if err != nil {
				return err
			}
			if len(result.IDs) == 0 {
				return nil
			}
			for i, id := range result.IDs[0] {
				line := id
				if len(result.Distances) > 0 && i < len(result.Distances[0]) {
					line = fmt.Sprintf("%s\t%.4f", line, result.Distances[0][i])
				}
				if len(result.Documents) > 0 && i < len(result.Documents[0]) {
					line = fmt.Sprintf("%s\t%s", line, result.Documents[0][i])
				}
				fmt.Println(line)
			}
			return nil
		},
	}
)

func init() {
	queryCmd.Flags().IntVar(&queryNResults, "n-results", 10, "number of results to return")

	collectionsCmd.AddCommand(collectionsListCmd, collectionsCreateCmd, collectionsDeleteCmd)
	rootCmd.AddCommand(heartbeatCmd, versionCmd, identityCmd, collectionsCmd, queryCmd)
}
