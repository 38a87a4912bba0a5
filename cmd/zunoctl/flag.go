package main

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/pkg/redis"
	"Zuno/internal/repository"
	"Zuno/internal/service"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var flagCmd = &cobra.Command{
	Use:   "flag",
	Short: "Inspect and change runtime configuration flags",
}

var flagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all flags with their current values",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newConfigService()
		if err != nil {
			return err
		}
		entries, err := svc.List(cmd.Context())
		if err != nil {
			return err
		}
		return printEntries(entries...)
	},
}

var flagGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show one flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newConfigService()
		if err != nil {
			return err
		}
		entry, err := svc.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printEntries(entry)
	},
}

var flagSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one flag, the API picks it up once the cache is invalidated",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newConfigService()
		if err != nil {
			return err
		}
		entry, err := svc.Set(cmd.Context(), args[0], args[1], 0)
		if err != nil {
			return err
		}
		return printEntries(entry)
	},
}

func init() {
	flagCmd.AddCommand(flagListCmd)
	flagCmd.AddCommand(flagGetCmd)
	flagCmd.AddCommand(flagSetCmd)
}

func newConfigService() (service.AdminConfigService, error) {
	db, err := openDB()
	if err != nil {
		return nil, err
	}
	var cache service.ConfigCache
	ok, err := openRedis()
	if err != nil {
		return nil, err
	}
	if ok {
		cache = redis.NewConfigCache(redis.Rdb)
	}
	return service.NewAdminConfigService(repository.NewAdminConfigRepo(db), cache, 0), nil
}

func printEntries(entries ...*dto.ConfigEntryDTO) error {
	if output == "json" {
		return printJSON(entries)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE\tDEFAULT\tTYPE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Key, e.Value, e.Default, e.Type)
	}
	return w.Flush()
}
