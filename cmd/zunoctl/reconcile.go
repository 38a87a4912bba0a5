package main

import (
	"Zuno/internal/pkg/redis"
	"Zuno/internal/repository"
	"Zuno/internal/service"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var reconcileAll bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile [content-id...]",
	Short: "Recompute content and creator counters from the interaction ledger",
	Long: `Without arguments, drains the dirty set written by the API.
With --all, every content row is recomputed.
With explicit ids, only those contents are recomputed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}

		var source service.DirtySource
		if len(args) == 0 && !reconcileAll {
			ok, err := openRedis()
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("redis is not configured, use --all or pass content ids")
			}
			source = redis.NewDirtySet(redis.Rdb)
		}

		svc := service.NewReconcileService(
			repository.NewTransactor(db),
			repository.NewContentRepo(db),
			repository.NewUserRepo(db),
			repository.NewInteractionRepo(db),
			source,
		)

		var res *service.ReconcileResult
		switch {
		case reconcileAll:
			res, err = svc.ReconcileAll(cmd.Context())
		case len(args) > 0:
			ids := make([]uint64, 0, len(args))
			for _, arg := range args {
				id, perr := strconv.ParseUint(arg, 10, 64)
				if perr != nil {
					return fmt.Errorf("invalid content id %q", arg)
				}
				ids = append(ids, id)
			}
			res, err = svc.ReconcileContents(cmd.Context(), ids)
		default:
			res, err = svc.ReconcileDirty(cmd.Context())
		}
		if err != nil {
			return err
		}

		if output == "json" {
			return printJSON(res)
		}
		fmt.Printf("contents: %d (fixed %d)\n", res.Contents, res.ContentFixes)
		fmt.Printf("creators: %d (fixed %d)\n", res.Creators, res.CreatorFixes)
		fmt.Printf("voters: %d (fixed %d)\n", res.Voters, res.VoterFixes)
		return nil
	},
}

func init() {
	reconcileCmd.Flags().BoolVar(&reconcileAll, "all", false, "Recompute every content")
}
