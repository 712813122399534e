package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zenobiuszeto/json-io/store"
)

func newStoreCmd(state *cliState) *cobra.Command {
	root := &cobra.Command{
		Use:   "store",
		Short: "Put, get, list, or delete encoded graphs in etcd",
	}

	var ttl int64
	put := &cobra.Command{
		Use:   "put <id>",
		Args:  cobra.ExactArgs(1),
		Short: "Store graph-encoded bytes from stdin under id",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.New(state.cfg.Endpoints)
			if err != nil {
				return err
			}
			defer s.Close()

			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd.Context(), state)
			defer cancel()
			return s.Put(ctx, args[0], data, ttl)
		},
	}
	put.Flags().Int64Var(&ttl, "ttl", 60, "lease TTL in seconds")
	root.AddCommand(put)

	get := &cobra.Command{
		Use:   "get <id>",
		Args:  cobra.ExactArgs(1),
		Short: "Print the graph-encoded bytes stored under id",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.New(state.cfg.Endpoints)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := withTimeout(cmd.Context(), state)
			defer cancel()
			data, err := s.Get(ctx, args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	root.AddCommand(get)

	list := &cobra.Command{
		Use:   "list",
		Short: "List the ids of every graph currently stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.New(state.cfg.Endpoints)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := withTimeout(cmd.Context(), state)
			defer cancel()
			ids, err := s.List(ctx)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
	root.AddCommand(list)

	del := &cobra.Command{
		Use:   "delete <id>",
		Args:  cobra.ExactArgs(1),
		Short: "Delete the graph stored under id",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.New(state.cfg.Endpoints)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := withTimeout(cmd.Context(), state)
			defer cancel()
			return s.Delete(ctx, args[0])
		},
	}
	root.AddCommand(del)

	return root
}
