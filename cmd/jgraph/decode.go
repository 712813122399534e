package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zenobiuszeto/json-io/service"
)

// newDecodeCmd reads graph-encoded JSON from stdin, decodes it into a
// generic any (so it works against any wire document without a compile-time
// target type), and re-prints it as plain JSON with the @type/@id/@ref/
// @items/@keys scaffolding resolved away — the inverse of encode.
func newDecodeCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "decode",
		Short: "Decode a graph wire document from stdin into plain JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}

			q := service.NewQueue(state.cfg.Workers, service.LoggingMiddleware(state.logger))
			defer q.Shutdown(state.cfg.Timeout)

			ctx, cancel := withTimeout(cmd.Context(), state)
			defer cancel()

			var out any
			res, err := q.Submit(ctx, &service.Job{Op: service.OpDecode, Data: raw, Target: &out})
			if err != nil {
				return err
			}
			if res.Err != nil {
				return res.Err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
