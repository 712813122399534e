package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zenobiuszeto/json-io/service"
)

// newEncodeCmd reads a plain JSON value from stdin (a generic document, no
// @type/@id meta of its own), decodes it into a generic any via
// encoding/json, and re-encodes it through the service queue so the
// resulting wire bytes carry whatever @id/@ref/@type structure that value's
// actual shape calls for. This is the CLI's only reach for encoding/json:
// stdin is an untyped document, and there is no compile-time Go struct to
// unmarshal it into directly — the queue's own Marshal is what adds graph
// semantics on top.
func newEncodeCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "encode",
		Short: "Encode a plain JSON document from stdin into the graph wire format",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			var doc any
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("jgraph: stdin is not valid JSON: %w", err)
			}

			q := service.NewQueue(state.cfg.Workers, service.LoggingMiddleware(state.logger))
			defer q.Shutdown(state.cfg.Timeout)

			ctx, cancel := withTimeout(cmd.Context(), state)
			defer cancel()

			res, err := q.Submit(ctx, &service.Job{Op: service.OpEncode, Graph: doc})
			if err != nil {
				return err
			}
			if res.Err != nil {
				return res.Err
			}
			_, err = cmd.OutOrStdout().Write(res.Bytes)
			return err
		},
	}
}
