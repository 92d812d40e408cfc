package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/siyuanink/siteweb"
)

var messagesLimit int

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "List messages left through the contact form",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := siteweb.NewStore(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()

		msgs, err := store.ListMessages(cmd.Context(), messagesLimit)
		if err != nil {
			return err
		}
		if len(msgs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No messages.")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tFROM\tSUBJECT")
		for _, m := range msgs {
			fmt.Fprintf(w, "%d\t%s\t%s <%s>\t%s\n", m.ID, m.CreatedAt.Local().Format(time.DateTime), m.Name, m.Email, m.Subject)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if messagesLimit == 1 {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", strings.TrimSpace(msgs[0].Message))
		}
		return nil
	},
}

func init() {
	messagesCmd.Flags().IntVar(&messagesLimit, "limit", 20, "number of messages to show (0 for all); 1 also prints the body")
}
